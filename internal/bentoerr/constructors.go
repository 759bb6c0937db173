package bentoerr

// Convenience constructors for common error patterns.

func ConfigNotFound(path string) *Error {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ValidationFailed(field, reason string) *Error {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

func AssetDecodeFailed(key string, cause error) *Error {
	return Wrap(cause, CategoryAsset, SeverityWarning, "asset decode failed").
		WithContext("key", key)
}

func RenderFailed(artifact string, cause error) *Error {
	return Wrap(cause, CategoryRender, SeverityFatal, "render failed").
		WithContext("artifact", artifact)
}

func ArchiveFailed(cause error) *Error {
	return Wrap(cause, CategoryArchive, SeverityFatal, "archive assembly failed")
}

func PublishFailed(subdomain string, cause error) *Error {
	return Wrap(cause, CategoryPublish, SeverityFatal, "publish failed").
		WithContext("subdomain", subdomain)
}

func SubdomainInvalid(subdomain, reason string) *Error {
	return New(CategoryValidation, SeverityFatal, "invalid subdomain").
		WithContext("subdomain", subdomain).
		WithContext("reason", reason)
}

func StorageFailed(operation string, cause error) *Error {
	return Wrap(cause, CategoryStorage, SeverityFatal, "storage operation failed").
		WithContext("operation", operation)
}

func DeployFailed(target string, cause error) *Error {
	return Wrap(cause, CategoryDeploy, SeverityFatal, "deployment failed").
		WithContext("target", target)
}
