// Package bentoerr provides a lightweight structured error type for
// category-based classification across the export, publish and storage
// layers, plus exit-code mapping for the CLI.
package bentoerr

import "fmt"

// Category classifies an error for handling and exit-code purposes.
type Category string

const (
	// User-facing configuration and input errors
	CategoryConfig     Category = "config"
	CategoryValidation Category = "validation"

	// Export pipeline errors
	CategoryAsset   Category = "asset"
	CategoryRender  Category = "render"
	CategoryArchive Category = "archive"

	// Publishing and deployment errors
	CategoryPublish Category = "publish"
	CategoryDeploy  Category = "deploy"

	// Infrastructure errors
	CategoryStorage Category = "storage"
	CategoryRuntime Category = "runtime"
	CategoryInternal Category = "internal"
)

// Severity indicates how critical an error is.
type Severity string

const (
	SeverityFatal   Severity = "fatal"   // Stops the operation
	SeverityError   Severity = "error"   // Error, but not fatal
	SeverityWarning Severity = "warning" // Continues with degraded output
)

// ContextFields carries structured context for an Error.
type ContextFields map[string]any

// Error is a structured error with category, severity and context.
type Error struct {
	Category Category      `json:"category"`
	Severity Severity      `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// WithContext adds a context field to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new Error.
func New(category Category, severity Severity, message string) *Error {
	return &Error{Category: category, Severity: severity, Message: message}
}

// Wrap creates a new Error that wraps an existing error.
func Wrap(err error, category Category, severity Severity, message string) *Error {
	return &Error{Category: category, Severity: severity, Message: message, Cause: err}
}
