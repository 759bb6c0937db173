package bentoerr

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
)

// CLIAdapter handles error presentation and exit code determination for
// the command line frontend.
type CLIAdapter struct {
	verbose bool
	logger  *slog.Logger
}

// NewCLIAdapter creates a new CLI error adapter.
func NewCLIAdapter(verbose bool, logger *slog.Logger) *CLIAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIAdapter{verbose: verbose, logger: logger}
}

// ExitCodeFor determines the appropriate exit code for an error.
func (a *CLIAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	var be *Error
	if errors.As(err, &be) {
		switch be.Category {
		case CategoryValidation:
			return 2
		case CategoryConfig:
			return 7
		case CategoryPublish, CategoryDeploy:
			return 8
		case CategoryAsset, CategoryRender, CategoryArchive:
			return 11
		case CategoryStorage, CategoryRuntime:
			return 12
		case CategoryInternal:
			return 10
		}
	}
	return 1
}

// FormatError formats an error for user-facing display.
func (a *CLIAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	var be *Error
	if errors.As(err, &be) {
		if a.verbose {
			return be.Error()
		}
		switch be.Category {
		case CategoryConfig, CategoryValidation:
			return be.Message
		default:
			return fmt.Sprintf("%s: %s", be.Category, be.Message)
		}
	}
	return fmt.Sprintf("Error: %v", err)
}

// HandleError logs an error and exits with the mapped code. No-op for nil.
func (a *CLIAdapter) HandleError(err error) {
	if err == nil {
		return
	}
	a.logger.Error(a.FormatError(err))
	os.Exit(a.ExitCodeFor(err))
}
