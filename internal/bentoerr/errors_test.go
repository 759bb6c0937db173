package bentoerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFormatting(t *testing.T) {
	err := New(CategoryValidation, SeverityFatal, "bad subdomain")
	assert.Equal(t, "validation (fatal): bad subdomain", err.Error())

	wrapped := Wrap(errors.New("disk full"), CategoryArchive, SeverityFatal, "archive assembly failed")
	assert.Equal(t, "archive (fatal): archive assembly failed: disk full", wrapped.Error())
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := ArchiveFailed(cause)
	assert.ErrorIs(t, err, cause)
}

func TestWithContext(t *testing.T) {
	err := SubdomainInvalid("www", "reserved")
	assert.Equal(t, "www", err.Context["subdomain"])
	assert.Equal(t, "reserved", err.Context["reason"])
}

func TestExitCodes(t *testing.T) {
	adapter := NewCLIAdapter(false, nil)

	tests := []struct {
		err  error
		code int
	}{
		{nil, 0},
		{errors.New("plain"), 1},
		{ValidationFailed("name", "empty"), 2},
		{ConfigNotFound("bentoforge.yaml"), 7},
		{PublishFailed("demo", errors.New("taken")), 8},
		{ArchiveFailed(errors.New("io")), 11},
		{StorageFailed("put", errors.New("locked")), 12},
		// Category survives wrapping.
		{fmt.Errorf("outer: %w", ArchiveFailed(errors.New("io"))), 11},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.code, adapter.ExitCodeFor(tt.err), "err=%v", tt.err)
	}
}

func TestFormatErrorVerbosity(t *testing.T) {
	err := ConfigNotFound("x.yaml")

	terse := NewCLIAdapter(false, nil).FormatError(err)
	assert.Equal(t, "configuration file not found", terse)

	verbose := NewCLIAdapter(true, nil).FormatError(err)
	assert.Contains(t, verbose, "config (fatal)")
}
