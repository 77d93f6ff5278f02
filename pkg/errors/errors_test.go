package errors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/agentstation/shelf/pkg/errors"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestNotFoundError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.NotFoundError{
			Resource: "record",
			ID:       "42",
		}
		assert.Equal(t, "record with ID 42 not found", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	})

	t.Run("wrapped error", func(t *testing.T) {
		base := pkgerrors.NewNotFoundError("record", "42")
		wrapped := fmt.Errorf("lookup: %w", base)
		assert.True(t, pkgerrors.IsNotFound(wrapped))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := pkgerrors.NewValidationError("id", "", "cannot be empty")
		assert.Equal(t, "validation failed for field id: cannot be empty", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{Message: "duplicate ids"}
		assert.Equal(t, "validation failed: duplicate ids", err.Error())
	})
}

func TestConfigError(t *testing.T) {
	cause := errors.New("must be positive")
	err := pkgerrors.NewConfigError("source", "invalid page count", cause)

	assert.Equal(t, "configuration error in source: invalid page count", err.Error())
	assert.True(t, pkgerrors.IsConfigError(fmt.Errorf("startup: %w", err)))
	assert.True(t, pkgerrors.IsValidationError(err))
	assert.ErrorIs(t, err, cause)

	assert.False(t, pkgerrors.IsConfigError(cause))
}

func TestFetchError(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		rateLimited bool
		unavailable bool
	}{
		{name: "rate limited", status: 429, rateLimited: true},
		{name: "server error", status: 503, unavailable: true},
		{name: "not found", status: 404},
		{name: "transport failure", status: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := pkgerrors.NewFetchError("example.com", 3, tt.status, "boom")
			assert.Equal(t, tt.rateLimited, pkgerrors.IsRateLimited(err))
			assert.Equal(t, tt.unavailable, pkgerrors.IsSourceUnavailable(err))
			assert.Contains(t, err.Error(), "page 3")
		})
	}

	t.Run("wrap keeps cause", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := pkgerrors.WrapFetch("example.com", 2, cause)
		require.Error(t, err)
		assert.ErrorIs(t, err, cause)
		assert.Nil(t, pkgerrors.WrapFetch("example.com", 2, nil))
	})
}

func TestIOError(t *testing.T) {
	cause := errors.New("disk full")
	err := pkgerrors.WrapIO("write", "/tmp/catalog.json", cause)

	var ioErr *pkgerrors.IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "write", ioErr.Operation)
	assert.Equal(t, "IO error during write of /tmp/catalog.json: disk full", err.Error())
	assert.Nil(t, pkgerrors.WrapIO("write", "x", nil))
}

func TestParseError(t *testing.T) {
	err := pkgerrors.WrapParse("json", "catalog.json", errors.New("unexpected EOF"))
	assert.Equal(t, "parse error in json file catalog.json: unexpected EOF", err.Error())

	noFile := pkgerrors.NewParseError("html", "", "no listings", nil)
	assert.Equal(t, "html parse error: no listings", noFile.Error())
}

func TestResourceError(t *testing.T) {
	err := pkgerrors.WrapResource("save", "catalog", "", errors.New("denied"))
	assert.Equal(t, "failed to save catalog: denied", err.Error())

	withID := pkgerrors.NewResourceError("load", "catalog", "mem://x", nil)
	assert.Equal(t, "failed to load catalog mem://x: ", withID.Error())
}
