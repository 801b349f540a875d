package errors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/agentstation/artcards/pkg/errors"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestNotFoundError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.NotFoundError{
			Resource: "card",
			ID:       "NEO-42",
		}
		assert.Equal(t, "card with ID NEO-42 not found", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	})

	t.Run("wrapped error", func(t *testing.T) {
		base := pkgerrors.NewNotFoundError("sheet", "Raw Import")
		wrapped := errors.Join(errors.New("failed"), base)
		assert.True(t, pkgerrors.IsNotFound(wrapped))
	})
}

func TestPrerequisiteError(t *testing.T) {
	err := pkgerrors.NewPrerequisiteError("apply import", "Regular Art Cards", "run catalog refresh first")
	assert.Equal(t, `apply import requires sheet "Regular Art Cards": run catalog refresh first`, err.Error())
	assert.True(t, pkgerrors.IsNotFound(err))

	wrapped := fmt.Errorf("import: %w", err)
	var target *pkgerrors.PrerequisiteError
	require.True(t, errors.As(wrapped, &target))
	assert.Equal(t, "Regular Art Cards", target.Sheet)
}

func TestSchemaError(t *testing.T) {
	err := &pkgerrors.SchemaError{
		Sheet:   "Inventory Import",
		Missing: []string{"code", "price"},
	}
	assert.Equal(t, `could not detect required columns in header of "Inventory Import": missing code, price`, err.Error())
	assert.True(t, pkgerrors.IsValidationError(err))

	bare := &pkgerrors.SchemaError{Missing: []string{"number"}}
	assert.Contains(t, bare.Error(), "import header")
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{
			Field:   "batch_size",
			Message: "must be positive",
		}
		assert.Equal(t, "validation failed for field batch_size: must be positive", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrInvalidInput))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{Message: "invalid configuration"}
		assert.Equal(t, "validation failed: invalid configuration", err.Error())
	})
}

func TestAPIError(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		rateLimited bool
		unavailable bool
	}{
		{"rate limited", 429, true, false},
		{"server error", 503, false, true},
		{"not found", 404, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := pkgerrors.NewAPIError("scryfall", tt.status, "boom")
			assert.Contains(t, err.Error(), "scryfall")
			assert.Contains(t, err.Error(), fmt.Sprint(tt.status))
			assert.Equal(t, tt.rateLimited, pkgerrors.IsRateLimited(err))
			assert.Equal(t, tt.unavailable, pkgerrors.IsSourceUnavailable(err))
		})
	}

	t.Run("wrapped cause", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := pkgerrors.WrapAPI("scryfall", 0, cause)
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, "API error from scryfall: connection reset", err.Error())
	})
}

func TestSyncError(t *testing.T) {
	cause := errors.New("sheet locked")
	err := pkgerrors.NewSyncError(400, cause)
	assert.Equal(t, "price sync error at offset 400: sheet locked", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestWrapHelpers(t *testing.T) {
	assert.NoError(t, pkgerrors.WrapIO("read", "x", nil))
	assert.NoError(t, pkgerrors.WrapResource("read", "sheet", "x", nil))
	assert.NoError(t, pkgerrors.WrapParse("csv", "x", nil))
	assert.NoError(t, pkgerrors.WrapValidation("x", nil))
	assert.NoError(t, pkgerrors.WrapAPI("x", 0, nil))

	cause := errors.New("disk full")
	ioErr := pkgerrors.WrapIO("write", "cards.xlsx", cause)
	assert.Equal(t, "IO error during write of cards.xlsx: disk full", ioErr.Error())
	assert.ErrorIs(t, ioErr, cause)

	resErr := pkgerrors.WrapResource("read", "sheet", "Signed Art Cards", cause)
	assert.Equal(t, "failed to read sheet Signed Art Cards: disk full", resErr.Error())

	parseErr := pkgerrors.WrapParse("csv", "", cause)
	assert.Equal(t, "csv parse error: disk full", parseErr.Error())
}

func TestConfigError(t *testing.T) {
	cause := errors.New("bad value")
	err := pkgerrors.NewConfigError("scheduler", "invalid cron spec", cause)
	assert.Equal(t, "configuration error in scheduler: invalid cron spec", err.Error())
	assert.ErrorIs(t, err, cause)
}
