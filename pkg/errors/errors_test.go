package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorKeepsTypedErrors(t *testing.T) {
	typed := Clone(ErrNotFound, "student not found")
	got := FromError(typed)
	assert.Equal(t, http.StatusNotFound, got.Status)
	assert.Equal(t, "student not found", got.Message)
}

func TestFromErrorWrapsUnknownErrors(t *testing.T) {
	got := FromError(errors.New("boom"))
	assert.Equal(t, ErrInternal.Code, got.Code)
	assert.Equal(t, http.StatusInternalServerError, got.Status)
	assert.EqualError(t, got, "internal server error: boom")
}

func TestErrorsIsMatchesByCode(t *testing.T) {
	err := Clone(ErrConflict, "subject code already exists")
	assert.True(t, errors.Is(err, ErrConflict))
	assert.False(t, errors.Is(err, ErrNotFound))

	wrapped := Internal(errors.New("db down"), "failed to list results")
	assert.True(t, errors.Is(wrapped, ErrInternal))
	assert.Equal(t, "failed to list results", wrapped.Message)
}
