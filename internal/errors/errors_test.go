package errors_test

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wordflash/wordflash/internal/errors"
)

func TestAppError_Error(t *testing.T) {
	err := errors.NewNotFoundError("flashcard", "abc")
	assert.Equal(t, "NOT_FOUND: flashcard not found: abc", err.Error())
	assert.Equal(t, http.StatusNotFound, err.Status)

	cause := stderrors.New("disk full")
	internal := errors.NewInternalError(cause)
	assert.Contains(t, internal.Error(), "disk full")
	assert.ErrorIs(t, internal, cause)
}

func TestAs_WrapsUnknownErrors(t *testing.T) {
	appErr := errors.As(stderrors.New("boom"))
	assert.Equal(t, errors.ErrCodeInternal, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
}

func TestAs_FindsWrappedAppError(t *testing.T) {
	wrapped := fmt.Errorf("loading card: %w", errors.NewValidationError("id", "must not be empty"))

	appErr := errors.As(wrapped)
	assert.Equal(t, errors.ErrCodeValidation, appErr.Code)
	assert.True(t, errors.Is(wrapped, errors.ErrCodeValidation))
	assert.False(t, errors.Is(wrapped, errors.ErrCodeNotFound))
}

func TestConstructors_Status(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, errors.NewBadRequestError("bad").Status)
	assert.Equal(t, http.StatusUnauthorized, errors.NewUnauthorizedError("who").Status)
	assert.Equal(t, http.StatusConflict, errors.NewConflictError("done", nil).Status)
}
