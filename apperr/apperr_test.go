package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(NotFound("city")))
	assert.Equal(t, KindConflict, KindOf(fmt.Errorf("wrapped: %w", Conflict("dup", nil))))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.False(t, Is(nil, KindInternal))
}

func TestFieldErrors(t *testing.T) {
	fe := FieldErrors{}
	assert.NoError(t, fe.Err())

	fe.Add("name", "is required")
	fe.Add("name", "ignored")
	fe.Add("price", "must be greater than 0")

	err := fe.Err()
	assert.True(t, Is(err, KindValidation))

	var appErr *Error
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, "is required", appErr.Fields["name"])
	assert.Equal(t, "validation failed (name: is required; price: must be greater than 0)", err.Error())
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("FOREIGN KEY constraint failed")
	err := Conflict("country has dependent records, cannot delete", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "cannot delete")
}
