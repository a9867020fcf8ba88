package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/outlay/internal/apperr"
)

func TestValidationError(t *testing.T) {
	err := fmt.Errorf("creating rule: %w", &apperr.ValidationError{Fields: []apperr.FieldError{
		{Field: "name", Message: "is required"},
		{Field: "approvers", Message: "must not be empty"},
	}})

	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.NotErrorIs(t, err, apperr.ErrNotFound)
	assert.Contains(t, err.Error(), "name: is required; approvers: must not be empty")

	var verr *apperr.ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Fields, 2)
}

func TestInvalid(t *testing.T) {
	err := apperr.Invalid("currency", "unsupported currency: %s", "XYZ")

	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, "validation failed: currency: unsupported currency: XYZ", err.Error())
}

func TestUpstream(t *testing.T) {
	cause := errors.New("timeout")
	err := apperr.Upstream("currency", cause)

	assert.ErrorIs(t, err, apperr.ErrUpstream)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "upstream failure: currency: timeout", err.Error())
}
