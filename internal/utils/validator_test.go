// internal/utils/validator_test.go
package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dungeun/video-platform-sub018/internal/apperrors"
)

type registrationInput struct {
	Email    string `validate:"required,email"`
	Username string `validate:"required,username"`
	Password string `validate:"required,strong_password"`
}

func TestValidateStructCustomRules(t *testing.T) {
	valid := registrationInput{
		Email:    "creator@example.com",
		Username: "creator_01",
		Password: "Secret123!",
	}
	assert.NoError(t, ValidateStruct(valid))

	assert.Error(t, ValidateStruct(registrationInput{
		Email:    "creator@example.com",
		Username: "ab",
		Password: "Secret123!",
	}))
	assert.Error(t, ValidateStruct(registrationInput{
		Email:    "creator@example.com",
		Username: "creator_01",
		Password: "password",
	}))
}

func TestFieldErrors(t *testing.T) {
	err := ValidateStruct(registrationInput{
		Email:    "not-an-email",
		Username: "creator_01",
		Password: "password",
	})
	require.Error(t, err)

	// services hand validation failures up wrapped; extraction still works
	fields := FieldErrors(apperrors.Wrap(apperrors.CodeValidation, "validation failed", err))
	require.Len(t, fields, 2)

	assert.Equal(t, "email", fields[0].Field)
	assert.Equal(t, "email", fields[0].Rule)
	assert.Equal(t, "password", fields[1].Field)
	assert.Equal(t, "strong_password", fields[1].Rule)
	assert.NotEmpty(t, fields[1].Message)
}

func TestFieldErrorsIgnoresOtherErrors(t *testing.T) {
	assert.Nil(t, FieldErrors(errors.New("boom")))
	assert.Nil(t, FieldErrors(nil))
}
