package middleware

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupValidator(t *testing.T) {
	SetupValidator()

	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)
	assert.NotNil(t, v)
}

func TestFormatValidationDetails(t *testing.T) {
	type registerForm struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
	}

	SetupValidator()

	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)

	err := v.Struct(registerForm{Email: "not-an-email", Password: "short"})
	require.Error(t, err)

	verrs, ok := err.(validator.ValidationErrors)
	require.True(t, ok)

	details := FormatValidationDetails(verrs)
	require.Len(t, details, 2)

	assert.Equal(t, "email", details[0].Field)
	assert.Equal(t, "Invalid email format", details[0].Message)
	assert.Equal(t, "password", details[1].Field)
	assert.Equal(t, "Must be at least 8 characters", details[1].Message)
}

func TestValidationMessageTags(t *testing.T) {
	type form struct {
		Qty  int    `json:"qty" binding:"required,gte=1"`
		Kind string `json:"kind" binding:"required,oneof=reguler cargo"`
	}

	SetupValidator()

	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)

	err := v.Struct(form{Qty: 0, Kind: "instant"})
	require.Error(t, err)

	verrs := err.(validator.ValidationErrors)
	details := FormatValidationDetails(verrs)
	require.Len(t, details, 2)

	assert.Equal(t, "qty", details[0].Field)
	assert.Equal(t, "This field is required", details[0].Message)
	assert.Equal(t, "Must be one of: reguler cargo", details[1].Message)
}
