package validation

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loginBody struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func TestStructReportsJSONFieldNames(t *testing.T) {
	err := Struct(loginBody{Email: "not-an-email"})
	require.Error(t, err)

	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusBadRequest, fe.Code)
	assert.Equal(t, "validation failed (email: email, password: required)", fe.Message)
}

func TestStructAcceptsValidBody(t *testing.T) {
	assert.NoError(t, Struct(loginBody{Email: "owner@jana.in", Password: "long-enough"}))
}

func TestFieldsIgnoresOtherErrors(t *testing.T) {
	assert.Nil(t, Fields(assert.AnError))
}
