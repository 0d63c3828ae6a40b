package response

import (
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOKWithData(t *testing.T) {
	resp := OKWithData(map[string]any{"id": "abc"})
	assert.Equal(t, StatusOK, resp.Status)
	assert.Equal(t, map[string]any{"id": "abc"}, resp.Data)
}

func TestOK(t *testing.T) {
	resp := OK()
	assert.Equal(t, StatusOK, resp.Status)
	assert.Nil(t, resp.Data)
}

func TestError(t *testing.T) {
	resp := Error("something broke")
	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, "something broke", resp.Error)
}

func TestValidationError(t *testing.T) {
	type req struct {
		Email string `validate:"required,email"`
		Notes string `validate:"max=4"`
	}

	v := validator.New()
	err := v.Struct(req{Email: "", Notes: "too long for sure"})
	require.Error(t, err)

	resp := ValidationError(err.(validator.ValidationErrors))
	assert.Equal(t, StatusError, resp.Status)
	assert.Contains(t, resp.Error, "field Email is a required field")
	assert.Contains(t, resp.Error, "field Notes is too long")
}
