package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "qrgen/pkg/domain-errors"
)

func TestRegisterRequest_Validate(t *testing.T) {
	valid := func() RegisterRequest {
		return RegisterRequest{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Password: "s3cret"}
	}

	tests := []struct {
		name   string
		mutate func(r *RegisterRequest)
	}{
		{"missing first name", func(r *RegisterRequest) { r.FirstName = "  " }},
		{"missing last name", func(r *RegisterRequest) { r.LastName = "" }},
		{"missing email", func(r *RegisterRequest) { r.Email = "" }},
		{"malformed email", func(r *RegisterRequest) { r.Email = "not-an-email" }},
		{"missing password", func(r *RegisterRequest) { r.Password = "" }},
		{"password over 72 bytes", func(r *RegisterRequest) { r.Password = strings.Repeat("x", 73) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(&req)
			err := req.Validate()
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		})
	}

	t.Run("normalizes email and trims names", func(t *testing.T) {
		req := valid()
		req.Email = "  Ada@Example.COM "
		req.FirstName = " Ada "
		require.NoError(t, req.Validate())
		assert.Equal(t, "ada@example.com", req.Email)
		assert.Equal(t, "Ada", req.FirstName)
	})

	t.Run("accepts a 72 byte password", func(t *testing.T) {
		req := valid()
		req.Password = strings.Repeat("x", 72)
		assert.NoError(t, req.Validate())
	})
}

func TestLoginRequest_Validate(t *testing.T) {
	req := LoginRequest{Email: " USER@example.com", Password: "pw"}
	require.NoError(t, req.Validate())
	assert.Equal(t, "user@example.com", req.Email)

	missing := LoginRequest{Email: "user@example.com"}
	assert.True(t, dErrors.HasCode(missing.Validate(), dErrors.CodeValidation))
}
