package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "qrgen/pkg/domain-errors"
)

func TestParseUserID(t *testing.T) {
	valid := uuid.New()

	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"empty", "", "user_id is required"},
		{"blank", "   ", "user_id is required"},
		{"malformed", "not-a-uuid", "invalid user_id"},
		{"nil uuid", uuid.Nil.String(), "invalid user_id"},
		{"oversized", strings.Repeat("a", 1000), "invalid user_id"},
		{"sql fragment", "'; DROP TABLE users;--", "invalid user_id"},
		{"mongo operator", `{"$ne": null}`, "invalid user_id"},
		{"embedded null byte", "550e8400\x00-e29b-41d4-a716-446655440000", "invalid user_id"},
		{"uppercase", strings.ToUpper(valid.String()), ""},
		{"canonical", valid.String(), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseUserID(tt.input)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, UserID(valid), got)
				return
			}
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.True(t, got.IsNil())
		})
	}
}

func TestParseQRCodeID(t *testing.T) {
	qrID := NewQRCodeID()

	got, err := ParseQRCodeID(qrID.String())
	require.NoError(t, err)
	assert.Equal(t, qrID, got)

	_, err = ParseQRCodeID("qr-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid qr_code_id")
}

func TestNewIDs(t *testing.T) {
	assert.False(t, NewUserID().IsNil())
	assert.False(t, NewQRCodeID().IsNil())
	assert.NotEqual(t, NewUserID(), NewUserID())
	assert.True(t, UserID{}.IsNil())
	assert.True(t, QRCodeID{}.IsNil())
}
