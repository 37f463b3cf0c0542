package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "qrgen/pkg/domain-errors"
)

// UserID identifies a registered user.
type UserID uuid.UUID

// QRCodeID identifies a stored QR code record.
type QRCodeID uuid.UUID

// NewUserID returns a fresh random UserID.
func NewUserID() UserID { return UserID(uuid.New()) }

// NewQRCodeID returns a fresh random QRCodeID.
func NewQRCodeID() QRCodeID { return QRCodeID(uuid.New()) }

func (id UserID) String() string   { return uuid.UUID(id).String() }
func (id QRCodeID) String() string { return uuid.UUID(id).String() }

// IsNil reports whether the ID is the zero UUID.
func (id UserID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// IsNil reports whether the ID is the zero UUID.
func (id QRCodeID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// ParseUserID parses s into a UserID. Empty, malformed and nil UUIDs are rejected.
func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s, "user_id")
	return UserID(u), err
}

// ParseQRCodeID parses s into a QRCodeID. Empty, malformed and nil UUIDs are rejected.
func ParseQRCodeID(s string) (QRCodeID, error) {
	u, err := parseUUID(s, "qr_code_id")
	return QRCodeID(u), err
}

func parseUUID(s, field string) (uuid.UUID, error) {
	if strings.TrimSpace(s) == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeValidation, field+" is required")
	}
	if len(s) > 64 {
		return uuid.Nil, dErrors.New(dErrors.CodeValidation, "invalid "+field)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeValidation, "invalid "+field)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeValidation, "invalid "+field)
	}
	return u, nil
}
