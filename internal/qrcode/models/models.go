package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"time"

	id "qrgen/pkg/domain"
	dErrors "qrgen/pkg/domain-errors"
)

const maxTypeLength = 64

// QRCode is a stored QR code record. Data is the client payload decoded from
// JSON and is opaque to the server.
type QRCode struct {
	ID        id.QRCodeID
	UserID    id.UserID
	Type      string
	Data      any
	CreatedAt time.Time
}

type CreateRequest struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Validate requires a type and a payload. A missing, null or empty-string
// payload counts as absent.
func (r *CreateRequest) Validate() error {
	r.Type = strings.TrimSpace(r.Type)
	if r.Type == "" || dataAbsent(r.Data) {
		return dErrors.New(dErrors.CodeValidation, "Type and data are required")
	}
	if len(r.Type) > maxTypeLength {
		return dErrors.New(dErrors.CodeValidation, "Type is too long")
	}
	return nil
}

func dataAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte(`""`))
}

// DecodeData parses a payload keeping numbers as json.Number, so integers
// beyond 2^53 are stored and returned exactly as sent.
func DecodeData(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var data any
	if err := dec.Decode(&data); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("trailing data after payload")
	}
	return data, nil
}

// QRCodeResponse is the wire shape of a record. Field names match the ones the
// frontend already reads.
type QRCodeResponse struct {
	ID        string    `json:"_id"`
	UserID    string    `json:"userId"`
	Type      string    `json:"type"`
	Data      any       `json:"data"`
	CreatedAt time.Time `json:"createdAt"`
}

func ToResponse(qr *QRCode) QRCodeResponse {
	return QRCodeResponse{
		ID:        qr.ID.String(),
		UserID:    qr.UserID.String(),
		Type:      qr.Type,
		Data:      qr.Data,
		CreatedAt: qr.CreatedAt.UTC(),
	}
}

type CreateResponse struct {
	Message string         `json:"message"`
	QR      QRCodeResponse `json:"qr"`
}

type ListResponse struct {
	QRCodes []QRCodeResponse `json:"qrcodes"`
}

func ToListResponse(records []*QRCode) ListResponse {
	out := make([]QRCodeResponse, 0, len(records))
	for _, qr := range records {
		out = append(out, ToResponse(qr))
	}
	return ListResponse{QRCodes: out}
}
