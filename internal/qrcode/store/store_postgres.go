package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"qrgen/internal/qrcode/models"
	id "qrgen/pkg/domain"
	"qrgen/pkg/platform/sentinel"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// PostgresStore persists records in the qr_codes table with the payload as jsonb.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, qr *models.QRCode) error {
	data, err := json.Marshal(qr.Data)
	if err != nil {
		return fmt.Errorf("encode qr data: %w", err)
	}
	query := `
		INSERT INTO qr_codes (id, user_id, type, data, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = s.db.ExecContext(ctx, query,
		uuid.UUID(qr.ID),
		uuid.UUID(qr.UserID),
		qr.Type,
		string(data),
		qr.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case uniqueViolation:
				return sentinel.ErrConflict
			case foreignKeyViolation:
				return sentinel.ErrNotFound
			}
		}
		return fmt.Errorf("save qr code: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID id.UserID) ([]*models.QRCode, error) {
	query := `
		SELECT id, user_id, type, data, created_at
		FROM qr_codes
		WHERE user_id = $1
		ORDER BY created_at DESC, seq DESC
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(userID))
	if err != nil {
		return nil, fmt.Errorf("list qr codes: %w", err)
	}
	defer rows.Close()

	records := make([]*models.QRCode, 0)
	for rows.Next() {
		var (
			qr      models.QRCode
			qrID    uuid.UUID
			ownerID uuid.UUID
			data    []byte
		)
		if err := rows.Scan(&qrID, &ownerID, &qr.Type, &data, &qr.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan qr code: %w", err)
		}
		if qr.Data, err = models.DecodeData(data); err != nil {
			return nil, fmt.Errorf("decode qr data: %w", err)
		}
		qr.ID = id.QRCodeID(qrID)
		qr.UserID = id.UserID(ownerID)
		records = append(records, &qr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate qr codes: %w", err)
	}
	return records, nil
}
