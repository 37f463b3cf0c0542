package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	authmodels "qrgen/internal/auth/models"
	"qrgen/internal/platform/metrics"
	"qrgen/internal/qrcode/models"
	id "qrgen/pkg/domain"
	dErrors "qrgen/pkg/domain-errors"
	"qrgen/pkg/platform/sentinel"
	"qrgen/pkg/requestcontext"
)

type Store interface {
	Save(ctx context.Context, qr *models.QRCode) error
	ListByUser(ctx context.Context, userID id.UserID) ([]*models.QRCode, error)
}

// Owners resolves the account a record is created for.
type Owners interface {
	FindByID(ctx context.Context, userID id.UserID) (*authmodels.User, error)
}

// Service stores and lists QR code records on behalf of their owner.
type Service struct {
	store   Store
	owners  Owners
	metrics *metrics.Metrics
	logger  *slog.Logger
	tracer  trace.Tracer
}

type Option func(*Service)

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func New(store Store, owners Owners, opts ...Option) *Service {
	s := &Service{
		store:  store,
		owners: owners,
		logger: slog.Default(),
		tracer: otel.Tracer("qrgen/internal/qrcode/service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores a record owned by userID, stamped with the request time. The
// owner must still exist; a valid token for a deleted account is not enough.
func (s *Service) Create(ctx context.Context, userID id.UserID, req *models.CreateRequest) (*models.QRCode, error) {
	ctx, span := s.tracer.Start(ctx, "qrcode.Create", trace.WithAttributes(attribute.String("qr.type", req.Type)))
	defer span.End()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	data, err := models.DecodeData(req.Data)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, "Type and data are required")
	}

	if _, err := s.owners.FindByID(ctx, userID); err != nil {
		span.SetStatus(codes.Error, "owner lookup failed")
		if errors.Is(err, sentinel.ErrNotFound) {
			s.logger.WarnContext(ctx, "qr code rejected - owner does not exist",
				"request_id", requestcontext.RequestID(ctx),
				"user_id", userID.String(),
			)
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "User not found.")
		}
		return nil, dErrors.WrapOrTimeout(err, dErrors.CodeInternal, "Failed to save QR Code")
	}

	qr := &models.QRCode{
		ID:        id.NewQRCodeID(),
		UserID:    userID,
		Type:      req.Type,
		Data:      data,
		CreatedAt: requestcontext.Now(ctx).UTC(),
	}
	if err := s.store.Save(ctx, qr); err != nil {
		span.SetStatus(codes.Error, "save failed")
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "User not found.")
		}
		return nil, dErrors.WrapOrTimeout(err, dErrors.CodeInternal, "Failed to save QR Code")
	}

	s.metrics.IncrementQRCodesCreated(qr.Type)
	s.logger.InfoContext(ctx, "qr code saved",
		"request_id", requestcontext.RequestID(ctx),
		"user_id", userID.String(),
		"qr_id", qr.ID.String(),
		"type", qr.Type,
	)
	return qr, nil
}

// List returns the records owned by userID, newest first.
func (s *Service) List(ctx context.Context, userID id.UserID) ([]*models.QRCode, error) {
	ctx, span := s.tracer.Start(ctx, "qrcode.List")
	defer span.End()

	records, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		span.SetStatus(codes.Error, "list failed")
		return nil, dErrors.WrapOrTimeout(err, dErrors.CodeInternal, "Error fetching QR codes")
	}
	span.SetAttributes(attribute.Int("qr.count", len(records)))
	return records, nil
}

