package service

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"qrgen/internal/donation/models"
	"qrgen/internal/platform/metrics"
	dErrors "qrgen/pkg/domain-errors"
	"qrgen/pkg/requestcontext"
)

// CheckoutProvider creates hosted payment sessions.
type CheckoutProvider interface {
	CreateCheckoutSession(ctx context.Context, params models.CheckoutParams) (*models.CheckoutSession, error)
}

// Service starts the fixed-price donation checkout. Nothing is persisted and
// provider calls are not retried.
type Service struct {
	provider    CheckoutProvider
	frontendURL string
	metrics     *metrics.Metrics
	logger      *slog.Logger
	tracer      trace.Tracer
}

type Option func(*Service)

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// New builds the service. frontendURL must not end with a slash.
func New(provider CheckoutProvider, frontendURL string, opts ...Option) *Service {
	s := &Service{
		provider:    provider,
		frontendURL: frontendURL,
		logger:      slog.Default(),
		tracer:      otel.Tracer("qrgen/internal/donation/service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DonationParams returns the fixed single line item offer.
func (s *Service) DonationParams() models.CheckoutParams {
	return models.CheckoutParams{
		Currency:           models.Currency,
		UnitAmount:         models.UnitAmountCents,
		Quantity:           models.Quantity,
		ProductName:        models.ProductName,
		ProductDescription: models.ProductDescription,
		PaymentMethodTypes: []string{models.PaymentMethodCard},
		Mode:               models.ModePayment,
		SuccessURL:         s.frontendURL + models.SuccessPath,
		CancelURL:          s.frontendURL + models.CancelPath,
	}
}

// CreateDonationCheckout asks the provider for a session and returns its URL.
func (s *Service) CreateDonationCheckout(ctx context.Context) (*models.CheckoutSession, error) {
	ctx, span := s.tracer.Start(ctx, "donation.CreateCheckout")
	defer span.End()

	session, err := s.provider.CreateCheckoutSession(ctx, s.DonationParams())
	if err != nil {
		span.SetStatus(codes.Error, "provider failed")
		s.metrics.IncrementCheckoutSessions("error")
		s.logger.ErrorContext(ctx, "checkout session failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		return nil, dErrors.WrapOrTimeout(err, dErrors.CodePaymentProvider, "Internal server error")
	}

	s.metrics.IncrementCheckoutSessions("created")
	s.logger.InfoContext(ctx, "checkout session created",
		"request_id", requestcontext.RequestID(ctx),
		"session_id", session.ID,
	)
	return session, nil
}
