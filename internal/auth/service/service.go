package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"qrgen/internal/auth/models"
	"qrgen/internal/auth/password"
	"qrgen/internal/platform/metrics"
	id "qrgen/pkg/domain"
	dErrors "qrgen/pkg/domain-errors"
	"qrgen/pkg/platform/sentinel"
	"qrgen/pkg/requestcontext"
)

type UserStore interface {
	Save(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// LockoutStore counts failed logins per email within a window.
type LockoutStore interface {
	Failures(ctx context.Context, identifier string) (int, error)
	RecordFailure(ctx context.Context, identifier string, window time.Duration) (int, error)
	Clear(ctx context.Context, identifier string) error
}

type TokenIssuer interface {
	GenerateAccessToken(userID id.UserID, email string) (string, error)
}

// Config holds the credential policy.
type Config struct {
	BcryptCost         int
	LoginMaxAttempts   int
	LoginLockoutWindow time.Duration
}

// Service registers accounts and exchanges credentials for session tokens.
type Service struct {
	users   UserStore
	tokens  TokenIssuer
	lockout LockoutStore
	metrics *metrics.Metrics
	logger  *slog.Logger
	tracer  trace.Tracer
	cfg     Config
}

type Option func(*Service)

// WithLockout enables login throttling backed by store.
func WithLockout(store LockoutStore) Option {
	return func(s *Service) { s.lockout = store }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func New(users UserStore, tokens TokenIssuer, cfg Config, opts ...Option) (*Service, error) {
	if users == nil {
		return nil, errors.New("users store is required")
	}
	if tokens == nil {
		return nil, errors.New("token issuer is required")
	}
	if cfg.BcryptCost < password.MinCost {
		cfg.BcryptCost = password.MinCost
	}
	if cfg.LoginMaxAttempts <= 0 {
		cfg.LoginMaxAttempts = 5
	}
	if cfg.LoginLockoutWindow <= 0 {
		cfg.LoginLockoutWindow = 15 * time.Minute
	}

	s := &Service{
		users:  users,
		tokens: tokens,
		cfg:    cfg,
		logger: slog.Default(),
		tracer: otel.Tracer("qrgen/internal/auth/service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Register creates an account and returns a session token for it. The request
// must already be validated.
func (s *Service) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResult, error) {
	ctx, span := s.tracer.Start(ctx, "auth.Register")
	defer span.End()

	result, err := s.register(ctx, req)
	if err != nil {
		span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
	}
	return result, err
}

func (s *Service) register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResult, error) {
	requestID := requestcontext.RequestID(ctx)

	_, err := s.users.FindByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return nil, dErrors.New(dErrors.CodeConflict, "User already exists")
	case !errors.Is(err, sentinel.ErrNotFound):
		return nil, dErrors.WrapOrTimeout(err, dErrors.CodeInternal, "Error registering user")
	}

	hashed, err := password.Hash(req.Password, s.cfg.BcryptCost)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeValidation) {
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "Error registering user")
	}

	user := &models.User{
		ID:           id.NewUserID(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hashed,
		CreatedAt:    requestcontext.Now(ctx).UTC(),
	}
	if err := s.users.Save(ctx, user); err != nil {
		// A concurrent signup for the same email won the race.
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "User already exists")
		}
		return nil, dErrors.WrapOrTimeout(err, dErrors.CodeInternal, "Error registering user")
	}

	token, err := s.tokens.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "Error registering user")
	}

	s.metrics.IncrementUsersRegistered()
	s.logger.InfoContext(ctx, "user registered",
		"request_id", requestID,
		"user_id", user.ID.String(),
	)
	return &models.AuthResult{UserID: user.ID, Token: token}, nil
}

// Login verifies credentials and returns a session token. Repeated wrong
// passwords for one email lock further attempts for the configured window.
func (s *Service) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResult, error) {
	ctx, span := s.tracer.Start(ctx, "auth.Login")
	defer span.End()

	result, err := s.login(ctx, req)
	if err != nil {
		span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
	}
	return result, err
}

func (s *Service) login(ctx context.Context, req *models.LoginRequest) (*models.AuthResult, error) {
	requestID := requestcontext.RequestID(ctx)

	if s.isLocked(ctx, req.Email) {
		s.metrics.IncrementLoginOutcome("locked")
		s.logger.WarnContext(ctx, "login rejected - too many failed attempts",
			"request_id", requestID,
		)
		return nil, dErrors.New(dErrors.CodeTooManyRequests, "Too many failed login attempts. Try again later.")
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.metrics.IncrementLoginOutcome("unknown_user")
			return nil, dErrors.New(dErrors.CodeNotFound, "User not found.")
		}
		return nil, dErrors.WrapOrTimeout(err, dErrors.CodeInternal, "Error during login.")
	}

	if err := password.Verify(req.Password, user.PasswordHash); err != nil {
		if !dErrors.HasCode(err, dErrors.CodeUnauthorized) {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "Error during login.")
		}
		s.recordFailure(ctx, req.Email)
		s.metrics.IncrementLoginOutcome("invalid_credentials")
		s.logger.WarnContext(ctx, "login failed - invalid credentials",
			"request_id", requestID,
			"user_id", user.ID.String(),
		)
		return nil, err
	}

	if s.lockout != nil {
		if err := s.lockout.Clear(ctx, req.Email); err != nil {
			s.logger.WarnContext(ctx, "failed to clear login failures",
				"request_id", requestID,
				"error", err,
			)
		}
	}

	token, err := s.tokens.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "Error during login.")
	}

	s.metrics.IncrementLoginOutcome("success")
	s.logger.InfoContext(ctx, "user logged in",
		"request_id", requestID,
		"user_id", user.ID.String(),
	)
	return &models.AuthResult{UserID: user.ID, Token: token}, nil
}

// isLocked fails open when the lockout store errors.
func (s *Service) isLocked(ctx context.Context, email string) bool {
	if s.lockout == nil {
		return false
	}
	failures, err := s.lockout.Failures(ctx, email)
	if err != nil {
		s.logger.WarnContext(ctx, "lockout check failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		return false
	}
	return failures >= s.cfg.LoginMaxAttempts
}

func (s *Service) recordFailure(ctx context.Context, email string) {
	if s.lockout == nil {
		return
	}
	if _, err := s.lockout.RecordFailure(ctx, email, s.cfg.LoginLockoutWindow); err != nil {
		s.logger.WarnContext(ctx, "failed to record login failure",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
}
