package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"qrgen/internal/auth/models"
	dErrors "qrgen/pkg/domain-errors"
	"qrgen/pkg/platform/httputil"
	"qrgen/pkg/requestcontext"
)

// Service defines the credential operations the handler depends on.
type Service interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResult, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResult, error)
}

// Handler serves the public signup and login endpoints.
type Handler struct {
	auth   Service
	logger *slog.Logger
}

func New(auth Service, logger *slog.Logger) *Handler {
	return &Handler{auth: auth, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/signup", h.HandleSignup)
	r.Post("/login", h.HandleLogin)
}

// HandleSignup registers a user and responds with a session token.
func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.RegisterRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.auth.Register(ctx, req)
	if err != nil {
		h.logFailure(ctx, "signup failed", requestID, err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, models.AuthResponse{
		Message: "User registered successfully",
		Token:   result.Token,
	})
}

// HandleLogin exchanges credentials for a session token.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.LoginRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.auth.Login(ctx, req)
	if err != nil {
		h.logFailure(ctx, "login failed", requestID, err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, models.AuthResponse{
		Message: "Login successful!",
		Token:   result.Token,
	})
}

func (h *Handler) logFailure(ctx context.Context, msg, requestID string, err error) {
	if dErrors.IsServerFault(dErrors.CodeOf(err)) {
		h.logger.ErrorContext(ctx, msg, "request_id", requestID, "error", err)
		return
	}
	h.logger.WarnContext(ctx, msg, "request_id", requestID, "error", err)
}
