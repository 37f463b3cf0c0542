package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"qrgen/internal/donation/models"
	"qrgen/pkg/platform/httputil"
	"qrgen/pkg/requestcontext"
)

type Service interface {
	CreateDonationCheckout(ctx context.Context) (*models.CheckoutSession, error)
}

// Handler serves the public donation checkout endpoint.
type Handler struct {
	donations Service
	logger    *slog.Logger
}

func New(donations Service, logger *slog.Logger) *Handler {
	return &Handler{donations: donations, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/create-checkout-session", h.HandleCreateCheckoutSession)
}

// HandleCreateCheckoutSession ignores the request body; the offer is fixed.
func (h *Handler) HandleCreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	session, err := h.donations.CreateDonationCheckout(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create checkout session",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.CheckoutResponse{URL: session.URL})
}
