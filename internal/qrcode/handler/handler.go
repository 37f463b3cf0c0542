package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"qrgen/internal/qrcode/models"
	id "qrgen/pkg/domain"
	dErrors "qrgen/pkg/domain-errors"
	"qrgen/pkg/platform/httputil"
	"qrgen/pkg/requestcontext"
)

// Service defines the QR record operations the handler depends on.
type Service interface {
	Create(ctx context.Context, userID id.UserID, req *models.CreateRequest) (*models.QRCode, error)
	List(ctx context.Context, userID id.UserID) ([]*models.QRCode, error)
}

// Handler serves the authenticated QR code endpoints. Routes must be mounted
// behind RequireAuth.
type Handler struct {
	qrcodes Service
	logger  *slog.Logger
}

func New(qrcodes Service, logger *slog.Logger) *Handler {
	return &Handler{qrcodes: qrcodes, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/create-qr", h.HandleCreate)
	r.Get("/my-qrcodes", h.HandleList)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	userID, ok := h.requireUser(ctx, w, requestID)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[models.CreateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	qr, err := h.qrcodes.Create(ctx, userID, req)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to save qr code",
			"request_id", requestID,
			"user_id", userID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, models.CreateResponse{
		Message: "QR Code saved successfully",
		QR:      models.ToResponse(qr),
	})
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	userID, ok := h.requireUser(ctx, w, requestID)
	if !ok {
		return
	}

	records, err := h.qrcodes.List(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list qr codes",
			"request_id", requestID,
			"user_id", userID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, models.ToListResponse(records))
}

func (h *Handler) requireUser(ctx context.Context, w http.ResponseWriter, requestID string) (id.UserID, bool) {
	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		// RequireAuth was not mounted in front of this route.
		h.logger.ErrorContext(ctx, "userID missing from context despite auth middleware",
			"request_id", requestID,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return id.UserID{}, false
	}
	return userID, true
}
