package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"qrgen/internal/platform/metrics"
	"qrgen/internal/platform/middleware"
	"qrgen/pkg/platform/httputil"
	authmw "qrgen/pkg/platform/middleware/auth"
	"qrgen/pkg/platform/middleware/requesttime"
	"qrgen/pkg/requestcontext"
)

const welcomeMessage = "Welcome to backend server of QRCODE"

const defaultRequestTimeout = 30 * time.Second

// Registrar is implemented by feature handlers.
type Registrar interface {
	Register(r chi.Router)
}

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

// Config collects everything the router needs. Public handlers are mounted
// without authentication; Protected handlers are mounted behind RequireAuth.
type Config struct {
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer
	AllowedOrigins []string
	JWTValidator   authmw.JWTValidator
	RequestTimeout time.Duration
	HealthChecks   map[string]HealthCheck
	Public         []Registrar
	Protected      []Registrar
}

// NewRouter wires the middleware chain and every route.
func NewRouter(cfg Config) http.Handler {
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}

	r := chi.NewRouter()
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins, cfg.Logger))
	r.Use(middleware.LatencyMiddleware(cfg.Metrics))
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteText(w, http.StatusOK, welcomeMessage)
	})
	r.Get("/healthz", healthHandler(cfg.Logger, cfg.HealthChecks))
	if cfg.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	for _, h := range cfg.Public {
		h.Register(r)
	}

	r.Group(func(protected chi.Router) {
		protected.Use(authmw.RequireAuth(cfg.JWTValidator, cfg.Logger))
		for _, h := range cfg.Protected {
			h.Register(protected)
		}
	})

	return r
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func healthHandler(logger *slog.Logger, checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := healthResponse{Status: "ok"}
		status := http.StatusOK
		for name, check := range checks {
			if resp.Checks == nil {
				resp.Checks = make(map[string]string, len(checks))
			}
			if err := check(ctx); err != nil {
				logger.WarnContext(ctx, "health check failed",
					"request_id", requestcontext.RequestID(ctx),
					"check", name,
					"error", err,
				)
				resp.Checks[name] = "unavailable"
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}
		httputil.WriteJSON(w, status, resp)
	}
}
