package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	authhandler "qrgen/internal/auth/handler"
	authservice "qrgen/internal/auth/service"
	donationhandler "qrgen/internal/donation/handler"
	"qrgen/internal/donation/provider"
	donationservice "qrgen/internal/donation/service"
	jwttoken "qrgen/internal/jwt_token"
	"qrgen/internal/platform/config"
	"qrgen/internal/platform/httpserver"
	"qrgen/internal/platform/logger"
	"qrgen/internal/platform/metrics"
	qrhandler "qrgen/internal/qrcode/handler"
	qrservice "qrgen/internal/qrcode/service"
	httptransport "qrgen/internal/transport/http"
)

const shutdownTimeout = 10 * time.Second

// main wires dependencies, exposes the HTTP router, and keeps the server
// lifecycle small. Business logic lives in the internal service packages.
func main() {
	config.LoadDotenv()
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	m := metrics.New(prometheus.DefaultRegisterer)

	deps, err := openBackends(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer deps.close(context.Background())

	jwtService := jwttoken.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	auth, err := authservice.New(deps.users, jwtService,
		authservice.Config{
			BcryptCost:         cfg.Auth.BcryptCost,
			LoginMaxAttempts:   cfg.Auth.LoginMaxAttempts,
			LoginLockoutWindow: cfg.Auth.LoginLockoutWindow,
		},
		authservice.WithLockout(deps.lockout),
		authservice.WithMetrics(m),
		authservice.WithLogger(log),
	)
	if err != nil {
		return err
	}
	qrcodes := qrservice.New(deps.qrcodes, deps.users, qrservice.WithMetrics(m), qrservice.WithLogger(log))
	donations := donationservice.New(
		provider.NewStripe(cfg.Payments.StripeSecretKey),
		cfg.Payments.FrontendURL,
		donationservice.WithMetrics(m),
		donationservice.WithLogger(log),
	)

	router := httptransport.NewRouter(httptransport.Config{
		Logger:         log,
		Metrics:        m,
		Gatherer:       prometheus.DefaultGatherer,
		AllowedOrigins: cfg.AllowedOrigins,
		JWTValidator:   jwttoken.NewJWTServiceAdapter(jwtService),
		HealthChecks:   deps.health,
		Public: []httptransport.Registrar{
			authhandler.New(auth, log),
			donationhandler.New(donations, log),
		},
		Protected: []httptransport.Registrar{
			qrhandler.New(qrcodes, log),
		},
	})

	srv := httpserver.New(cfg.Addr, router, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting qrgen", "addr", cfg.Addr, "store", cfg.Store.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
