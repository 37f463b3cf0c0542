package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	authservice "qrgen/internal/auth/service"
	"qrgen/internal/auth/store/lockout"
	userstore "qrgen/internal/auth/store/user"
	"qrgen/internal/platform/config"
	platformmongo "qrgen/internal/platform/mongo"
	"qrgen/internal/platform/postgres"
	"qrgen/internal/platform/redis"
	qrservice "qrgen/internal/qrcode/service"
	qrstore "qrgen/internal/qrcode/store"
	httptransport "qrgen/internal/transport/http"
)

// userBackend is a user store that serves both sign-in and QR code ownership
// checks.
type userBackend interface {
	authservice.UserStore
	qrservice.Owners
}

// backends holds the stores selected by configuration and the hooks needed to
// report on and release them.
type backends struct {
	users   userBackend
	lockout authservice.LockoutStore
	qrcodes qrservice.Store
	health  map[string]httptransport.HealthCheck
	closers []func(context.Context) error
}

func (b *backends) close(ctx context.Context) {
	for i := len(b.closers) - 1; i >= 0; i-- {
		_ = b.closers[i](ctx)
	}
}

func openBackends(ctx context.Context, cfg config.Server, log *slog.Logger) (*backends, error) {
	b := &backends{health: map[string]httptransport.HealthCheck{}}

	switch cfg.Store.Driver {
	case config.DriverMongo:
		client, err := platformmongo.Connect(ctx, cfg.Store.MongoURI)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, client.Disconnect)
		db := client.Database(cfg.Store.MongoDatabase)
		if err := platformmongo.EnsureIndexes(ctx, db); err != nil {
			b.close(ctx)
			return nil, err
		}
		b.users = userstore.NewMongo(db)
		b.qrcodes = qrstore.NewMongo(db)
		b.health["mongo"] = mongoHealth(client)
	case config.DriverPostgres:
		db, err := postgres.Open(ctx, cfg.Store.PostgresDSN)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, func(context.Context) error { return db.Close() })
		if err := postgres.Migrate(ctx, db); err != nil {
			b.close(ctx)
			return nil, err
		}
		b.users = userstore.NewPostgres(db)
		b.qrcodes = qrstore.NewPostgres(db)
		b.health["postgres"] = postgresHealth(db)
	case config.DriverMemory:
		log.Warn("using in-memory stores; data is lost on restart")
		b.users = userstore.New()
		b.qrcodes = qrstore.NewInMemory()
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	rdb, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		b.close(ctx)
		return nil, err
	}
	if rdb == nil {
		b.lockout = lockout.New()
		return b, nil
	}
	b.closers = append(b.closers, func(context.Context) error { return rdb.Close() })
	b.lockout = lockout.NewRedis(rdb.Client)
	b.health["redis"] = rdb.Health
	return b, nil
}

func mongoHealth(client *mongo.Client) httptransport.HealthCheck {
	return func(ctx context.Context) error {
		return client.Ping(ctx, readpref.Primary())
	}
}

func postgresHealth(db *sql.DB) httptransport.HealthCheck {
	return db.PingContext
}
