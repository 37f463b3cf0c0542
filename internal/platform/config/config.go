package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers selectable through STORE_DRIVER.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

const minBcryptCost = 10

// DefaultAllowedOrigins are the frontends allowed to call the API.
var DefaultAllowedOrigins = []string{
	"https://createqr.d1nfh4ldjnk0ad.amplifyapp.com",
	"http://localhost:3000",
}

// Server captures process level configuration, resolved once at startup.
type Server struct {
	Addr           string
	LogLevel       string
	AllowedOrigins []string

	Store    StoreConfig
	Auth     AuthConfig
	Payments PaymentsConfig
	Redis    RedisConfig
}

// StoreConfig selects and locates the persistence backend.
type StoreConfig struct {
	Driver        string
	MongoURI      string
	MongoDatabase string
	PostgresDSN   string
}

// AuthConfig configures token signing, password hashing and login throttling.
type AuthConfig struct {
	JWTSecret          string
	TokenTTL           time.Duration
	BcryptCost         int
	LoginMaxAttempts   int
	LoginLockoutWindow time.Duration
}

// PaymentsConfig configures the hosted donation checkout.
type PaymentsConfig struct {
	StripeSecretKey string
	FrontendURL     string
}

// RedisConfig is optional; an empty URL keeps login throttling in memory.
type RedisConfig struct {
	URL          string
	PoolSize     int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// LoadDotenv loads a .env file if present. Variables already set in the
// environment take precedence.
func LoadDotenv() {
	_ = godotenv.Load()
}

// FromEnv builds a Server config from environment variables. All missing
// required variables are reported together.
func FromEnv() (Server, error) {
	var errs []error

	cfg := Server{
		Addr:           ":" + envOr("PORT", "5000"),
		LogLevel:       envOr("LOG_LEVEL", "info"),
		AllowedOrigins: DefaultAllowedOrigins,
		Store: StoreConfig{
			Driver:        strings.ToLower(envOr("STORE_DRIVER", DriverMongo)),
			MongoURI:      os.Getenv("MONGO_URI"),
			MongoDatabase: envOr("MONGO_DATABASE", "qrcode"),
			PostgresDSN:   os.Getenv("DATABASE_URL"),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
		},
		Payments: PaymentsConfig{
			StripeSecretKey: os.Getenv("STRIPE_SECRET_KEY"),
			FrontendURL:     strings.TrimRight(os.Getenv("FRONTEND_URL"), "/"),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
	}

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = splitOrigins(origins)
	}

	var err error
	if cfg.Auth.TokenTTL, err = durationEnv("TOKEN_TTL", 24*time.Hour); err != nil {
		errs = append(errs, err)
	}
	if cfg.Auth.LoginLockoutWindow, err = durationEnv("LOGIN_LOCKOUT_WINDOW", 15*time.Minute); err != nil {
		errs = append(errs, err)
	}
	if cfg.Auth.LoginMaxAttempts, err = intEnv("LOGIN_MAX_ATTEMPTS", 5); err != nil {
		errs = append(errs, err)
	}
	if cfg.Auth.BcryptCost, err = intEnv("BCRYPT_COST", minBcryptCost); err != nil {
		errs = append(errs, err)
	}
	if cfg.Auth.BcryptCost < minBcryptCost {
		cfg.Auth.BcryptCost = minBcryptCost
	}

	if cfg.Auth.JWTSecret == "" {
		errs = append(errs, missing("JWT_SECRET"))
	}
	if cfg.Payments.StripeSecretKey == "" {
		errs = append(errs, missing("STRIPE_SECRET_KEY"))
	}
	if cfg.Payments.FrontendURL == "" {
		errs = append(errs, missing("FRONTEND_URL"))
	} else if u, perr := url.Parse(cfg.Payments.FrontendURL); perr != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("FRONTEND_URL must be an absolute URL, got %q", cfg.Payments.FrontendURL))
	}

	switch cfg.Store.Driver {
	case DriverMongo:
		if cfg.Store.MongoURI == "" {
			errs = append(errs, missing("MONGO_URI"))
		}
	case DriverPostgres:
		if cfg.Store.PostgresDSN == "" {
			errs = append(errs, missing("DATABASE_URL"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Store.Driver))
	}

	return cfg, errors.Join(errs...)
}

func missing(key string) error {
	return fmt.Errorf("missing required env %s", key)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def, fmt.Errorf("%s must be a positive duration, got %q", key, v)
	}
	return d, nil
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def, fmt.Errorf("%s must be a positive integer, got %q", key, v)
	}
	return n, nil
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, p := range strings.Split(raw, ",") {
		if o := strings.TrimRight(strings.TrimSpace(p), "/"); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
