package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress      string
	DatabaseURI     string
	DBTimeout       time.Duration
	ShutdownTimeout time.Duration
	MaxBodyBytes    int64
	CORSOrigins     []string
	LogLevel        slog.Level

	Spaces  SpacesConfig
	Courier CourierConfig
	Auth    AuthConfig
}

// SpacesConfig describes the S3 compatible bucket holding attachments.
type SpacesConfig struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	PublicURL string
	Timeout   time.Duration
}

// Enabled reports whether attachment storage is configured.
func (c SpacesConfig) Enabled() bool {
	return c.Bucket != ""
}

// CourierConfig describes the shipment booking API and its dispatcher.
type CourierConfig struct {
	URL          string
	Token        string
	PollInterval time.Duration
	Workers      int
	BatchSize    int
	MaxAttempts  int
	RatePerSec   float64
	Timeout      time.Duration
}

// Enabled reports whether courier bookings are dispatched.
func (c CourierConfig) Enabled() bool {
	return c.Token != ""
}

// AuthConfig enables operator login when PasswordHash is set.
type AuthConfig struct {
	PasswordHash string
	Secret       string
	TokenTTL     time.Duration
}

const (
	defaultRunAddress      = ":5000"
	defaultDBTimeout       = 30 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultMaxBodyBytes    = 50 << 20
	defaultCORSOrigins     = "http://localhost:3000,http://localhost:5173"
	defaultSpacesRegion    = "us-east-1"
	defaultStorageTimeout  = 30 * time.Second
	defaultPollInterval    = 5 * time.Second
	defaultCourierWorkers  = 2
	defaultCourierBatch    = 16
	defaultMaxAttempts     = 5
	defaultCourierRate     = 2.0
	defaultCourierTimeout  = 10 * time.Second
	defaultAuthSecret      = "change-me-in-production"
	defaultTokenTTL        = 24 * time.Hour
)

// Load reads an optional .env file, then parses flags and environment variables.
func Load() (*Config, error) {
	if err := loadDotEnv(getString(os.LookupEnv, "ENV_FILE", ".env")); err != nil {
		return nil, err
	}
	return load(os.Args[1:], os.LookupEnv)
}

func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:      getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:     getString(lookup, "DATABASE_URI", ""),
		DBTimeout:       getDuration(lookup, "DB_TIMEOUT", defaultDBTimeout),
		ShutdownTimeout: getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		MaxBodyBytes:    int64(getInt(lookup, "MAX_BODY_BYTES", defaultMaxBodyBytes)),
		Spaces: SpacesConfig{
			Endpoint:  getString(lookup, "SPACES_ENDPOINT", ""),
			Region:    getString(lookup, "SPACES_REGION", defaultSpacesRegion),
			Bucket:    getString(lookup, "SPACES_BUCKET", ""),
			AccessKey: getString(lookup, "SPACES_KEY", ""),
			SecretKey: getString(lookup, "SPACES_SECRET", ""),
			PublicURL: getString(lookup, "SPACES_PUBLIC_URL", ""),
			Timeout:   getDuration(lookup, "STORAGE_TIMEOUT", defaultStorageTimeout),
		},
		Courier: CourierConfig{
			URL:          getString(lookup, "COURIER_URL", ""),
			Token:        getString(lookup, "COURIER_TOKEN", ""),
			PollInterval: getDuration(lookup, "COURIER_POLL_INTERVAL", defaultPollInterval),
			Workers:      getInt(lookup, "COURIER_WORKERS", defaultCourierWorkers),
			BatchSize:    getInt(lookup, "COURIER_BATCH", defaultCourierBatch),
			MaxAttempts:  getInt(lookup, "COURIER_MAX_ATTEMPTS", defaultMaxAttempts),
			RatePerSec:   getFloat(lookup, "COURIER_RATE", defaultCourierRate),
			Timeout:      getDuration(lookup, "COURIER_TIMEOUT", defaultCourierTimeout),
		},
		Auth: AuthConfig{
			PasswordHash: getString(lookup, "OPERATOR_PASSWORD_HASH", ""),
			Secret:       getString(lookup, "AUTH_SECRET", defaultAuthSecret),
			TokenTTL:     getDuration(lookup, "TOKEN_TTL", defaultTokenTTL),
		},
	}

	flags := flag.NewFlagSet("naracki", flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	var (
		corsOrigins        = getString(lookup, "CORS_ORIGINS", defaultCORSOrigins)
		logLevel           = getString(lookup, "LOG_LEVEL", "info")
		dbTimeoutStr       = cfg.DBTimeout.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
		pollIntervalStr    = cfg.Courier.PollInterval.String()
	)

	flags.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	flags.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	flags.StringVar(&dbTimeoutStr, "db-timeout", dbTimeoutStr, "Timeout of a single database call")
	flags.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	flags.StringVar(&corsOrigins, "cors-origins", corsOrigins, "Comma separated list of allowed origins")
	flags.StringVar(&logLevel, "log-level", logLevel, "Log level: debug, info, warn, error")
	flags.StringVar(&cfg.Spaces.Bucket, "bucket", cfg.Spaces.Bucket, "Attachment bucket name")
	flags.StringVar(&cfg.Courier.URL, "courier-url", cfg.Courier.URL, "Courier API base URL")
	flags.StringVar(&pollIntervalStr, "courier-poll-interval", pollIntervalStr, "Interval between shipment dispatch polls")
	flags.IntVar(&cfg.Courier.Workers, "courier-workers", cfg.Courier.Workers, "Number of concurrent courier workers")
	flags.IntVar(&cfg.Courier.BatchSize, "courier-batch", cfg.Courier.BatchSize, "Maximum shipments per poll")

	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.DBTimeout, err = time.ParseDuration(dbTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid db timeout: %w", err)
	}
	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}
	if cfg.Courier.PollInterval, err = time.ParseDuration(pollIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid courier poll interval: %w", err)
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	cfg.CORSOrigins = splitList(corsOrigins)
	for _, origin := range cfg.CORSOrigins {
		if origin != "*" && !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return nil, fmt.Errorf("invalid CORS origin %q: must be * or start with http:// or https://", origin)
		}
	}

	if secretFile, ok := lookup("AUTH_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read auth secret file: %w", err)
		}
		cfg.Auth.Secret = strings.TrimSpace(string(content))
	}

	cfg.normalize()

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}
	if cfg.Spaces.Enabled() && cfg.Spaces.Endpoint == "" {
		return nil, fmt.Errorf("spaces endpoint must be provided when a bucket is configured")
	}
	if cfg.Courier.Enabled() && cfg.Courier.URL == "" {
		return nil, fmt.Errorf("courier URL must be provided when a courier token is configured")
	}

	return cfg, nil
}

func (c *Config) normalize() {
	if c.DBTimeout <= 0 {
		c.DBTimeout = defaultDBTimeout
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = defaultShutdownTimeout
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = defaultMaxBodyBytes
	}
	if c.Spaces.Timeout <= 0 {
		c.Spaces.Timeout = defaultStorageTimeout
	}
	if c.Courier.PollInterval <= 0 {
		c.Courier.PollInterval = defaultPollInterval
	}
	if c.Courier.Workers <= 0 {
		c.Courier.Workers = defaultCourierWorkers
	}
	if c.Courier.BatchSize <= 0 {
		c.Courier.BatchSize = defaultCourierBatch
	}
	if c.Courier.MaxAttempts <= 0 {
		c.Courier.MaxAttempts = defaultMaxAttempts
	}
	if c.Courier.RatePerSec <= 0 {
		c.Courier.RatePerSec = defaultCourierRate
	}
	if c.Courier.Timeout <= 0 {
		c.Courier.Timeout = defaultCourierTimeout
	}
	if c.Auth.TokenTTL <= 0 {
		c.Auth.TokenTTL = defaultTokenTTL
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloat(lookup envLookup, key string, def float64) float64 {
	if v, ok := lookup(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
