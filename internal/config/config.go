package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress        string        `env:"RUN_ADDRESS"`
	Port              string        `env:"PORT"`
	DatabaseURI       string        `env:"DATABASE_URI"`
	Environment       string        `env:"APP_ENV" envDefault:"development"`
	ZiniPayAPIKey     string        `env:"ZINIPAY_API_KEY"`
	ZiniPayBaseURL    string        `env:"ZINIPAY_API_URL" envDefault:"https://api.zinipay.com/v1/payment"`
	WebhookSecret     string        `env:"WEBHOOK_SECRET"`
	FrontendURL       string        `env:"FRONTEND_URL" envDefault:"http://localhost:5173"`
	BackendURL        string        `env:"BACKEND_URL" envDefault:"http://localhost:5000"`
	OperatorTokenHash string        `env:"OPERATOR_TOKEN_HASH"`
	RedisAddr         string        `env:"REDIS_ADDR"`
	KafkaBrokers      []string      `env:"KAFKA_BROKERS" envSeparator:","`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	ReconcileInterval time.Duration `env:"RECONCILE_INTERVAL" envDefault:"1m"`
	PendingGrace      time.Duration `env:"PENDING_GRACE" envDefault:"2m"`
	PendingTTL        time.Duration `env:"PENDING_TTL" envDefault:"30m"`
	WorkerPoolSize    int           `env:"WORKER_POOL_SIZE" envDefault:"4"`
	MaxOrdersBatch    int           `env:"RECONCILE_BATCH_SIZE" envDefault:"32"`
}

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

const (
	defaultRunAddress        = ":5000"
	defaultShutdownTimeout   = 10 * time.Second
	defaultReconcileInterval = time.Minute
	defaultPendingGrace      = 2 * time.Minute
	defaultPendingTTL        = 30 * time.Minute
	defaultWorkerPoolSize    = 4
	defaultMaxOrdersBatch    = 32
)

// IsProduction reports whether service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// Load parses configuration from .env file, environment variables and flags.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(os.Args[1:], environ())
}

func environ() map[string]string {
	vars := make(map[string]string)
	for _, kv := range os.Environ() {
		if key, value, ok := strings.Cut(kv, "="); ok {
			vars[key] = value
		}
	}
	return vars
}

func load(args []string, vars map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: vars}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = defaultRunAddress
		if cfg.Port != "" {
			cfg.RunAddress = ":" + cfg.Port
		}
	}

	fs := flag.NewFlagSet("ffmarket", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		reconcileIntervalStr = cfg.ReconcileInterval.String()
		shutdownTimeoutStr   = cfg.ShutdownTimeout.String()
		pendingTTLStr        = cfg.PendingTTL.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.Environment, "env", cfg.Environment, "Runtime environment (development or production)")
	fs.StringVar(&cfg.ZiniPayBaseURL, "zinipay-url", cfg.ZiniPayBaseURL, "ZiniPay payment API base URL")
	fs.StringVar(&cfg.FrontendURL, "frontend-url", cfg.FrontendURL, "Public storefront URL used for redirects")
	fs.StringVar(&cfg.BackendURL, "backend-url", cfg.BackendURL, "Public URL of this service used for webhooks")
	fs.StringVar(&cfg.RedisAddr, "redis", cfg.RedisAddr, "Redis address for order status cache")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent reconcile workers")
	fs.IntVar(&cfg.MaxOrdersBatch, "reconcile-batch", cfg.MaxOrdersBatch, "Maximum orders per reconcile batch")
	fs.StringVar(&reconcileIntervalStr, "reconcile-interval", reconcileIntervalStr, "Interval between reconcile passes")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.StringVar(&pendingTTLStr, "pending-ttl", pendingTTLStr, "Age after which orders without invoice expire")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.ReconcileInterval, err = time.ParseDuration(reconcileIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid reconcile interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.PendingTTL, err = time.ParseDuration(pendingTTLStr); err != nil {
		return nil, fmt.Errorf("invalid pending ttl: %w", err)
	}

	if secretFile := vars["WEBHOOK_SECRET_FILE"]; secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read webhook secret file: %w", err)
		}
		cfg.WebhookSecret = strings.TrimSpace(string(content))
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.MaxOrdersBatch <= 0 {
		cfg.MaxOrdersBatch = defaultMaxOrdersBatch
	}

	if cfg.ReconcileInterval <= 0 {
		cfg.ReconcileInterval = defaultReconcileInterval
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.PendingGrace <= 0 {
		cfg.PendingGrace = defaultPendingGrace
	}

	if cfg.PendingTTL <= 0 {
		cfg.PendingTTL = defaultPendingTTL
	}

	if cfg.Environment != EnvProduction {
		cfg.Environment = EnvDevelopment
	}

	cfg.FrontendURL = strings.TrimRight(cfg.FrontendURL, "/")
	cfg.BackendURL = strings.TrimRight(cfg.BackendURL, "/")

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	return cfg, nil
}
