package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
)

const envPrefix = "CHECKOUT_"

type Config struct {
	Primary    Primary          `koanf:"primary"`
	Server     ServerConfig     `koanf:"server"`
	Database   DatabaseConfig   `koanf:"database"`
	Redis      RedisConfig      `koanf:"redis"`
	Lock       LockConfig       `koanf:"lock"`
	Processors ProcessorsConfig `koanf:"processors"`
	Worker     WorkerConfig     `koanf:"worker"`
	Logger     LoggerConfig     `koanf:"logger"`
	Telemetry  TelemetryConfig  `koanf:"telemetry"`
}

type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

type ServerConfig struct {
	Port           string        `koanf:"port" validate:"required"`
	ReadTimeout    time.Duration `koanf:"read_timeout" validate:"required"`
	// WriteTimeout must outlast RequestTimeout so a payment that hit the
	// request deadline can still report its result.
	WriteTimeout   time.Duration `koanf:"write_timeout" validate:"required,gtfield=RequestTimeout"`
	IdleTimeout    time.Duration `koanf:"idle_timeout" validate:"required"`
	RequestTimeout time.Duration `koanf:"request_timeout" validate:"required"`
}

type DatabaseConfig struct {
	Host            string        `koanf:"host" validate:"required"`
	Port            int           `koanf:"port" validate:"required"`
	User            string        `koanf:"user" validate:"required"`
	Password        string        `koanf:"password" validate:"required"`
	Name            string        `koanf:"name" validate:"required"`
	SSLMode         string        `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int           `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int           `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time" validate:"required"`
}

type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

// LockConfig selects how authorize+capture calls are serialised per invoice.
// "redis" is required when more than one instance serves the same database.
type LockConfig struct {
	Backend string        `koanf:"backend" validate:"required,oneof=memory redis"`
	TTL     time.Duration `koanf:"ttl" validate:"required"`
}

type ProcessorsConfig struct {
	Card      CardConfig      `koanf:"card"`
	Braintree BraintreeConfig `koanf:"braintree"`
	Sandbox   SandboxConfig   `koanf:"sandbox"`
}

type CardConfig struct {
	Enabled       bool          `koanf:"enabled"`
	BaseURL       string        `koanf:"base_url" validate:"omitempty,url"`
	Timeout       time.Duration `koanf:"timeout"`
	VoidRetries   int           `koanf:"void_retries"`
	VoidBaseDelay time.Duration `koanf:"void_base_delay"`
	CredentialArg string        `koanf:"credential_arg"`
}

type BraintreeConfig struct {
	Enabled       bool          `koanf:"enabled"`
	BaseURL       string        `koanf:"base_url" validate:"omitempty,url"`
	MerchantID    string        `koanf:"merchant_id"`
	PublicKey     string        `koanf:"public_key"`
	PrivateKey    string        `koanf:"private_key"`
	Timeout       time.Duration `koanf:"timeout"`
	CredentialArg string        `koanf:"credential_arg"`
}

// SandboxConfig rules are "expression => message" pairs separated by ';'.
type SandboxConfig struct {
	Enabled       bool   `koanf:"enabled"`
	Rules         string `koanf:"rules"`
	CredentialArg string `koanf:"credential_arg"`
}

// WorkerConfig drives the sweeper that frees idempotency keys left locked by
// requests that never finished.
type WorkerConfig struct {
	Interval   time.Duration `koanf:"interval" validate:"required"`
	StaleAfter time.Duration `koanf:"stale_after" validate:"required"`
	BatchSize  int           `koanf:"batch_size" validate:"required,min=1"`
}

type LoggerConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format" validate:"omitempty,oneof=json text"`
}

type TelemetryConfig struct {
	ServiceName string `koanf:"service_name" validate:"required"`
	TraceStdout bool   `koanf:"trace_stdout"`
}

var defaults = map[string]any{
	"server.request_timeout":              "25s",
	"lock.backend":                        "memory",
	"lock.ttl":                            "60s",
	"processors.card.timeout":             "20s",
	"processors.card.void_retries":        3,
	"processors.card.void_base_delay":     "200ms",
	"processors.card.credential_arg":      "card_token",
	"processors.braintree.timeout":        "20s",
	"processors.braintree.credential_arg": "payment_method_nonce",
	"processors.sandbox.credential_arg":   "payment_method_nonce",
	"worker.interval":                     "1m",
	"worker.stale_after":                  "10m",
	"worker.batch_size":                   100,
	"logger.level":                        "info",
	"logger.format":                       "json",
	"telemetry.service_name":              "ficmart-checkout",
}

func LoadConfig() (*Config, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		logger.Error("failed to load config defaults", "error", err)
		return nil, err
	}

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, envPrefix)),
			"__",
			".",
		)
	}), nil)
	if err != nil {
		logger.Error("failed to load environment variables", "error", err)
		return nil, err
	}

	mainConfig := &Config{}

	err = k.Unmarshal("", mainConfig)
	if err != nil {
		logger.Error("could not unmarshal main config", "error", err)
		return nil, err
	}

	validate := validator.New()

	err = validate.Struct(mainConfig)
	if err != nil {
		logger.Error("config validation failed", "error", err)
		return nil, err
	}

	return mainConfig, nil
}
