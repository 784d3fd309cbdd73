package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	// LogFormat is "json" or "console"; empty picks json in production only.
	LogFormat string `env:"LOG_FORMAT"`

	Auth  AuthConfig
	Mongo MongoConfig
	Redis RedisConfig
	S3    S3Config
	Geo   GeoConfig
}

type AuthConfig struct {
	JWTSecret       string        `env:"JWT_SECRET, required"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL,  default=30m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL, default=168h"`
	// Revocation needs Redis; when disabled, logout only drops tokens client side.
	Revocation bool `env:"TOKEN_REVOCATION, default=true"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=fieldtask"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// S3Config is optional: photo upload is disabled while Bucket is empty.
type S3Config struct {
	Bucket          string `env:"S3_BUCKET"`
	Region          string `env:"S3_REGION, default=us-east-1"`
	Endpoint        string `env:"S3_ENDPOINT"`
	AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`
	PublicURL       string `env:"S3_PUBLIC_URL"`
}

type GeoConfig struct {
	FetchTimeout time.Duration `env:"GEO_FETCH_TIMEOUT, default=10s"`
}

// Production reports whether the service runs with ENV=production.
func (c *Config) Production() bool { return c.Env == "production" }

// PrettyLogs reports whether logs go to the human-readable console writer.
func (c *Config) PrettyLogs() bool {
	switch c.LogFormat {
	case "console":
		return true
	case "json":
		return false
	}
	return !c.Production()
}

// Load reads an optional .env file, then configuration from environment
// variables using go-envconfig. Variables already set win over .env entries.
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load()
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Auth.AccessTokenTTL <= 0 || c.Auth.RefreshTokenTTL <= 0 {
		return errors.New("token lifetimes must be positive")
	}
	if c.Auth.AccessTokenTTL > c.Auth.RefreshTokenTTL {
		return errors.New("ACCESS_TOKEN_TTL must not exceed REFRESH_TOKEN_TTL")
	}
	if c.LogFormat != "" && c.LogFormat != "json" && c.LogFormat != "console" {
		return fmt.Errorf("LOG_FORMAT %q must be json or console", c.LogFormat)
	}
	if c.Geo.FetchTimeout <= 0 {
		return errors.New("GEO_FETCH_TIMEOUT must be positive")
	}
	if (c.S3.AccessKeyID == "") != (c.S3.SecretAccessKey == "") {
		return errors.New("S3_ACCESS_KEY_ID and S3_SECRET_ACCESS_KEY must be set together")
	}
	return nil
}
