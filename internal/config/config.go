package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Outlay"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"outlay"`
		SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Log struct {
		Level  string `envconfig:"LOG_LEVEL" default:"info"`
		Format string `envconfig:"LOG_FORMAT" default:"text"`
	}

	Auth struct {
		Secret string        `envconfig:"JWT_SECRET" required:"true"`
		Expire time.Duration `envconfig:"JWT_EXPIRE" default:"168h"`
	}

	CORS struct {
		FrontendURL string `envconfig:"FRONTEND_URL" default:"http://localhost:3000"`
	}

	Currency struct {
		APIBase  string        `envconfig:"CURRENCY_API_BASE" default:"https://api.exchangerate-api.com/v4/latest"`
		CacheTTL time.Duration `envconfig:"CURRENCY_CACHE_TTL" default:"1h"`
		Timeout  time.Duration `envconfig:"CURRENCY_TIMEOUT" default:"10s"`
	}

	Receipt struct {
		ExtractorURL string        `envconfig:"RECEIPT_EXTRACTOR_URL"`
		ExtractorKey string        `envconfig:"RECEIPT_EXTRACTOR_KEY"`
		Timeout      time.Duration `envconfig:"RECEIPT_EXTRACTOR_TIMEOUT" default:"30s"`
		MaxSize      int64         `envconfig:"RECEIPT_MAX_SIZE" default:"10485760"`
	}

	Storage struct {
		Bucket        string `envconfig:"STORAGE_BUCKET"`
		PublicBaseURL string `envconfig:"STORAGE_PUBLIC_BASE_URL" default:"https://storage.googleapis.com"`
	}

	SMTP struct {
		Host     string `envconfig:"SMTP_HOST"`
		Port     int    `envconfig:"SMTP_PORT" default:"587"`
		User     string `envconfig:"SMTP_USER"`
		Password string `envconfig:"SMTP_PASSWORD"`
		From     string `envconfig:"SMTP_FROM" default:"no-reply@outlay.local"`
	}

	NATS struct {
		URL string `envconfig:"NATS_URL"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name, c.DB.SSLMode)
}

// LogHandler builds the slog handler selected by LOG_FORMAT and LOG_LEVEL.
func (c *Config) LogHandler() slog.Handler {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(c.Log.Format, "json") {
		return slog.NewJSONHandler(os.Stderr, opts)
	}

	return slog.NewTextHandler(os.Stderr, opts)
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
