package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig encapsulates all runtime configuration knobs.
type AppConfig struct {
	App        AppSettings
	HTTP       HTTPSettings
	Auth       AuthSettings
	Log        LogSettings
	Database   DatabaseSettings
	Processing ProcessingSettings
	RateLimit  RateLimitSettings
	Cache      CacheSettings
}

type AppSettings struct {
	Name        string
	Version     string
	Environment string
}

type HTTPSettings struct {
	Port                int
	ReadTimeout         time.Duration
	WriteTimeout        time.Duration
	WriteTimeoutMassive time.Duration // Upload and report generation
	IdleTimeout         time.Duration
	ShutdownTimeout     time.Duration
}

type AuthSettings struct {
	Enabled     bool
	IssuerURI   string
	JWKSetURI   string
	ClockSkew   time.Duration
	BypassPaths []string
}

type LogSettings struct {
	Level string
}

type DatabaseSettings struct {
	Enabled         bool
	Host            string
	Port            int
	Database        string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnectTimeout  time.Duration
}

// ProcessingSettings bounds XML parsing and report generation.
type ProcessingSettings struct {
	WorkerPoolSize       int   // Parser workers per upload
	MaxConcurrentUploads int   // Uploads processed at the same time
	StrictDefault        bool  // Strict mode when the request does not say
	MaxUploadSize        int64 // Bytes
	MaxEntrySize         int64 // Bytes per XML inside the ZIP
	MaxDocuments         int   // Documents per ATS request
}

type RateLimitSettings struct {
	Enabled   bool
	RPS       float64
	Burst     int
	ClientTTL time.Duration
}

type CacheSettings struct {
	ReportTTL     time.Duration
	ReportCleanup time.Duration
}

// Load resolves the application configuration from environment variables.
// It first attempts to load variables from a .env file if it exists.
// Environment variables set in the system take precedence over .env file values.
func Load() (AppConfig, error) {
	_ = godotenv.Load()

	cfg := AppConfig{
		App: AppSettings{
			Name:        getEnv("APP_NAME", "sriats"),
			Version:     getEnv("APP_VERSION", "0.1.0"),
			Environment: getEnv("APP_ENV", "local"),
		},
		HTTP: HTTPSettings{
			Port:                getEnvAsInt("APP_PORT", 8080),
			ReadTimeout:         getEnvAsDuration("HTTP_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:        getEnvAsDuration("HTTP_WRITE_TIMEOUT", 30*time.Second),
			WriteTimeoutMassive: getEnvAsDuration("HTTP_WRITE_TIMEOUT_MASSIVE", 5*time.Minute),
			IdleTimeout:         getEnvAsDuration("HTTP_IDLE_TIMEOUT", 120*time.Second),
			ShutdownTimeout:     getEnvAsDuration("HTTP_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Auth: AuthSettings{
			Enabled:     getEnvAsBool("AUTH_ENABLED", false),
			IssuerURI:   strings.TrimSpace(os.Getenv("JWT_ISSUER_URI")),
			JWKSetURI:   strings.TrimSpace(os.Getenv("JWT_JWK_SET_URI")),
			ClockSkew:   getEnvAsDuration("AUTH_CLOCK_SKEW", 2*time.Minute),
			BypassPaths: getEnvAsCSV("AUTH_BYPASS_PATHS", []string{"/health"}),
		},
		Log: LogSettings{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseSettings{
			Enabled:         getEnvAsBool("DB_ENABLED", false),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			Database:        getEnv("DB_NAME", "sriats"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnectTimeout:  getEnvAsDuration("DB_CONNECT_TIMEOUT", 10*time.Second),
		},
		Processing: ProcessingSettings{
			WorkerPoolSize:       getEnvAsInt("PARSER_WORKER_POOL_SIZE", 8),
			MaxConcurrentUploads: getEnvAsInt("UPLOAD_MAX_CONCURRENT", 4),
			StrictDefault:        getEnvAsBool("PARSER_STRICT_DEFAULT", false),
			MaxUploadSize:        getEnvAsInt64("UPLOAD_MAX_FILE_SIZE", 50*1024*1024),
			MaxEntrySize:         getEnvAsInt64("UPLOAD_MAX_ENTRY_SIZE", 20*1024*1024),
			MaxDocuments:         getEnvAsInt("ATS_MAX_DOCUMENTS", 10000),
		},
		RateLimit: RateLimitSettings{
			Enabled:   getEnvAsBool("RATE_LIMIT_ENABLED", true),
			RPS:       getEnvAsFloat("RATE_LIMIT_RPS", 1),
			Burst:     getEnvAsInt("RATE_LIMIT_BURST", 10),
			ClientTTL: getEnvAsDuration("RATE_LIMIT_CLIENT_TTL", 10*time.Minute),
		},
		Cache: CacheSettings{
			ReportTTL:     getEnvAsDuration("REPORT_CACHE_TTL", 15*time.Minute),
			ReportCleanup: getEnvAsDuration("REPORT_CACHE_CLEANUP", 30*time.Minute),
		},
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c AppConfig) validate() error {
	p := c.Processing
	if p.WorkerPoolSize <= 0 || p.WorkerPoolSize > 256 {
		return errors.New("invalid config: PARSER_WORKER_POOL_SIZE must be between 1 and 256")
	}
	if p.MaxConcurrentUploads <= 0 {
		return errors.New("invalid config: UPLOAD_MAX_CONCURRENT must be greater than 0")
	}
	if p.MaxUploadSize <= 0 {
		return errors.New("invalid config: UPLOAD_MAX_FILE_SIZE must be greater than 0")
	}
	if p.MaxEntrySize <= 0 || p.MaxEntrySize > p.MaxUploadSize {
		return errors.New("invalid config: UPLOAD_MAX_ENTRY_SIZE must be between 1 and UPLOAD_MAX_FILE_SIZE")
	}
	if p.MaxDocuments <= 0 {
		return errors.New("invalid config: ATS_MAX_DOCUMENTS must be greater than 0")
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.RPS <= 0 {
			return errors.New("invalid config: RATE_LIMIT_RPS must be greater than 0")
		}
		if c.RateLimit.Burst <= 0 {
			return errors.New("invalid config: RATE_LIMIT_BURST must be greater than 0")
		}
	}

	if c.Cache.ReportTTL < 0 {
		return errors.New("invalid config: REPORT_CACHE_TTL cannot be negative")
	}

	if c.Auth.Enabled {
		if c.Auth.IssuerURI == "" {
			return errors.New("invalid config: JWT_ISSUER_URI is required when AUTH_ENABLED=true")
		}
		if c.Auth.JWKSetURI == "" {
			return errors.New("invalid config: JWT_JWK_SET_URI is required when AUTH_ENABLED=true")
		}
	}

	return nil
}

// Address returns the HTTP listen address in host:port form.
func (h HTTPSettings) Address() string {
	return fmt.Sprintf(":%d", h.Port)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsInt64(key string, fallback int64) int64 {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsCSV(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			values = append(values, trimmed)
		}
	}
	if len(values) == 0 {
		return fallback
	}
	return values
}
