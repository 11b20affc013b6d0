package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
)

const minSecretLen = 32

// Config holds application configuration loaded from environment variables.
// The value is built once at startup and treated as immutable afterwards.
type Config struct {
	AppName string
	Env     string // development, staging, production
	Port    string
	GinMode string

	// Database
	DatabaseURL   string
	DBMaxConns    int32
	DBMinConns    int32
	DBMaxConnLife time.Duration

	// Redis (rate limiting)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// JWT
	JWTSecret string
	JWTExpiry time.Duration

	// CORS
	ClientOrigin string

	// Rate limiting (global window; auth routes use a stricter fixed window)
	RateLimitWindow time.Duration
	RateLimitMax    int

	// Migrations
	MigrationsDir string

	// Mail pipeline
	RabbitMQURL        string
	RabbitMQEmailQueue string
	MailgunDomain      string
	MailgunAPIKey      string
	MailgunSender      string
	MailSendEnabled    bool

	// Debug metrics (/api/debug/vars)
	DebugMetricsEnabled bool

	// HTTP access log toggle (Gin logger)
	HTTPLogEnabled bool
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getbool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("invalid boolean for %s: %v, using default %v", key, err, def)
			return def
		}
		return b
	}
	return def
}

func getint(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("invalid int for %s: %v, using default %d", key, err, def)
			return def
		}
		return i
	}
	return def
}

func getdur(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("invalid duration for %s: %v, using default %v", key, err, def)
			return def
		}
		return d
	}
	return def
}

// Load reads configuration from environment variables and validates it.
// The process must not start when an error is returned.
func Load() (*Config, error) {
	cfg := &Config{
		AppName: getenv("APP_NAME", "fullstack-starter"),
		Env:     getenv("APP_ENV", "development"),
		Port:    getenv("PORT", "4000"),
		GinMode: getenv("GIN_MODE", "release"),

		DatabaseURL:   os.Getenv("DATABASE_URL"),
		DBMaxConns:    int32(getint("DB_MAX_CONNS", 10)),
		DBMinConns:    int32(getint("DB_MIN_CONNS", 2)),
		DBMaxConnLife: getdur("DB_MAX_CONN_LIFETIME", time.Hour),

		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       getint("REDIS_DB", 0),

		JWTSecret:    os.Getenv("JWT_SECRET"),
		JWTExpiry:    getdur("JWT_EXPIRES_IN", 24*time.Hour),
		ClientOrigin: os.Getenv("CLIENT_ORIGIN"),

		RateLimitWindow: getdur("RATE_LIMIT_WINDOW", 15*time.Minute),
		RateLimitMax:    getint("RATE_LIMIT_MAX", 100),

		MigrationsDir: getenv("MIGRATIONS_DIR", "migrations"),

		RabbitMQURL:        getenv("RABBITMQ_URL", ""),
		RabbitMQEmailQueue: getenv("RABBITMQ_EMAIL_QUEUE", "emails"),
		MailgunDomain:      getenv("MAILGUN_DOMAIN", ""),
		MailgunAPIKey:      getenv("MAILGUN_API_KEY", ""),
		MailgunSender:      getenv("MAILGUN_SENDER", ""),
		MailSendEnabled:    getbool("MAIL_SEND_ENABLED", false),

		DebugMetricsEnabled: getbool("DEBUG_METRICS_ENABLED", false),

		HTTPLogEnabled: getbool("HTTP_LOG_ENABLED", false),
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	} else if len(c.JWTSecret) < minSecretLen {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d characters", minSecretLen))
	}
	if c.ClientOrigin == "" {
		errs = append(errs, errors.New("CLIENT_ORIGIN is required"))
	}
	if c.JWTExpiry <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRES_IN must be positive"))
	}
	if c.RateLimitWindow <= 0 || c.RateLimitMax <= 0 {
		errs = append(errs, errors.New("rate limit window and max must be positive"))
	}
	return errors.Join(errs...)
}

// IsProduction reports whether the app runs with production hardening
// (no stack traces in responses).
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
