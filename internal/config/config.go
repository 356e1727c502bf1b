package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"blog-backend/internal/infrastructure/database"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Config holds the whole application configuration.
// It is populated from environment variables (optionally seeded from .env).
type Config struct {
	App      AppConfig
	Database *database.DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Log      LogConfig
	API      APIConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
	TimeZone    string // zone used to resolve calendar dates of published_date
	CORSOrigins []string
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret             string
	AccessTokenExpiry  int // minutes
	RefreshTokenExpiry int // hours
}

type LogConfig struct {
	Level string
	File  string // empty disables the rotating file writer
}

type APIConfig struct {
	PageSize         int
	LoginMaxAttempts int
	LoginLockout     time.Duration
}

// Load reads the configuration from environment variables.
// Every malformed value is reported, not only the first.
func Load() (*Config, error) {
	env := &envReader{}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Blog API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			TimeZone:    getEnv("APP_TIMEZONE", "UTC"),
			CORSOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Database: loadDatabase(env),
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       env.Int("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:             getEnv("JWT_SECRET", defaultJWTSecret),
			AccessTokenExpiry:  env.Int("JWT_ACCESS_EXPIRY", 15),  // 15 minutes
			RefreshTokenExpiry: env.Int("JWT_REFRESH_EXPIRY", 72), // 3 days
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
		API: APIConfig{
			PageSize:         env.Int("PAGE_SIZE", 10),
			LoginMaxAttempts: env.Int("LOGIN_MAX_ATTEMPTS", 5),
			LoginLockout:     env.Duration("LOGIN_LOCKOUT", 15*time.Minute),
		},
	}

	if err := env.Err(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadDatabase reads the Postgres connection and pool settings.
func loadDatabase(env *envReader) *database.DBConfig {
	return &database.DBConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     env.Int("DB_PORT", 5432),
		Username: getEnv("DB_USER", "blog"),
		Password: getEnv("DB_PASSWORD", ""),
		DBName:   getEnv("DB_NAME", "blog_dev"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),

		MaxConns:          int32(env.Int("DB_MAX_CONNECTIONS", 25)),
		MinConns:          int32(env.Int("DB_MIN_CONNECTIONS", 2)),
		MaxConnLifetime:   env.Duration("DB_MAX_CONN_LIFETIME", 5*time.Minute),
		MaxConnIdleTime:   env.Duration("DB_MAX_CONN_IDLE_TIME", time.Minute),
		HealthCheckPeriod: env.Duration("DB_HEALTH_CHECK_PERIOD", time.Minute),

		MaxRetries:     env.Int("DB_MAX_RETRIES", 5),
		RetryDelay:     env.Duration("DB_RETRY_DELAY", time.Second),
		ConnectTimeout: env.Duration("DB_CONNECT_TIMEOUT", 10*time.Second),

		AutoMigrate: env.Bool("DB_AUTO_MIGRATE", true),
	}
}

// Validate checks invariants that would otherwise surface as runtime failures.
func (c *Config) Validate() error {
	if c.API.PageSize < 1 {
		return fmt.Errorf("PAGE_SIZE must be positive, got %d", c.API.PageSize)
	}
	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("DB_MIN_CONNECTIONS (%d) exceeds DB_MAX_CONNECTIONS (%d)",
			c.Database.MinConns, c.Database.MaxConns)
	}
	if c.API.LoginMaxAttempts < 1 {
		return fmt.Errorf("LOGIN_MAX_ATTEMPTS must be positive, got %d", c.API.LoginMaxAttempts)
	}
	if _, err := time.LoadLocation(c.App.TimeZone); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE %q: %w", c.App.TimeZone, err)
	}

	if c.IsProduction() {
		if c.JWT.Secret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// AccessTokenTTL and RefreshTokenTTL convert the configured expiries to durations.
func (c JWTConfig) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenExpiry) * time.Minute
}

func (c JWTConfig) RefreshTokenTTL() time.Duration {
	return time.Duration(c.RefreshTokenExpiry) * time.Hour
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// envReader parses typed variables, collecting a failure per malformed key.
type envReader struct {
	errs []error
}

func (r *envReader) Int(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("invalid %s: %w", key, err))
		return defaultValue
	}
	return value
}

func (r *envReader) Bool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("invalid %s: %w", key, err))
		return defaultValue
	}
	return value
}

func (r *envReader) Duration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("invalid %s: %w", key, err))
		return defaultValue
	}
	return value
}

func (r *envReader) Err() error {
	return errors.Join(r.errs...)
}

func getEnvList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
