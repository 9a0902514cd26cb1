package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"bookstore-api/internal/infrastructure/database"
)

const minJWTKeyLength = 32

var (
	ErrMissingJWTKey   = errors.New("JWT_KEY must be set")
	ErrShortJWTKey     = fmt.Errorf("JWT_KEY must be at least %d bytes", minJWTKeyLength)
	ErrMissingIssuer   = errors.New("JWT_ISSUER must be set")
	ErrMissingAudience = errors.New("JWT_AUDIENCE must be set")
)

// Config is the whole application configuration, populated from environment variables.
type Config struct {
	App      AppConfig
	Database *database.DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Auth     AuthConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
	LogLevel    string
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type JWTConfig struct {
	Key      string
	Issuer   string
	Audience string
	Expiry   time.Duration
}

type AuthConfig struct {
	MaxLoginAttempts       int
	LoginLockout           time.Duration
	BootstrapAdminEmail    string
	BootstrapAdminPassword string
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	db, err := LoadDatabaseConfig()
	if err != nil {
		return nil, err
	}

	expiry, err := getEnvDuration("JWT_EXPIRY", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	lockout, err := getEnvDuration("LOGIN_LOCKOUT", 15*time.Minute)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Bookstore API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		Database: db,
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Key:      os.Getenv("JWT_KEY"),
			Issuer:   os.Getenv("JWT_ISSUER"),
			Audience: os.Getenv("JWT_AUDIENCE"),
			Expiry:   expiry,
		},
		Auth: AuthConfig{
			MaxLoginAttempts:       getEnvInt("LOGIN_MAX_ATTEMPTS", 5),
			LoginLockout:           lockout,
			BootstrapAdminEmail:    strings.TrimSpace(os.Getenv("BOOTSTRAP_ADMIN_EMAIL")),
			BootstrapAdminPassword: os.Getenv("BOOTSTRAP_ADMIN_PASSWORD"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	switch {
	case c.JWT.Key == "":
		return ErrMissingJWTKey
	case len(c.JWT.Key) < minJWTKeyLength:
		return ErrShortJWTKey
	case c.JWT.Issuer == "":
		return ErrMissingIssuer
	case c.JWT.Audience == "":
		return ErrMissingAudience
	}

	if c.JWT.Expiry <= 0 {
		return fmt.Errorf("JWT_EXPIRY must be positive, got %s", c.JWT.Expiry)
	}
	if c.Auth.MaxLoginAttempts < 1 {
		return fmt.Errorf("LOGIN_MAX_ATTEMPTS must be at least 1, got %d", c.Auth.MaxLoginAttempts)
	}
	if (c.Auth.BootstrapAdminEmail == "") != (c.Auth.BootstrapAdminPassword == "") {
		return errors.New("BOOTSTRAP_ADMIN_EMAIL and BOOTSTRAP_ADMIN_PASSWORD must be set together")
	}

	if c.App.Environment == "production" && c.Database.Password == "" {
		return errors.New("DB_PASSWORD must be set in production")
	}

	return nil
}

// IsDevelopment reports whether the app runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}
