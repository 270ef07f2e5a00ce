package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// Config is the process-wide configuration, read once at startup.
type Config struct {
	AppEnv   string
	Port     string
	LogLevel string
	Database DatabaseConfig
	Auth     AuthConfig
	Admin    AdminConfig
	// RabbitMQURL and RedisURL are optional; an empty value disables the
	// integration.
	RabbitMQURL     string
	RedisURL        string
	ProductCacheTTL time.Duration
}

type DatabaseConfig struct {
	Driver       string
	URL          string
	MaxOpenConns int
	MaxIdleConns int
}

type AuthConfig struct {
	JWTSecret  string
	BcryptCost int
}

// AdminConfig describes an administrator created at startup when it does not
// exist yet. Signup never grants the admin role.
type AdminConfig struct {
	Username string
	Email    string
	Password string
}

// Enabled reports whether an admin bootstrap was configured.
func (a AdminConfig) Enabled() bool {
	return a.Username != "" && a.Email != "" && a.Password != ""
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	return FromViper(v)
}

// FromViper builds a Config from v after applying defaults.
func FromViper(v *viper.Viper) (*Config, error) {
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DATABASE_DRIVER", "postgres")
	v.SetDefault("DATABASE_MAX_OPEN_CONNS", 25)
	v.SetDefault("DATABASE_MAX_IDLE_CONNS", 5)
	v.SetDefault("BCRYPT_COST", bcrypt.DefaultCost)
	v.SetDefault("PRODUCT_CACHE_TTL", 5*time.Minute)

	cfg := &Config{
		AppEnv:   v.GetString("APP_ENV"),
		Port:     v.GetString("APP_PORT"),
		LogLevel: v.GetString("LOG_LEVEL"),
		Database: DatabaseConfig{
			Driver:       strings.ToLower(v.GetString("DATABASE_DRIVER")),
			URL:          v.GetString("DATABASE_URL"),
			MaxOpenConns: v.GetInt("DATABASE_MAX_OPEN_CONNS"),
			MaxIdleConns: v.GetInt("DATABASE_MAX_IDLE_CONNS"),
		},
		Auth: AuthConfig{
			JWTSecret:  v.GetString("JWT_SECRET"),
			BcryptCost: v.GetInt("BCRYPT_COST"),
		},
		Admin: AdminConfig{
			Username: v.GetString("ADMIN_USERNAME"),
			Email:    v.GetString("ADMIN_EMAIL"),
			Password: v.GetString("ADMIN_PASSWORD"),
		},
		RabbitMQURL:     v.GetString("RABBITMQ_URL"),
		RedisURL:        v.GetString("REDIS_URL"),
		ProductCacheTTL: v.GetDuration("PRODUCT_CACHE_TTL"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var missing []string
	if c.Database.URL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.Auth.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.Database.Driver)
	}

	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	return nil
}

// IsDevelopment reports whether the app runs in development mode.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.AppEnv, "development")
}
