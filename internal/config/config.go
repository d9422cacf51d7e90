package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const devSessionSecret = "dev_session_secret_change_me"

// Config holds all configuration for the application
type Config struct {
	GinMode  string
	Port     string
	Database DatabaseConfig
	Session  SessionConfig
	Upload   UploadConfig
	Admin    AdminConfig
	Origins  []string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

func (d DatabaseConfig) DSN() string {
	return "postgres://" + d.User + ":" + d.Password + "@" + d.Host + ":" + d.Port + "/" + d.Name + "?sslmode=" + d.SSLMode
}

type SessionConfig struct {
	Secret        string
	IdleTimeout   time.Duration
	SweepSchedule string
}

type UploadConfig struct {
	Dir      string
	MaxBytes int64
}

// AdminConfig describes the administrator created on first startup.
type AdminConfig struct {
	Username string
	Email    string
	Password string
}

// Load reads configs/.env (when present) and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}
	return FromEnv()
}

// FromEnv builds the configuration from environment variables only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		GinMode: getEnv("GIN_MODE", "debug"),
		Port:    getEnv("PORT", "8080"),
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Name:     getEnv("DB_NAME", "postgres"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Session: SessionConfig{
			Secret:        os.Getenv("SESSION_SECRET"),
			SweepSchedule: getEnv("SESSION_SWEEP_SCHEDULE", "@every 1m"),
		},
		Upload: UploadConfig{
			Dir: getEnv("UPLOAD_DIR", "uploads/rapports"),
		},
		Admin: AdminConfig{
			Username: getEnv("ADMIN_USERNAME", "admin"),
			Email:    getEnv("ADMIN_EMAIL", "admin@sano-logistic.com"),
			Password: getEnv("ADMIN_PASSWORD", "adminSLC123$"),
		},
		Origins: splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
	}

	idle, err := time.ParseDuration(getEnv("SESSION_IDLE_TIMEOUT", "15m"))
	if err != nil || idle <= 0 {
		return nil, fmt.Errorf("invalid SESSION_IDLE_TIMEOUT: %q", os.Getenv("SESSION_IDLE_TIMEOUT"))
	}
	cfg.Session.IdleTimeout = idle

	maxBytes, err := strconv.ParseInt(getEnv("UPLOAD_MAX_BYTES", "16777216"), 10, 64)
	if err != nil || maxBytes <= 0 {
		return nil, fmt.Errorf("invalid UPLOAD_MAX_BYTES: %q", os.Getenv("UPLOAD_MAX_BYTES"))
	}
	cfg.Upload.MaxBytes = maxBytes

	if cfg.Session.Secret == "" {
		if cfg.IsRelease() {
			return nil, fmt.Errorf("SESSION_SECRET environment variable is required in release mode")
		}
		cfg.Session.Secret = devSessionSecret
	}

	return cfg, nil
}

func (c *Config) IsRelease() bool {
	return c.GinMode == "release"
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
