// Package config provides application configuration loaded from environment variables.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	App      AppConfig
	Log      LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	IdleTimeout  int // seconds
}

// DatabaseConfig holds database connection settings.
// When URL is set it wins over the discrete host/port fields.
type DatabaseConfig struct {
	Driver   string // postgres or sqlite
	URL      string
	Path     string // sqlite file
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	Debug    bool
	Seed     bool
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Dev           bool
	Migrations    bool
	SessionSecret string
	Currency      string
}

// LogConfig selects the zerolog output.
type LogConfig struct {
	Level  string
	Format string // json or console
}

// DSN returns the connection string handed to the gorm driver.
func (d DatabaseConfig) DSN() string {
	if d.Driver == "sqlite" {
		return d.Path
	}
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// Load reads configuration from the environment (and an optional .env file).
// It uses sensible defaults for local development.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         str(k, "PORT", "8080"),
			ReadTimeout:  integer(k, "SERVER_READ_TIMEOUT", 15),
			WriteTimeout: integer(k, "SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  integer(k, "SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			Driver:   strings.ToLower(str(k, "DB_DRIVER", "postgres")),
			URL:      strings.Trim(strings.TrimSpace(k.String("DATABASE_DSN")), "\"'"),
			Path:     str(k, "DB_PATH", "gestion.db"),
			Host:     str(k, "DB_HOST", "localhost"),
			Port:     integer(k, "DB_PORT", 5432),
			User:     str(k, "DB_USER", "gestion"),
			Password: str(k, "DB_PASSWORD", "gestion123"),
			DBName:   str(k, "DB_NAME", "gestion"),
			SSLMode:  str(k, "DB_SSLMODE", "disable"),
			Debug:    boolean(k, "DB_DEBUG", false),
			Seed:     boolean(k, "DB_SEED", false),
		},
		App: AppConfig{
			Dev:           boolean(k, "DEV", true),
			Migrations:    boolean(k, "MIGRATIONS", false),
			SessionSecret: str(k, "SESSION_SECRET", "devsessionsecret"),
			Currency:      str(k, "APP_CURRENCY", "FCFA"),
		},
		Log: LogConfig{
			Level:  str(k, "LOG_LEVEL", "info"),
			Format: str(k, "LOG_FORMAT", "json"),
		},
	}

	switch cfg.Database.Driver {
	case "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Database.Driver)
	}
	if !cfg.App.Dev && cfg.App.SessionSecret == "devsessionsecret" {
		return nil, fmt.Errorf("SESSION_SECRET is required outside dev mode")
	}
	return cfg, nil
}

func str(k *koanf.Koanf, key, def string) string {
	if v := strings.TrimSpace(k.String(key)); v != "" {
		return v
	}
	return def
}

func integer(k *koanf.Koanf, key string, def int) int {
	if v := strings.TrimSpace(k.String(key)); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

// boolean accepts "1", "true", "yes" as true; any other non-empty value is false.
func boolean(k *koanf.Koanf, key string, def bool) bool {
	v := strings.ToLower(strings.TrimSpace(k.String(key)))
	if v == "" {
		return def
	}
	return v == "1" || v == "true" || v == "yes"
}
