package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// DefaultSessionSecret is only acceptable outside production.
const DefaultSessionSecret = "default_session_secret_change_in_production"

// Config holds all configuration for the console.
// Values come from config.yaml when present; environment variables override them.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	API      APIConfig      `yaml:"api"`
	Session  SessionConfig  `yaml:"session"`
	Drafts   DraftConfig    `yaml:"drafts"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
}

type ServerConfig struct {
	Port string `yaml:"port" env:"APP_PORT" env-default:"8080"`
	Env  string `yaml:"env" env:"APP_ENV" env-default:"development"`
}

// APIConfig points at the remote habitability API.
type APIConfig struct {
	BaseURL string `yaml:"base_url" env:"API_BASE_URL" env-default:"https://localhost:8081/api"`
	// InsecureSkipVerify accepts the self-signed certificate of a local API.
	InsecureSkipVerify bool `yaml:"insecure_skip_verify" env:"API_INSECURE_SKIP_VERIFY" env-default:"false"`
}

// SessionConfig controls where each browser's durable state lives.
type SessionConfig struct {
	Secret string `yaml:"-" env:"SESSION_SECRET" env-default:"default_session_secret_change_in_production"`
	// Storage is one of cookie, memory, postgres.
	Storage      string `yaml:"storage" env:"SESSION_STORAGE" env-default:"cookie"`
	SecureCookie bool   `yaml:"secure_cookie" env:"SESSION_SECURE_COOKIE" env-default:"false"`
	// MaxAgeDays bounds the lifetime of the storage cookies.
	MaxAgeDays int `yaml:"max_age_days" env:"SESSION_MAX_AGE_DAYS" env-default:"30"`
}

// DraftConfig controls where unsaved planet edits are staged.
type DraftConfig struct {
	// Store is one of memory, redis.
	Store string        `yaml:"store" env:"DRAFT_STORE" env-default:"memory"`
	TTL   time.Duration `yaml:"ttl" env:"DRAFT_TTL" env-default:"24h"`
}

type DatabaseConfig struct {
	Host           string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User           string `yaml:"user" env:"DB_USER" env-default:"postgres"`
	Password       string `yaml:"-" env:"DB_PASSWORD"`
	Name           string `yaml:"name" env:"DB_NAME" env-default:"habitat"`
	SSLMode        string `yaml:"ssl_mode" env:"DB_SSL_MODE" env-default:"disable"`
	MaxConnections int    `yaml:"max_connections" env:"DB_MAX_CONNECTIONS" env-default:"10"`
	MaxIdleConns   int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" env-default:"2"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `yaml:"-" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

// Load reads path (when it exists) with environment overrides, or the
// environment alone.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")
	return cfg, nil
}

func (c *Config) validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api base url %q is not absolute", c.API.BaseURL)
	}

	switch c.Session.Storage {
	case "cookie", "memory", "postgres":
	default:
		return fmt.Errorf("unknown session storage %q", c.Session.Storage)
	}

	switch c.Drafts.Store {
	case "memory", "redis":
	default:
		return fmt.Errorf("unknown draft store %q", c.Drafts.Store)
	}

	if c.IsProduction() && c.Session.Secret == DefaultSessionSecret {
		return errors.New("SESSION_SECRET must be set in production")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// UsesDefaultSecret reports whether cookies are signed with the built-in secret.
func (c *Config) UsesDefaultSecret() bool {
	return c.Session.Secret == DefaultSessionSecret
}

// ConnectionString returns a lib/pq connection string.
func (d DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}
