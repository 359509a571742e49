package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Store    StoreConfig    `yaml:"store"`
	Session  SessionConfig  `yaml:"session"`
	Limits   LimitsConfig   `yaml:"limits"`
	Display  DisplayConfig  `yaml:"display"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// DatabaseConfig holds the database connection configuration used by the gorm store backend.
type DatabaseConfig struct {
	Driver                 string `yaml:"driver"` // "sqlite" or "postgres"
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// StoreConfig selects where the entity collections are persisted.
type StoreConfig struct {
	Backend   string      `yaml:"backend"`    // "gorm" or "redis"
	OnCorrupt string      `yaml:"on_corrupt"` // "reset" or "fail"
	Redis     RedisConfig `yaml:"redis"`
}

// RedisConfig holds the redis connection used by the redis store backend.
type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

// SessionConfig controls the login session lifetime.
type SessionConfig struct {
	TTLMinutes int           `yaml:"ttl_minutes"`
	TTL        time.Duration `yaml:"-"`
	CookieName string        `yaml:"cookie_name"`
}

// LimitsConfig holds the maximum sizes of inline image payloads, in decoded bytes.
type LimitsConfig struct {
	OperatorPhotoBytes int `yaml:"operator_photo_bytes"`
	ReportImageBytes   int `yaml:"report_image_bytes"`
}

// DisplayConfig controls how dates are rendered.
type DisplayConfig struct {
	Timezone string `yaml:"timezone"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a configuration with every default applied, as if loaded from an empty file.
func Default() *Config {
	var cfg Config
	// Defaults alone are always valid.
	_ = cfg.applyDefaults()
	return &cfg
}

func (cfg *Config) applyDefaults() error {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 300
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.DSN == "" && cfg.Database.Driver == "sqlite" {
		cfg.Database.DSN = "file:opspanel.db"
	}

	if cfg.Store.Backend == "" {
		cfg.Store.Backend = "gorm"
	}
	switch cfg.Store.Backend {
	case "gorm", "redis":
	default:
		return fmt.Errorf("unsupported store backend: %q", cfg.Store.Backend)
	}
	if cfg.Store.OnCorrupt == "" {
		cfg.Store.OnCorrupt = "reset"
	}
	switch cfg.Store.OnCorrupt {
	case "reset", "fail":
	default:
		return fmt.Errorf("unsupported store.on_corrupt policy: %q", cfg.Store.OnCorrupt)
	}
	if cfg.Store.Redis.Addr == "" {
		cfg.Store.Redis.Addr = "localhost:6379"
	}
	if cfg.Store.Redis.KeyPrefix == "" {
		cfg.Store.Redis.KeyPrefix = "opspanel:"
	}

	if cfg.Session.TTLMinutes <= 0 {
		cfg.Session.TTLMinutes = 480
	}
	cfg.Session.TTL = time.Duration(cfg.Session.TTLMinutes) * time.Minute
	if cfg.Session.CookieName == "" {
		cfg.Session.CookieName = "opspanel_session"
	}

	if cfg.Limits.OperatorPhotoBytes <= 0 {
		cfg.Limits.OperatorPhotoBytes = 2 * 1024 * 1024
	}
	if cfg.Limits.ReportImageBytes <= 0 {
		cfg.Limits.ReportImageBytes = 5 * 1024 * 1024
	}

	if cfg.Display.Timezone == "" {
		cfg.Display.Timezone = "America/Mexico_City"
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	return nil
}
