// Package config loads the application configuration.
// Values are layered: struct defaults, then an optional YAML file named by
// CONFIG_PATH, then environment variables (DB_HOST -> db.host).
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// PathEnvVar names the environment variable pointing at an optional YAML file.
const PathEnvVar = "CONFIG_PATH"

// Config is the root configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	DB        DBConfig        `koanf:"db"`
	Redis     RedisConfig     `koanf:"redis"`
	JWT       JWTConfig       `koanf:"jwt"`
	Media     MediaConfig     `koanf:"media"`
	Cache     CacheConfig     `koanf:"cache"`
	RateLimit RateLimitConfig `koanf:"ratelimit"`
	Log       LogConfig       `koanf:"log"`
}

type ServerConfig struct {
	Addr        string   `koanf:"addr"`
	CORSOrigins []string `koanf:"cors_origins"`
}

// DBConfig selects and configures the relational store.
// Driver is "postgres" or "sqlite"; Path is only used by sqlite.
type DBConfig struct {
	Driver        string        `koanf:"driver"`
	Host          string        `koanf:"host"`
	Port          string        `koanf:"port"`
	User          string        `koanf:"user"`
	Password      string        `koanf:"password"`
	Name          string        `koanf:"name"`
	SSLMode       string        `koanf:"sslmode"`
	Path          string        `koanf:"path"`
	RunMigrations bool          `koanf:"run_migrations"`
	ConnectWait   time.Duration `koanf:"connect_wait"`
}

type RedisConfig struct {
	Enabled  bool   `koanf:"enabled"`
	Host     string `koanf:"host"`
	Port     string `koanf:"port"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

type JWTConfig struct {
	Secret string        `koanf:"secret"`
	TTL    time.Duration `koanf:"ttl"`
}

// MediaConfig controls where uploaded images live and how they are served.
type MediaConfig struct {
	Root           string `koanf:"root"`
	URL            string `koanf:"url"`
	MaxUploadBytes int64  `koanf:"max_upload_bytes"`
}

type CacheConfig struct {
	TTL time.Duration `koanf:"ttl"`
}

type RateLimitConfig struct {
	RPS   float64 `koanf:"rps"`
	Burst int     `koanf:"burst"`
}

type LogConfig struct {
	Level string `koanf:"level"`
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":8080"},
		DB: DBConfig{
			Driver:      "postgres",
			Host:        "localhost",
			Port:        "5432",
			User:        "postgres",
			Name:        "recipe",
			SSLMode:     "disable",
			Path:        "./recipe.db",
			ConnectWait: 60 * time.Second,
		},
		Redis: RedisConfig{Host: "localhost", Port: "6379"},
		JWT:   JWTConfig{TTL: 7 * 24 * time.Hour},
		Media: MediaConfig{
			Root:           "./media",
			URL:            "/media",
			MaxUploadBytes: 10 << 20,
		},
		Cache:     CacheConfig{TTL: 5 * time.Minute},
		RateLimit: RateLimitConfig{RPS: 1, Burst: 5},
		Log:       LogConfig{Level: "info"},
	}
}

// sections lists the top-level keys environment variables may target.
var sections = map[string]bool{
	"server": true, "db": true, "redis": true, "jwt": true,
	"media": true, "cache": true, "ratelimit": true, "log": true,
}

// envKey maps DB_RUN_MIGRATIONS to db.run_migrations.
// Variables outside the known sections are ignored.
func envKey(s string) string {
	s = strings.ToLower(s)
	section, rest, ok := strings.Cut(s, "_")
	if !ok || !sections[section] {
		return ""
	}
	return section + "." + rest
}

// Load builds the configuration from defaults, the optional file and the environment.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaults(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := os.Getenv(PathEnvVar); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late at runtime.
func (c *Config) Validate() error {
	switch c.DB.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("db.driver must be postgres or sqlite, got %q", c.DB.Driver)
	}
	if c.Media.Root == "" {
		return fmt.Errorf("media.root must not be empty")
	}
	if !strings.HasPrefix(c.Media.URL, "/") {
		return fmt.Errorf("media.url must start with '/', got %q", c.Media.URL)
	}
	if c.Media.MaxUploadBytes <= 0 {
		return fmt.Errorf("media.max_upload_bytes must be positive")
	}
	if c.JWT.TTL <= 0 {
		return fmt.Errorf("jwt.ttl must be positive")
	}
	return nil
}

// RedisAddr returns host:port for the Redis client.
func (c *Config) RedisAddr() string {
	return c.Redis.Host + ":" + c.Redis.Port
}
