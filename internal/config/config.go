package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Feed drivers.
const (
	FeedMemory = "memory"
	FeedRedis  = "redis"
)

// Config defines server configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	DB       DBConfig       `yaml:"db"`
	Log      LogConfig      `yaml:"log"`
	Feed     FeedConfig     `yaml:"feed"`
	Confetti ConfettiConfig `yaml:"confetti"`
	MCP      MCPConfig      `yaml:"mcp"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

// FeedConfig selects the change feed broker.
type FeedConfig struct {
	Driver string      `yaml:"driver"`
	Redis  RedisConfig `yaml:"redis"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type ConfettiConfig struct {
	Retention     time.Duration `yaml:"retention"`
	PruneInterval time.Duration `yaml:"prune_interval"`
}

type MCPConfig struct {
	Enabled     bool `yaml:"enabled"`
	AuthEnabled bool `yaml:"auth_enabled"`
	// DevUserID acts for every MCP request when auth is disabled.
	DevUserID string `yaml:"dev_user_id"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "retroboard.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Feed: FeedConfig{
			Driver: FeedMemory,
			Redis: RedisConfig{
				Addr: "localhost:6379",
			},
		},
		Confetti: ConfettiConfig{
			Retention:     5 * time.Minute,
			PruneInterval: time.Minute,
		},
		MCP: MCPConfig{
			Enabled:     true,
			AuthEnabled: true,
		},
	}
}

// Load reads configuration from an optional .env file, an optional YAML
// file and environment variables, in that order of increasing precedence.
func Load() (Config, error) {
	if err := LoadDotEnv(".env"); err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()

	if path := os.Getenv("RETRO_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadDotEnv loads environment variables from a .env file if present.
// Existing environment variables are not overwritten.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

// Validate checks values that cannot be caught while parsing.
func (c Config) Validate() error {
	switch c.Feed.Driver {
	case FeedMemory, FeedRedis:
	default:
		return fmt.Errorf("invalid feed driver %q", c.Feed.Driver)
	}
	if c.Confetti.Retention <= 0 {
		return fmt.Errorf("confetti retention must be positive")
	}
	if c.Confetti.PruneInterval <= 0 {
		return fmt.Errorf("confetti prune interval must be positive")
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if host := os.Getenv("RETRO_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("RETRO_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid RETRO_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("RETRO_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("RETRO_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("RETRO_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	if driver := os.Getenv("RETRO_FEED_DRIVER"); driver != "" {
		cfg.Feed.Driver = driver
	}
	if addr := os.Getenv("RETRO_REDIS_ADDR"); addr != "" {
		cfg.Feed.Redis.Addr = addr
	}
	if password := os.Getenv("RETRO_REDIS_PASSWORD"); password != "" {
		cfg.Feed.Redis.Password = password
	}
	if dbStr := os.Getenv("RETRO_REDIS_DB"); dbStr != "" {
		db, err := strconv.Atoi(dbStr)
		if err != nil {
			return fmt.Errorf("invalid RETRO_REDIS_DB: %w", err)
		}
		cfg.Feed.Redis.DB = db
	}
	if raw := os.Getenv("RETRO_CONFETTI_RETENTION"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid RETRO_CONFETTI_RETENTION: %w", err)
		}
		cfg.Confetti.Retention = d
	}
	if raw := os.Getenv("RETRO_CONFETTI_PRUNE_INTERVAL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid RETRO_CONFETTI_PRUNE_INTERVAL: %w", err)
		}
		cfg.Confetti.PruneInterval = d
	}
	if raw := os.Getenv("RETRO_MCP_ENABLED"); raw != "" {
		enabled, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("invalid RETRO_MCP_ENABLED: %w", err)
		}
		cfg.MCP.Enabled = enabled
	}
	if raw := os.Getenv("RETRO_MCP_AUTH_ENABLED"); raw != "" {
		enabled, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("invalid RETRO_MCP_AUTH_ENABLED: %w", err)
		}
		cfg.MCP.AuthEnabled = enabled
	}
	if userID := os.Getenv("RETRO_MCP_DEV_USER_ID"); userID != "" {
		cfg.MCP.DevUserID = userID
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
