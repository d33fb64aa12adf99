package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	HTTPPort               string        `mapstructure:"http_port"`
	ReadTimeoutSeconds     int64         `mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds    int64         `mapstructure:"write_timeout_seconds"`
	ShutdownTimeoutSeconds int64         `mapstructure:"shutdown_timeout_seconds"`
	ReadTimeout            time.Duration `mapstructure:"-"`
	WriteTimeout           time.Duration `mapstructure:"-"`
	ShutdownTimeout        time.Duration `mapstructure:"-"`

	StorageType string `mapstructure:"storage_type"`
	BBoltPath   string `mapstructure:"bbolt_path"`

	NitterInstanceURL   string        `mapstructure:"nitter_instance_url"`
	FetchTimeoutSeconds int64         `mapstructure:"fetch_timeout_seconds"`
	FetchTimeout        time.Duration `mapstructure:"-"`

	// PublishersFile is optional; empty means outcome events are not published.
	PublishersFile string `mapstructure:"publishers_file"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "samprochar-tweet-resolver")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("http_port", "8080")
	v.SetDefault("read_timeout_seconds", 15)
	// Batch runs are synchronous and unbounded, so the write timeout has to
	// cover the slowest full scan we are prepared to serve.
	v.SetDefault("write_timeout_seconds", 600)
	v.SetDefault("shutdown_timeout_seconds", 10)
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/tweets.db")
	v.SetDefault("nitter_instance_url", "http://localhost:8081")
	v.SetDefault("fetch_timeout_seconds", 30)
	v.SetDefault("publishers_file", "")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if strings.TrimSpace(cfg.HTTPPort) == "" {
		return nil, fmt.Errorf("invalid http_port (must not be empty)")
	}
	if strings.TrimSpace(cfg.NitterInstanceURL) == "" {
		return nil, fmt.Errorf("invalid nitter_instance_url (must not be empty)")
	}
	if cfg.ReadTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid read_timeout_seconds (must be positive seconds)")
	}
	if cfg.WriteTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid write_timeout_seconds (must be positive seconds)")
	}
	if cfg.ShutdownTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid shutdown_timeout_seconds (must be positive seconds)")
	}
	if cfg.FetchTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid fetch_timeout_seconds (must be positive seconds)")
	}
	cfg.ReadTimeout = time.Duration(cfg.ReadTimeoutSeconds) * time.Second
	cfg.WriteTimeout = time.Duration(cfg.WriteTimeoutSeconds) * time.Second
	cfg.ShutdownTimeout = time.Duration(cfg.ShutdownTimeoutSeconds) * time.Second
	cfg.FetchTimeout = time.Duration(cfg.FetchTimeoutSeconds) * time.Second

	return &cfg, nil
}
