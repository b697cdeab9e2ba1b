package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"lanwatch/internal/validator"
)

// Config represents the complete service configuration
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Scan   ScanConfig   `mapstructure:"scan"`
	Notify NotifyConfig `mapstructure:"notify"`
	Log    LogConfig    `mapstructure:"log"`
}

// ServerConfig represents the HTTP server configuration
type ServerConfig struct {
	Address      string        `mapstructure:"address"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	StaticDir    string        `mapstructure:"static_dir"`
	CORS         CORSConfig    `mapstructure:"cors"`
}

// CORSConfig represents the CORS configuration
type CORSConfig struct {
	Enabled        bool     `mapstructure:"enabled"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

// ScanConfig represents the discovery engine configuration.
// All values are read once at startup and immutable afterwards.
type ScanConfig struct {
	Interval      time.Duration `mapstructure:"interval"`
	ProbeTimeout  time.Duration `mapstructure:"probe_timeout"`
	LookupTimeout time.Duration `mapstructure:"lookup_timeout"`
	Concurrency   int           `mapstructure:"concurrency" validate:"min=0,max=1024"`
	PrefixLen     int           `mapstructure:"prefix_len" validate:"omitempty,min=16,max=30"`
	SourceIP      string        `mapstructure:"source_ip" validate:"ipv4_addr"`
}

// NotifyConfig represents the notification configuration
type NotifyConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Webhook WebhookConfig `mapstructure:"webhook"`
}

// WebhookConfig represents the webhook notification configuration
type WebhookConfig struct {
	Enabled    bool              `mapstructure:"enabled"`
	URL        string            `mapstructure:"url" validate:"omitempty,url"`
	Secret     string            `mapstructure:"secret"`
	Timeout    time.Duration     `mapstructure:"timeout"`
	MaxRetries int               `mapstructure:"max_retries"`
	Headers    map[string]string `mapstructure:"headers"`
}

// LogConfig represents the logging configuration
type LogConfig struct {
	Level      string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"` // MB
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"` // days
	Compress   bool   `mapstructure:"compress"`
}

// LoadConfig loads configuration from file. An empty path falls back to
// a lanwatch.yaml search in the working directory and /etc/lanwatch;
// a missing file yields the built-in defaults.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("lanwatch")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/lanwatch")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	setDefaults(&config)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default values for configuration
func setDefaults(config *Config) {
	if config.Server.Address == "" {
		config.Server.Address = ":8000"
	}

	if config.Server.ReadTimeout == 0 {
		config.Server.ReadTimeout = 30 * time.Second
	}

	if config.Server.WriteTimeout == 0 {
		config.Server.WriteTimeout = 30 * time.Second
	}

	if config.Server.IdleTimeout == 0 {
		config.Server.IdleTimeout = 60 * time.Second
	}

	if config.Scan.Interval == 0 {
		config.Scan.Interval = 30 * time.Second
	}

	if config.Scan.ProbeTimeout == 0 {
		config.Scan.ProbeTimeout = 800 * time.Millisecond
	}

	if config.Scan.LookupTimeout == 0 {
		config.Scan.LookupTimeout = 500 * time.Millisecond
	}

	if config.Scan.Concurrency == 0 {
		config.Scan.Concurrency = 32
	}

	if config.Scan.PrefixLen == 0 {
		config.Scan.PrefixLen = 24
	}

	if config.Notify.Webhook.Timeout == 0 {
		config.Notify.Webhook.Timeout = 10 * time.Second
	}

	if config.Notify.Webhook.MaxRetries == 0 {
		config.Notify.Webhook.MaxRetries = 2
	}

	if config.Log.Level == "" {
		config.Log.Level = "info"
	}

	if config.Log.MaxSize == 0 {
		config.Log.MaxSize = 100
	}

	if config.Log.MaxBackups == 0 {
		config.Log.MaxBackups = 3
	}

	if config.Log.MaxAge == 0 {
		config.Log.MaxAge = 28
	}

	if len(config.Server.CORS.AllowedMethods) == 0 {
		config.Server.CORS.AllowedMethods = []string{
			"GET", "POST", "OPTIONS",
		}
	}

	if len(config.Server.CORS.AllowedHeaders) == 0 {
		config.Server.CORS.AllowedHeaders = []string{
			"Content-Type", "X-Request-ID",
		}
	}
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	if err := validator.New().Struct(config); err != nil {
		return err
	}

	if config.Scan.Interval < time.Second {
		return fmt.Errorf("scan interval must be at least 1s, got %s", config.Scan.Interval)
	}

	if config.Scan.ProbeTimeout <= 0 || config.Scan.ProbeTimeout > config.Scan.Interval {
		return fmt.Errorf("probe timeout must be positive and below the scan interval")
	}

	if config.Notify.Enabled && config.Notify.Webhook.Enabled && config.Notify.Webhook.URL == "" {
		return fmt.Errorf("webhook URL is required when webhook notifications are enabled")
	}

	return nil
}
