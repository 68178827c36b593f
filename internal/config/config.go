// Package config loads and validates bridge configuration via Viper.
package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/JakeFAU/sheetbridge/internal/taskservice"
)

// SupportedLocales lists the message catalogs the HTTP layer can serve.
var SupportedLocales = []string{"zh", "en"}

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Upstream  UpstreamConfig  `mapstructure:"upstream"`
	Upload    UploadConfig    `mapstructure:"upload"`
	Download  DownloadConfig  `mapstructure:"download"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Locale    string          `mapstructure:"locale"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port                  int    `mapstructure:"port"`
	RequestTimeoutSeconds int    `mapstructure:"request_timeout_seconds"`
	StaticDir             string `mapstructure:"static_dir"`
}

// UpstreamConfig points at the remote task service.
type UpstreamConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	UserAgent      string `mapstructure:"user_agent"`
}

// UploadConfig governs transient storage of uploaded workbooks.
type UploadConfig struct {
	Dir      string `mapstructure:"dir"`
	MaxBytes int64  `mapstructure:"max_bytes"`
	Field    string `mapstructure:"field"`
}

// DownloadConfig shapes generated result workbooks.
type DownloadConfig struct {
	FilenamePrefix string `mapstructure:"filename_prefix"`
	SheetName      string `mapstructure:"sheet_name"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool   `mapstructure:"development"`
	Level       string `mapstructure:"level"`
}

// TelemetryConfig toggles OpenTelemetry tracing.
type TelemetryConfig struct {
	ServiceName    string `mapstructure:"service_name"`
	TracingEnabled bool   `mapstructure:"tracing_enabled"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("BRIDGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.request_timeout_seconds", 60)
	v.SetDefault("server.static_dir", "public")
	v.SetDefault("upstream.base_url", "http://127.0.0.1:8000")
	v.SetDefault("upstream.timeout_seconds", 30)
	v.SetDefault("upstream.user_agent", "sheetbridge/0.1")
	v.SetDefault("upload.dir", "uploads")
	v.SetDefault("upload.max_bytes", 32<<20)
	v.SetDefault("upload.field", "file")
	v.SetDefault("download.filename_prefix", "carrefour_data_")
	v.SetDefault("download.sheet_name", "Results")
	v.SetDefault("logging.development", true)
	v.SetDefault("logging.level", "info")
	v.SetDefault("telemetry.service_name", "sheetbridge")
	v.SetDefault("telemetry.tracing_enabled", false)
	v.SetDefault("locale", "zh")
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Server.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("server.request_timeout_seconds must be > 0")
	}
	if strings.TrimSpace(c.Upstream.BaseURL) == "" {
		return fmt.Errorf("upstream.base_url is required")
	}
	if _, err := taskservice.ParseBaseURL(c.Upstream.BaseURL); err != nil {
		return fmt.Errorf("upstream.base_url: %w", err)
	}
	if c.Upstream.TimeoutSeconds <= 0 {
		return fmt.Errorf("upstream.timeout_seconds must be > 0")
	}
	if strings.TrimSpace(c.Upload.Dir) == "" {
		return fmt.Errorf("upload.dir is required")
	}
	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("upload.max_bytes must be > 0")
	}
	if strings.TrimSpace(c.Upload.Field) == "" {
		return fmt.Errorf("upload.field is required")
	}
	if !slices.Contains(SupportedLocales, c.Locale) {
		return fmt.Errorf("locale %q is not supported (want one of %v)", c.Locale, SupportedLocales)
	}
	return nil
}

// RequestTimeout is the per-request budget enforced by the HTTP server.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.Server.RequestTimeoutSeconds) * time.Second
}

// UpstreamTimeout bounds each call to the task service.
func (c Config) UpstreamTimeout() time.Duration {
	return time.Duration(c.Upstream.TimeoutSeconds) * time.Second
}
