package config

import (
	"strings"

	"github.com/marmos91/envstore/pkg/bootstrap"
	"github.com/marmos91/envstore/pkg/store"
)

// ApplyDefaults sets default values for any unspecified configuration fields.
//
// Zero values are replaced with defaults; explicit values are preserved.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyDatabaseDefaults(&cfg.Database)
	applyBootstrapDefaults(&cfg.Bootstrap)
	applyTelemetryDefaults(&cfg.Telemetry)
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stderr"
	}
}

func applyDatabaseDefaults(cfg *store.Config) {
	cfg.ApplyDefaults()
}

func applyBootstrapDefaults(cfg *BootstrapConfig) {
	if cfg.Path == "" {
		cfg.Path = bootstrap.DefaultPath
	}
}

func applyTelemetryDefaults(cfg *TelemetryConfig) {
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 1.0
	}
}

// GetDefaultConfig returns a Config with all defaults applied.
func GetDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
