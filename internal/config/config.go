package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds persistent defaults loaded from config files.
type Config struct {
	Device   DeviceConfig   `yaml:"device"`
	Export   ExportConfig   `yaml:"export"`
	Cloud    CloudConfig    `yaml:"cloud"`
	Serve    ServeConfig    `yaml:"serve"`
	Defaults DefaultsConfig `yaml:"defaults"`
}

// DeviceConfig holds camera connection defaults.
type DeviceConfig struct {
	URL      string `yaml:"url"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Insecure bool   `yaml:"insecure"`
}

// ExportConfig holds export defaults.
type ExportConfig struct {
	Format   string `yaml:"format"`
	Compress bool   `yaml:"compress"`
}

// CloudConfig holds upload defaults.
type CloudConfig struct {
	URL    string `yaml:"url"`
	Expiry string `yaml:"expiry"`
}

// ServeConfig holds exporter defaults.
type ServeConfig struct {
	Listen   string `yaml:"listen"`
	Interval string `yaml:"interval"`
	RingSize int    `yaml:"ring_size"`
}

// DefaultsConfig holds global defaults.
type DefaultsConfig struct {
	Timeout string `yaml:"timeout"`
	Verbose bool   `yaml:"verbose"`
}

// Load reads config from ~/.camtap/config.yaml then CWD .camtap.yaml.
// CWD config values override home config. Missing files are not errors.
// Environment variables (CAMTAP_*) override config file values.
func Load() *Config {
	cfg := &Config{}

	// home config
	if home, err := os.UserHomeDir(); err == nil {
		_ = loadFile(filepath.Join(home, ".camtap", "config.yaml"), cfg)
	}

	// CWD config overrides
	_ = loadFile(".camtap.yaml", cfg)

	// env overrides
	applyEnv(cfg)

	return cfg
}

// LoadFrom reads config from a specific path. Used for testing.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}
	if err := loadFile(path, cfg); err != nil {
		return nil, err
	}
	applyEnv(cfg)
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("CAMTAP_DEVICE_URL"); v != "" {
		cfg.Device.URL = v
	}
	if v := os.Getenv("CAMTAP_USERNAME"); v != "" {
		cfg.Device.Username = v
	}
	if v := os.Getenv("CAMTAP_PASSWORD"); v != "" {
		cfg.Device.Password = v
	}
	if v := os.Getenv("CAMTAP_INSECURE"); v != "" {
		cfg.Device.Insecure = isTrue(v)
	}
	if v := os.Getenv("CAMTAP_EXPORT_FORMAT"); v != "" {
		cfg.Export.Format = v
	}
	if v := os.Getenv("CAMTAP_EXPORT_COMPRESS"); v != "" {
		cfg.Export.Compress = isTrue(v)
	}
	if v := os.Getenv("CAMTAP_CLOUD_URL"); v != "" {
		cfg.Cloud.URL = v
	}
	if v := os.Getenv("CAMTAP_CLOUD_EXPIRY"); v != "" {
		cfg.Cloud.Expiry = v
	}
	if v := os.Getenv("CAMTAP_SERVE_LISTEN"); v != "" {
		cfg.Serve.Listen = v
	}
	if v := os.Getenv("CAMTAP_SERVE_INTERVAL"); v != "" {
		cfg.Serve.Interval = v
	}
	if v := os.Getenv("CAMTAP_TIMEOUT"); v != "" {
		cfg.Defaults.Timeout = v
	}
	if v := os.Getenv("CAMTAP_VERBOSE"); v != "" {
		cfg.Defaults.Verbose = isTrue(v)
	}
}

func isTrue(v string) bool {
	return strings.EqualFold(v, "true") || v == "1"
}
