package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `device:
  url: "https://192.168.0.90"
  username: viewer
  password: hunter2
  insecure: true
export:
  format: parquet
cloud:
  url: "s3://camera-logs/site-a"
  expiry: "30m"
serve:
  listen: ":9902"
  interval: "15s"
  ring_size: 5000
defaults:
  timeout: "60s"
  verbose: true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Device.URL != "https://192.168.0.90" {
		t.Errorf("Device.URL = %q", cfg.Device.URL)
	}
	if cfg.Device.Username != "viewer" {
		t.Errorf("Device.Username = %q", cfg.Device.Username)
	}
	if cfg.Device.Password != "hunter2" {
		t.Errorf("Device.Password = %q", cfg.Device.Password)
	}
	if !cfg.Device.Insecure {
		t.Error("Device.Insecure should be true")
	}
	if cfg.Export.Format != "parquet" {
		t.Errorf("Export.Format = %q", cfg.Export.Format)
	}
	if cfg.Cloud.URL != "s3://camera-logs/site-a" {
		t.Errorf("Cloud.URL = %q", cfg.Cloud.URL)
	}
	if cfg.Serve.Listen != ":9902" {
		t.Errorf("Serve.Listen = %q", cfg.Serve.Listen)
	}
	if cfg.Serve.Interval != "15s" {
		t.Errorf("Serve.Interval = %q", cfg.Serve.Interval)
	}
	if cfg.Serve.RingSize != 5000 {
		t.Errorf("Serve.RingSize = %d", cfg.Serve.RingSize)
	}
	if cfg.Defaults.Timeout != "60s" {
		t.Errorf("Defaults.Timeout = %q", cfg.Defaults.Timeout)
	}
	if !cfg.Defaults.Verbose {
		t.Error("Defaults.Verbose should be true")
	}
}

func TestLoadFromMissingFile(t *testing.T) {
	_, err := LoadFrom("/nonexistent/config.yaml")
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestEnvOverridesConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `device:
  url: "http://from-config"
  username: configuser
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("CAMTAP_DEVICE_URL", "http://from-env")
	t.Setenv("CAMTAP_USERNAME", "envuser")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Device.URL != "http://from-env" {
		t.Errorf("Device.URL = %q, want env override", cfg.Device.URL)
	}
	if cfg.Device.Username != "envuser" {
		t.Errorf("Device.Username = %q, want env override", cfg.Device.Username)
	}
}

func TestEnvBooleans(t *testing.T) {
	for _, tt := range []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"TRUE", true},
		{"1", true},
		{"false", false},
		{"0", false},
	} {
		t.Setenv("CAMTAP_INSECURE", tt.value)
		cfg := &Config{}
		applyEnv(cfg)
		if cfg.Device.Insecure != tt.want {
			t.Errorf("CAMTAP_INSECURE=%s: Insecure = %v, want %v", tt.value, cfg.Device.Insecure, tt.want)
		}
	}
}

func TestAllEnvVars(t *testing.T) {
	t.Setenv("CAMTAP_DEVICE_URL", "http://cam")
	t.Setenv("CAMTAP_USERNAME", "u")
	t.Setenv("CAMTAP_PASSWORD", "p")
	t.Setenv("CAMTAP_EXPORT_FORMAT", "csv")
	t.Setenv("CAMTAP_EXPORT_COMPRESS", "1")
	t.Setenv("CAMTAP_CLOUD_URL", "gs://bucket")
	t.Setenv("CAMTAP_CLOUD_EXPIRY", "1h")
	t.Setenv("CAMTAP_SERVE_LISTEN", ":1111")
	t.Setenv("CAMTAP_SERVE_INTERVAL", "30s")
	t.Setenv("CAMTAP_TIMEOUT", "120s")
	t.Setenv("CAMTAP_VERBOSE", "true")

	cfg := &Config{}
	applyEnv(cfg)

	if cfg.Device.URL != "http://cam" {
		t.Errorf("Device.URL = %q", cfg.Device.URL)
	}
	if cfg.Device.Username != "u" || cfg.Device.Password != "p" {
		t.Errorf("credentials = %q/%q", cfg.Device.Username, cfg.Device.Password)
	}
	if cfg.Export.Format != "csv" {
		t.Errorf("Export.Format = %q", cfg.Export.Format)
	}
	if !cfg.Export.Compress {
		t.Error("Export.Compress should be true")
	}
	if cfg.Cloud.URL != "gs://bucket" {
		t.Errorf("Cloud.URL = %q", cfg.Cloud.URL)
	}
	if cfg.Cloud.Expiry != "1h" {
		t.Errorf("Cloud.Expiry = %q", cfg.Cloud.Expiry)
	}
	if cfg.Serve.Listen != ":1111" {
		t.Errorf("Serve.Listen = %q", cfg.Serve.Listen)
	}
	if cfg.Serve.Interval != "30s" {
		t.Errorf("Serve.Interval = %q", cfg.Serve.Interval)
	}
	if cfg.Defaults.Timeout != "120s" {
		t.Errorf("Defaults.Timeout = %q", cfg.Defaults.Timeout)
	}
	if !cfg.Defaults.Verbose {
		t.Error("Defaults.Verbose should be true")
	}
}

func TestPartialConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `serve:
  listen: ":8080"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Serve.Listen != ":8080" {
		t.Errorf("Serve.Listen = %q", cfg.Serve.Listen)
	}
	if cfg.Device.URL != "" {
		t.Errorf("Device.URL = %q, want empty", cfg.Device.URL)
	}
	if cfg.Export.Format != "" {
		t.Errorf("Export.Format = %q, want empty", cfg.Export.Format)
	}
}
