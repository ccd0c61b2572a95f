package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/camtap/internal/cli"
	"github.com/ppiankov/camtap/internal/vapix"
)

const defaultTimeout = 30 * time.Second

// deviceContext returns a context with the configured timeout for device
// operations. The caller must call cancel when done.
func deviceContext() (context.Context, context.CancelFunc) {
	timeout := defaultTimeout

	// Flag overrides config
	if timeoutStr != "" {
		if d, err := time.ParseDuration(timeoutStr); err == nil {
			timeout = d
		}
	} else if cfg != nil && cfg.Defaults.Timeout != "" {
		if d, err := time.ParseDuration(cfg.Defaults.Timeout); err == nil {
			timeout = d
		}
	}

	return context.WithTimeout(context.Background(), timeout)
}

// applyConfigDefaults sets flag values from config when the flag
// was not explicitly set on the command line. Flags > env > config > defaults.
// The config package already handles env > config, so we just need to
// check if the flag was changed and apply config if not.
func applyConfigDefaults(cmd *cobra.Command) {
	if cfg == nil {
		return
	}

	setDefault := func(name, value string) {
		if value != "" && !cmd.Flags().Changed(name) {
			if f := cmd.Flags().Lookup(name); f != nil {
				_ = f.Value.Set(value)
			}
		}
	}

	setDefault("device", cfg.Device.URL)
	setDefault("username", cfg.Device.Username)
	setDefault("password", cfg.Device.Password)
	if cfg.Device.Insecure {
		setDefault("insecure", "true")
	}
	setDefault("format", cfg.Export.Format)
	if cfg.Export.Compress {
		setDefault("compress", "true")
	}
	setDefault("to", cfg.Cloud.URL)
	setDefault("expiry", cfg.Cloud.Expiry)
	setDefault("listen", cfg.Serve.Listen)
	setDefault("interval", cfg.Serve.Interval)
}

// newDevice builds the VAPIX client from flags and config. Config
// defaults were merged into the flag set by applyConfigDefaults in the
// command's PreRunE.
func newDevice() (*vapix.Device, error) {
	if deviceURL == "" {
		return nil, cli.NewUsageError("--device is required (or set device.url in ~/.camtap/config.yaml)")
	}

	var opts []vapix.Option
	if username != "" || password != "" {
		opts = append(opts, vapix.WithCredentials(username, password))
	}
	if insecure {
		opts = append(opts, vapix.WithInsecureTLS())
	}

	d, err := vapix.NewDevice(deviceURL, opts...)
	if err != nil {
		return nil, cli.NewUsageError(err.Error())
	}
	return d, nil
}
