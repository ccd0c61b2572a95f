package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/ppiankov/camtap/internal/buffers"
	"github.com/ppiankov/camtap/internal/cli"
	"github.com/ppiankov/camtap/internal/exporter"
)

func newServeCmd() *cobra.Command {
	var (
		listen      string
		intervalStr string
		ringSize    int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Poll the device and expose Prometheus metrics",
		Long:  "Serve fetches the system log on an interval and exposes per-level entry counters on /metrics and the latest entries on /recent.",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			applyConfigDefaults(cmd)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(listen, intervalStr, ringSize)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", ":9902", "metrics listen address")
	cmd.Flags().StringVar(&intervalStr, "interval", "30s", "poll interval")
	cmd.Flags().IntVar(&ringSize, "ring-size", 0, "entries kept for /recent (0 = default)")

	return cmd
}

func runServe(listen, intervalStr string, ringSize int) error {
	device, err := newDevice()
	if err != nil {
		return err
	}

	interval, err := time.ParseDuration(intervalStr)
	if err != nil || interval <= 0 {
		return cli.NewUsageError(fmt.Sprintf("invalid --interval %q", intervalStr))
	}
	if ringSize == 0 && cfg != nil {
		ringSize = cfg.Serve.RingSize
	}

	reg := prometheus.NewRegistry()
	metrics := exporter.NewMetrics(reg)
	ring := buffers.NewEntryRing(ringSize)
	poller := exporter.NewPoller(device, interval, metrics, ring)
	srv := exporter.NewServer(listen, ring, reg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	go func() {
		_ = poller.Run(ctx)
	}()

	_, _ = fmt.Fprintf(os.Stderr, "camtap serve listening on %s, polling %s every %s\n",
		listen, device.Host(), interval)

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	_, _ = fmt.Fprintln(os.Stderr, "shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
	return nil
}
