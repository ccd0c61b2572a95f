package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/camtap/internal/buffers"
	"github.com/ppiankov/camtap/internal/cli"
	"github.com/ppiankov/camtap/internal/syslog"
)

func newLogsCmd() *cobra.Command {
	var (
		levelStr   string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Fetch and print the device system log",
		Long:  "Fetch the system log over VAPIX and print it oldest entry first, one line per entry.",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			applyConfigDefaults(cmd)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogs(os.Stdout, levelStr, jsonOutput)
		},
	}

	cmd.Flags().StringVar(&levelStr, "level", "", "minimum severity (emergency, alert, critical, error, warning, notice, info, debug)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output entries as JSON lines")

	return cmd
}

func runLogs(out io.Writer, levelStr string, jsonOutput bool) error {
	device, err := newDevice()
	if err != nil {
		return err
	}

	keep := func(syslog.Entry) bool { return true }
	if levelStr != "" {
		level, ok := syslog.ParseLevel(levelStr)
		if !ok {
			return cli.NewUsageError(fmt.Sprintf("unknown level %q", levelStr))
		}
		keep = buffers.AtLeast(level)
	}

	ctx, cancel := deviceContext()
	defer cancel()

	entries, err := device.SystemLog(ctx)
	if err != nil {
		return cli.Classify(fmt.Errorf("fetch system log: %w", err))
	}

	ordered, errs := entries.Chronological()
	enc := json.NewEncoder(out)
	for _, e := range ordered {
		if !keep(e) {
			continue
		}
		if jsonOutput {
			if err := enc.Encode(e); err != nil {
				return err
			}
			continue
		}
		_, _ = fmt.Fprintln(out, formatEntry(e))
	}

	if len(errs) > 0 {
		_, _ = fmt.Fprintf(os.Stderr, "skipped %d unparseable lines\n", len(errs))
	}
	return nil
}

func formatEntry(e syslog.Entry) string {
	line := e.Timestamp.String()
	if e.Hostname != "" {
		line += " " + e.Hostname
	}
	line += fmt.Sprintf(" %-9s ", e.Level)
	if !e.Source.IsZero() {
		line += e.Source.String() + ": "
	}
	return line + e.Message
}
