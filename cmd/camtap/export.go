package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/camtap/internal/cli"
	"github.com/ppiankov/camtap/internal/export"
)

func newExportCmd() *cobra.Command {
	var (
		formatStr  string
		outPath    string
		compress   bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the system log to JSONL, CSV, or parquet",
		Long:  "Fetch the system log and convert it to a file format suitable for analytics tooling (DuckDB, pandas, BigQuery, etc.).",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			applyConfigDefaults(cmd)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(formatStr, outPath, compress, jsonOutput)
		},
	}

	cmd.Flags().StringVar(&formatStr, "format", "jsonl", "output format: jsonl, csv, parquet")
	cmd.Flags().StringVar(&outPath, "out", "", "output file path (required)")
	cmd.Flags().BoolVar(&compress, "compress", false, "zstd-compress jsonl or csv output")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output summary as JSON")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func runExport(formatStr, outPath string, compress, jsonOutput bool) error {
	device, err := newDevice()
	if err != nil {
		return err
	}

	format, err := export.ParseFormat(formatStr)
	if err != nil {
		return cli.NewUsageError(err.Error())
	}

	ctx, cancel := deviceContext()
	defer cancel()

	entries, err := device.SystemLog(ctx)
	if err != nil {
		return cli.Classify(fmt.Errorf("fetch system log: %w", err))
	}
	ordered, errs := entries.Chronological()

	w, err := export.NewWriter(outPath, format, compress)
	if err != nil {
		return err
	}
	for _, e := range ordered {
		if err := w.Write(e); err != nil {
			_ = w.Close()
			return fmt.Errorf("write %s: %w", outPath, err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close %s: %w", outPath, err)
	}

	info, err := os.Stat(outPath)
	if err != nil {
		return err
	}

	if jsonOutput {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"device":  device.Host(),
			"format":  formatStr,
			"output":  outPath,
			"entries": len(ordered),
			"skipped": len(errs),
			"bytes":   info.Size(),
		})
	}

	_, _ = fmt.Fprintf(os.Stderr, "Exported %d entries -> %s (%d bytes)\n", len(ordered), outPath, info.Size())
	if len(errs) > 0 {
		_, _ = fmt.Fprintf(os.Stderr, "skipped %d unparseable lines\n", len(errs))
	}
	return nil
}
