package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/camtap/internal/cli"
	"github.com/ppiankov/camtap/internal/cloud"
	"github.com/ppiankov/camtap/internal/export"
)

func newUploadCmd() *cobra.Command {
	var (
		to         string
		formatStr  string
		compress   bool
		expiryStr  string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Export the system log and upload it to cloud storage",
		Long:  "Fetch the system log, export it to the chosen format, and upload the result to S3 or GCS under a per-device, per-capture key.",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			applyConfigDefaults(cmd)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpload(to, formatStr, compress, expiryStr, jsonOutput)
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "destination URL (s3://bucket/prefix or gs://bucket/prefix)")
	cmd.Flags().StringVar(&formatStr, "format", "jsonl", "output format: jsonl, csv, parquet")
	cmd.Flags().BoolVar(&compress, "compress", false, "zstd-compress jsonl or csv output")
	cmd.Flags().StringVar(&expiryStr, "expiry", "", "also print a presigned download URL valid this long (e.g. 30m)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output summary as JSON")

	return cmd
}

func runUpload(to, formatStr string, compress bool, expiryStr string, jsonOutput bool) error {
	device, err := newDevice()
	if err != nil {
		return err
	}
	if to == "" {
		return cli.NewUsageError("--to is required (or set cloud.url in ~/.camtap/config.yaml)")
	}

	format, err := export.ParseFormat(formatStr)
	if err != nil {
		return cli.NewUsageError(err.Error())
	}
	var expiry time.Duration
	if expiryStr != "" {
		expiry, err = time.ParseDuration(expiryStr)
		if err != nil || expiry <= 0 {
			return cli.NewUsageError(fmt.Sprintf("invalid --expiry %q", expiryStr))
		}
	}

	scheme, bucket, prefix, err := cloud.ParseURL(to)
	if err != nil {
		return cli.NewUsageError(fmt.Sprintf("invalid --to: %v", err))
	}

	ctx, cancel := deviceContext()
	defer cancel()

	backend, err := cloud.NewBackend(ctx, scheme, bucket)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", scheme, err)
	}

	entries, err := device.SystemLog(ctx)
	if err != nil {
		return cli.Classify(fmt.Errorf("fetch system log: %w", err))
	}
	ordered, _ := entries.Chronological()

	tmp, err := os.CreateTemp("", "camtap-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	_ = tmp.Close()
	defer func() { _ = os.Remove(tmpPath) }()

	w, err := export.NewWriter(tmpPath, format, compress)
	if err != nil {
		return err
	}
	for _, e := range ordered {
		if err := w.Write(e); err != nil {
			_ = w.Close()
			return fmt.Errorf("write export: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close export: %w", err)
	}

	ext := string(format)
	if compress && format != export.FormatParquet {
		ext += ".zst"
	}
	key := cloud.ObjectKey(prefix, device.Host(), entries.GeneratedAt(), ext)

	f, err := os.Open(tmpPath)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	info, err := f.Stat()
	if err != nil {
		return err
	}

	if err := backend.Upload(ctx, key, f, info.Size()); err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}

	var shareURL string
	if expiry > 0 {
		shareURL, err = backend.ShareURL(ctx, key, expiry)
		if err != nil {
			return fmt.Errorf("presign %s: %w", key, err)
		}
	}

	if jsonOutput {
		summary := map[string]any{
			"device":      device.Host(),
			"destination": fmt.Sprintf("%s://%s/%s", scheme, bucket, key),
			"entries":     len(ordered),
			"bytes":       info.Size(),
		}
		if shareURL != "" {
			summary["share_url"] = shareURL
		}
		return json.NewEncoder(os.Stdout).Encode(summary)
	}

	_, _ = fmt.Fprintf(os.Stderr, "Uploaded %d entries (%d bytes) -> %s://%s/%s\n",
		len(ordered), info.Size(), scheme, bucket, key)
	if shareURL != "" {
		_, _ = fmt.Fprintln(os.Stdout, shareURL)
	}
	return nil
}
