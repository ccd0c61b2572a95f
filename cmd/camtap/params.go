package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/camtap/internal/cli"
)

func newParamsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "params",
		Short: "Read and write device parameters",
	}
	cmd.AddCommand(newParamsGetCmd())
	cmd.AddCommand(newParamsSetCmd())
	return cmd
}

func newParamsGetCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "get [group...]",
		Short: "List parameters, optionally restricted to groups",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			applyConfigDefaults(cmd)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParamsGet(args, jsonOutput)
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}

func runParamsGet(groups []string, jsonOutput bool) error {
	device, err := newDevice()
	if err != nil {
		return err
	}

	ctx, cancel := deviceContext()
	defer cancel()

	params, err := device.Parameters(ctx, groups...)
	if err != nil {
		return cli.Classify(fmt.Errorf("list parameters: %w", err))
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(params)
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("%s=%s\n", k, params[k])
	}
	return nil
}

func newParamsSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set key=value [key=value...]",
		Short: "Update device parameters",
		Args:  cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			applyConfigDefaults(cmd)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParamsSet(args)
		},
	}
	return cmd
}

func runParamsSet(args []string) error {
	device, err := newDevice()
	if err != nil {
		return err
	}

	params := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return cli.NewUsageError(fmt.Sprintf("expected key=value, got %q", arg))
		}
		params[key] = value
	}

	ctx, cancel := deviceContext()
	defer cancel()

	if err := device.UpdateParameters(ctx, params); err != nil {
		return cli.Classify(fmt.Errorf("update parameters: %w", err))
	}

	_, _ = fmt.Fprintf(os.Stderr, "Updated %d parameters\n", len(params))
	return nil
}
