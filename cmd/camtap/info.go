package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/camtap/internal/cli"
	"github.com/ppiankov/camtap/internal/vapix"
)

func newInfoCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show device properties and supported APIs",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			applyConfigDefaults(cmd)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(jsonOutput)
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}

func runInfo(jsonOutput bool) error {
	device, err := newDevice()
	if err != nil {
		return err
	}

	ctx, cancel := deviceContext()
	defer cancel()

	props, err := device.DeviceInfo(ctx)
	if err != nil {
		return cli.Classify(fmt.Errorf("device info: %w", err))
	}

	// Older firmware has no API discovery; the property list still stands
	// on its own.
	services, err := device.Services(ctx)
	if err != nil && !errors.Is(err, vapix.ErrUnsupportedFeature) {
		return cli.Classify(fmt.Errorf("list services: %w", err))
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"properties": props,
			"services":   services,
		})
	}

	fmt.Printf("Product:   %s (%s)\n", props.ProductFullName, props.ProductNumber)
	fmt.Printf("Type:      %s\n", props.ProductType)
	fmt.Printf("Serial:    %s\n", props.SerialNumber)
	fmt.Printf("SoC:       %s (%s)\n", props.Soc, props.SocArchitecture)
	fmt.Printf("Firmware:  %s (built %s)\n", props.FirmwareVersion, props.FirmwareBuild)
	if props.WebURL != "" {
		fmt.Printf("Web:       %s\n", props.WebURL)
	}
	if len(services) > 0 {
		fmt.Println("APIs:")
		for _, s := range services {
			fmt.Printf("  %s %s\n", s.ID, s.Version)
		}
	}
	return nil
}
