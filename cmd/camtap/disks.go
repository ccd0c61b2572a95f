package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/camtap/internal/cli"
)

func newDisksCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "disks",
		Short: "List storage disks and their status",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			applyConfigDefaults(cmd)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDisks(jsonOutput)
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}

func runDisks(jsonOutput bool) error {
	device, err := newDevice()
	if err != nil {
		return err
	}

	ctx, cancel := deviceContext()
	defer cancel()

	disks, err := device.Disks(ctx)
	if err != nil {
		return cli.Classify(fmt.Errorf("list disks: %w", err))
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(disks)
	}

	if len(disks) == 0 {
		_, _ = fmt.Fprintln(os.Stderr, "No disks found")
		return nil
	}
	for _, d := range disks {
		fmt.Printf("%s (%s): %s, %s, %d/%d KB free",
			d.ID, d.Name, d.Status, d.Filesystem, d.FreeSize, d.TotalSize)
		if bool(d.Full) {
			fmt.Print(", FULL")
		}
		if bool(d.ReadOnly) {
			fmt.Print(", read-only")
		}
		if bool(d.Locked) {
			fmt.Print(", locked")
		}
		fmt.Println()
	}
	return nil
}
