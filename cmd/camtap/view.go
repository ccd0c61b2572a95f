package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/ppiankov/camtap/internal/cli"
	"github.com/ppiankov/camtap/internal/tui"
)

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Browse the system log interactively",
		Long:  "Fetch the system log and open it in an interactive pager with scrolling, severity filtering (l), and search (/).",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			applyConfigDefaults(cmd)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView()
		},
	}
	return cmd
}

func runView() error {
	device, err := newDevice()
	if err != nil {
		return err
	}

	ctx, cancel := deviceContext()
	entries, err := device.SystemLog(ctx)
	cancel()
	if err != nil {
		return cli.Classify(fmt.Errorf("fetch system log: %w", err))
	}

	model := tui.NewModel(device.Host(), entries)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run viewer: %w", err)
	}
	return nil
}
