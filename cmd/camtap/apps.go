package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/camtap/internal/cli"
)

func newAppsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apps",
		Short: "Manage ACAP applications on the device",
	}
	cmd.AddCommand(newAppsListCmd())
	cmd.AddCommand(newAppsInstallCmd())
	cmd.AddCommand(newAppsControlCmd("start", "Start an installed application"))
	cmd.AddCommand(newAppsControlCmd("stop", "Stop a running application"))
	cmd.AddCommand(newAppsControlCmd("remove", "Uninstall an application"))
	return cmd
}

func newAppsListCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List installed applications",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			applyConfigDefaults(cmd)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAppsList(jsonOutput)
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}

func runAppsList(jsonOutput bool) error {
	device, err := newDevice()
	if err != nil {
		return err
	}

	ctx, cancel := deviceContext()
	defer cancel()

	apps, err := device.Applications(ctx)
	if err != nil {
		return cli.Classify(fmt.Errorf("list applications: %w", err))
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(apps)
	}

	if len(apps) == 0 {
		_, _ = fmt.Fprintln(os.Stderr, "No applications installed")
		return nil
	}
	for _, a := range apps {
		fmt.Printf("%s %s (%s, %s): %s\n", a.Name, a.Version, a.Vendor, a.License, a.Status)
	}
	return nil
}

func newAppsInstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install <package.eap>",
		Short: "Upload and install an application package",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			applyConfigDefaults(cmd)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAppsInstall(args[0])
		},
	}
	return cmd
}

func runAppsInstall(path string) error {
	device, err := newDevice()
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return cli.NewNotFoundError(err.Error())
	}
	defer func() { _ = f.Close() }()

	ctx, cancel := deviceContext()
	defer cancel()

	if err := device.UploadApplication(ctx, f); err != nil {
		return cli.Classify(fmt.Errorf("install %s: %w", path, err))
	}

	_, _ = fmt.Fprintf(os.Stderr, "Installed %s\n", path)
	return nil
}

func newAppsControlCmd(action, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   action + " <package>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			applyConfigDefaults(cmd)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAppsControl(action, args[0])
		},
	}
	return cmd
}

func runAppsControl(action, pkg string) error {
	device, err := newDevice()
	if err != nil {
		return err
	}

	ctx, cancel := deviceContext()
	defer cancel()

	if err := device.ControlApplication(ctx, action, pkg); err != nil {
		return cli.Classify(fmt.Errorf("%s %s: %w", action, pkg, err))
	}

	_, _ = fmt.Fprintf(os.Stderr, "%s: %s OK\n", pkg, action)
	return nil
}
