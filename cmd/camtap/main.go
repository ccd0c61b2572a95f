package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/camtap/internal/cli"
	"github.com/ppiankov/camtap/internal/config"
)

var version = "dev"

var (
	cfg        *config.Config
	deviceURL  string
	username   string
	password   string
	insecure   bool
	timeoutStr string
)

func main() {
	err := execute()
	cli.FormatError(os.Stderr, err, false)
	os.Exit(cli.ExitCode(err))
}

func execute() error {
	cfg = config.Load()

	root := &cobra.Command{
		Use:           "camtap",
		Short:         "Fetch, export, and watch Axis camera system logs",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&deviceURL, "device", "", "device base URL (http://host or https://host)")
	root.PersistentFlags().StringVarP(&username, "username", "u", "", "device username")
	root.PersistentFlags().StringVarP(&password, "password", "p", "", "device password")
	root.PersistentFlags().BoolVar(&insecure, "insecure", false, "skip TLS certificate verification")
	root.PersistentFlags().StringVar(&timeoutStr, "timeout", "", "timeout for device operations")

	root.AddCommand(newLogsCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newUploadCmd())
	root.AddCommand(newParamsCmd())
	root.AddCommand(newInfoCmd())
	root.AddCommand(newDisksCmd())
	root.AddCommand(newAppsCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newViewCmd())
	return root.Execute()
}
