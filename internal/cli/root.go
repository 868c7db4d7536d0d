// Package cli implements the hubsync command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hubsync/internal/config"
)

const (
	exitSuccess = 0
	exitFailure = 1
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configPath string
}

var flags rootFlags

// NewRootCmd creates the top-level "hubsync" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "hubsync",
		Short: "Incremental export of HubSpot CRM objects into a relational store",
		Long: "hubsync pulls contacts, companies and deals from the HubSpot CRM v3 API\n" +
			"and upserts them into replica tables, keeping a per-type checkpoint so\n" +
			"repeated runs only fetch what changed.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to a YAML config file (default: environment only)")

	root.AddCommand(newRunCmd())
	root.AddCommand(newStatusCmd())
	root.AddCommand(newVersionCmd())

	return root
}

// Execute runs the root command and exits non-zero when it failed, so cron
// and systemd timers can alert on status.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "hubsync:", err)
		os.Exit(exitFailure)
	}
	os.Exit(exitSuccess)
}

func loadConfig() (config.Config, error) {
	path := flags.configPath
	if path == "" {
		path = os.Getenv("HUBSYNC_CONFIG")
	}
	return config.Load(path)
}
