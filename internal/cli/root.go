// Package cli contains the driftwatch cobra subcommands.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/driftwatch/internal/config"
	"github.com/example/driftwatch/internal/wire"
)

// configDir is the value of the global --config-dir flag; empty means
// the default directory (~/.driftwatch).
var configDir string

// Setup attaches the global flags and all subcommands to the root
// command.
func Setup(root *cobra.Command) {
	root.PersistentFlags().StringVar(&configDir, "config-dir", "", "Configuration directory (default ~/.driftwatch)")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		wire.SetConfigDir(configDir)
	}

	root.AddCommand(InitCmd())
	root.AddCommand(DoctorCmd())
	root.AddCommand(SweepCmd())
	root.AddCommand(DaemonCmd())
	root.AddCommand(StatusCmd())
	root.AddCommand(RecordCmd())
	root.AddCommand(OriginCmd())
	root.AddCommand(VerifierCmd())
}

// resolveConfigDir returns the effective configuration directory.
func resolveConfigDir() (string, error) {
	if configDir != "" {
		return configDir, nil
	}
	return config.DefaultDir()
}
