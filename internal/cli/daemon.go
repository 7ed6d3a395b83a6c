package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/driftwatch/internal/scheduler"
	"github.com/example/driftwatch/internal/wire"
)

// DaemonCmd returns the daemon command
func DaemonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run verification sweeps continuously",
		Long: `Run the sweep scheduler in the foreground. A sweep cycle runs
immediately, then once per configured sweep_interval (with jitter),
until SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := wire.Config()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			fmt.Printf("✓ Daemon started (sweep every %s, batch size %d)\n",
				cfg.SweepInterval, cfg.BatchSize)

			s := scheduler.New(wire.SweepService(), cfg.SweepInterval, wire.Logger())
			return s.Start(ctx)
		},
	}
}
