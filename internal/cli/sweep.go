package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/driftwatch/internal/ports/primary"
	"github.com/example/driftwatch/internal/wire"
)

// SweepCmd returns the sweep command
func SweepCmd() *cobra.Command {
	var batchSize int
	var sourceTypes []string

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run one verification sweep cycle",
		Long: `Select records due for verification, group them per origin and
check each group against its remote source. Records confirmed gone
repeatedly are deleted.

Examples:
  driftwatch sweep                        # One cycle with configured defaults
  driftwatch sweep --batch-size 50        # Cap the cycle at 50 records
  driftwatch sweep --source github_item   # Only sweep GitHub records`,
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := wire.SweepService().Run(context.Background(), primary.SweepRequest{
				BatchSize:   batchSize,
				SourceTypes: sourceTypes,
			})
			if err != nil {
				return fmt.Errorf("sweep failed: %w", err)
			}

			if summary.Status == primary.SweepStatusNoItems {
				fmt.Println("Nothing due for verification.")
				return nil
			}

			fmt.Printf("✓ Sweep %s: %d records in %d groups\n", summary.RunID, summary.TotalItems, summary.Groups)
			if summary.Unkeyed > 0 {
				fmt.Printf("⚠ %d records have no batch key and were skipped\n", summary.Unkeyed)
			}
			fmt.Println()

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SOURCE\tBATCH\tSTATUS\tVERIFIED\tORPHANED\tERRORS\tDELETED")
			for _, unit := range summary.Units {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%d\n",
					unit.SourceType, unit.BatchKey, unit.Status,
					unit.Verified, unit.Orphaned, unit.Errors, unit.Deleted)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "Maximum records per cycle (0 = configured default)")
	cmd.Flags().StringSliceVar(&sourceTypes, "source", nil, "Restrict the sweep to these source types")

	return cmd
}
