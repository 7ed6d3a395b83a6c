package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/driftwatch/internal/wire"
)

// StatusCmd returns the status command
func StatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show verification state per source type",
		Long: `Display per-source-type verification counts: total mirrored
records, records never verified, records due for a check and records
flagged with at least one confirmed absence.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			statuses, err := wire.RecordService().VerificationStatus(context.Background())
			if err != nil {
				return fmt.Errorf("failed to load verification status: %w", err)
			}

			if len(statuses) == 0 {
				fmt.Println("No mirrored records.")
				return nil
			}

			yellow := color.New(color.FgYellow).SprintFunc()
			red := color.New(color.FgRed).SprintFunc()

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SOURCE\tTOTAL\tNEVER VERIFIED\tDUE\tFLAGGED")
			for _, s := range statuses {
				flagged := fmt.Sprintf("%d", s.Flagged)
				if s.Flagged > 0 {
					flagged = red(flagged)
				}
				due := fmt.Sprintf("%d", s.Due)
				if s.Due > 0 {
					due = yellow(due)
				}
				fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\n",
					s.SourceType, s.Total, s.NeverVerified, due, flagged)
			}
			return w.Flush()
		},
	}
}
