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

// RecordCmd returns the record command with its subcommands
func RecordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Inspect mirrored records",
	}

	cmd.AddCommand(recordListCmd())
	cmd.AddCommand(recordShowCmd())

	return cmd
}

func recordListCmd() *cobra.Command {
	var sourceType, originID string
	var flaggedOnly bool
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List mirrored records",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := wire.RecordService().ListRecords(context.Background(), primary.RecordFilters{
				SourceType:  sourceType,
				OriginID:    originID,
				FlaggedOnly: flaggedOnly,
				Limit:       limit,
			})
			if err != nil {
				return fmt.Errorf("failed to list records: %w", err)
			}

			if len(records) == 0 {
				fmt.Println("No records found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSOURCE\tORIGIN\tUID\tLAST VERIFIED\tFAILURES")
			for _, r := range records {
				lastVerified := r.LastVerifiedAt
				if lastVerified == "" {
					lastVerified = "never"
				}
				origin := r.OriginID
				if origin == "" {
					origin = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\n",
					r.ID, r.SourceType, origin, r.RemoteUID, lastVerified, r.VerificationFailures)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&sourceType, "source", "", "Filter by source type")
	cmd.Flags().StringVar(&originID, "origin", "", "Filter by origin ID")
	cmd.Flags().BoolVar(&flaggedOnly, "flagged", false, "Only records with confirmed absences")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum records to show")

	return cmd
}

func recordShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [record-id]",
		Short: "Show one record's verification state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := wire.RecordService().GetRecord(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get record: %w", err)
			}

			fmt.Printf("Record: %s\n", r.ID)
			fmt.Printf("  Source type:  %s\n", r.SourceType)
			fmt.Printf("  Origin:       %s\n", orDash(r.OriginID))
			fmt.Printf("  Remote UID:   %s\n", r.RemoteUID)
			fmt.Printf("  Title:        %s\n", orDash(r.Title))
			fmt.Printf("  Content hash: %s\n", r.ContentHash)
			fmt.Printf("  Created:      %s\n", r.CreatedAt)
			fmt.Printf("  Updated:      %s\n", r.UpdatedAt)
			if r.LastVerifiedAt == "" {
				fmt.Println("  Verified:     never")
			} else {
				fmt.Printf("  Verified:     %s\n", r.LastVerifiedAt)
			}
			fmt.Printf("  Failures:     %d\n", r.VerificationFailures)
			return nil
		},
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
