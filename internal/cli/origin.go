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

// OriginCmd returns the origin command with its subcommands
func OriginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "origin",
		Short: "Manage remote origins (batch keys resolve to these)",
	}

	cmd.AddCommand(originAddCmd())
	cmd.AddCommand(originListCmd())

	return cmd
}

func originAddCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "add [source-type] [remote-ref]",
		Short: "Register a remote origin",
		Long: `Register an authenticated remote connection. The remote ref is
"owner/repo" for github_item origins and a mailbox address for
mail_message origins.

Examples:
  driftwatch origin add github_item example/driftwatch
  driftwatch origin add mail_message ops@example.com --name "Ops inbox"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			origin, err := wire.OriginService().CreateOrigin(context.Background(), primary.CreateOriginRequest{
				SourceType: args[0],
				RemoteRef:  args[1],
				Name:       name,
			})
			if err != nil {
				return fmt.Errorf("failed to create origin: %w", err)
			}

			fmt.Printf("✓ Created origin %s: %s (%s)\n", origin.ID, origin.Name, origin.SourceType)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name (defaults to the remote ref)")

	return cmd
}

func originListCmd() *cobra.Command {
	var sourceType string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered origins",
		RunE: func(cmd *cobra.Command, args []string) error {
			origins, err := wire.OriginService().ListOrigins(context.Background(), primary.OriginFilters{
				SourceType: sourceType,
			})
			if err != nil {
				return fmt.Errorf("failed to list origins: %w", err)
			}

			if len(origins) == 0 {
				fmt.Println("No origins registered.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSOURCE\tNAME\tREMOTE REF\tSTATUS")
			for _, o := range origins {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					o.ID, o.SourceType, o.Name, o.RemoteRef, o.Status)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&sourceType, "source", "", "Filter by source type")

	return cmd
}
