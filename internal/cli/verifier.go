package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/driftwatch/internal/wire"
)

// VerifierCmd returns the verifier command with its subcommands
func VerifierCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verifier",
		Short: "Inspect registered verifiers",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List source types with a registered verifier",
		RunE: func(cmd *cobra.Command, args []string) error {
			types := wire.Registry().SourceTypes()
			if len(types) == 0 {
				fmt.Println("No verifiers registered.")
				return nil
			}
			for _, t := range types {
				fmt.Printf("✓ %s\n", t)
			}
			return nil
		},
	})

	return cmd
}
