package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/example/driftwatch/internal/config"
	"github.com/example/driftwatch/internal/db"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	var demo bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the driftwatch config and database",
		Long: `Create the configuration directory with a default config.yaml and
an empty database.

Examples:
  driftwatch init           # Set up ~/.driftwatch
  driftwatch init --demo    # Also seed demo origins and records`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveConfigDir()
			if err != nil {
				return err
			}

			cfgPath := filepath.Join(dir, "config.yaml")
			if _, err := os.Stat(cfgPath); err == nil {
				fmt.Printf("Config already exists at %s\n", cfgPath)
			} else {
				if err := config.Save(dir, config.Default(dir)); err != nil {
					return fmt.Errorf("failed to write config: %w", err)
				}
				fmt.Printf("✓ Created config at %s\n", cfgPath)
			}

			cfg, err := config.Load(dir)
			if err != nil {
				return err
			}

			database, err := db.Open(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("failed to create database: %w", err)
			}
			defer database.Close()
			fmt.Printf("✓ Database ready at %s\n", cfg.DBPath)

			if demo {
				if err := db.SeedFixtures(database); err != nil {
					return fmt.Errorf("failed to seed demo data: %w", err)
				}
				fmt.Println("✓ Seeded demo origins and records")
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&demo, "demo", false, "Seed demo origins and records")

	return cmd
}
