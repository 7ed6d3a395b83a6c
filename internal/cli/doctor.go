package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/driftwatch/internal/config"
	"github.com/example/driftwatch/internal/db"
)

// CheckResult represents the outcome of a single check
type CheckResult struct {
	Name    string
	Status  string // "✓", "⚠", "✗"
	Details string // Only shown if Status != "✓"
}

// DoctorCmd returns the doctor command for environment validation
func DoctorCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Validate driftwatch configuration and database",
		Long: `Health check for a driftwatch installation.

Validates:
- Configuration loads and passes validation
- Database opens and migrations are current
- GitHub credentials are configured
- Index notification target is configured

Examples:
  driftwatch doctor           # Run full health check
  driftwatch doctor --quiet   # Exit code only (0=healthy, 1=issues)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveConfigDir()
			if err != nil {
				return err
			}

			results := []CheckResult{}
			results = append(results, checkConfig(dir))
			results = append(results, checkDatabase(dir))
			results = append(results, checkGitHubAuth(dir))
			results = append(results, checkIndexTarget(dir))

			hasErrors := false
			for _, r := range results {
				if r.Status == "✗" {
					hasErrors = true
					break
				}
			}

			if !quiet {
				fmt.Println()
				fmt.Println("Check              Status")
				fmt.Println("─────────────────────────")
				for _, r := range results {
					fmt.Printf("%-18s %s\n", r.Name, r.Status)
				}
				fmt.Println()

				hasDetails := false
				for _, r := range results {
					if r.Status != "✓" && r.Details != "" {
						if !hasDetails {
							fmt.Println("Details:")
							hasDetails = true
						}
						fmt.Printf("\n%s:\n%s\n", r.Name, r.Details)
					}
				}

				if hasErrors {
					fmt.Println("\n⚠ Issues found. Run 'driftwatch init' to set up missing pieces.")
				} else {
					fmt.Println("All checks passed.")
				}
			}

			if hasErrors {
				return fmt.Errorf("environment validation failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&quiet, "quiet", false, "Exit code only, no output")

	return cmd
}

func checkConfig(dir string) CheckResult {
	if _, err := config.Load(dir); err != nil {
		return CheckResult{Name: "config", Status: "✗", Details: err.Error()}
	}
	return CheckResult{Name: "config", Status: "✓"}
}

func checkDatabase(dir string) CheckResult {
	cfg, err := config.Load(dir)
	if err != nil {
		return CheckResult{Name: "database", Status: "✗", Details: "config did not load"}
	}

	if _, err := os.Stat(cfg.DBPath); err != nil {
		return CheckResult{
			Name:    "database",
			Status:  "✗",
			Details: fmt.Sprintf("no database at %s; run 'driftwatch init'", cfg.DBPath),
		}
	}

	// Open also brings migrations up to date, so a clean open means the
	// schema is current.
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return CheckResult{Name: "database", Status: "✗", Details: err.Error()}
	}
	database.Close()

	return CheckResult{Name: "database", Status: "✓"}
}

func checkGitHubAuth(dir string) CheckResult {
	cfg, err := config.Load(dir)
	if err != nil {
		return CheckResult{Name: "github auth", Status: "✗", Details: "config did not load"}
	}
	if cfg.GitHub.Token == "" {
		return CheckResult{
			Name:    "github auth",
			Status:  "⚠",
			Details: "no github.token configured; unauthenticated API limits apply (60 req/hour)",
		}
	}
	return CheckResult{Name: "github auth", Status: "✓"}
}

func checkIndexTarget(dir string) CheckResult {
	cfg, err := config.Load(dir)
	if err != nil {
		return CheckResult{Name: "index target", Status: "✗", Details: "config did not load"}
	}
	if cfg.Index.BaseURL == "" {
		return CheckResult{
			Name:    "index target",
			Status:  "⚠",
			Details: "no index.base_url configured; deletions will not be propagated to the search index",
		}
	}
	return CheckResult{Name: "index target", Status: "✓"}
}
