package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/driftwatch/internal/cli"
	"github.com/example/driftwatch/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "driftwatch",
		Short:   "driftwatch - orphan verification for a content mirror",
		Version: version.String(),
		Long: `driftwatch keeps a local content mirror honest. It periodically
re-checks mirrored records against their remote sources and deletes
records whose remote counterpart has been confirmed gone repeatedly.`,
	}

	cli.Setup(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
