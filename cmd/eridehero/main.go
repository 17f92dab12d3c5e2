package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/eridehero/eridehero/internal/interfaces/cli/migrate"
	"github.com/eridehero/eridehero/internal/interfaces/cli/server"
	"github.com/eridehero/eridehero/internal/interfaces/cli/worker"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "eridehero",
		Short: "ERideHero account and price-tracking service",
		Long:  `ERideHero account service: local and social authentication, user preferences, and price trackers with email alerts.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		worker.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
