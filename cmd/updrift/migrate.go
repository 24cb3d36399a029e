package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the schema to both stores",
	Long: `Apply the relational schema to the primary store and, when a replica
path is configured, the replica. Statements are idempotent; re-running is safe.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		initLogger(cfg)
		defer logger.Close()

		ctx := context.Background()

		primary, rep, err := openStores(ctx, cfg)
		if err != nil {
			logger.Error("Failed to open stores: %v", err)
			os.Exit(1)
		}
		defer primary.Close()

		if err := primary.Migrate(ctx); err != nil {
			logger.Error("Primary migration failed: %v", err)
			os.Exit(1)
		}
		logger.Info("Primary store migrated")

		if rep != nil {
			defer rep.Close()
			if err := rep.Migrate(ctx); err != nil {
				logger.Error("Replica migration failed: %v", err)
				os.Exit(1)
			}
			logger.Info("Replica store migrated")
		}
	},
}
