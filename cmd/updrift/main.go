package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/updrift/updrift/internal/config"
	"github.com/updrift/updrift/internal/logging"
)

var logger *logging.Logger

func initLogger(cfg *config.Config) {
	logConfig := &logging.LogConfig{
		File:       cfg.LogFile,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     7,
	}

	if err := logging.InitLogger(logConfig); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	logger = logging.GetGlobalLogger()
}

func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

var rootCmd = &cobra.Command{
	Use:   "updrift",
	Short: "Updrift - OTA bundle update server",
	Long: `Updrift serves over-the-air bundle update checks for app fleets.
It resolves each device against its channels, policies and rollouts, and
hands out short-lived signed bundle URLs.`,
}

func main() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(reconcileCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
