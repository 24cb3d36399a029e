package main

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/updrift/updrift/internal/bucket"
	"github.com/updrift/updrift/internal/engine"
	"github.com/updrift/updrift/internal/notify"
	"github.com/updrift/updrift/internal/server"
	"github.com/updrift/updrift/internal/store"
	"github.com/updrift/updrift/internal/tasks"
	"github.com/updrift/updrift/internal/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the update server",
	Long: `Run the HTTP update server: device-facing update checks, channel
self-assignment and the operational endpoints.`,
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

		var replicaStore store.Backend
		if rep != nil {
			defer rep.Close()
			replicaStore = rep
		}

		selector := store.NewSelector(primary, replicaStore, cfg.ReplicaRollout)

		signer, err := bucket.New(ctx, bucket.Config{
			Endpoint:  cfg.StorageEndpoint,
			Region:    cfg.StorageRegion,
			AccessKey: cfg.StorageAccessKey,
			SecretKey: cfg.StorageSecretKey,
			Bucket:    cfg.StorageBucket,
		})
		if err != nil {
			logger.Error("Failed to initialize bundle signer: %v", err)
			os.Exit(1)
		}

		sched := telemetry.NewGoScheduler(logger)
		sink := telemetry.NewSink(primary, sched, logger)
		notifier := notify.New(primary, logger)

		eng := engine.New(selector, signer, sink, notifier, sched, logger,
			time.Duration(cfg.SignTTLSeconds)*time.Second)

		reconciler := tasks.NewReconciler(selector, logger,
			time.Duration(cfg.ReconcileIntervalMin)*time.Minute)
		reconciler.Start()
		defer reconciler.Stop()

		srv := server.NewServer(cfg, selector, eng)
		if err := srv.Init(); err != nil {
			logger.Error("Failed to initialize server: %v", err)
			os.Exit(1)
		}
		if err := srv.Start(); err != nil {
			logger.Error("Server stopped: %v", err)
			os.Exit(1)
		}
	},
}
