package main

import (
	"context"
	"os"
	"time"

	"github.com/updrift/updrift/internal/bucket"
	"github.com/updrift/updrift/internal/config"
	"github.com/updrift/updrift/internal/engine"
	"github.com/updrift/updrift/internal/logging"
	"github.com/updrift/updrift/internal/notify"
	"github.com/updrift/updrift/internal/server"
	"github.com/updrift/updrift/internal/store"
	"github.com/updrift/updrift/internal/store/postgres"
	"github.com/updrift/updrift/internal/store/replica"
	"github.com/updrift/updrift/internal/tasks"
	"github.com/updrift/updrift/internal/telemetry"
)

func main() {
	// Set development environment variables
	if os.Getenv("ENV") != "production" {
		os.Setenv("ENV", "development")
	}

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// Initialize logger configuration
	logConfig := &logging.LogConfig{
		File:       cfg.LogFile,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     7,
	}

	if err := logging.InitLogger(logConfig); err != nil {
		panic(err)
	}
	logger := logging.GetGlobalLogger()
	defer logger.Close()

	logger.Info("Starting server in %s mode", cfg.Environment)

	ctx := context.Background()

	// Primary relational store
	primary, err := postgres.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to primary store: %v", err)
		os.Exit(1)
	}
	defer primary.Close()

	// Read replica; optional, the selector pins the primary without it
	var replicaStore store.Backend
	if cfg.ReplicaDBPath != "" {
		rep, err := replica.New(cfg.ReplicaDBPath)
		if err != nil {
			logger.Error("Failed to open replica store: %v", err)
			os.Exit(1)
		}
		defer rep.Close()
		replicaStore = rep
	}

	selector := store.NewSelector(primary, replicaStore, cfg.ReplicaRollout)
	logger.Info("Backend selector ready (replica fraction %.2f)", cfg.ReplicaRollout)

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

	// Telemetry and notifications write to the primary only
	sched := telemetry.NewGoScheduler(logger)
	sink := telemetry.NewSink(primary, sched, logger)
	notifier := notify.New(primary, logger)

	eng := engine.New(selector, signer, sink, notifier, sched, logger,
		time.Duration(cfg.SignTTLSeconds)*time.Second)

	// Start background reconciliation task
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
		logger.Error("Failed to start server: %v", err)
		os.Exit(1)
	}
}
