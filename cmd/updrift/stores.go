package main

import (
	"context"
	"fmt"

	"github.com/updrift/updrift/internal/config"
	"github.com/updrift/updrift/internal/store/postgres"
	"github.com/updrift/updrift/internal/store/replica"
)

// openStores connects the primary store and, when a path is configured, the
// replica. The second return value is nil when no replica is wired.
func openStores(ctx context.Context, cfg *config.Config) (*postgres.Store, *replica.Store, error) {
	primary, err := postgres.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect primary store: %w", err)
	}

	if cfg.ReplicaDBPath == "" {
		return primary, nil, nil
	}

	rep, err := replica.New(cfg.ReplicaDBPath)
	if err != nil {
		primary.Close()
		return nil, nil, fmt.Errorf("open replica store: %w", err)
	}
	return primary, rep, nil
}
