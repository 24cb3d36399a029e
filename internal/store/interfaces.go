package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by lookups when no row matches.
var ErrNotFound = errors.New("not found")

// Tables reconciled between the two backends, in diff order.
var Tables = []string{
	"apps",
	"orgs",
	"app_versions",
	"channels",
	"channel_devices",
	"devices_override",
	"devices",
}

// Backend is the backend-agnostic read/write port of the resolution engine.
// The primary relational store and the read replica both implement it; the
// engine depends only on this interface, never on a dialect.
type Backend interface {
	// Name identifies the backend in logs and reconciliation reports.
	Name() string

	// GetAppOwner returns the organization owning an app.
	GetAppOwner(ctx context.Context, appID string) (*AppOwner, error)
	// GetOrgPlan returns the subscription state consulted by the plan gate.
	GetOrgPlan(ctx context.Context, orgID string) (*OrgPlan, error)

	// ResolveRequest performs the batched per-request read: requested
	// version by name, device channel override, and - only when no
	// override exists - the named or public channel for the platform.
	ResolveRequest(ctx context.Context, q ResolveQuery) (*RequestResolution, error)

	// GetVersionOverride returns the device's direct version pin, if any.
	// The primary update path reads but does not act on it.
	GetVersionOverride(ctx context.Context, appID, deviceID string) (*Version, error)

	// GetDevice returns the stored device record, or ErrNotFound.
	GetDevice(ctx context.Context, appID, deviceID string) (*Device, error)
	// SaveDevice upserts a device record.
	SaveDevice(ctx context.Context, d *Device) error

	// Channel self-assignment.
	GetChannelByName(ctx context.Context, appID, name string) (*Channel, error)
	GetChannelOverride(ctx context.Context, appID, deviceID string) (*Channel, error)
	SetChannelOverride(ctx context.Context, appID, deviceID string, channelID int64) error
	DeleteChannelOverride(ctx context.Context, appID, deviceID string) error

	// Telemetry writes, append-only, at-least-once.
	RecordStats(ctx context.Context, ev StatsEvent) error
	RecordBandwidth(ctx context.Context, appID, deviceID string, bytes int64) error
	RecordMAU(ctx context.Context, appID, deviceID string, period time.Time) error

	// MarkNotified records (eventKey, orgID, periodStart) and reports
	// whether this is the first notification within the period.
	MarkNotified(ctx context.Context, eventKey, orgID string, periodStart time.Time) (bool, error)

	// CountRows returns the row count of one reconciled table.
	CountRows(ctx context.Context, table string) (int64, error)

	Ping(ctx context.Context) error
	Close() error
}
