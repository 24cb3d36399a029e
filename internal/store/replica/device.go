package replica

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/updrift/updrift/internal/store"
)

func (s *Store) GetAppOwner(ctx context.Context, appID string) (*store.AppOwner, error) {
	const q = `
SELECT a.app_id, o.id, o.name
FROM apps a
JOIN orgs o ON o.id = a.owner_org
WHERE a.app_id = ?`

	var owner store.AppOwner
	err := s.db.QueryRowContext(ctx, q, appID).Scan(&owner.AppID, &owner.OrgID, &owner.OrgName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query app owner: %w", err)
	}
	return &owner, nil
}

func (s *Store) GetOrgPlan(ctx context.Context, orgID string) (*store.OrgPlan, error) {
	const q = `
SELECT id, COALESCE(trial_until, '1970-01-01T00:00:00Z'), status, is_good_plan,
       mau_exceeded, storage_exceeded, bandwidth_exceeded
FROM orgs
WHERE id = ?`

	var plan store.OrgPlan
	err := s.db.QueryRowContext(ctx, q, orgID).Scan(
		&plan.OrgID, &plan.TrialUntil, &plan.Status, &plan.IsGoodPlan,
		&plan.MauExceeded, &plan.StorageExceeded, &plan.BandwidthExceeded,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query org plan: %w", err)
	}
	return &plan, nil
}

func (s *Store) GetVersionOverride(ctx context.Context, appID, deviceID string) (*store.Version, error) {
	v, err := scanVersionRow(s.db.QueryRowContext(ctx, versionOverrideSQL, appID, deviceID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query version override: %w", err)
	}
	return v, nil
}

func (s *Store) GetDevice(ctx context.Context, appID, deviceID string) (*store.Device, error) {
	const q = `
SELECT app_id, device_id, platform, os_version, plugin_version, version_build,
       version_name, custom_id, is_prod, is_emulator, updated_at
FROM devices
WHERE app_id = ? AND device_id = ?`

	var d store.Device
	err := s.db.QueryRowContext(ctx, q, appID, deviceID).Scan(
		&d.AppID, &d.DeviceID, &d.Platform, &d.OSVersion, &d.PluginVersion,
		&d.VersionBuild, &d.VersionName, &d.CustomID, &d.IsProd, &d.IsEmulator,
		&d.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query device: %w", err)
	}
	return &d, nil
}

func (s *Store) SaveDevice(ctx context.Context, d *store.Device) error {
	const q = `
INSERT INTO devices (app_id, device_id, platform, os_version, plugin_version,
                     version_build, version_name, custom_id, is_prod, is_emulator, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (app_id, device_id) DO UPDATE SET
  platform = excluded.platform,
  os_version = excluded.os_version,
  plugin_version = excluded.plugin_version,
  version_build = excluded.version_build,
  version_name = excluded.version_name,
  custom_id = excluded.custom_id,
  is_prod = excluded.is_prod,
  is_emulator = excluded.is_emulator,
  updated_at = excluded.updated_at`

	_, err := s.db.ExecContext(ctx, q,
		d.AppID, d.DeviceID, d.Platform, d.OSVersion, d.PluginVersion,
		d.VersionBuild, d.VersionName, d.CustomID, d.IsProd, d.IsEmulator,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert device: %w", err)
	}
	return nil
}

const channelColumns = `id, app_id, name, public, ios, android, disable_auto_update,
       disable_auto_update_under_native, allow_dev, allow_emulator,
       allow_device_self_set, owner_org`

func (s *Store) GetChannelByName(ctx context.Context, appID, name string) (*store.Channel, error) {
	const q = `
SELECT ` + channelColumns + `
FROM channels
WHERE app_id = ? AND name = ?`

	c, err := s.scanChannel(s.db.QueryRowContext(ctx, q, appID, name))
	if err != nil {
		return nil, fmt.Errorf("query channel by name: %w", err)
	}
	return c, nil
}

func (s *Store) GetChannelOverride(ctx context.Context, appID, deviceID string) (*store.Channel, error) {
	const q = `
SELECT c.id, c.app_id, c.name, c.public, c.ios, c.android, c.disable_auto_update,
       c.disable_auto_update_under_native, c.allow_dev, c.allow_emulator,
       c.allow_device_self_set, c.owner_org
FROM channel_devices cd
JOIN channels c ON c.id = cd.channel_id
WHERE cd.app_id = ? AND cd.device_id = ?`

	c, err := s.scanChannel(s.db.QueryRowContext(ctx, q, appID, deviceID))
	if err != nil {
		return nil, fmt.Errorf("query channel override: %w", err)
	}
	return c, nil
}

func (s *Store) scanChannel(row *sql.Row) (*store.Channel, error) {
	var c store.Channel
	var gate string
	err := row.Scan(
		&c.ID, &c.AppID, &c.Name, &c.Public, &c.IOS, &c.Android, &gate,
		&c.DisableAutoUpdateUnderNative, &c.AllowDev, &c.AllowEmulator,
		&c.AllowDeviceSelfSet, &c.OwnerOrg,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	c.DisableAutoUpdate = store.UpdateGate(gate)
	return &c, nil
}

func (s *Store) SetChannelOverride(ctx context.Context, appID, deviceID string, channelID int64) error {
	const q = `
INSERT INTO channel_devices (app_id, device_id, channel_id, created_at)
VALUES (?, ?, ?, ?)
ON CONFLICT (app_id, device_id) DO UPDATE SET channel_id = excluded.channel_id`

	if _, err := s.db.ExecContext(ctx, q, appID, deviceID, channelID, time.Now().UTC()); err != nil {
		return fmt.Errorf("set channel override: %w", err)
	}
	return nil
}

func (s *Store) DeleteChannelOverride(ctx context.Context, appID, deviceID string) error {
	const q = `DELETE FROM channel_devices WHERE app_id = ? AND device_id = ?`
	if _, err := s.db.ExecContext(ctx, q, appID, deviceID); err != nil {
		return fmt.Errorf("delete channel override: %w", err)
	}
	return nil
}

func (s *Store) RecordStats(ctx context.Context, ev store.StatsEvent) error {
	const q = `
INSERT INTO stats (id, app_id, device_id, action, version_id, created_at)
VALUES (?, ?, ?, ?, ?, ?)`

	createdAt := ev.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, q, uuid.NewString(), ev.AppID, ev.DeviceID, ev.Action, ev.VersionID, createdAt)
	if err != nil {
		return fmt.Errorf("insert stats: %w", err)
	}
	return nil
}

func (s *Store) RecordBandwidth(ctx context.Context, appID, deviceID string, bytes int64) error {
	const q = `
INSERT INTO bandwidth_usage (id, app_id, device_id, file_size, created_at)
VALUES (?, ?, ?, ?, ?)`

	if _, err := s.db.ExecContext(ctx, q, uuid.NewString(), appID, deviceID, bytes, time.Now().UTC()); err != nil {
		return fmt.Errorf("insert bandwidth usage: %w", err)
	}
	return nil
}

func (s *Store) RecordMAU(ctx context.Context, appID, deviceID string, period time.Time) error {
	const q = `
INSERT INTO mau (app_id, device_id, period)
VALUES (?, ?, ?)
ON CONFLICT (app_id, device_id, period) DO NOTHING`

	if _, err := s.db.ExecContext(ctx, q, appID, deviceID, period.Format("2006-01-02")); err != nil {
		return fmt.Errorf("insert mau: %w", err)
	}
	return nil
}

func (s *Store) MarkNotified(ctx context.Context, eventKey, orgID string, periodStart time.Time) (bool, error) {
	const q = `
INSERT INTO notifications (event_key, org_id, period_start, last_sent_at)
VALUES (?, ?, ?, ?)
ON CONFLICT (event_key, org_id) DO UPDATE SET
  period_start = excluded.period_start,
  last_sent_at = excluded.last_sent_at
WHERE notifications.period_start < excluded.period_start`

	result, err := s.db.ExecContext(ctx, q, eventKey, orgID, periodStart, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("mark notified: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
