package replica

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/updrift/updrift/internal/store"
)

const versionColumns = `id, app_id, name, checksum, session_key, external_url, r2_path, min_update_version, deleted`

const versionByNameSQL = `
SELECT ` + versionColumns + `
FROM app_versions
WHERE app_id = ? AND name = ? AND deleted = 0`

// channelTargetSQL mirrors the primary's self-referential version aliasing
// in the SQLite dialect.
const channelTargetSQL = `
SELECT
  c.id, c.app_id, c.name, c.public, c.ios, c.android,
  c.disable_auto_update, c.disable_auto_update_under_native,
  c.allow_dev, c.allow_emulator, c.allow_device_self_set, c.owner_org,
  c.secondary_version_percentage,
  version.id, version.app_id, version.name, version.checksum, version.session_key,
  version.external_url, version.r2_path, version.min_update_version, version.deleted,
  second_version.id, second_version.name, second_version.checksum, second_version.session_key,
  second_version.external_url, second_version.r2_path, second_version.min_update_version
FROM channels c
JOIN app_versions AS version ON version.id = c.version
LEFT JOIN app_versions AS second_version ON second_version.id = c.second_version`

const overrideSQL = channelTargetSQL + `
JOIN channel_devices cd ON cd.channel_id = c.id
WHERE cd.app_id = ? AND cd.device_id = ?`

const namedChannelSQL = channelTargetSQL + `
WHERE c.app_id = ? AND c.name = ?`

const versionOverrideSQL = `
SELECT ` + versionColumns + `
FROM app_versions
WHERE id = (SELECT version FROM devices_override WHERE app_id = ? AND device_id = ?)`

func (s *Store) ResolveRequest(ctx context.Context, q store.ResolveQuery) (*store.RequestResolution, error) {
	// One short-lived connection per resolution; leaked connections are
	// the main resource-exhaustion risk under load.
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire replica conn: %w", err)
	}
	defer conn.Close()

	res := &store.RequestResolution{}

	version, err := scanVersionRow(conn.QueryRowContext(ctx, versionByNameSQL, q.AppID, q.VersionName))
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("query requested version: %w", err)
	}
	res.RequestedVersion = version

	override, err := scanChannelTargetRow(conn.QueryRowContext(ctx, overrideSQL, q.AppID, q.DeviceID))
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("query channel override: %w", err)
	}
	res.Override = override

	versionOverride, err := scanVersionRow(conn.QueryRowContext(ctx, versionOverrideSQL, q.AppID, q.DeviceID))
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("query version override: %w", err)
	}
	res.VersionOverride = versionOverride

	if res.Override == nil {
		channel, err := s.queryChannel(ctx, conn, q)
		if err != nil {
			return nil, err
		}
		res.Channel = channel
	}

	if err := s.attachManifests(ctx, conn, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Store) queryChannel(ctx context.Context, conn *sql.Conn, q store.ResolveQuery) (*store.ChannelTarget, error) {
	var row *sql.Row
	if q.DefaultChannel != "" {
		row = conn.QueryRowContext(ctx, namedChannelSQL, q.AppID, q.DefaultChannel)
	} else {
		platformCol := "c.ios"
		if q.Platform == store.PlatformAndroid {
			platformCol = "c.android"
		}
		query := channelTargetSQL + fmt.Sprintf(`
WHERE c.app_id = ? AND c.public = 1 AND %s = 1`, platformCol)
		row = conn.QueryRowContext(ctx, query, q.AppID)
	}

	target, err := scanChannelTargetRow(row)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("query channel: %w", err)
	}
	return target, nil
}

func (s *Store) attachManifests(ctx context.Context, conn *sql.Conn, res *store.RequestResolution) error {
	versions := map[int64]*store.Version{}
	collect := func(v *store.Version) {
		if v != nil {
			versions[v.ID] = v
		}
	}
	collect(res.RequestedVersion)
	if res.Override != nil {
		collect(&res.Override.Primary)
		collect(res.Override.Secondary)
	}
	if res.Channel != nil {
		collect(&res.Channel.Primary)
		collect(res.Channel.Secondary)
	}
	if len(versions) == 0 {
		return nil
	}

	placeholders := make([]string, 0, len(versions))
	args := make([]any, 0, len(versions))
	for id := range versions {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}

	query := fmt.Sprintf(`
SELECT app_version_id, file_name, file_hash, s3_path
FROM manifest_entries
WHERE app_version_id IN (%s)
ORDER BY app_version_id, file_name`, strings.Join(placeholders, ","))

	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query manifests: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var versionID int64
		var entry store.ManifestEntry
		if err := rows.Scan(&versionID, &entry.FileName, &entry.FileHash, &entry.StoragePath); err != nil {
			return fmt.Errorf("scan manifest entry: %w", err)
		}
		if v, ok := versions[versionID]; ok {
			v.Manifest = append(v.Manifest, entry)
		}
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVersionRow(row rowScanner) (*store.Version, error) {
	var v store.Version
	err := row.Scan(
		&v.ID, &v.AppID, &v.Name, &v.Checksum, &v.SessionKey,
		&v.ExternalURL, &v.R2Path, &v.MinUpdateVersion, &v.Deleted,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func scanChannelTargetRow(row rowScanner) (*store.ChannelTarget, error) {
	var t store.ChannelTarget
	var gate string
	var secID *int64
	var secName, secChecksum, secSessionKey, secExternalURL, secR2Path, secMinUpdate *string

	err := row.Scan(
		&t.Channel.ID, &t.Channel.AppID, &t.Channel.Name, &t.Channel.Public,
		&t.Channel.IOS, &t.Channel.Android,
		&gate, &t.Channel.DisableAutoUpdateUnderNative,
		&t.Channel.AllowDev, &t.Channel.AllowEmulator, &t.Channel.AllowDeviceSelfSet,
		&t.Channel.OwnerOrg,
		&t.SplitPercent,
		&t.Primary.ID, &t.Primary.AppID, &t.Primary.Name, &t.Primary.Checksum,
		&t.Primary.SessionKey, &t.Primary.ExternalURL, &t.Primary.R2Path,
		&t.Primary.MinUpdateVersion, &t.Primary.Deleted,
		&secID, &secName, &secChecksum, &secSessionKey,
		&secExternalURL, &secR2Path, &secMinUpdate,
	)
	if err != nil {
		return nil, err
	}

	t.Channel.DisableAutoUpdate = store.UpdateGate(gate)
	if secID != nil && secName != nil {
		t.Secondary = &store.Version{
			ID:               *secID,
			AppID:            t.Channel.AppID,
			Name:             *secName,
			Checksum:         secChecksum,
			SessionKey:       secSessionKey,
			ExternalURL:      secExternalURL,
			R2Path:           secR2Path,
			MinUpdateVersion: secMinUpdate,
		}
	}
	return &t, nil
}
