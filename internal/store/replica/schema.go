package replica

import (
	"context"
	"fmt"
)

// Schema is the replica DDL. The replication pipeline that fills these
// tables lives outside this repository; `updrift migrate` creates them so a
// fresh replica can start receiving rows.
const Schema = `
CREATE TABLE IF NOT EXISTS orgs (
  id                  TEXT PRIMARY KEY,
  name                TEXT NOT NULL DEFAULT '',
  trial_until         DATETIME,
  status              TEXT NOT NULL DEFAULT '',
  is_good_plan        INTEGER NOT NULL DEFAULT 0,
  mau_exceeded        INTEGER NOT NULL DEFAULT 0,
  storage_exceeded    INTEGER NOT NULL DEFAULT 0,
  bandwidth_exceeded  INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS apps (
  app_id     TEXT PRIMARY KEY,
  name       TEXT NOT NULL DEFAULT '',
  owner_org  TEXT NOT NULL REFERENCES orgs(id)
);

CREATE TABLE IF NOT EXISTS app_versions (
  id                  INTEGER PRIMARY KEY AUTOINCREMENT,
  app_id              TEXT NOT NULL REFERENCES apps(app_id),
  name                TEXT NOT NULL,
  checksum            TEXT,
  session_key         TEXT,
  external_url        TEXT,
  r2_path             TEXT,
  min_update_version  TEXT,
  deleted             INTEGER NOT NULL DEFAULT 0,
  UNIQUE (app_id, name)
);

CREATE TABLE IF NOT EXISTS manifest_entries (
  id              INTEGER PRIMARY KEY AUTOINCREMENT,
  app_version_id  INTEGER NOT NULL REFERENCES app_versions(id) ON DELETE CASCADE,
  file_name       TEXT NOT NULL,
  file_hash       TEXT NOT NULL,
  s3_path         TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_manifest_entries_version ON manifest_entries(app_version_id);

CREATE TABLE IF NOT EXISTS channels (
  id                                INTEGER PRIMARY KEY AUTOINCREMENT,
  app_id                            TEXT NOT NULL REFERENCES apps(app_id),
  name                              TEXT NOT NULL,
  public                            INTEGER NOT NULL DEFAULT 0,
  ios                               INTEGER NOT NULL DEFAULT 1,
  android                           INTEGER NOT NULL DEFAULT 1,
  version                           INTEGER NOT NULL REFERENCES app_versions(id),
  second_version                    INTEGER REFERENCES app_versions(id),
  secondary_version_percentage      REAL NOT NULL DEFAULT 0,
  disable_auto_update               TEXT NOT NULL DEFAULT 'major',
  disable_auto_update_under_native  INTEGER NOT NULL DEFAULT 1,
  allow_dev                         INTEGER NOT NULL DEFAULT 1,
  allow_emulator                    INTEGER NOT NULL DEFAULT 1,
  allow_device_self_set             INTEGER NOT NULL DEFAULT 0,
  owner_org                         TEXT NOT NULL REFERENCES orgs(id),
  UNIQUE (app_id, name)
);

CREATE TABLE IF NOT EXISTS channel_devices (
  app_id      TEXT NOT NULL,
  device_id   TEXT NOT NULL,
  channel_id  INTEGER NOT NULL REFERENCES channels(id) ON DELETE CASCADE,
  created_at  DATETIME NOT NULL,
  PRIMARY KEY (app_id, device_id)
);

CREATE TABLE IF NOT EXISTS devices_override (
  app_id     TEXT NOT NULL,
  device_id  TEXT NOT NULL,
  version    INTEGER NOT NULL REFERENCES app_versions(id) ON DELETE CASCADE,
  PRIMARY KEY (app_id, device_id)
);

CREATE TABLE IF NOT EXISTS devices (
  app_id          TEXT NOT NULL,
  device_id       TEXT NOT NULL,
  platform        TEXT NOT NULL,
  os_version      TEXT NOT NULL DEFAULT '',
  plugin_version  TEXT NOT NULL DEFAULT '',
  version_build   TEXT NOT NULL DEFAULT '',
  version_name    TEXT NOT NULL DEFAULT '',
  custom_id       TEXT NOT NULL DEFAULT '',
  is_prod         INTEGER NOT NULL DEFAULT 1,
  is_emulator     INTEGER NOT NULL DEFAULT 0,
  updated_at      DATETIME NOT NULL,
  PRIMARY KEY (app_id, device_id)
);

CREATE TABLE IF NOT EXISTS stats (
  id          TEXT PRIMARY KEY,
  app_id      TEXT NOT NULL,
  device_id   TEXT NOT NULL,
  action      TEXT NOT NULL,
  version_id  INTEGER NOT NULL DEFAULT 0,
  created_at  DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_stats_app_created ON stats(app_id, created_at);

CREATE TABLE IF NOT EXISTS bandwidth_usage (
  id          TEXT PRIMARY KEY,
  app_id      TEXT NOT NULL,
  device_id   TEXT NOT NULL,
  file_size   INTEGER NOT NULL,
  created_at  DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS mau (
  app_id     TEXT NOT NULL,
  device_id  TEXT NOT NULL,
  period     TEXT NOT NULL,
  PRIMARY KEY (app_id, device_id, period)
);

CREATE TABLE IF NOT EXISTS notifications (
  event_key     TEXT NOT NULL,
  org_id        TEXT NOT NULL,
  period_start  DATETIME NOT NULL,
  last_sent_at  DATETIME NOT NULL,
  PRIMARY KEY (event_key, org_id)
);
`

// Migrate applies the schema.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("apply replica schema: %w", err)
	}
	return nil
}
