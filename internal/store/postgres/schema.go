package postgres

import (
	"context"
	"fmt"
)

// Schema is the primary-store DDL, applied by `updrift migrate`.
const Schema = `
CREATE TABLE IF NOT EXISTS orgs (
  id                  TEXT PRIMARY KEY,
  name                TEXT NOT NULL DEFAULT '',
  trial_until         TIMESTAMPTZ,
  status              TEXT NOT NULL DEFAULT '',
  is_good_plan        BOOLEAN NOT NULL DEFAULT false,
  mau_exceeded        BOOLEAN NOT NULL DEFAULT false,
  storage_exceeded    BOOLEAN NOT NULL DEFAULT false,
  bandwidth_exceeded  BOOLEAN NOT NULL DEFAULT false
);

CREATE TABLE IF NOT EXISTS apps (
  app_id     TEXT PRIMARY KEY,
  name       TEXT NOT NULL DEFAULT '',
  owner_org  TEXT NOT NULL REFERENCES orgs(id)
);

CREATE TABLE IF NOT EXISTS app_versions (
  id                  BIGSERIAL PRIMARY KEY,
  app_id              TEXT NOT NULL REFERENCES apps(app_id),
  name                TEXT NOT NULL,
  checksum            TEXT,
  session_key         TEXT,
  external_url        TEXT,
  r2_path             TEXT,
  min_update_version  TEXT,
  deleted             BOOLEAN NOT NULL DEFAULT false,
  UNIQUE (app_id, name)
);

CREATE TABLE IF NOT EXISTS manifest_entries (
  id              BIGSERIAL PRIMARY KEY,
  app_version_id  BIGINT NOT NULL REFERENCES app_versions(id) ON DELETE CASCADE,
  file_name       TEXT NOT NULL,
  file_hash       TEXT NOT NULL,
  s3_path         TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_manifest_entries_version ON manifest_entries(app_version_id);

CREATE TABLE IF NOT EXISTS channels (
  id                                BIGSERIAL PRIMARY KEY,
  app_id                            TEXT NOT NULL REFERENCES apps(app_id),
  name                              TEXT NOT NULL,
  public                            BOOLEAN NOT NULL DEFAULT false,
  ios                               BOOLEAN NOT NULL DEFAULT true,
  android                           BOOLEAN NOT NULL DEFAULT true,
  version                           BIGINT NOT NULL REFERENCES app_versions(id),
  second_version                    BIGINT REFERENCES app_versions(id),
  secondary_version_percentage      DOUBLE PRECISION NOT NULL DEFAULT 0,
  disable_auto_update               TEXT NOT NULL DEFAULT 'major',
  disable_auto_update_under_native  BOOLEAN NOT NULL DEFAULT true,
  allow_dev                         BOOLEAN NOT NULL DEFAULT true,
  allow_emulator                    BOOLEAN NOT NULL DEFAULT true,
  allow_device_self_set             BOOLEAN NOT NULL DEFAULT false,
  owner_org                         TEXT NOT NULL REFERENCES orgs(id),
  UNIQUE (app_id, name)
);

CREATE TABLE IF NOT EXISTS channel_devices (
  app_id      TEXT NOT NULL,
  device_id   TEXT NOT NULL,
  channel_id  BIGINT NOT NULL REFERENCES channels(id) ON DELETE CASCADE,
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
  PRIMARY KEY (app_id, device_id)
);

CREATE TABLE IF NOT EXISTS devices_override (
  app_id     TEXT NOT NULL,
  device_id  TEXT NOT NULL,
  version    BIGINT NOT NULL REFERENCES app_versions(id) ON DELETE CASCADE,
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
  is_prod         BOOLEAN NOT NULL DEFAULT true,
  is_emulator     BOOLEAN NOT NULL DEFAULT false,
  updated_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
  PRIMARY KEY (app_id, device_id)
);

CREATE TABLE IF NOT EXISTS stats (
  id          UUID PRIMARY KEY,
  app_id      TEXT NOT NULL,
  device_id   TEXT NOT NULL,
  action      TEXT NOT NULL,
  version_id  BIGINT NOT NULL DEFAULT 0,
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_stats_app_created ON stats(app_id, created_at);

CREATE TABLE IF NOT EXISTS bandwidth_usage (
  id          UUID PRIMARY KEY,
  app_id      TEXT NOT NULL,
  device_id   TEXT NOT NULL,
  file_size   BIGINT NOT NULL,
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS mau (
  app_id     TEXT NOT NULL,
  device_id  TEXT NOT NULL,
  period     DATE NOT NULL,
  PRIMARY KEY (app_id, device_id, period)
);

CREATE TABLE IF NOT EXISTS notifications (
  event_key     TEXT NOT NULL,
  org_id        TEXT NOT NULL,
  period_start  TIMESTAMPTZ NOT NULL,
  last_sent_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
  PRIMARY KEY (event_key, org_id)
);
`

// Migrate applies the schema.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("apply postgres schema: %w", err)
	}
	return nil
}
