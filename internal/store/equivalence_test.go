package store_test

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/updrift/updrift/internal/store"
	"github.com/updrift/updrift/internal/store/postgres"
	"github.com/updrift/updrift/internal/store/replica"
)

// Seed statements shared verbatim between both dialects: explicit ids,
// explicit column lists, TRUE/FALSE literals.
var equivalenceSeed = []string{
	`INSERT INTO orgs (id, name, status, is_good_plan) VALUES ('org-1', 'Demo Org', 'succeeded', TRUE)`,
	`INSERT INTO apps (app_id, name, owner_org) VALUES ('com.demo.app', 'Demo', 'org-1')`,

	`INSERT INTO app_versions (id, app_id, name, checksum, r2_path, deleted)
	 VALUES (1, 'com.demo.app', '1.0.0', 'aaa', 'org-1/com.demo.app/1.0.0.zip', FALSE)`,
	`INSERT INTO app_versions (id, app_id, name, checksum, r2_path, deleted)
	 VALUES (2, 'com.demo.app', '1.1.0', 'bbb', 'org-1/com.demo.app/1.1.0.zip', FALSE)`,
	`INSERT INTO app_versions (id, app_id, name, checksum, r2_path, deleted)
	 VALUES (3, 'com.demo.app', '2.0.0', 'ccc', 'org-1/com.demo.app/2.0.0.zip', FALSE)`,
	`INSERT INTO app_versions (id, app_id, name, checksum, r2_path, deleted)
	 VALUES (4, 'com.demo.app', '1.2.0', 'ddd', 'org-1/com.demo.app/1.2.0.zip', FALSE)`,
	`INSERT INTO app_versions (id, app_id, name, checksum, r2_path, deleted)
	 VALUES (5, 'com.demo.app', '0.9.0', 'eee', 'org-1/com.demo.app/0.9.0.zip', TRUE)`,

	`INSERT INTO manifest_entries (app_version_id, file_name, file_hash, s3_path)
	 VALUES (2, 'index.html', 'h1', 'org-1/com.demo.app/1.1.0/index.html')`,
	`INSERT INTO manifest_entries (app_version_id, file_name, file_hash, s3_path)
	 VALUES (2, 'app.js', 'h2', 'org-1/com.demo.app/1.1.0/app.js')`,

	`INSERT INTO channels (id, app_id, name, public, ios, android, version, secondary_version_percentage,
	   disable_auto_update, disable_auto_update_under_native, allow_dev, allow_emulator, allow_device_self_set, owner_org)
	 VALUES (10, 'com.demo.app', 'production', TRUE, TRUE, FALSE, 2, 0, 'none', FALSE, TRUE, TRUE, FALSE, 'org-1')`,
	`INSERT INTO channels (id, app_id, name, public, ios, android, version, secondary_version_percentage,
	   disable_auto_update, disable_auto_update_under_native, allow_dev, allow_emulator, allow_device_self_set, owner_org)
	 VALUES (20, 'com.demo.app', 'droid', TRUE, FALSE, TRUE, 3, 0, 'none', FALSE, TRUE, TRUE, FALSE, 'org-1')`,
	`INSERT INTO channels (id, app_id, name, public, ios, android, version, secondary_version_percentage,
	   disable_auto_update, disable_auto_update_under_native, allow_dev, allow_emulator, allow_device_self_set, owner_org)
	 VALUES (11, 'com.demo.app', 'beta', FALSE, TRUE, TRUE, 3, 0, 'none', FALSE, TRUE, TRUE, TRUE, 'org-1')`,
	`INSERT INTO channels (id, app_id, name, public, ios, android, version, second_version, secondary_version_percentage,
	   disable_auto_update, disable_auto_update_under_native, allow_dev, allow_emulator, allow_device_self_set, owner_org)
	 VALUES (12, 'com.demo.app', 'rollout', FALSE, TRUE, TRUE, 2, 4, 0.5, 'none', FALSE, TRUE, TRUE, TRUE, 'org-1')`,

	`INSERT INTO channel_devices (app_id, device_id, channel_id, created_at)
	 VALUES ('com.demo.app', 'device-ovr', 11, CURRENT_TIMESTAMP)`,
	`INSERT INTO devices_override (app_id, device_id, version) VALUES ('com.demo.app', 'device-pin', 3)`,
}

// Tables emptied before seeding, children first.
var equivalenceReset = []string{
	"channel_devices", "devices_override", "manifest_entries",
	"channels", "app_versions", "devices", "apps", "orgs",
}

func openSeededReplica(t *testing.T) *replica.Store {
	t.Helper()
	db, err := sql.Open("sqlite3", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	db.SetMaxOpenConns(1)

	s := replica.NewWithDB(db)
	ctx := context.Background()
	require.NoError(t, s.Migrate(ctx))
	for _, stmt := range equivalenceSeed {
		_, err := db.ExecContext(ctx, stmt)
		require.NoError(t, err, stmt)
	}
	return s
}

func openSeededPostgres(t *testing.T) *postgres.Store {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		return nil
	}

	ctx := context.Background()
	s, err := postgres.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	require.NoError(t, s.Migrate(ctx))
	for _, table := range equivalenceReset {
		_, err := s.Pool().Exec(ctx, "DELETE FROM "+table)
		require.NoError(t, err, table)
	}
	for _, stmt := range equivalenceSeed {
		_, err := s.Pool().Exec(ctx, stmt)
		require.NoError(t, err, stmt)
	}
	return s
}

// Both adapters must produce identical resolution structures from identical
// fixtures. The replica side always runs; the primary side joins in when
// TEST_DATABASE_URL points at a scratch Postgres.
func TestResolveRequestBackendEquivalence(t *testing.T) {
	rep := openSeededReplica(t)
	pg := openSeededPostgres(t)
	ctx := context.Background()

	query := func(deviceID string, platform store.Platform, versionName, defaultChannel string) store.ResolveQuery {
		return store.ResolveQuery{
			AppID:          "com.demo.app",
			DeviceID:       deviceID,
			Platform:       platform,
			VersionName:    versionName,
			DefaultChannel: defaultChannel,
		}
	}

	tests := []struct {
		name  string
		q     store.ResolveQuery
		check func(t *testing.T, res *store.RequestResolution)
	}{
		{
			"public ios channel",
			query("device-1", store.PlatformIOS, "1.0.0", ""),
			func(t *testing.T, res *store.RequestResolution) {
				require.NotNil(t, res.Channel)
				assert.Equal(t, "production", res.Channel.Channel.Name)
				assert.Equal(t, "1.1.0", res.Channel.Primary.Name)
				// Manifest order is part of the contract.
				require.Len(t, res.Channel.Primary.Manifest, 2)
				assert.Equal(t, "app.js", res.Channel.Primary.Manifest[0].FileName)
				assert.Equal(t, "index.html", res.Channel.Primary.Manifest[1].FileName)
			},
		},
		{
			"public android channel",
			query("device-1", store.PlatformAndroid, "1.0.0", ""),
			func(t *testing.T, res *store.RequestResolution) {
				require.NotNil(t, res.Channel)
				assert.Equal(t, "droid", res.Channel.Channel.Name)
				assert.Equal(t, "2.0.0", res.Channel.Primary.Name)
			},
		},
		{
			"named private channel",
			query("device-1", store.PlatformIOS, "1.0.0", "beta"),
			func(t *testing.T, res *store.RequestResolution) {
				require.NotNil(t, res.Channel)
				assert.Equal(t, "beta", res.Channel.Channel.Name)
				assert.True(t, res.Channel.Channel.AllowDeviceSelfSet)
			},
		},
		{
			"override beats public channel",
			query("device-ovr", store.PlatformIOS, "1.0.0", ""),
			func(t *testing.T, res *store.RequestResolution) {
				require.NotNil(t, res.Override)
				assert.Equal(t, "beta", res.Override.Channel.Name)
				assert.Nil(t, res.Channel, "channel must not be fetched once an override exists")
			},
		},
		{
			"device version pin surfaced",
			query("device-pin", store.PlatformIOS, "1.0.0", ""),
			func(t *testing.T, res *store.RequestResolution) {
				require.NotNil(t, res.VersionOverride)
				assert.Equal(t, "2.0.0", res.VersionOverride.Name)
				require.NotNil(t, res.Channel)
			},
		},
		{
			"unknown requested version",
			query("device-1", store.PlatformIOS, "9.9.9", ""),
			func(t *testing.T, res *store.RequestResolution) {
				assert.Nil(t, res.RequestedVersion)
			},
		},
		{
			"deleted version hidden",
			query("device-1", store.PlatformIOS, "0.9.0", ""),
			func(t *testing.T, res *store.RequestResolution) {
				assert.Nil(t, res.RequestedVersion)
			},
		},
		{
			"rollout variant carried",
			query("device-1", store.PlatformIOS, "1.0.0", "rollout"),
			func(t *testing.T, res *store.RequestResolution) {
				require.NotNil(t, res.Channel)
				require.NotNil(t, res.Channel.Secondary)
				assert.Equal(t, "1.2.0", res.Channel.Secondary.Name)
				assert.Equal(t, 0.5, res.Channel.SplitPercent)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repRes, err := rep.ResolveRequest(ctx, tt.q)
			require.NoError(t, err)
			tt.check(t, repRes)

			if pg == nil {
				t.Log("TEST_DATABASE_URL not set, skipping primary-side comparison")
				return
			}

			pgRes, err := pg.ResolveRequest(ctx, tt.q)
			require.NoError(t, err)
			tt.check(t, pgRes)
			assert.Equal(t, pgRes, repRes, "backends must resolve identically")
		})
	}
}
