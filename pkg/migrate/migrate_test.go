package migrate

import (
	"context"
	"fmt"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/smarttech/storefront/pkg/config"
	"github.com/smarttech/storefront/pkg/db"
	"github.com/smarttech/storefront/pkg/logger"
)

func openSQLite(t *testing.T) *db.Client {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db.Wrap(conn)
}

func TestEmbeddedMigrationsAreValid(t *testing.T) {
	require.NoError(t, Validate())
}

func TestValidateDirRejectsBadFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"m/20260101000000_ok.sql":  {Data: []byte("-- +goose Up\n-- +goose Down\n")},
		"m/20260101000000_dup.sql": {Data: []byte("-- +goose Up\n-- +goose Down\n")},
	}
	_, err := validateDir(fsys, "m")
	require.ErrorContains(t, err, "duplicate migration version")

	fsys = fstest.MapFS{"m/bad-name.sql": {Data: []byte("")}}
	_, err = validateDir(fsys, "m")
	require.ErrorContains(t, err, "invalid migration filename")

	fsys = fstest.MapFS{"m/20260101000000_no_down.sql": {Data: []byte("-- +goose Up\n")}}
	_, err = validateDir(fsys, "m")
	require.ErrorContains(t, err, "missing")
}

func TestRunUpCreatesSchema(t *testing.T) {
	client := openSQLite(t)
	sqlDB, err := client.DB().DB()
	require.NoError(t, err)

	require.NoError(t, Run(context.Background(), sqlDB, client.Dialect(), "up"))

	for _, table := range []string{"products", "customers", "orders", "chat_sessions", "chat_messages", "admins", "kv_entries"} {
		require.True(t, client.DB().Migrator().HasTable(table), "missing table %s", table)
	}

	version, err := Version(sqlDB, client.Dialect())
	require.NoError(t, err)
	require.EqualValues(t, 20261001120400, version)
}

func TestMaybeRunRespectsFlag(t *testing.T) {
	client := openSQLite(t)
	cfg := &config.Config{}
	require.NoError(t, MaybeRun(context.Background(), cfg, logger.Nop(), client))
	require.False(t, client.DB().Migrator().HasTable("products"))

	cfg.FeatureFlags.AutoMigrate = true
	require.NoError(t, MaybeRun(context.Background(), cfg, logger.Nop(), client))
	require.True(t, client.DB().Migrator().HasTable("products"))
}

func TestDirForUnknownDialect(t *testing.T) {
	_, err := DirFor("mysql")
	require.Error(t, err)
}
