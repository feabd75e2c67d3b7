package kv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/smarttech/storefront/pkg/config"
	"github.com/smarttech/storefront/pkg/db/models"
	"github.com/smarttech/storefront/pkg/logger"
	"github.com/smarttech/storefront/pkg/redis"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()

	file, err := NewFile(filepath.Join(t.TempDir(), "nested", "state.json"), nil)
	require.NoError(t, err)

	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, conn.AutoMigrate(&models.KVEntry{}))
	gormStore, err := NewGorm(conn, sqlDB.Close)
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	redisStore, err := NewRedis(redis.NewFromRedis(goredis.NewClient(&goredis.Options{Addr: mr.Addr()})))
	require.NoError(t, err)

	all := map[string]Store{
		"memory": NewMemory(),
		"file":   file,
		"gorm":   gormStore,
		"redis":  redisStore,
	}
	t.Cleanup(func() {
		for _, s := range all {
			_ = s.Close()
		}
	})
	return all
}

func TestStoresRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Get(ctx, "smarttech_cart")
			require.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, store.Set(ctx, "smarttech_cart", `[{"quantity":1}]`))
			got, err := store.Get(ctx, "smarttech_cart")
			require.NoError(t, err)
			assert.Equal(t, `[{"quantity":1}]`, got)

			require.NoError(t, store.Set(ctx, "smarttech_cart", "[]"))
			got, err = store.Get(ctx, "smarttech_cart")
			require.NoError(t, err)
			assert.Equal(t, "[]", got)

			require.NoError(t, store.Set(ctx, "admin_token", "tok"))
			require.NoError(t, store.Delete(ctx, "smarttech_cart"))
			_, err = store.Get(ctx, "smarttech_cart")
			require.ErrorIs(t, err, ErrNotFound)

			got, err = store.Get(ctx, "admin_token")
			require.NoError(t, err)
			assert.Equal(t, "tok", got)

			require.NoError(t, store.Delete(ctx, "never-set"))
		})
	}
}

func TestFilePersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.json")

	first, err := NewFile(path, nil)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "admin_token", "abc"))

	second, err := NewFile(path, nil)
	require.NoError(t, err)
	got, err := second.Get(ctx, "admin_token")
	require.NoError(t, err)
	assert.Equal(t, "abc", got)
}

func TestFileRecoversFromCorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	ctx := context.Background()

	store, err := NewFile(path, nil)
	require.NoError(t, err)
	_, err = store.Get(ctx, "smarttech_cart")
	require.ErrorIs(t, err, ErrNotFound)

	aside, err := os.ReadFile(path + ".corrupt")
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(aside))

	require.NoError(t, store.Set(ctx, "smarttech_cart", `{"items":[]}`))
	require.NoError(t, store.Delete(ctx, "admin_token"))
	got, err := store.Get(ctx, "smarttech_cart")
	require.NoError(t, err)
	assert.Equal(t, `{"items":[]}`, got)
}

func TestFileWriteAfterCorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("[1,2"), 0o600))

	store, err := NewFile(path, nil)
	require.NoError(t, err)
	require.NoError(t, store.Set(context.Background(), "admin_token", "tok"))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"admin_token":"tok"}`, string(raw))
	assert.FileExists(t, path+".corrupt")
}

func TestMemoryHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store := NewMemory()
	require.ErrorIs(t, store.Set(ctx, "k", "v"), context.Canceled)
	_, err := store.Get(ctx, "k")
	require.ErrorIs(t, err, context.Canceled)
}

func TestRedisStoreUsesNamespacedKeys(t *testing.T) {
	mr := miniredis.RunT(t)
	store, err := NewRedis(redis.NewFromRedis(goredis.NewClient(&goredis.Options{Addr: mr.Addr()})))
	require.NoError(t, err)
	require.NoError(t, store.Set(context.Background(), "admin_token", "tok"))

	got, err := mr.Get("sf:kv:admin_token")
	require.NoError(t, err)
	assert.Equal(t, "tok", got)
}

func TestOpenSelectsDriver(t *testing.T) {
	ctx := context.Background()
	logg := logger.Nop()

	mem, err := Open(ctx, &config.Config{Store: config.StoreConfig{Driver: config.StoreDriverMemory}}, logg)
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, mem)

	file, err := Open(ctx, &config.Config{Store: config.StoreConfig{Driver: config.StoreDriverFile, Path: filepath.Join(t.TempDir(), "s.json")}}, logg)
	require.NoError(t, err)
	assert.IsType(t, &File{}, file)

	cfg := &config.Config{
		Store: config.StoreConfig{Driver: config.StoreDriverSQLite},
		DB:    config.DBConfig{DSN: fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())},
	}
	sqliteStore, err := Open(ctx, cfg, logg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqliteStore.Close() })
	require.NoError(t, sqliteStore.Set(ctx, "k", "v"))
	got, err := sqliteStore.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	mr := miniredis.RunT(t)
	redisStore, err := Open(ctx, &config.Config{
		Store: config.StoreConfig{Driver: config.StoreDriverRedis},
		Redis: config.RedisConfig{Address: mr.Addr()},
	}, logg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = redisStore.Close() })
	assert.IsType(t, &Redis{}, redisStore)

	_, err = Open(ctx, &config.Config{Store: config.StoreConfig{Driver: "etcd"}}, logg)
	require.Error(t, err)
}
