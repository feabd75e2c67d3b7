package kv

import (
	"context"
	"fmt"

	"github.com/smarttech/storefront/pkg/config"
	"github.com/smarttech/storefront/pkg/db"
	"github.com/smarttech/storefront/pkg/logger"
	"github.com/smarttech/storefront/pkg/migrate"
	"github.com/smarttech/storefront/pkg/redis"
)

// Open builds the Store selected by cfg.Store.Driver. Database-backed stores share the
// dev backend's schema and apply migrations before first use.
func Open(ctx context.Context, cfg *config.Config, logg *logger.Logger) (Store, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		return NewMemory(), nil
	case config.StoreDriverFile:
		return NewFile(cfg.Store.Path, logg)
	case config.StoreDriverSQLite, config.StoreDriverPostgres:
		dbCfg := cfg.DB
		dbCfg.Driver = cfg.Store.Driver
		client, err := db.New(ctx, dbCfg, logg)
		if err != nil {
			return nil, err
		}
		sqlDB, err := client.DB().DB()
		if err != nil {
			_ = client.Close()
			return nil, err
		}
		if err := migrate.Run(ctx, sqlDB, client.Dialect(), "up"); err != nil {
			_ = client.Close()
			return nil, err
		}
		return NewGorm(client.DB(), client.Close)
	case config.StoreDriverRedis:
		client, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, err
		}
		return NewRedis(client)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}
