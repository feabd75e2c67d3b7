// Command storefront is the customer and admin surface of the SmartTech store.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/smarttech/storefront/pkg/config"
	"github.com/smarttech/storefront/pkg/kv"
	"github.com/smarttech/storefront/pkg/logger"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront"})
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}
	logg = logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := kv.Open(ctx, cfg, logg)
	if err != nil {
		logg.Error(ctx, "failed to open local state store", err)
		os.Exit(1)
	}

	code := run(ctx, os.Args[1:], env{
		cfg:    cfg,
		logg:   logg,
		store:  store,
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	})
	if err := store.Close(); err != nil {
		logg.Error(ctx, "error closing local state store", err)
	}
	stop()
	os.Exit(code)
}
