// Package apitest runs the dev backend on an httptest server for package tests.
package apitest

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/smarttech/storefront/api"
	"github.com/smarttech/storefront/pkg/config"
	"github.com/smarttech/storefront/pkg/db/dbtest"
	"github.com/smarttech/storefront/pkg/logger"
)

const (
	AdminUsername = "admin"
	AdminPassword = "s3cret-pass"
)

// Server is a seeded dev backend listening on a loopback port.
type Server struct {
	*httptest.Server
	Config   *config.Config
	Registry *prometheus.Registry
}

// Config returns settings suitable for tests: cheap password hashing, a temp upload
// dir and a 1 MB upload limit.
func Config(t testing.TB) *config.Config {
	t.Helper()
	return &config.Config{
		App: config.AppConfig{Env: config.AppEnvDev, LogLevel: "debug"},
		Server: config.ServerConfig{
			PublicBaseURL:   "http://localhost:8000",
			UploadDir:       t.TempDir(),
			MaxUploadMB:     1,
			ShutdownTimeout: time.Second,
		},
		JWT:   config.JWTConfig{Secret: "test-secret", Issuer: "smarttech", ExpirationMinutes: 30},
		Admin: config.AdminConfig{Username: AdminUsername, Password: AdminPassword, Email: "admin@smarttech.local"},
		Password: config.PasswordConfig{
			ArgonMemoryKB: 8192, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32,
		},
		AuthRateLimit: config.AuthRateLimitConfig{
			LoginWindow:        time.Minute,
			LoginIPLimit:       50,
			LoginUsernameLimit: 5,
		},
		FeatureFlags: config.FeatureFlagsConfig{SeedCatalog: true},
	}
}

// Start seeds a fresh in-memory database and serves the full router. mutate may
// adjust the config before anything is built.
func Start(t testing.TB, mutate ...func(*config.Config)) *Server {
	t.Helper()
	cfg := Config(t)
	for _, fn := range mutate {
		fn(cfg)
	}
	registry := prometheus.NewRegistry()
	app, err := api.New(cfg, logger.Nop(), dbtest.Open(t), api.WithRegistry(registry))
	if err != nil {
		t.Fatalf("build app: %v", err)
	}
	if err := app.Seed(context.Background()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	srv := httptest.NewServer(app.Handler)
	t.Cleanup(srv.Close)
	return &Server{Server: srv, Config: cfg, Registry: registry}
}
