package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if !cfg.App.IsDev() {
		t.Fatalf("expected dev env by default, got %q", cfg.App.Env)
	}
	if cfg.API.BaseURL != "http://localhost:8000" {
		t.Fatalf("unexpected base url %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 0 {
		t.Fatalf("expected no client timeout by default, got %v", cfg.API.Timeout)
	}
	if cfg.Store.Driver != StoreDriverFile {
		t.Fatalf("expected file store by default, got %q", cfg.Store.Driver)
	}
	if !cfg.DB.IsSQLite() {
		t.Fatalf("expected sqlite by default, got %q", cfg.DB.Driver)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv(EnvAppEnv, "prod")
	t.Setenv(EnvAPIURL, "https://nasimsir.onrender.com/")
	t.Setenv(EnvAPITimeout, "15s")
	t.Setenv(EnvStoreDriver, "REDIS")
	t.Setenv(EnvRedisURL, "redis://localhost:6379/2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if !cfg.App.IsProd() {
		t.Fatalf("expected prod env, got %q", cfg.App.Env)
	}
	if cfg.API.BaseURL != "https://nasimsir.onrender.com" {
		t.Fatalf("trailing slash should be trimmed, got %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 15*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.API.Timeout)
	}
	if cfg.Store.Driver != StoreDriverRedis {
		t.Fatalf("driver should be normalized, got %q", cfg.Store.Driver)
	}
	if cfg.Redis.URL != "redis://localhost:6379/2" {
		t.Fatalf("unexpected redis url %q", cfg.Redis.URL)
	}
}

func TestLoad_RejectsUnknownStoreDriver(t *testing.T) {
	t.Setenv(EnvStoreDriver, "cookie-jar")
	if _, err := Load(); err == nil {
		t.Fatal("expected unsupported driver to fail")
	}
}

func TestLoad_RejectsBadAPIURL(t *testing.T) {
	t.Setenv(EnvAPIURL, "ftp://example.com")
	if _, err := Load(); err == nil {
		t.Fatal("expected non-http scheme to fail")
	}
}

func TestValidateServer(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if err := cfg.ValidateServer(); err == nil {
		t.Fatal("expected missing jwt secret and admin password to fail")
	}

	t.Setenv(EnvJWTSecret, "secret")
	t.Setenv(EnvAdminPassword, "hunter2")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if err := cfg.ValidateServer(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAppConfigEnvHelpers(t *testing.T) {
	devConfig := AppConfig{Env: "DEV"}
	if !devConfig.IsDev() || devConfig.IsProd() {
		t.Fatalf("unexpected helpers for %q", devConfig.Env)
	}
	prodConfig := AppConfig{Env: "prod"}
	if !prodConfig.IsProd() || prodConfig.IsDev() {
		t.Fatalf("unexpected helpers for %q", prodConfig.Env)
	}
}

func TestMaxUploadBytes(t *testing.T) {
	if got := (ServerConfig{MaxUploadMB: 2}).MaxUploadBytes(); got != 2<<20 {
		t.Fatalf("unexpected bytes %d", got)
	}
	if got := (ServerConfig{}).MaxUploadBytes(); got != 0 {
		t.Fatalf("expected unlimited, got %d", got)
	}
}
