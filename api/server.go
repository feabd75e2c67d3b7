// Package api wires the dev backend: repositories, services and the HTTP router.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/smarttech/storefront/api/routes"
	"github.com/smarttech/storefront/internal/auth"
	"github.com/smarttech/storefront/internal/chat"
	"github.com/smarttech/storefront/internal/media"
	"github.com/smarttech/storefront/internal/orders"
	"github.com/smarttech/storefront/internal/products"
	"github.com/smarttech/storefront/pkg/config"
	"github.com/smarttech/storefront/pkg/db"
	"github.com/smarttech/storefront/pkg/logger"
	"github.com/smarttech/storefront/pkg/metrics"
	"github.com/smarttech/storefront/pkg/security"
)

type rateLimiterStore interface {
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
}

// Option customises New.
type Option func(*options)

type options struct {
	registry  *prometheus.Registry
	rateStore rateLimiterStore
}

// WithRegistry registers the server metrics on reg and exposes it on /metrics.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(o *options) { o.registry = reg }
}

// WithRateStore backs the login rate limiter with a shared counter store such as Redis.
func WithRateStore(store rateLimiterStore) Option {
	return func(o *options) { o.rateStore = store }
}

// App is the assembled dev backend.
type App struct {
	Handler http.Handler

	cfg      *config.Config
	auth     auth.Service
	products products.Service
}

// New wires repositories, services and the router over an open database.
func New(cfg *config.Config, logg *logger.Logger, client *db.Client, opts ...Option) (*App, error) {
	if cfg == nil || client == nil {
		return nil, fmt.Errorf("config and database are required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	hasher, err := security.NewHasher(cfg.Password)
	if err != nil {
		return nil, fmt.Errorf("password hasher: %w", err)
	}
	authService, err := auth.NewService(auth.ServiceParams{
		Repo:      auth.NewRepository(client.DB()),
		Hasher:    hasher,
		JWTConfig: cfg.JWT,
		Logger:    logg,
	})
	if err != nil {
		return nil, err
	}
	productService, err := products.NewService(products.NewRepository(client.DB()), logg)
	if err != nil {
		return nil, err
	}
	orderService, err := orders.NewService(orders.NewRepository(client.DB()), client, logg)
	if err != nil {
		return nil, err
	}
	chatService, err := chat.NewService(chat.NewRepository(client.DB()), logg)
	if err != nil {
		return nil, err
	}
	mediaService, err := media.NewService(media.Options{
		Dir:           cfg.Server.UploadDir,
		PublicBaseURL: cfg.Server.PublicBaseURL,
		MaxBytes:      cfg.Server.MaxUploadBytes(),
	}, logg)
	if err != nil {
		return nil, err
	}

	deps := routes.Dependencies{
		DB:        client,
		RateStore: o.rateStore,
		Auth:      authService,
		Products:  productService,
		Orders:    orderService,
		Chat:      chatService,
		Media:     mediaService,
	}
	if o.registry != nil {
		deps.Gatherer = o.registry
		deps.Metrics = metrics.NewHTTPServerMetrics(o.registry)
	}

	return &App{
		Handler:  routes.NewRouter(cfg, logg, deps),
		cfg:      cfg,
		auth:     authService,
		products: productService,
	}, nil
}

// Seed creates the configured admin and, when enabled, the default catalog.
func (a *App) Seed(ctx context.Context) error {
	if err := a.auth.EnsureAdmin(ctx, a.cfg.Admin); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if a.cfg.FeatureFlags.SeedCatalog {
		if err := a.products.SeedCatalog(ctx); err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
	}
	return nil
}

// HTTPServer returns a server for the app with conservative timeouts. Write timeout
// is left open so large video uploads are not cut off.
func (a *App) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           a.Handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
