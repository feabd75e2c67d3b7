package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/smarttech/storefront/api/controllers"
	"github.com/smarttech/storefront/api/middleware"
	"github.com/smarttech/storefront/internal/auth"
	"github.com/smarttech/storefront/internal/chat"
	"github.com/smarttech/storefront/internal/media"
	"github.com/smarttech/storefront/internal/orders"
	"github.com/smarttech/storefront/internal/products"
	"github.com/smarttech/storefront/internal/storefront"
	"github.com/smarttech/storefront/pkg/config"
	"github.com/smarttech/storefront/pkg/db"
	"github.com/smarttech/storefront/pkg/logger"
	"github.com/smarttech/storefront/pkg/metrics"
)

type rateLimiterStore interface {
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
}

// Dependencies bundles what the router hands to the controllers.
type Dependencies struct {
	DB        db.Pinger
	RateStore rateLimiterStore
	Gatherer  prometheus.Gatherer
	Metrics   *metrics.HTTPServerMetrics

	Auth     auth.Service
	Products products.Service
	Orders   orders.Service
	Chat     chat.Service
	Media    media.Service
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, deps.Metrics),
		middleware.CORS(cfg.Server.CORSOrigins),
	)

	rateStore := deps.RateStore
	if rateStore == nil {
		rateStore = middleware.NewMemoryRateStore()
	}
	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"admin_login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginUsernameLimit,
	)
	adminAuth := middleware.AdminAuth(cfg.JWT, logg)

	r.Get("/health", controllers.Health(cfg, deps.DB, logg))
	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", controllers.ListProducts(deps.Products, logg))
		r.Get("/{id}", controllers.GetProduct(deps.Products, logg))
	})

	r.Route("/api/orders", func(r chi.Router) {
		r.Post("/", controllers.CreateOrder(deps.Orders, logg))
		r.Group(func(r chi.Router) {
			r.Use(adminAuth)
			r.Get("/", controllers.AdminListOrders(deps.Orders, logg))
			r.Get("/{id}", controllers.AdminGetOrder(deps.Orders, logg))
			r.Put("/{id}", controllers.AdminUpdateOrder(deps.Orders, logg))
			r.Delete("/{id}", controllers.AdminDeleteOrder(deps.Orders, logg))
		})
	})

	r.Route("/api/chat", func(r chi.Router) {
		r.Post("/", controllers.SendChat(deps.Chat, logg))
		r.Get("/history/{session_id}", controllers.ChatHistory(deps.Chat, logg))
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, rateStore, logg)).Post("/login", controllers.AdminLogin(deps.Auth, logg))
		r.Group(func(r chi.Router) {
			r.Use(adminAuth)
			r.Get("/me", controllers.AdminMe(deps.Auth, logg))
			r.Route("/files", func(r chi.Router) {
				maxBytes := cfg.Server.MaxUploadBytes()
				r.Post("/upload-image", controllers.UploadFile(storefront.FileTypeImages, deps.Media, maxBytes, logg))
				r.Post("/upload-video", controllers.UploadFile(storefront.FileTypeVideos, deps.Media, maxBytes, logg))
				r.Get("/list/{type}", controllers.ListFiles(deps.Media, logg))
				r.Delete("/delete/{type}/{filename}", controllers.DeleteFile(deps.Media, logg))
				r.Put("/update-product-media/{id}", controllers.UpdateProductMedia(deps.Products, logg))
			})
		})
	})

	r.With(adminAuth).Get("/api/dashboard/stats", controllers.DashboardStats(deps.Orders, logg))

	uploads := http.StripPrefix(media.PublicPrefix+"/", http.FileServer(http.Dir(cfg.Server.UploadDir)))
	r.Handle(media.PublicPrefix+"/*", uploads)

	return r
}
