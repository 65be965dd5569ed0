package routes

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nuthub-il/nuthub-backend/api/controllers"
	"github.com/nuthub-il/nuthub-backend/api/middleware"
	authsvc "github.com/nuthub-il/nuthub-backend/internal/auth"
	"github.com/nuthub-il/nuthub-backend/internal/catalog"
	ordersvc "github.com/nuthub-il/nuthub-backend/internal/orders"
	uploadsvc "github.com/nuthub-il/nuthub-backend/internal/uploads"
	"github.com/nuthub-il/nuthub-backend/pkg/config"
	"github.com/nuthub-il/nuthub-backend/pkg/logger"
	"github.com/nuthub-il/nuthub-backend/pkg/metrics"
	"github.com/nuthub-il/nuthub-backend/pkg/redis"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       controllers.Pinger
	Redis    *redis.Client
	Metrics  *metrics.HTTPMetrics
	Gatherer prometheus.Gatherer

	Auth    authsvc.Service
	Catalog catalog.Service
	Orders  ordersvc.Service
	Uploads uploadsvc.Service
	Hypay   controllers.HypaySigner
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(d.Metrics),
	)

	if len(cfg.CORS.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORS.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(logg, map[string]controllers.Pinger{
			"database": d.DB,
			"redis":    redisPinger(d.Redis),
		}))
	})

	if d.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	if cfg.Uploads.Dir != "" {
		r.Get("/uploads/*", serveUploads(cfg.Uploads.Dir))
	}

	r.Route("/api", func(r chi.Router) {
		if d.Redis != nil {
			r.Use(middleware.RateLimit(cfg.RateLimit, d.Redis, logg))
		}

		r.Post("/auth/login", controllers.Login(d.Auth, logg))

		r.Get("/categories", controllers.ListCategories(d.Catalog, logg))
		r.Get("/categories/{id}", controllers.GetCategory(d.Catalog, logg))
		r.Get("/products", controllers.ListProducts(d.Catalog, logg))
		r.Get("/products/{id}", controllers.GetProduct(d.Catalog, logg))

		r.Post("/orders", controllers.CreateOrder(d.Orders, logg))
		r.Get("/order-items/order/{orderId}", controllers.ListOrderItems(d.Orders, logg))

		r.Post("/hypay-sign", controllers.HypaySign(d.Hypay, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.RequireAdmin(logg))

			r.Get("/auth/me", controllers.Me(d.Auth, logg))

			r.Post("/categories", controllers.CreateCategory(d.Catalog, logg))
			r.Put("/categories/{id}", controllers.UpdateCategory(d.Catalog, logg))
			r.Delete("/categories/{id}", controllers.DeleteCategory(d.Catalog, logg))
			r.Post("/categories/upload-image", controllers.UploadImage(d.Uploads, logg))

			r.Post("/products", controllers.CreateProduct(d.Catalog, logg))
			r.Put("/products/{id}", controllers.UpdateProduct(d.Catalog, logg))
			r.Delete("/products/{id}", controllers.DeleteProduct(d.Catalog, logg))
			r.Post("/products/upload-image", controllers.UploadImage(d.Uploads, logg))

			r.Get("/orders", controllers.ListOrders(d.Orders, logg))
			r.Get("/orders/{id}", controllers.GetOrder(d.Orders, logg))
			r.Put("/orders/{id}", controllers.UpdateOrderStatus(d.Orders, logg))
			r.Delete("/orders/{id}", controllers.DeleteOrder(d.Orders, logg))

			r.Get("/order-items", controllers.ListAllOrderItems(d.Orders, logg))
			r.Get("/order-items/{id}", controllers.GetOrderItem(d.Orders, logg))
			r.Post("/order-items", controllers.CreateOrderItem(d.Orders, logg))
			r.Put("/order-items/{id}", controllers.UpdateOrderItem(d.Orders, logg))
			r.Delete("/order-items/{id}", controllers.DeleteOrderItem(d.Orders, logg))
		})
	})

	return r
}

// serveUploads serves stored images only; anything outside the image
// extension allow-list is a 404.
func serveUploads(dir string) http.HandlerFunc {
	fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(dir)))
	return func(w http.ResponseWriter, r *http.Request) {
		ext := strings.ToLower(filepath.Ext(r.URL.Path))
		if !uploadsvc.AllowedExtensions[ext] {
			http.NotFound(w, r)
			return
		}
		fs.ServeHTTP(w, r)
	}
}

// redisPinger keeps a typed-nil redis client from masquerading as a
// live health-check target.
func redisPinger(client *redis.Client) controllers.Pinger {
	if client == nil {
		return nil
	}
	return client
}
