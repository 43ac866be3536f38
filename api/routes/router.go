package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/campuseats-backend/api/controllers"
	"github.com/angelmondragon/campuseats-backend/api/middleware"
	"github.com/angelmondragon/campuseats-backend/internal/admin"
	"github.com/angelmondragon/campuseats-backend/internal/checkout"
	"github.com/angelmondragon/campuseats-backend/internal/marketplace"
	"github.com/angelmondragon/campuseats-backend/internal/options"
	"github.com/angelmondragon/campuseats-backend/internal/orders"
	"github.com/angelmondragon/campuseats-backend/internal/products"
	"github.com/angelmondragon/campuseats-backend/internal/stores"
	"github.com/angelmondragon/campuseats-backend/internal/users"
	"github.com/angelmondragon/campuseats-backend/pkg/config"
	"github.com/angelmondragon/campuseats-backend/pkg/enums"
	"github.com/angelmondragon/campuseats-backend/pkg/logger"
	"github.com/angelmondragon/campuseats-backend/pkg/metrics"
	"github.com/angelmondragon/campuseats-backend/pkg/redis"

	"github.com/prometheus/client_golang/prometheus"
)

// Services groups the domain services the HTTP surface dispatches to.
type Services struct {
	Users       users.Service
	Stores      stores.Service
	Products    products.Service
	Options     options.Service
	Checkout    checkout.Service
	Orders      orders.Service
	Marketplace marketplace.Service
	Admin       admin.Service
}

// Infra carries the cross-cutting dependencies. Idempotency is nil when redis
// is disabled; nil pingers report as disabled on /health/ready.
type Infra struct {
	Pingers     map[string]controllers.Pinger
	Idempotency redis.IdempotencyStore
	Gatherer    prometheus.Gatherer
	HTTPMetrics *metrics.HTTPMetrics
}

func NewRouter(cfg *config.Config, logg *logger.Logger, infra Infra, svc Services) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.AllowedOrigins()),
		infra.HTTPMetrics.Middleware,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, infra.Pingers))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler(infra.Gatherer))

	r.Route("/api/v1/marketplace", func(r chi.Router) {
		r.Get("/stores", controllers.MarketplaceStores(svc.Marketplace, logg))
		r.Get("/stores/{storeId}", controllers.MarketplaceStoreDetail(svc.Marketplace, logg))
		r.Get("/stores/{storeId}/products", controllers.MarketplaceStoreProducts(svc.Marketplace, logg))
		r.Get("/products", controllers.MarketplacePopularProducts(svc.Marketplace, cfg.Marketplace, logg))
		r.Get("/products/{productId}", controllers.MarketplaceProductDetail(svc.Marketplace, logg))
		r.Get("/search", controllers.MarketplaceSearch(svc.Marketplace, cfg.Marketplace, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.SyncUser(svc.Users, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.UserRoleStudent))
			r.With(middleware.Idempotency(infra.Idempotency, cfg.Redis.IdempotencyTTL, logg)).
				Post("/", controllers.BuyerCreateOrder(svc.Checkout, logg))
			r.Get("/", controllers.BuyerListOrders(svc.Orders, logg))
		})

		r.Route("/vendor", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.UserRoleVendor))

			r.Route("/store", func(r chi.Router) {
				r.Post("/", controllers.VendorCreateStore(svc.Stores, cfg.Media, logg))
				r.Get("/", controllers.VendorGetStore(svc.Stores, logg))
				r.Patch("/", controllers.VendorUpdateStore(svc.Stores, logg))
				r.Put("/open", controllers.VendorSetStoreOpen(svc.Stores, logg))
				r.Put("/schedules", controllers.VendorUpdateSchedules(svc.Stores, logg))
				r.Post("/logo", controllers.VendorUploadStoreLogo(svc.Stores, cfg.Media, logg))
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.StoreContext(svc.Stores, logg))

				r.Route("/products", func(r chi.Router) {
					r.Get("/", controllers.VendorListProducts(svc.Products, logg))
					r.Post("/", controllers.VendorCreateProduct(svc.Products, cfg.Media, logg))
					r.Patch("/{productId}", controllers.VendorUpdateProduct(svc.Products, logg))
					r.Delete("/{productId}", controllers.VendorDeleteProduct(svc.Products, logg))
					r.Post("/{productId}/image", controllers.VendorUploadProductImage(svc.Products, cfg.Media, logg))
					r.Post("/{productId}/categories", controllers.VendorAssignProductCategory(svc.Products, logg))
					r.Delete("/{productId}/categories/{categoryId}", controllers.VendorRemoveProductCategory(svc.Products, logg))
				})

				r.Get("/option-categories", controllers.VendorListOptionCategories(svc.Options, logg))
				r.Post("/option-categories", controllers.VendorCreateOptionCategory(svc.Options, logg))

				r.Route("/orders", func(r chi.Router) {
					r.Get("/", controllers.VendorListOrders(svc.Orders, logg))
					r.Post("/{orderId}/accept", controllers.VendorAcceptOrder(svc.Orders, logg))
					r.Post("/{orderId}/ready", controllers.VendorMarkOrderReady(svc.Orders, logg))
					r.Post("/{orderId}/cancel", controllers.VendorCancelOrder(svc.Orders, logg))
				})
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.UserRoleAdmin))
			r.Get("/stores", controllers.AdminListStores(svc.Admin, logg))
			r.Get("/stores/{storeId}", controllers.AdminGetStore(svc.Admin, logg))
			r.Post("/stores/{storeId}/approve", controllers.AdminApproveStore(svc.Admin, logg))
			r.Post("/stores/{storeId}/reject", controllers.AdminRejectStore(svc.Admin, logg))
			r.Post("/stores/{storeId}/reactivate", controllers.AdminReactivateStore(svc.Admin, logg))
			r.Get("/stats", controllers.AdminStats(svc.Admin, logg))
		})
	})

	return r
}
