package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/refaccionariaweb/storefront-backend/api/controllers"
	"github.com/refaccionariaweb/storefront-backend/api/middleware"
	authsvc "github.com/refaccionariaweb/storefront-backend/internal/auth"
	"github.com/refaccionariaweb/storefront-backend/internal/cart"
	"github.com/refaccionariaweb/storefront-backend/internal/catalog"
	"github.com/refaccionariaweb/storefront-backend/pkg/auth/session"
	"github.com/refaccionariaweb/storefront-backend/pkg/config"
	"github.com/refaccionariaweb/storefront-backend/pkg/db"
	"github.com/refaccionariaweb/storefront-backend/pkg/enums"
	"github.com/refaccionariaweb/storefront-backend/pkg/logger"
	"github.com/refaccionariaweb/storefront-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient db.Pinger,
	redisClient redis.Pinger,
	sessionChecker session.AccessSessionChecker,
	authService authsvc.Service,
	catalogService catalog.Service,
	cartService cart.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, controllers.HealthDeps(dbClient, redisClient)))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.AuthLogin(authService, logg))
		r.With(middleware.Auth(cfg.JWT, sessionChecker, logg)).
			Post("/logout", controllers.AuthLogout(authService, logg))
	})

	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Get("/products", controllers.CatalogListProducts(catalogService, logg))
		r.Get("/products/{id}", controllers.CatalogGetProduct(catalogService, logg))
		r.Get("/vehicles", controllers.CatalogListVehicles(catalogService, logg))
		r.Get("/vehicles/{id}/products", controllers.CatalogProductsForVehicle(catalogService, logg))
	})

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))
		r.Get("/", controllers.CartGet(cartService, logg))
		r.Post("/items", controllers.CartAddItem(cartService, logg))
		r.Patch("/items/{productId}", controllers.CartUpdateItem(cartService, logg))
		r.Delete("/items/{productId}", controllers.CartRemoveItem(cartService, logg))
		r.Delete("/", controllers.CartClear(cartService, logg))
	})

	r.Route("/api/v1/staff", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))
		r.Use(middleware.RequireRole(enums.UserRoleStaff.String(), logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.StaffListProducts(catalogService, logg))
			r.Post("/", controllers.StaffCreateProduct(catalogService, logg))
			r.Get("/trash", controllers.StaffListTrashedProducts(catalogService, logg))
			r.Get("/{id}", controllers.StaffGetProduct(catalogService, logg))
			r.Patch("/{id}", controllers.StaffUpdateProduct(catalogService, logg))
			r.Delete("/{id}", controllers.StaffArchiveProduct(catalogService, logg))
			r.Post("/{id}/restore", controllers.StaffRestoreProduct(catalogService, logg))
			r.Put("/{id}/stock", controllers.StaffSetStock(catalogService, logg))
			r.Get("/{id}/compatibilities", controllers.StaffListCompatibilities(catalogService, logg))
		})

		r.Route("/vehicles", func(r chi.Router) {
			r.Get("/", controllers.CatalogListVehicles(catalogService, logg))
			r.Post("/", controllers.StaffCreateVehicle(catalogService, logg))
			r.Get("/trash", controllers.StaffListTrashedVehicles(catalogService, logg))
			r.Get("/{id}", controllers.StaffGetVehicle(catalogService, logg))
			r.Patch("/{id}", controllers.StaffUpdateVehicle(catalogService, logg))
			r.Delete("/{id}", controllers.StaffArchiveVehicle(catalogService, logg))
			r.Post("/{id}/restore", controllers.StaffRestoreVehicle(catalogService, logg))
		})

		r.Route("/compatibilities", func(r chi.Router) {
			r.Post("/", controllers.StaffLinkCompatibility(catalogService, logg))
			r.Patch("/{id}", controllers.StaffUpdateCompatibility(catalogService, logg))
			r.Delete("/{id}", controllers.StaffUnlinkCompatibility(catalogService, logg))
		})
	})

	return r
}
