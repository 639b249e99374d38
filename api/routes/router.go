package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/flourhouse/bakery-backend/api/controllers"
	"github.com/flourhouse/bakery-backend/api/middleware"
	"github.com/flourhouse/bakery-backend/internal/auth"
	"github.com/flourhouse/bakery-backend/internal/cart"
	"github.com/flourhouse/bakery-backend/internal/catalog"
	checkoutsvc "github.com/flourhouse/bakery-backend/internal/checkout"
	"github.com/flourhouse/bakery-backend/internal/orders"
	"github.com/flourhouse/bakery-backend/internal/products"
	"github.com/flourhouse/bakery-backend/internal/reviews"
	"github.com/flourhouse/bakery-backend/internal/users"
	"github.com/flourhouse/bakery-backend/pkg/config"
	"github.com/flourhouse/bakery-backend/pkg/db"
	"github.com/flourhouse/bakery-backend/pkg/enums"
	"github.com/flourhouse/bakery-backend/pkg/logger"
	"github.com/flourhouse/bakery-backend/pkg/metrics"
	"github.com/flourhouse/bakery-backend/pkg/redis"
)

// Deps bundles everything the router mounts.
type Deps struct {
	Config *config.Config
	Logger *logger.Logger

	DB    *db.Client
	Redis *redis.Client

	Metrics  *metrics.HTTPMetrics
	Registry *prometheus.Registry

	AuthService     auth.Service
	UsersService    users.Service
	CatalogService  catalog.Service
	ProductsService products.Service
	CartService     cart.Service
	CheckoutService checkoutsvc.Service
	OrdersService   orders.Service
	ReviewsService  reviews.Service
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
		middleware.CORS(cfg.CORS),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	var dbPing, redisPing controllers.Pinger
	if d.DB != nil {
		dbPing = d.DB
	}
	if d.Redis != nil {
		redisPing = d.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(dbPing, redisPing, logg))
	})

	if d.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(registerPolicy, d.Redis, logg)).Post("/register", controllers.AuthRegister(d.AuthService, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, d.Redis, logg)).Post("/login", controllers.AuthLogin(d.AuthService, logg))
		})

		// Public catalog reads.
		r.Get("/categories", controllers.CategoriesList(d.CatalogService, logg))
		r.Get("/categories/{id}", controllers.CategoriesGet(d.CatalogService, logg))
		r.Get("/ingredients", controllers.IngredientsList(d.CatalogService, logg))
		r.Get("/products", controllers.ProductsList(d.ProductsService, logg))
		r.Get("/products/{id}", controllers.ProductsGet(d.ProductsService, logg))
		r.Get("/products/{id}/reviews", controllers.ReviewsListByProduct(d.ReviewsService, logg))

		// Authenticated customer surface.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.Route("/users/me", func(r chi.Router) {
				r.Get("/", controllers.UsersMe(d.UsersService, logg))
				r.Patch("/", controllers.UsersUpdateMe(d.UsersService, logg))
				r.Post("/password", controllers.UsersChangePassword(d.UsersService, logg))
			})

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartGet(d.CartService, logg))
				r.Get("/summary", controllers.CartSummary(d.CartService, logg))
				r.Delete("/", controllers.CartClear(d.CartService, logg))
				r.Post("/items", controllers.CartAddItem(d.CartService, logg))
				r.Put("/items/{itemID}", controllers.CartUpdateItem(d.CartService, logg))
				r.Delete("/items/{itemID}", controllers.CartRemoveItem(d.CartService, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				// Checkout: POST /orders converts the caller's cart.
				r.With(middleware.UserRateLimit(
					"checkout",
					cfg.RateLimit.Window,
					cfg.RateLimit.CheckoutMax,
					d.Redis,
					logg,
				)).Post("/", controllers.OrdersCheckout(d.CheckoutService, logg))
				r.Get("/", controllers.OrdersListMine(d.OrdersService, logg))
				r.Get("/{id}", controllers.OrdersGetMine(d.OrdersService, logg))
				// Cancellation is a status change; the row survives.
				r.Delete("/{id}", controllers.OrdersCancel(d.OrdersService, logg))
				r.With(middleware.RequireRole(enums.RoleAdmin, logg)).
					Patch("/{id}/status", controllers.AdminOrdersUpdateStatus(d.OrdersService, logg))
			})

			r.Post("/products/{id}/reviews", controllers.ReviewsCreate(d.ReviewsService, logg))
			r.Delete("/reviews/{id}", controllers.ReviewsDelete(d.ReviewsService, logg))
		})

		// Admin surface.
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.RequireRole(enums.RoleAdmin, logg))

			r.Post("/categories", controllers.CategoriesCreate(d.CatalogService, logg))
			r.Put("/categories/{id}", controllers.CategoriesUpdate(d.CatalogService, logg))
			r.Delete("/categories/{id}", controllers.CategoriesDelete(d.CatalogService, logg))

			r.Post("/ingredients", controllers.IngredientsCreate(d.CatalogService, logg))
			r.Put("/ingredients/{id}", controllers.IngredientsUpdate(d.CatalogService, logg))
			r.Delete("/ingredients/{id}", controllers.IngredientsDelete(d.CatalogService, logg))

			r.Post("/products", controllers.ProductsCreate(d.ProductsService, logg))
			r.Put("/products/{id}", controllers.ProductsUpdate(d.ProductsService, logg))
			r.Delete("/products/{id}", controllers.ProductsDelete(d.ProductsService, logg))

			r.Get("/orders", controllers.AdminOrdersList(d.OrdersService, logg))
			r.Get("/orders/{id}", controllers.AdminOrdersGet(d.OrdersService, logg))
			r.Patch("/orders/{id}/status", controllers.AdminOrdersUpdateStatus(d.OrdersService, logg))
		})
	})

	return r
}
