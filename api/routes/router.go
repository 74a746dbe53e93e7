package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/milsabores/pasteleria-backend/api/controllers"
	"github.com/milsabores/pasteleria-backend/api/middleware"
	authsvc "github.com/milsabores/pasteleria-backend/internal/auth"
	cartsvc "github.com/milsabores/pasteleria-backend/internal/cart"
	catalogsvc "github.com/milsabores/pasteleria-backend/internal/catalog"
	checkoutsvc "github.com/milsabores/pasteleria-backend/internal/checkout"
	ordersvc "github.com/milsabores/pasteleria-backend/internal/orders"
	usersvc "github.com/milsabores/pasteleria-backend/internal/users"
	"github.com/milsabores/pasteleria-backend/pkg/auth/session"
	"github.com/milsabores/pasteleria-backend/pkg/config"
	"github.com/milsabores/pasteleria-backend/pkg/db"
	"github.com/milsabores/pasteleria-backend/pkg/enums"
	"github.com/milsabores/pasteleria-backend/pkg/logger"
	"github.com/milsabores/pasteleria-backend/pkg/metrics"
	"github.com/milsabores/pasteleria-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessions sessionManager,
	registry *prometheus.Registry,
	httpMetrics *metrics.HTTPMetrics,
	authService authsvc.Service,
	registerService authsvc.RegisterService,
	catalogService catalogsvc.Service,
	cartService cartsvc.Service,
	checkoutService checkoutsvc.Service,
	ordersService ordersvc.Service,
	usersService usersvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.Metrics(httpMetrics),
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

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(
			middleware.AuthRateLimit(registerPolicy, redisClient, logg),
			middleware.Idempotency(redisClient, logg),
		).Post("/register", controllers.Register(registerService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.Login(authService, logg))
		r.Post("/logout", controllers.Logout(authService, cfg.JWT, logg))
		r.Post("/refresh", controllers.Refresh(authService, logg))
	})

	r.Route("/api/admin/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AdminLogin(authService, logg))
	})

	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Get("/products", controllers.ListProducts(catalogService, logg))
		r.Get("/products/{code}", controllers.GetProductByCode(catalogService, logg))
		r.Get("/categories", controllers.ListCategories(catalogService, false, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.GetCart(cartService, logg))
			r.Post("/", controllers.UpsertCart(cartService, logg))
		})
		r.Post("/checkout", controllers.Checkout(checkoutService, logg))
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListMyOrders(ordersService, logg))
			r.Get("/{id}", controllers.GetMyOrder(ordersService, logg))
			r.Post("/{id}/cancel", controllers.CancelMyOrder(ordersService, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.RequireRole(string(enums.MemberRoleAdmin), logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.AdminListProducts(catalogService, logg))
			r.Post("/", controllers.AdminCreateProduct(catalogService, logg))
			r.Patch("/{id}", controllers.AdminUpdateProduct(catalogService, logg))
			r.Delete("/{id}", controllers.AdminDeleteProduct(catalogService, logg))
		})
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.ListCategories(catalogService, true, logg))
			r.Post("/", controllers.AdminCreateCategory(catalogService, logg))
			r.Delete("/{id}", controllers.AdminDeleteCategory(catalogService, logg))
		})
		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.AdminListUsers(usersService, logg))
			r.Get("/{id}", controllers.AdminGetUser(usersService, logg))
			r.Patch("/{id}", controllers.AdminUpdateUser(usersService, logg))
			r.Delete("/{id}", controllers.AdminDeactivateUser(usersService, logg))
		})
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminListOrders(ordersService, logg))
			r.Get("/{id}", controllers.AdminGetOrder(ordersService, logg))
			r.Post("/{id}/status", controllers.AdminUpdateOrderStatus(ordersService, logg))
		})
	})

	return r
}
