package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Shashwat-pati/Ecommerce-Backend/internal/auth"
	"github.com/Shashwat-pati/Ecommerce-Backend/internal/service"
	"github.com/Shashwat-pati/Ecommerce-Backend/pkg/health"
	"github.com/Shashwat-pati/Ecommerce-Backend/pkg/middleware"
)

// RouterDeps bundles everything the router needs.
type RouterDeps struct {
	Products   *service.ProductService
	Reviews    *service.ReviewService
	Users      *service.UserService
	Categories *service.CategoryService
	Orders     *service.OrderService
	Tokens     *auth.TokenManager
	Health     *health.Handler
	CORS       middleware.CORSConfig
	Logger     *slog.Logger
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.CORS(deps.CORS))
	r.Use(middleware.Tracing())
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.RequestLogging(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))

	// Operational endpoints
	r.Get("/health/live", deps.Health.LivenessHandler())
	r.Get("/health/ready", deps.Health.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	authMW := NewAuthMiddleware(deps.Tokens, deps.Users, deps.Logger)

	productHandler := NewProductHandler(deps.Products, deps.Logger)
	reviewHandler := NewReviewHandler(deps.Reviews, deps.Logger)
	userHandler := NewUserHandler(deps.Users, deps.Tokens, deps.Logger)
	categoryHandler := NewCategoryHandler(deps.Categories, deps.Logger)
	orderHandler := NewOrderHandler(deps.Orders, deps.Logger)

	r.Route("/api/products", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/", productHandler.SearchProducts)
		r.With(middleware.CacheControl(60)).Get("/all", productHandler.ListProducts)
		r.With(middleware.CacheControl(60)).Get("/top", productHandler.TopProducts)
		r.With(middleware.CacheControl(60)).Get("/new", productHandler.NewProducts)
		r.Post("/filtered", productHandler.FilterProducts)
		r.Get("/{id}", productHandler.GetProduct)
		r.Get("/{id}/reviews", reviewHandler.ListReviews)

		r.Group(func(r chi.Router) {
			r.Use(authMW.Authenticate)
			r.Post("/{id}/reviews", reviewHandler.CreateReview)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMW.Authenticate, authMW.RequireAdmin)
			r.Post("/", productHandler.CreateProduct)
			r.Put("/{id}", productHandler.UpdateProduct)
			r.Delete("/{id}", productHandler.DeleteProduct)
		})
	})

	r.Route("/api/users", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Post("/", userHandler.Register)
		r.Post("/auth", userHandler.Login)
		r.Post("/logout", userHandler.Logout)

		r.Group(func(r chi.Router) {
			r.Use(authMW.Authenticate)
			r.Get("/profile", userHandler.GetProfile)
			r.Put("/profile", userHandler.UpdateProfile)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMW.Authenticate, authMW.RequireAdmin)
			r.Get("/", userHandler.ListUsers)
		})
	})

	r.Route("/api/category", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/", categoryHandler.ListCategories)
		r.Get("/{id}", categoryHandler.GetCategory)

		r.Group(func(r chi.Router) {
			r.Use(authMW.Authenticate, authMW.RequireAdmin)
			r.Post("/", categoryHandler.CreateCategory)
			r.Put("/{id}", categoryHandler.UpdateCategory)
			r.Delete("/{id}", categoryHandler.DeleteCategory)
		})
	})

	r.Route("/api/orders", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(authMW.Authenticate)

		r.Post("/", orderHandler.PlaceOrder)
		r.Get("/mine", orderHandler.ListMyOrders)
		r.Get("/{id}", orderHandler.GetOrder)
		r.Put("/{id}/pay", orderHandler.MarkPaid)

		r.Group(func(r chi.Router) {
			r.Use(authMW.RequireAdmin)
			r.Get("/", orderHandler.ListOrders)
			r.Put("/{id}/deliver", orderHandler.MarkDelivered)
		})
	})

	return r
}
