// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"bazaar/internal/delivery/http/middleware"
	"bazaar/internal/delivery/http/router/handler"
	"bazaar/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AccountHandler *handler.AccountHandler
	ProductHandler *handler.ProductHandler
	ReviewHandler  *handler.ReviewHandler
	WebHandler     *handler.WebHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	accountHandler *handler.AccountHandler
	productHandler *handler.ProductHandler
	reviewHandler  *handler.ReviewHandler
	webHandler     *handler.WebHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		accountHandler: params.AccountHandler,
		productHandler: params.ProductHandler,
		reviewHandler:  params.ReviewHandler,
		webHandler:     params.WebHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the routes for both surfaces: the
// server-rendered HTML pages and the JSON API.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// HTML surface. The login and review pages resolve the session when one
	// is present but stay reachable anonymously.
	e.GET("/", r.webHandler.LoginPage, r.authMiddleware.TryAuthenticate)
	e.POST("/", r.webHandler.Login)
	e.GET("/register", r.webHandler.RegisterPage)
	e.POST("/register", r.webHandler.Register)
	e.GET("/logout", r.webHandler.Logout)
	e.POST("/logout", r.webHandler.Logout)

	// Role-gated pages. The gates are exact: an admin is rejected from the
	// user page and vice versa.
	adminPage := e.Group("/admin-page")
	adminPage.Use(r.authMiddleware.AuthenticateWeb)
	adminPage.Use(r.authMiddleware.RequireRole(entity.RoleAdmin))
	{
		adminPage.GET("", r.webHandler.AdminPage)
		adminPage.POST("", r.webHandler.AdminAction)
	}

	userPage := e.Group("/user-page")
	userPage.Use(r.authMiddleware.AuthenticateWeb)
	userPage.Use(r.authMiddleware.RequireRole(entity.RoleUser))
	{
		userPage.GET("", r.webHandler.UserPage)
	}

	e.GET("/products/:id/reviews", r.webHandler.ReviewsPage, r.authMiddleware.TryAuthenticate)
	e.POST("/products/:id/reviews", r.webHandler.SubmitReview, r.authMiddleware.AuthenticateWeb)

	// JSON API surface
	api := e.Group("/api")
	{
		api.POST("/register", r.accountHandler.Register)
		api.POST("/login", r.accountHandler.Login)
		api.POST("/logout", r.accountHandler.Logout)

		api.GET("/products", r.productHandler.ListProducts)
		api.GET("/products/:id", r.productHandler.GetProduct)
		api.GET("/products/:id/reviews", r.reviewHandler.ListReviews)
		api.GET("/products/:id/rating", r.reviewHandler.GetAverageRating)

		api.POST("/products/:id/reviews", r.reviewHandler.SubmitReview, r.authMiddleware.Authenticate)
	}

	// Catalog mutations require authentication and the "admin" role.
	adminAPI := e.Group("/api/products")
	adminAPI.Use(r.authMiddleware.Authenticate)
	adminAPI.Use(r.authMiddleware.RequireRole(entity.RoleAdmin))
	{
		adminAPI.POST("", r.productHandler.CreateProduct)
		adminAPI.PUT("/:id", r.productHandler.UpdateProduct)
		adminAPI.PATCH("/:id", r.productHandler.UpdateProduct)
		adminAPI.DELETE("/:id", r.productHandler.DeleteProduct)
	}
}
