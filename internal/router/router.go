// Package router registers the HTTP routes of the storefront API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iliyamo/cinemavault/internal/handler"
	"github.com/iliyamo/cinemavault/internal/middleware"
)

// RegisterRoutes registers routes that live outside /api: the health check
// and the Prometheus scrape endpoint.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// API creates the /api group.  Every route under it resolves an optional
// bearer principal first so the rate limiter can key on it.
func API(e *echo.Echo, v middleware.TokenVerifier, limiter echo.MiddlewareFunc) *echo.Group {
	return e.Group("/api", middleware.OptionalBearer(v), limiter)
}

// RegisterAuth registers login and password change.  Password change is
// deliberately not gated: it always answers with success.
func RegisterAuth(g *echo.Group, a *handler.AuthHandler) {
	auth := g.Group("/auth")
	auth.POST("/login", a.Login)
	auth.POST("/change-password", a.ChangePassword)
}

// RegisterCatalog registers the movie list, detail, creation and title
// search routes.  cache wraps the detail and search lookups.
func RegisterCatalog(g *echo.Group, m *handler.MovieHandler, s *handler.SearchHandler, v middleware.TokenVerifier, cache echo.MiddlewareFunc) {
	g.GET("/movies", m.List)
	g.POST("/movies", m.Create, middleware.RequireAPIKey(handler.MissingAPIKeyBody))
	g.GET("/movies/:id", m.Get, cache)
	g.GET("/search-movie", s.Search, middleware.RequireBearer(v, "Authorization token is required"), cache)
}

// RegisterRentals registers /api/rent for create, list and extend.
func RegisterRentals(g *echo.Group, r *handler.RentHandler, v middleware.TokenVerifier) {
	rent := g.Group("/rent", middleware.RequireBearer(v, "Authorization required"))
	rent.POST("", r.Create)
	rent.GET("", r.List)
	rent.PUT("", r.Extend)
}

// RegisterUser registers the staff profile routes.
func RegisterUser(g *echo.Group, u *handler.UserHandler) {
	apiKey := middleware.RequireAPIKey(echo.Map{"error": "API key (k) is required"})
	g.GET("/user", u.Get, apiKey)
	g.PUT("/user", u.Update, apiKey)
	g.GET("/user/detail", u.Detail, middleware.RequireBearerOrAPIKey())
}
