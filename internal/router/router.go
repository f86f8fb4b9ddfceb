package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/moviegram/moviegram/internal/handler"    // handlers that implement the endpoints
	"github.com/moviegram/moviegram/internal/middleware" // middleware for JWT auth, caching and rate limiting
)

// RegisterRoutes registers routes that do not require authentication
// and carry no other middleware. Currently it exposes only a health
// check, used by load balancers to verify the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers authentication routes. Unauthenticated
// operations (register, login, refresh, logout) live under /v1/auth;
// the profile endpoint lives under /v1 behind the JWT middleware.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterCatalog registers the public movie browse endpoints. The
// catalog never changes after seeding, so both routes sit behind the
// Redis response cache (a no-op middleware when Redis is unavailable).
func RegisterCatalog(e *echo.Echo, m *handler.MovieHandler, cache echo.MiddlewareFunc) {
	e.GET("/v1/movies", m.List, cache)
	e.GET("/v1/movies/:id", m.Get, cache)
}

// RegisterChat registers the discussion thread endpoints. The poll
// endpoint is public and rate limited — every viewer of a thread hits
// it on a fixed interval. Posting requires a valid access token, which
// also supplies the author identity echoed back on the message.
func RegisterChat(e *echo.Echo, ch *handler.ChatHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	e.GET("/v1/movies/:id/chat", ch.List, limiter)
	e.POST("/v1/movies/:id/chat", ch.Post, middleware.JWTAuth(jwtSecret), limiter)
}
