package router

import (
	"github.com/labstack/echo/v4"

	"github.com/reloophq/waste-exchange/api/internal/auth"
	"github.com/reloophq/waste-exchange/api/internal/config"
	"github.com/reloophq/waste-exchange/api/internal/handler"
	middlewarepkg "github.com/reloophq/waste-exchange/api/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Auth     *handler.AuthHandler
	Match    *handler.MatchHandler
	Listings *handler.ListingsHandler
	OrgAdmin *handler.OrgAdminHandler
	Health   *handler.HealthHandler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, jwtManager *auth.JWTManager, handlers Handlers) {
	e.GET("/healthz", handlers.Health.Healthz)

	e.POST("/auth/register", handlers.Auth.Register)
	e.POST("/auth/login", handlers.Auth.Login)

	secured := e.Group("")
	secured.Use(middlewarepkg.JWT(jwtManager))

	secured.POST("/supplies", handlers.Listings.CreateSupply)
	secured.GET("/supplies", handlers.Listings.ListSupplies)
	secured.POST("/demands", handlers.Listings.CreateDemand)
	secured.GET("/demands", handlers.Listings.ListDemands)

	searchLimiter := middlewarepkg.SearchRateLimiter(cfg.RateLimitSearch)
	secured.GET("/supplies/:id/matches", handlers.Match.SupplyMatches, searchLimiter)
	secured.GET("/demands/:id/matches", handlers.Match.DemandMatches, searchLimiter)
	secured.DELETE("/supplies/:id/matches/cache", handlers.Match.InvalidateSupplyMatches)
	secured.DELETE("/demands/:id/matches/cache", handlers.Match.InvalidateDemandMatches)

	admin := secured.Group("/admin", middlewarepkg.RequireRole("admin"))
	admin.GET("/organizations", handlers.OrgAdmin.List)
	admin.PATCH("/organizations/:id/verify", handlers.OrgAdmin.SetVerified)
}
