package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/reloophq/waste-exchange/api/internal/auth"
	"github.com/reloophq/waste-exchange/api/internal/cache"
	"github.com/reloophq/waste-exchange/api/internal/config"
	"github.com/reloophq/waste-exchange/api/internal/database"
	"github.com/reloophq/waste-exchange/api/internal/embedding"
	"github.com/reloophq/waste-exchange/api/internal/handler"
	middlewarepkg "github.com/reloophq/waste-exchange/api/internal/middleware"
	"github.com/reloophq/waste-exchange/api/internal/repository"
	"github.com/reloophq/waste-exchange/api/internal/router"
	"github.com/reloophq/waste-exchange/api/internal/service"
	"github.com/reloophq/waste-exchange/api/internal/service/similarity"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer pool.Close()

	resultCache := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer resultCache.Close()
	if err := resultCache.Ping(ctx); err != nil {
		log.Printf("redis unreachable at startup, continuing without warm cache: %v", err)
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	orgsRepo := repository.NewPGXOrganizationsRepository(pool)
	listingsRepo := repository.NewPGXListingsRepository(pool)

	provider := embedding.NewProvider(cfg.Embedding)
	matcher := similarity.NewMatcher(provider)

	validator := service.NewContactValidator("US")
	authService := service.NewAuthService(orgsRepo, jwtManager, validator)
	listingsService := service.NewListingsService(listingsRepo)
	orgsService := service.NewOrganizationsService(orgsRepo)
	matchingService := service.NewMatchingService(listingsRepo, resultCache, matcher, cfg.Matching)

	handlers := router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Match:    handler.NewMatchHandler(matchingService),
		Listings: handler.NewListingsHandler(listingsService),
		OrgAdmin: handler.NewOrgAdminHandler(orgsService),
		Health:   handler.NewHealthHandler(pool, resultCache),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging())
	e.Use(echoMiddleware.Recover())

	router.Register(e, cfg, jwtManager, handlers)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
