package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/moviegram/moviegram/internal/config"
	"github.com/moviegram/moviegram/internal/database"
	"github.com/moviegram/moviegram/internal/handler"
	"github.com/moviegram/moviegram/internal/middleware"
	"github.com/moviegram/moviegram/internal/queue"
	"github.com/moviegram/moviegram/internal/repository"
	"github.com/moviegram/moviegram/internal/router"
)

func main() {
	// Load .env if present; real deployments set env vars directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	cfg := config.Load()

	db, err := database.Open(cfg.DBDriver, cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}

	// Provision the schema before any other component touches storage.
	// Any failure here is fatal to startup.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := repository.NewSchema(db, cfg.DBDriver).Provision(ctx); err != nil {
		log.Fatalf("provision schema: %v", err)
	}
	cancel()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	movies := repository.NewMovieRepo(db)
	chat := repository.NewChatRepo(db)

	// Redis is optional: with no client the cache and limiter are no-ops.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; response cache and rate limiting disabled")
	}
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret)
	router.RegisterCatalog(e, handler.NewMovieHandler(movies), cache)
	router.RegisterChat(e, handler.NewChatHandler(chat, movies), cfg.JWTSecret, limiter)

	// Background consumer mirrors posted messages to logs/chat.log.
	go func() {
		if err := queue.StartChatConsumer(); err != nil {
			log.Printf("chat consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, db=%s)", addr, cfg.Env, cfg.DBDriver)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
