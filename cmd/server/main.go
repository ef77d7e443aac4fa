package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-box-office/internal/config"
	"github.com/iliyamo/cinema-box-office/internal/database"
	"github.com/iliyamo/cinema-box-office/internal/handler"
	"github.com/iliyamo/cinema-box-office/internal/middleware"
	"github.com/iliyamo/cinema-box-office/internal/queue"
	"github.com/iliyamo/cinema-box-office/internal/repository"
	"github.com/iliyamo/cinema-box-office/internal/router"
	"github.com/iliyamo/cinema-box-office/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis powers the rate limiter and the catalog cache; both degrade
	// to pass-through when it is unreachable.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, rate limiting and caching disabled")
	}

	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	movieRepo := repository.NewMovieRepo(db)
	sessionRepo := repository.NewSessionRepo(db)
	ticketRepo := repository.NewTicketRepo(db)

	events := queue.NewPublisher()
	booking := service.NewBookingService(sessionRepo, ticketRepo, events)
	admin := service.NewTicketAdministration(ticketRepo, events)

	authHandler := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	movieHandler := handler.NewMovieHandler(movieRepo)
	sessionHandler := handler.NewSessionHandler(sessionRepo, movieRepo, booking)
	customerHandler := handler.NewCustomerHandler(booking, admin, ticketRepo)
	adminHandler := handler.NewAdminTicketHandler(admin, ticketRepo)

	e := echo.New()
	e.HideBanner = true

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterPublic(e, movieHandler, sessionHandler,
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		middleware.ResponseCache(config.LoadCacheConfig(), rdb),
	)
	router.RegisterCustomer(e, customerHandler, cfg.JWTSecret)
	router.RegisterAdmin(e, adminHandler, movieHandler, sessionHandler, cfg.JWTSecret)

	// The consumer drains ticket events into the audit log; it
	// reconnects on its own, so a broker outage only delays the trail.
	go func() {
		if err := queue.StartTicketConsumer(); err != nil {
			log.Printf("ticket consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
