package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Eursukkul/stay-service/config"
	"github.com/Eursukkul/stay-service/internal/consumer"
	"github.com/Eursukkul/stay-service/internal/handler"
	"github.com/Eursukkul/stay-service/internal/middleware"
	"github.com/Eursukkul/stay-service/internal/repository"
	"github.com/Eursukkul/stay-service/internal/service"
	"github.com/Eursukkul/stay-service/pkg/cache"
	"github.com/Eursukkul/stay-service/pkg/database"
	"github.com/Eursukkul/stay-service/pkg/logger"
	"github.com/Eursukkul/stay-service/pkg/rabbitmq"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg := config.Load()
	logger.Init("stay-service", cfg.LogLevel)

	db := database.NewPostgresDB(cfg.DSN())

	// Repositories
	listingRepo := repository.NewListingRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	tx := repository.NewTransactor(db, cfg.TxMaxAttempts)

	// Optional domain-event publisher
	var publisher service.Publisher
	if cfg.RabbitURL != "" {
		p, err := rabbitmq.NewPublisher(cfg.RabbitURL)
		if err != nil {
			logger.Log.Fatalf("failed to connect to RabbitMQ: %v", err)
		}
		defer p.Close()
		publisher = p
	} else {
		logger.Log.Warn("RABBITMQ_URL not set, domain events disabled")
	}

	// Optional listing cache
	var listingCache service.ListingCache
	if cfg.RedisAddr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		client, err := cache.NewRedisClient(ctx, cfg.RedisAddr)
		cancel()
		if err != nil {
			logger.Log.Warnf("listing cache disabled: %v", err)
		} else {
			defer client.Close()
			listingCache = cache.NewListingCache(client, cfg.ListingCacheTTL)
		}
	}

	// Services
	listingSvc := service.NewListingService(tx, listingRepo, publisher, listingCache)
	bookingSvc := service.NewBookingService(tx, bookingRepo, listingRepo, publisher)
	reviewSvc := service.NewReviewService(tx, reviewRepo, listingRepo, publisher)
	purgeSvc := service.NewPurgeService(tx, listingRepo, bookingRepo, reviewRepo, publisher, listingCache)

	// Identity consumer: purge users deleted upstream
	if cfg.RabbitURL != "" {
		mqConsumer, err := rabbitmq.NewConsumer(cfg.RabbitURL)
		if err != nil {
			logger.Log.Fatalf("failed to connect to RabbitMQ: %v", err)
		}
		defer mqConsumer.Close()

		msgs, err := mqConsumer.Consume()
		if err != nil {
			logger.Log.Fatalf("failed to start consuming: %v", err)
		}
		consumer.NewIdentityConsumer(purgeSvc).Start(msgs)
	}

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Validator = middleware.NewValidator()
	e.Use(echoMw.Recover())
	e.Use(middleware.Identity())
	e.Use(middleware.RequestLogger())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "service": "stay-service"})
	})

	api := e.Group("/api/v1")
	handler.NewListingHandler(listingSvc).RegisterRoutes(api)
	handler.NewBookingHandler(bookingSvc).RegisterRoutes(api)
	handler.NewReviewHandler(reviewSvc).RegisterRoutes(api)

	go func() {
		logger.Log.Infof("Stay Service starting on :%s", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatalf("server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Log.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Log.Errorf("forced shutdown: %v", err)
	}
}
