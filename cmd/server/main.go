package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"sink_quoter/internal/config"
	"sink_quoter/internal/database"
	"sink_quoter/internal/handlers"
	"sink_quoter/internal/matching"
	"sink_quoter/internal/migrations"
	"sink_quoter/internal/redis"
	"sink_quoter/internal/repository"
	"sink_quoter/internal/services"
	"sink_quoter/pkg/whatsapp"
)

func main() {
	cfg := config.Load()
	logger := config.NewLogger(cfg.LogLevel)

	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to database")
	}
	defer database.Close(db)

	if err := migrations.RunMigrations(db, logger); err != nil {
		logger.WithError(err).Fatal("failed to migrate database")
	}

	// The catalog cache is optional; matching reads straight from the
	// database when redis is unavailable.
	var cache services.CatalogCache
	redisClient, err := redis.Initialize(cfg.RedisURL, time.Duration(cfg.CacheTTL)*time.Second)
	if err != nil {
		logger.WithError(err).Warn("redis unavailable, catalog cache disabled")
	} else {
		defer redisClient.Close()
		cache = redisClient
	}

	var notifications services.NotificationService
	if cfg.WhatsAppAPIURL != "" {
		whatsappClient := whatsapp.NewClient(cfg.WhatsAppAPIURL, cfg.WhatsAppUsername, cfg.WhatsAppPassword, cfg.WhatsAppPath, cfg.WhatsAppCountry)
		notifications = services.NewNotificationService(whatsappClient)
	} else {
		logger.Warn("WHATSAPP_API_URL not set, quote notifications disabled")
	}

	userRepo := repository.NewUserRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	measurementRepo := repository.NewMeasurementRepository(db)
	productRepo := repository.NewProductRepository(db)
	quoteRepo := repository.NewQuoteRepository(db)
	lineItemRepo := repository.NewLineItemRepository(db)

	matcher := matching.NewMatcher(cfg.Thresholds, cfg.AddOnPricing)

	userService := services.NewUserService(userRepo)
	customerService := services.NewCustomerService(customerRepo)
	measurementService := services.NewMeasurementService(measurementRepo, customerRepo)
	productService := services.NewProductService(productRepo, cache, logger)
	matchService := services.NewMatchService(measurementRepo, productRepo, cache, matcher, logger)
	quoteService := services.NewQuoteService(services.QuoteServiceDeps{
		Quotes:        quoteRepo,
		LineItems:     lineItemRepo,
		Customers:     customerRepo,
		Measurements:  measurementRepo,
		Matches:       matchService,
		Notifications: notifications,
		Settings: services.QuoteSettings{
			DefaultTaxRate: cfg.DefaultTaxRate,
			ValidityDays:   cfg.QuoteValidityDays,
		},
		Logger: logger,
	})

	apiHandler := handlers.NewAPIHandler(
		userService,
		customerService,
		measurementService,
		productService,
		matchService,
		quoteService,
		logger,
	)

	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	if len(cfg.CORSAllowedOrigins) == 1 && cfg.CORSAllowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("Origin", "Content-Type", "Authorization", "X-User-ID")
	corsConfig.AddExposeHeaders("Content-Length")
	router.Use(cors.New(corsConfig))

	apiHandler.RegisterRoutes(router)
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErrCh := make(chan error, 1)
	go func() {
		logger.WithField("port", cfg.ServerPort).Info("server starting")
		serverErrCh <- srv.ListenAndServe()
	}()

	select {
	case <-sigCtx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("server stopped unexpectedly")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "shutdown"}).WithError(err).Error("graceful shutdown failed")
	}
}
