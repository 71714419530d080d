package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/clothely/clothely-backend/config"
	"github.com/clothely/clothely-backend/internal/app/controller"
	"github.com/clothely/clothely-backend/internal/app/repository"
	"github.com/clothely/clothely-backend/internal/app/service"
	"github.com/clothely/clothely-backend/internal/db"
	"github.com/clothely/clothely-backend/internal/middleware"
	"github.com/clothely/clothely-backend/internal/router"
	"github.com/clothely/clothely-backend/internal/scheduler"
	"github.com/clothely/clothely-backend/internal/storage"
	"github.com/clothely/clothely-backend/pkg/logger"
	"github.com/clothely/clothely-backend/pkg/payment/toss"
	"github.com/clothely/clothely-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting CLOTHELY Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Seed baseline variant options (optional)
	if err := db.Seed(); err != nil {
		logger.Warn("Failed to seed database", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Redis is optional: without it the filter cache and token
	// blacklist are skipped.
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, continuing without cache", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		defer redis.Close()
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	categoryRepo := repository.NewCategoryRepository(db.GetDB())
	brandRepo := repository.NewBrandRepository(db.GetDB())
	attributeRepo := repository.NewAttributeRepository(db.GetDB())
	addressRepo := repository.NewAddressRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())

	// Payment client is optional in development
	var paymentClient *toss.Client
	if cfg.Payment.SecretKey != "" {
		paymentClient, err = toss.NewClient(toss.Config{
			BaseURL:   cfg.Payment.BaseURL,
			SecretKey: cfg.Payment.SecretKey,
		})
		if err != nil {
			logger.Fatal("Failed to initialize payment client", err)
		}
	} else {
		logger.Warn("Payment secret key not configured, payments will not be verified", nil)
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, &cfg.JWT)
	productService := service.NewProductService(db.GetDB(), productRepo, categoryRepo, brandRepo, attributeRepo)
	catalogService := service.NewCatalogService(db.GetDB(), service.NewUUIDSource())
	attributeService := service.NewAttributeService(attributeRepo)
	exportService := service.NewExportService(productRepo, attributeRepo)
	addressService := service.NewAddressService(addressRepo)
	cartService := service.NewCartService(db.GetDB(), cartRepo, productRepo)
	orderService := service.NewOrderService(db.GetDB(), orderRepo, cartRepo, paymentClient)

	// Object storage for product imagery
	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	productController := controller.NewProductController(productService)
	adminProductController := controller.NewAdminProductController(catalogService, productService, exportService)
	attributeController := controller.NewAttributeController(attributeService, productService)
	categoryController := controller.NewCategoryController(categoryRepo, productService)
	brandController := controller.NewBrandController(brandRepo, productService)
	cartController := controller.NewCartController(cartService)
	orderController := controller.NewOrderController(orderService)
	addressController := controller.NewAddressController(addressService)
	uploadController := controller.NewUploadController(s3Storage)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Background cleanup of abandoned carts
	cleanup := scheduler.NewCleanupScheduler(cartRepo, productRepo)
	if err := cleanup.Start(); err != nil {
		logger.Warn("Failed to start cleanup scheduler", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer cleanup.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		productController,
		adminProductController,
		attributeController,
		categoryController,
		brandController,
		cartController,
		orderController,
		addressController,
		uploadController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
