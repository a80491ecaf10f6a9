package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpmetrics "gomart/app/echo-server/metrics"
	"gomart/app/echo-server/router"
	"gomart/business/catalog"
	"gomart/business/category"
	"gomart/business/orders"
	userService "gomart/business/user"
	"gomart/domain"
	"gomart/internal/middleware"
	"gomart/internal/repository/gateway"
	"gomart/internal/repository/notification"
	psqlRepo "gomart/internal/repository/postgres"
	redisRepo "gomart/internal/repository/redis"
	"gomart/internal/rest"
	"gomart/pkg/config"
	"gomart/pkg/database"
	"gomart/pkg/logger"
	"gomart/pkg/metrics"
	"gomart/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const productCacheTTL = 10 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting Gomart", "version", cfg.App.Version)

	utils.InitJWT(cfg.JWT.SecretKey)

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	// Redis is optional: without it, slug lookups just skip the cache.
	var productCache catalog.ProductCache
	if cfg.Redis.Addr != "" {
		redisClient, err := database.NewRedisClient(cfg)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", "error", err)
		}
		defer database.CloseRedisClient(redisClient)

		productCache = redisRepo.NewProductCache(redisClient, productCacheTTL)
		logger.Info("Redis connected successfully")
	}

	gatewayRepo := gateway.NewGatewayRepository(gateway.GatewayConfig{
		BaseURL:    cfg.Gateway.BaseURL,
		MerchantID: cfg.Gateway.MerchantID,
		PublicKey:  cfg.Gateway.PublicKey,
		PrivateKey: cfg.Gateway.PrivateKey,
	})

	var mailer orders.EmailSender
	if cfg.Mail.BaseURL != "" {
		mailer = notification.NewMailRepository(notification.MailConfig{
			BaseURL:           cfg.Mail.BaseURL,
			BasicAuthUsername: cfg.Mail.BasicAuthUsername,
			BasicAuthPassword: cfg.Mail.BasicAuthPassword,
			SenderEmail:       cfg.Mail.SenderEmail,
			SenderName:        cfg.Mail.SenderName,
		})
	}

	// Init validate
	validate := validator.New()

	// Init repo
	userRepo := psqlRepo.NewUserRepository(db)
	categoryRepo := psqlRepo.NewCategoryRepository(db)
	productRepo := psqlRepo.NewProductRepository(db)
	ordersRepo := psqlRepo.NewOrdersRepository(db)

	// Init service
	users := userService.NewUserService(userRepo, validate)
	catalogSvc := catalog.NewCatalogService(productRepo, categoryRepo, productCache)
	categorySvc := category.NewCategoryService(categoryRepo)
	ordersSvc := orders.NewOrdersService(ordersRepo, productRepo, userRepo, gatewayRepo, mailer)

	// Init handler
	userHandler := rest.NewUserHandler(users)
	productHandler := rest.NewProductHandler(catalogSvc)
	categoryHandler := rest.NewCategoryHandler(categorySvc)
	ordersHandler := rest.NewOrdersHandler(ordersSvc)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	metrics.Init()
	e.Use(httpmetrics.Middleware())
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Auth middleware
	authRequired := middleware.AuthMiddleware()
	adminOnly := middleware.RequireRole(userRepo, domain.RoleAdmin)

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupUserRoutes(api, userHandler, authRequired)
	router.SetupProductRoutes(api, productHandler, authRequired, adminOnly)
	router.SetupCategoryRoutes(api, categoryHandler, authRequired, adminOnly)
	router.SetupOrdersRoutes(api, ordersHandler, authRequired, adminOnly)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
