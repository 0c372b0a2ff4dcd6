package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"shop-api/cache"
	"shop-api/config"
	"shop-api/controllers"
	"shop-api/middleware"
	"shop-api/routes"
	"shop-api/services"
	"shop-api/store"
	"shop-api/store/memstore"
	"shop-api/store/mongostore"
	"shop-api/utils"
)

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if cfg.JWTSecret == "" {
		logger.Fatal("JWT_SECRET must be set")
	}
	utils.JwtKey = []byte(cfg.JWTSecret)

	ctx := context.Background()

	var st store.Store
	switch cfg.StoreDriver {
	case "memory":
		logger.Warn("using in-memory store; data is lost on restart")
		st = memstore.New()
	default:
		client, err := mongostore.Connect(ctx, cfg.MongoURI)
		if err != nil {
			logger.Fatal("mongodb connect failed", zap.Error(err))
		}
		defer func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logger.Error("mongodb disconnect failed", zap.Error(err))
			}
		}()
		ms := mongostore.New(client, cfg.MongoDB)
		if err := ms.EnsureIndexes(ctx); err != nil {
			logger.Fatal("mongodb index creation failed", zap.Error(err))
		}
		st = ms
	}

	var redisClient *cache.RedisClient
	if cfg.RedisAddr != "" {
		redisClient, err = cache.NewRedisClient(cfg.RedisAddr)
		if err != nil {
			logger.Warn("redis unavailable, continuing without product cache", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	emailService := utils.NewEmailService()
	if emailService == nil {
		logger.Info("SENDGRID_API_KEY not set, order confirmation emails disabled")
	}

	catalogService := services.NewCatalogService(st, logger)
	cartService := services.NewCartService(st, logger)
	orderService := services.NewOrderService(st, logger)

	userController := controllers.NewUserController(st, logger)
	productController := controllers.NewProductController(catalogService, redisClient, logger)
	categoryController := controllers.NewCategoryController(catalogService, redisClient, logger)
	cartController := controllers.NewCartController(cartService, logger)
	orderController := controllers.NewOrderController(orderService, st, emailService, redisClient, logger)

	router := mux.NewRouter()
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.MetricsMiddleware)
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	routes.RegisterRoutes(router, userController, productController, categoryController, cartController, orderController)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server_start", zap.String("addr", server.Addr), zap.String("store", cfg.StoreDriver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server_error", zap.Error(err))
		}
	}()

	<-shutdownCtx.Done()

	closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(closeCtx); err != nil {
		logger.Error("server_shutdown_error", zap.Error(err))
	} else {
		logger.Info("server_stopped")
	}
}
