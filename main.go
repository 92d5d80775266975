package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"catalog-svc/cache"
	"catalog-svc/config"
	"catalog-svc/database"
	"catalog-svc/gateway"
	"catalog-svc/handlers"
	"catalog-svc/kafka"
	"catalog-svc/llm"
	"catalog-svc/middleware"
	"catalog-svc/services"
	"catalog-svc/store"

	"github.com/IBM/sarama"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	cfg := config.Load()

	// Stores: Postgres when DB_HOST is set, in-memory otherwise.
	var (
		db        *sql.DB
		products  store.ProductStore
		payments  store.PaymentStore
		shipments store.ShipmentStore
	)
	if cfg.Database.Enabled() {
		db, err = database.InitDB(cfg.Database, logger)
		if err != nil {
			logger.Fatal("Failed to initialize database", zap.Error(err))
		}
		products = store.NewPostgresProducts(db)
		payments = store.NewPostgresPayments(db)
		shipments = store.NewPostgresShipments(db)
	} else {
		logger.Info("DB_HOST not set, using in-memory stores")
		products = store.NewMemoryProducts()
		payments = store.NewMemoryPayments()
		shipments = store.NewMemoryShipments()
	}

	// Redis cache is optional; without it product reads always hit the store.
	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = cache.InitRedis(cfg.Redis, logger)
		if err != nil {
			logger.Fatal("Failed to initialize Redis", zap.Error(err))
		}
	}

	// Kafka is optional; without it domain events are simply not published.
	var producer sarama.SyncProducer
	if cfg.Kafka.Enabled() {
		producer, err = kafka.InitProducer(cfg.Kafka, logger)
		if err != nil {
			logger.Fatal("Failed to initialize Kafka producer", zap.Error(err))
		}
	}

	// Initialize OpenTelemetry
	shutdownTracing, err := middleware.InitTracing("catalog-service", cfg.JaegerEndpoint)
	if err != nil {
		logger.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	// Payment gateway: Stripe when a secret key is configured.
	var gw gateway.Gateway
	if cfg.Payment.Mock() {
		logger.Info("STRIPE_SECRET_KEY not set, using mock payment gateway")
		gw = gateway.NewMock()
	} else {
		gw = gateway.NewStripe(cfg.Payment.StripeSecretKey)
	}

	// AI generator: real client when WINDSURF_API_KEY is set.
	var generator llm.Generator
	if cfg.AI.Enabled() {
		client, err := llm.NewClient(llm.ClientConfig{
			APIKey:  cfg.AI.APIKey,
			Model:   cfg.AI.Model,
			BaseURL: cfg.AI.BaseURL,
			Timeout: cfg.AI.Timeout,
		})
		if err != nil {
			logger.Fatal("Failed to initialize AI client", zap.Error(err))
		}
		generator = client
	} else {
		logger.Info("WINDSURF_API_KEY not set, AI insights run in mock mode")
	}

	if missing := cfg.Carriers.Missing(); len(missing) > 0 {
		logger.Info("Carrier APIs in mock mode", zap.String("carriers", strings.Join(missing, ", ")))
	}

	productService := services.NewProductService(products, redisClient, logger)
	paymentService := services.NewPaymentService(products, payments, gw, cfg.Payment.StripePublishableKey, producer, cfg.Kafka.Topic, logger)
	shippingService := services.NewShippingService(shipments, producer, cfg.Kafka.Topic, logger)
	insightService := services.NewInsightService(products, generator, redisClient, logger)

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	// OpenTelemetry middleware must be first to extract trace context
	router.Use(otelgin.Middleware("catalog-service"))
	router.Use(middleware.LoggerMiddleware(logger))
	router.Use(middleware.MetricsMiddleware())

	// Metrics endpoint
	router.GET("/metrics", middleware.PrometheusHandler())

	productHandler := handlers.NewProductHandler(productService, logger)
	paymentHandler := handlers.NewPaymentHandler(paymentService, logger)
	shippingHandler := handlers.NewShippingHandler(shippingService, logger)
	insightHandler := handlers.NewInsightHandler(insightService, logger)

	api := router.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck(insightService))

		api.GET("/products", productHandler.GetProducts)
		api.GET("/products/:id", productHandler.GetProduct)
		api.POST("/products", productHandler.CreateProduct)
		api.PUT("/products/:id", productHandler.UpdateProduct)
		api.DELETE("/products/:id", productHandler.DeleteProduct)
		api.GET("/products/:id/calculate-price", paymentHandler.CalculatePrice)

		api.POST("/products/:id/ai-insights", insightHandler.GenerateInsights)
		api.POST("/products/:id/marketing-description", insightHandler.MarketingDescription)
		api.POST("/products/:id/positioning", insightHandler.Positioning)
		api.POST("/products/:id/pricing-analysis", insightHandler.PricingAnalysis)
		api.POST("/products/:id/suggest-category", insightHandler.SuggestCategory)
		api.POST("/catalog/ai-insights", insightHandler.CatalogInsights)
		api.POST("/catalog/batch-analyze", insightHandler.BatchAnalyze)

		api.POST("/payments/create", paymentHandler.CreatePayment)
		api.POST("/payments/:id/confirm", paymentHandler.ConfirmPayment)
		api.POST("/payments/:id/cancel", paymentHandler.CancelPayment)
		api.GET("/payments/:id", paymentHandler.GetPayment)
		api.GET("/payments", paymentHandler.GetPayments)

		api.POST("/shipping/rates", shippingHandler.GetRates)
		api.POST("/shipping/create", shippingHandler.CreateShipment)
		api.GET("/shipping/calculate-cost", shippingHandler.CalculateCost)
		api.GET("/shipping/track/:trackingNumber/updates", shippingHandler.GetTrackingUpdates)
		api.GET("/shipping/track/:trackingNumber", shippingHandler.TrackShipment)
		api.GET("/shipping/:id", shippingHandler.GetShipment)
		api.POST("/shipping/:id/cancel", shippingHandler.CancelShipment)
		api.GET("/shipping", shippingHandler.GetShipments)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	logger.Info("Catalog service started", zap.String("port", cfg.Port))

	gracefulShutdown(srv, db, redisClient, producer, shutdownTracing, logger)
}

// gracefulShutdown handles SIGINT/SIGTERM and closes everything that
// was actually opened.
func gracefulShutdown(
	srv *http.Server,
	db *sql.DB,
	redisClient *redis.Client,
	producer sarama.SyncProducer,
	shutdownTracing func(),
	logger *zap.Logger,
) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutdown signal received. Exiting...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	} else {
		logger.Info("Server stopped gracefully")
	}

	if db != nil {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database", zap.Error(err))
		} else {
			logger.Info("Database connection closed gracefully")
		}
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error("Failed to close Redis cache", zap.Error(err))
		} else {
			logger.Info("Redis cache closed gracefully")
		}
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("Failed to close Kafka producer", zap.Error(err))
		} else {
			logger.Info("Kafka producer closed gracefully")
		}
	}

	shutdownTracing()
	logger.Info("Catalog service exited gracefully")
}
