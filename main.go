package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"intentpay/config"
	"intentpay/handler"
	"intentpay/middleware"
	"intentpay/pkg/logger"
	"intentpay/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Init(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	slog.Info("configuration loaded successfully")

	// Initialize the ledger backend
	var store service.Store
	switch cfg.Store.Backend {
	case "bolt":
		boltStore, err := service.NewBoltStore(cfg.Store.Path)
		if err != nil {
			slog.Error("failed to open bolt store", "path", cfg.Store.Path, "error", err)
			os.Exit(1)
		}
		store = boltStore
		slog.Info("ledger backend initialized", "backend", "bolt", "path", cfg.Store.Path)
	default:
		store = service.NewMemoryStore()
		slog.Info("ledger backend initialized", "backend", "memory")
	}
	defer store.Close()

	// Seed the chargeable endpoint catalog
	if err := service.SeedCatalog(store); err != nil {
		slog.Error("failed to seed endpoint catalog", "error", err)
		os.Exit(1)
	}

	// Classifier is optional; without a token the keyword fallback is the
	// only resolution path
	var classifier service.Classifier
	if cfg.Classifier.APIToken != "" {
		classifier = service.NewOpenAIClassifier(&cfg.Classifier)
		slog.Info("intent classifier configured", "model", cfg.Classifier.Model)
	} else {
		slog.Warn("classifier token not configured, using keyword fallback only")
	}
	resolver := service.NewResolver(classifier)

	registry := service.NewMockAPIRegistry()
	processor := service.NewProcessor(store, registry, time.Duration(cfg.Payments.ConfirmDelayMs)*time.Millisecond)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(cfg)
	intentHandler := handler.NewIntentHandler(store, resolver)
	paymentHandler := handler.NewPaymentHandler(store, processor)
	historyHandler := handler.NewHistoryHandler(store)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New() // Use New() instead of Default() to avoid default middleware

	// Add custom middleware
	router.Use(middleware.RequestID())                 // Request ID for tracing
	router.Use(middleware.Recovery())                  // Panic recovery
	router.Use(middleware.RequestLogger())             // Access logging
	router.Use(middleware.Metrics())                   // Prometheus metrics
	router.Use(corsMiddleware())                       // CORS
	router.Use(middleware.RateLimit(100, time.Minute)) // Rate limiting: 100 requests per minute

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	// Prometheus scrape endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public routes
	api := router.Group("/api")
	{
		api.POST("/auth/login", authHandler.Login)
		api.POST("/parse-intent", intentHandler.ParseIntent)
		api.POST("/process-payment", paymentHandler.ProcessPayment)
		api.GET("/payment-status/:paymentId", paymentHandler.GetStatus)
		api.GET("/access-history", historyHandler.AccessHistory)
		api.GET("/analytics", historyHandler.Analytics)
		api.GET("/endpoints", historyHandler.Endpoints)
	}

	// Every catalog path answers direct calls with a 402 challenge
	if err := handler.RegisterPaywall(router, store); err != nil {
		slog.Error("failed to register paywall routes", "error", err)
		os.Exit(1)
	}

	// Protected routes
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(&cfg.Auth))
	{
		protected.GET("/auth/me", authHandler.GetCurrentUser)
	}

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	// Drain in-flight payment confirmations before releasing the store
	processor.Shutdown()

	slog.Info("server exited gracefully")
}

// corsMiddleware handles CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
