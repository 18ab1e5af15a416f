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

	"github.com/AZREAL-08/contractiq-backend/config"
	"github.com/AZREAL-08/contractiq-backend/handler"
	"github.com/AZREAL-08/contractiq-backend/middleware"
	"github.com/AZREAL-08/contractiq-backend/pkg/logger"
	"github.com/AZREAL-08/contractiq-backend/service"
	"github.com/gin-gonic/gin"
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

	// Initialize services
	geminiSvc := service.NewGeminiService(&cfg.Gemini)
	extractor := service.NewExtractor(geminiSvc)

	store := service.NewFileNotificationStore(&cfg.Store)
	scheduler := service.NewScheduler(store, &cfg.Notifications)
	mailer := service.NewSMTPSender(&cfg.SMTP)
	dispatcher := service.NewDispatcher(store, mailer)

	// Initialize handlers
	contractHandler := handler.NewContractHandler(extractor, scheduler, dispatcher, store)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New() // Use New() instead of Default() to avoid default middleware

	// Add custom middleware
	router.Use(middleware.RequestID())                 // Request ID for tracing
	router.Use(middleware.Recovery())                  // Panic recovery
	router.Use(middleware.RequestLogger())             // Access logging
	router.Use(corsMiddleware())                       // CORS
	router.Use(middleware.RateLimit(100, time.Minute)) // Rate limiting: 100 requests per minute

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	api := router.Group("/api")
	{
		api.POST("/contracts/extract", contractHandler.Extract)
		api.GET("/notifications", contractHandler.ListSchedules)
		api.GET("/notifications/:id", contractHandler.GetSchedule)
		api.POST("/notifications/sweep", contractHandler.Sweep)
	}

	// Background dispatcher loop. One sweep at a time: schedule writes and
	// sweep writes share a single whole-document store.
	sweepCtx, stopSweeps := context.WithCancel(context.Background())
	go runSweepLoop(sweepCtx, dispatcher, time.Duration(cfg.Notifications.SweepIntervalMinutes)*time.Minute)

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

	stopSweeps()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited gracefully")
}

// runSweepLoop runs one sweep immediately and then on every tick until the
// context is cancelled. Sweep failures are logged, never fatal: the next tick
// gets another chance while the ledger stays intact.
func runSweepLoop(ctx context.Context, dispatcher *service.Dispatcher, interval time.Duration) {
	sweep := func() {
		result, err := dispatcher.RunSweep(ctx, time.Now())
		if err != nil {
			logger.Error(ctx, "notification sweep failed", "error", err)
			return
		}
		if result.Due > 0 {
			logger.Info(ctx, "notification sweep completed",
				"due", result.Due,
				"sent", result.Sent,
				"failed", result.Failed,
			)
		}
	}

	sweep()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweep()
		}
	}
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
