package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/match-explainer/internal/api"
	"github.com/stitts-dev/match-explainer/internal/api/middleware"
	"github.com/stitts-dev/match-explainer/internal/services"
	"github.com/stitts-dev/match-explainer/internal/store"
	"github.com/stitts-dev/match-explainer/pkg/config"
	"github.com/stitts-dev/match-explainer/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("Invalid configuration: %v", err)
	}

	// Setup logging
	log := logger.InitLogger(cfg.LogLevel, cfg.LogFormat, cfg.IsDevelopment())
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.WithService("match-explainer").WithFields(logrus.Fields{
		"env":     cfg.Env,
		"models":  cfg.FallbackModels,
		"store":   cfg.StoreBackend,
		"timeout": cfg.UpstreamTimeout.String(),
	}).Info("Starting match explainer")

	// Prediction store
	predictionStore, err := store.NewFromConfig(cfg, log)
	if err != nil {
		log.Fatalf("Failed to open prediction store: %v", err)
	}
	defer predictionStore.Close()

	// Initialize services
	var provider services.CompletionProvider = services.NewOpenRouterClient(cfg.OpenRouterAPIKey, cfg.OpenRouterAPIURL, cfg.UpstreamTimeout, log)
	if cfg.CircuitBreakerThreshold > 0 {
		provider = services.NewBreakerProvider(provider, cfg.FallbackModels, cfg.CircuitBreakerThreshold, cfg.CircuitBreakerTimeout, log)
	}
	explanationService := services.NewExplanationService(provider, services.ExplanationOptions{
		Models:         cfg.FallbackModels,
		Temperature:    cfg.ModelTemperature,
		MaxTokens:      cfg.ModelMaxTokens,
		AttemptTimeout: cfg.UpstreamTimeout,
	}, log)
	chartRenderer := services.NewChartRenderer(log)
	predictionService := services.NewPredictionService(predictionStore, log)

	// Setup Gin router
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.Recovery(log))

	if err := api.SetupRoutes(router, api.Dependencies{
		Explanations: explanationService,
		Charts:       chartRenderer,
		Predictions:  predictionService,
		Store:        predictionStore,
		HistoryLimit: cfg.HistoryLimit,
	}); err != nil {
		log.Fatalf("Failed to setup routes: %v", err)
	}

	for _, route := range router.Routes() {
		log.Debugf("%s %s", route.Method, route.Path)
	}

	// Setup server. Writes must outlive a full walk of the fallback chain.
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.WorstCaseExplanationTime() + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}
