package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gold-assistant-go/internal/config"
	"github.com/gold-assistant-go/internal/handlers"
	"github.com/gold-assistant-go/internal/i18n"
	"github.com/gold-assistant-go/internal/middleware"
	"github.com/gold-assistant-go/internal/responder"
	"github.com/gold-assistant-go/internal/services/cache"
	"github.com/gold-assistant-go/internal/services/generative"
	"github.com/gold-assistant-go/internal/services/price"
	"github.com/gold-assistant-go/internal/services/search"
	"github.com/gold-assistant-go/internal/telegram"
	"github.com/gold-assistant-go/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "configs/config.yaml", "Path to configuration file")
	envFile := flag.String("env", ".env", "Path to .env file")
	flag.Parse()

	// Load .env file if exists
	if err := godotenv.Load(*envFile); err != nil {
		// It's okay if .env doesn't exist
		fmt.Printf("Warning: .env file not found: %v\n", err)
	}

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewLogger(&cfg.Logging)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log.Info("Starting Gold Assistant API...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize cache
	cacheService, err := cache.NewService(&cfg.Cache, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize response cache")
	}

	// Initialize data source adapters
	priceChain := price.NewChain(&cfg.Providers, log)
	searchService := search.NewService(&cfg.Providers.News, log)
	generativeService := generative.NewClient(&cfg.Generative, log)

	// Initialize i18n
	localizer, err := i18n.NewLocalizer(&cfg.I18n)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize i18n")
	}

	// Initialize rate limiter and metrics
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)
	metrics := middleware.NewMetrics()

	// Initialize decision engine
	engine := responder.NewEngine(&cfg.Generative, cacheService, generativeService, localizer, metrics, log)

	// Start metrics server if enabled
	if cfg.Monitoring.Metrics.Enabled {
		go func() {
			log.WithFields(logrus.Fields{
				"port": cfg.Monitoring.Metrics.Port,
				"path": cfg.Monitoring.Metrics.Path,
			}).Info("Starting metrics server")

			if err := middleware.StartMetricsServer(cfg.Monitoring.Metrics.Port, cfg.Monitoring.Metrics.Path); err != nil {
				log.WithError(err).Error("Metrics server failed")
			}
		}()
	}

	// Start optional Telegram transport
	if cfg.Telegram.Enabled {
		bot, err := telegram.NewBot(&cfg.Telegram, priceChain, searchService, engine, rateLimiter, log)
		if err != nil {
			log.WithError(err).Fatal("Failed to create Telegram bot")
		}
		go bot.Run(ctx)
	}

	// Initialize HTTP API
	handler := handlers.NewHandler(
		cfg,
		priceChain,
		searchService,
		engine,
		cacheService,
		generativeService,
		rateLimiter,
		metrics,
		localizer,
		log,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.WithField("port", cfg.Server.Port).Info("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("API server failed")
		}
	}()

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	log.Info("Shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Failed to shut down API server cleanly")
	}

	// Cancel context to stop the Telegram poller
	cancel()

	log.Info("Gold Assistant stopped")
}
