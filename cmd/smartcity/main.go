package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/joho/godotenv"

	"github.com/couchcryptid/smart-city-service/internal/adapter/airvisual"
	"github.com/couchcryptid/smart-city-service/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/smart-city-service/internal/adapter/kafka"
	"github.com/couchcryptid/smart-city-service/internal/adapter/mapbox"
	"github.com/couchcryptid/smart-city-service/internal/adapter/openweather"
	"github.com/couchcryptid/smart-city-service/internal/config"
	"github.com/couchcryptid/smart-city-service/internal/domain"
	"github.com/couchcryptid/smart-city-service/internal/gateway"
	"github.com/couchcryptid/smart-city-service/internal/observability"
	"github.com/couchcryptid/smart-city-service/internal/pipeline"
	"github.com/couchcryptid/smart-city-service/internal/service"
	"github.com/couchcryptid/smart-city-service/internal/store"
)

func main() {
	// A local .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat).With("service", "smart-city")
	metrics := observability.NewMetrics()

	// Initialize geocoder (feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN).
	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		geocoder = mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled, using built-in city table")
	}

	providers := liveProviders(cfg)
	if providers.Empty() {
		logger.Info("no live providers configured, serving synthetic data")
	}

	synth := gateway.NewSynthesizer(0)
	gw := gateway.New(providers, synth, cfg.ProviderCacheTTL, logger, metrics)
	st := store.Open(cfg.DataFile, logger, metrics)

	var publisher service.AlertPublisher
	var alertWriter *kafkaadapter.AlertWriter
	var alertPipeline *pipeline.Pipeline
	if cfg.AlertsEnabled {
		alertWriter = kafkaadapter.NewAlertWriter(cfg, logger)
		alertPipeline = pipeline.New(alertWriter, logger, metrics, cfg.AlertQueueSize, cfg.AlertBatchSize)
		publisher = alertPipeline
		logger.Info("alert publication enabled", "topic", cfg.KafkaAlertTopic, "brokers", cfg.KafkaBrokers)
	}

	svc := service.New(service.Deps{
		Resolver:  domain.NewResolver(geocoder, logger),
		Gateway:   gw,
		Store:     st,
		Generator: synth,
		Publisher: publisher,
		Logger:    logger,
		Metrics:   metrics,
	})

	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, svc, httpadapter.Options{
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	}, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	// Start alert delivery. It flushes its queue once ctx is cancelled.
	pipelineDone := make(chan struct{})
	go func() {
		defer close(pipelineDone)
		if alertPipeline == nil {
			return
		}
		if err := alertPipeline.Run(ctx); err != nil {
			logger.Error("alert pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	<-pipelineDone
	if alertWriter != nil {
		if err := alertWriter.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

// liveProviders wires the configured API clients. OpenWeatherMap is tried
// before AirVisual for air quality.
func liveProviders(cfg *config.Config) gateway.Providers {
	var p gateway.Providers
	if cfg.OpenWeatherAPIKey != "" {
		owm := openweather.NewClient(cfg.OpenWeatherAPIKey, cfg.ProviderTimeout)
		p.AirQuality = append(p.AirQuality, gateway.NewProvider(openweather.ProviderName, owm.AirQuality))
		p.Weather = append(p.Weather, gateway.NewProvider(openweather.ProviderName, owm.Weather))
	}
	if cfg.AirVisualAPIKey != "" {
		av := airvisual.NewClient(cfg.AirVisualAPIKey, cfg.ProviderTimeout)
		p.AirQuality = append(p.AirQuality, gateway.NewProvider(airvisual.ProviderName, av.AirQuality))
	}
	return p
}
