package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// City metrics store.
	DataFile string

	// Live data providers. An empty key disables the provider.
	OpenWeatherAPIKey string
	AirVisualAPIKey   string
	ProviderTimeout   time.Duration
	ProviderCacheTTL  time.Duration

	// Mapbox geocoding configuration.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int

	// Alert publication.
	AlertsEnabled   bool
	KafkaBrokers    []string
	KafkaAlertTopic string
	AlertQueueSize  int
	AlertBatchSize  int

	// HTTP edge.
	RateLimitRPS       float64
	RateLimitBurst     int
	CORSAllowedOrigins []string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	providerTimeout, err := parsePositiveDuration("PROVIDER_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	providerCacheTTL, err := parseDuration("PROVIDER_CACHE_TTL", "5m")
	if err != nil {
		return nil, err
	}

	mapboxTimeout, err := parsePositiveDuration("MAPBOX_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	rateLimitRPS, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("RATE_LIMIT_RPS", "20"), 64)
	if err != nil || rateLimitRPS < 0 {
		return nil, errors.New("invalid RATE_LIMIT_RPS")
	}

	rateLimitBurst, err := strconv.Atoi(sharedcfg.EnvOrDefault("RATE_LIMIT_BURST", "40"))
	if err != nil || rateLimitBurst < 0 {
		return nil, errors.New("invalid RATE_LIMIT_BURST")
	}

	alertBatchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	alertQueueSize, err := strconv.Atoi(sharedcfg.EnvOrDefault("ALERT_QUEUE_SIZE", "1000"))
	if err != nil || alertQueueSize <= 0 {
		return nil, errors.New("invalid ALERT_QUEUE_SIZE")
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		DataFile: sharedcfg.EnvOrDefault("DATA_FILE", "data/city_data.json"),

		OpenWeatherAPIKey: os.Getenv("OPENWEATHER_API_KEY"),
		AirVisualAPIKey:   os.Getenv("AIRVISUAL_API_KEY"),
		ProviderTimeout:   providerTimeout,
		ProviderCacheTTL:  providerCacheTTL,

		MapboxToken:     mapboxToken,
		MapboxEnabled:   mapboxEnabled,
		MapboxTimeout:   mapboxTimeout,
		MapboxCacheSize: parseMapboxCacheSize(),

		AlertsEnabled:   os.Getenv("ALERTS_ENABLED") == "true",
		KafkaBrokers:    sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaAlertTopic: sharedcfg.EnvOrDefault("KAFKA_ALERT_TOPIC", "smart-city-alerts"),
		AlertQueueSize:  alertQueueSize,
		AlertBatchSize:  alertBatchSize,

		RateLimitRPS:       rateLimitRPS,
		RateLimitBurst:     rateLimitBurst,
		CORSAllowedOrigins: parseList(sharedcfg.EnvOrDefault("CORS_ALLOWED_ORIGINS", "*")),
	}

	if cfg.DataFile == "" {
		return nil, errors.New("DATA_FILE is required")
	}
	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}
	if cfg.AlertsEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("ALERTS_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.AlertsEnabled && cfg.KafkaAlertTopic == "" {
		return nil, errors.New("ALERTS_ENABLED is true but KAFKA_ALERT_TOPIC is empty")
	}

	return cfg, nil
}

// LiveProvidersEnabled reports whether any live data provider has credentials.
func (c *Config) LiveProvidersEnabled() bool {
	return c.OpenWeatherAPIKey != "" || c.AirVisualAPIKey != ""
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := parseDuration(key, def)
	if err != nil || d == 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseMapboxCacheSize() int {
	if s := os.Getenv("MAPBOX_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}

func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
