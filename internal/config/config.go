package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// MaxForecastHours is the furthest ahead NWS gridpoint forecasts reach.
const MaxForecastHours = 156

// Config holds all service settings, populated from environment variables.
type Config struct {
	// NWS API access.
	NWSUserID    string
	NWSBaseURL   string
	NWSTimeout   time.Duration
	NWSRateLimit float64
	NWSCacheSize int

	// Location to forecast.
	Latitude  float64
	Longitude float64
	Station   string

	PollInterval  time.Duration
	ForecastHours int
	RetryInterval time.Duration
	RetryStop     time.Duration

	KafkaBrokers    []string
	KafkaTopic      string
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	userID := os.Getenv("NWS_USER_ID")
	if userID == "" {
		return nil, errors.New("NWS_USER_ID is required")
	}

	lat, err := parseCoordinate("NWS_LATITUDE", 90)
	if err != nil {
		return nil, err
	}
	lon, err := parseCoordinate("NWS_LONGITUDE", 180)
	if err != nil {
		return nil, err
	}

	nwsTimeout, err := parsePositiveDuration("NWS_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	pollInterval, err := parsePositiveDuration("POLL_INTERVAL", "10m")
	if err != nil {
		return nil, err
	}
	retryInterval, err := parsePositiveDuration("RETRY_INTERVAL", "5s")
	if err != nil {
		return nil, err
	}
	retryStop, err := parsePositiveDuration("RETRY_STOP", "1m")
	if err != nil {
		return nil, err
	}

	rateLimit, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("NWS_RATE_LIMIT", "5"), 64)
	if err != nil || rateLimit < 0 {
		return nil, errors.New("invalid NWS_RATE_LIMIT")
	}

	cacheSize, err := strconv.Atoi(sharedcfg.EnvOrDefault("NWS_CACHE_SIZE", "256"))
	if err != nil || cacheSize <= 0 {
		return nil, errors.New("invalid NWS_CACHE_SIZE")
	}

	hours, err := strconv.Atoi(sharedcfg.EnvOrDefault("FORECAST_HOURS", "24"))
	if err != nil || hours < 1 || hours > MaxForecastHours {
		return nil, errors.New("invalid FORECAST_HOURS: must be between 1 and 156")
	}

	cfg := &Config{
		NWSUserID:    userID,
		NWSBaseURL:   sharedcfg.EnvOrDefault("NWS_BASE_URL", "https://api.weather.gov"),
		NWSTimeout:   nwsTimeout,
		NWSRateLimit: rateLimit,
		NWSCacheSize: cacheSize,

		Latitude:  lat,
		Longitude: lon,
		Station:   os.Getenv("NWS_STATION"),

		PollInterval:  pollInterval,
		ForecastHours: hours,
		RetryInterval: retryInterval,
		RetryStop:     retryStop,

		KafkaBrokers:    sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:      sharedcfg.EnvOrDefault("KAFKA_TOPIC", "nws-hourly-forecast"),
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required")
	}
	if cfg.RetryStop < cfg.RetryInterval {
		return nil, errors.New("RETRY_STOP must not be shorter than RETRY_INTERVAL")
	}

	return cfg, nil
}

func parseCoordinate(key string, limit float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return 0, errors.New(key + " is required")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < -limit || v > limit {
		return 0, errors.New("invalid " + key)
	}
	return v, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, errors.New("invalid " + key)
	}
	return d, nil
}
