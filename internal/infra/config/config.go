package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates application configuration values loaded from environment variables.
type Config struct {
	Env                string
	HTTPAddr           string
	StorageMode        string
	MongoURI           string
	MongoDB            string
	KafkaBrokers       []string
	KafkaTopicPrefix   string
	IdempotencyTTL     time.Duration
	OutboxPollInterval time.Duration
	RetryBackoff       []time.Duration

	// Pricing and booking policy knobs.
	FallbackDailyRatePence int64
	ServiceFeePercent      int64
	ServiceFeeMinimumPence int64
	AvailabilityHorizon    int

	// Payment simulator.
	PaymentSuccessRate float64

	// Schedule worker.
	CompletionInterval time.Duration
}

// Load parses configuration from the current environment.
func Load() (Config, error) {
	cfg := Config{
		Env:              getEnv("APP_ENV", "dev"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		StorageMode:      strings.ToLower(getEnv("STORAGE_MODE", "memory")),
		MongoURI:         os.Getenv("MONGO_URI"),
		MongoDB:          getEnv("MONGO_DB", "sharetools"),
		KafkaTopicPrefix: getEnv("KAFKA_TOPIC_PREFIX", ""),
	}
	brokers := getEnv("KAFKA_BROKERS", "")
	if brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	idempotencyTTL, err := parseDurationEnv("IDEMP_TTL", 168*time.Hour)
	if err != nil {
		return Config{}, err
	}
	cfg.IdempotencyTTL = idempotencyTTL

	poll, err := parseDurationEnv("OUTBOX_POLL_INTERVAL", 500*time.Millisecond)
	if err != nil {
		return Config{}, err
	}
	cfg.OutboxPollInterval = poll

	retryStr := getEnv("RETRY_BACKOFF", "1s,5s,30s")
	for _, raw := range strings.Split(retryStr, ",") {
		val := strings.TrimSpace(raw)
		if val == "" {
			continue
		}
		d, err := time.ParseDuration(val)
		if err != nil {
			return Config{}, fmt.Errorf("invalid RETRY_BACKOFF component %q: %w", raw, err)
		}
		cfg.RetryBackoff = append(cfg.RetryBackoff, d)
	}

	fallback, err := parseInt64Env("FALLBACK_DAILY_RATE_PENCE", 2000)
	if err != nil {
		return Config{}, err
	}
	cfg.FallbackDailyRatePence = fallback

	feePercent, err := parseInt64Env("SERVICE_FEE_PERCENT", 5)
	if err != nil {
		return Config{}, err
	}
	cfg.ServiceFeePercent = feePercent

	feeMinimum, err := parseInt64Env("SERVICE_FEE_MINIMUM_PENCE", 200)
	if err != nil {
		return Config{}, err
	}
	cfg.ServiceFeeMinimumPence = feeMinimum

	horizon, err := parseInt64Env("AVAILABILITY_HORIZON_DAYS", 30)
	if err != nil {
		return Config{}, err
	}
	cfg.AvailabilityHorizon = int(horizon)

	successRate, err := parseFloatEnv("PAYMENT_SUCCESS_RATE", 0.9)
	if err != nil {
		return Config{}, err
	}
	if successRate < 0 || successRate > 1 {
		return Config{}, fmt.Errorf("PAYMENT_SUCCESS_RATE must be within [0,1], got %v", successRate)
	}
	cfg.PaymentSuccessRate = successRate

	completion, err := parseDurationEnv("COMPLETION_INTERVAL", time.Hour)
	if err != nil {
		return Config{}, err
	}
	cfg.CompletionInterval = completion

	switch cfg.StorageMode {
	case "memory":
	case "mongo":
		if cfg.MongoURI == "" {
			return Config{}, fmt.Errorf("MONGO_URI is required when STORAGE_MODE=mongo")
		}
	default:
		return Config{}, fmt.Errorf("unknown STORAGE_MODE %q", cfg.StorageMode)
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration: %w", key, err)
	}
	return d, nil
}

func parseInt64Env(key string, def int64) (int64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s integer: %w", key, err)
	}
	return v, nil
}

func parseFloatEnv(key string, def float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s number: %w", key, err)
	}
	return v, nil
}
