package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all exporter settings, populated from environment variables.
type Config struct {
	APIKey         string
	APIURL         string
	RequestTimeout time.Duration
	MaxAttempts    int
	PageDelay      time.Duration

	OutputDir string

	LogLevel  string
	LogFormat string
	LogDir    string

	// Optional Kafka mirroring of processed rows.
	KafkaBrokers   []string
	KafkaSinkTopic string
	KafkaEnabled   bool

	// Optional health/metrics HTTP listener for the run duration.
	HTTPAddr string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	timeout, err := parseDuration("NASA_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	pageDelay, err := parseDuration("PAGE_DELAY", "1s")
	if err != nil {
		return nil, err
	}

	maxAttempts, err := parseMaxAttempts()
	if err != nil {
		return nil, err
	}

	brokers := parseBrokers(os.Getenv("KAFKA_BROKERS"))
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		APIKey:         envOrDefault("NASA_API_KEY", "DEMO_KEY"),
		APIURL:         envOrDefault("NASA_API_URL", "https://api.nasa.gov/neo/rest/v1/neo/browse"),
		RequestTimeout: timeout,
		MaxAttempts:    maxAttempts,
		PageDelay:      pageDelay,

		OutputDir: envOrDefault("OUTPUT_DIR", "data/exports"),

		LogLevel:  envOrDefault("LOG_LEVEL", "info"),
		LogFormat: envOrDefault("LOG_FORMAT", "text"),
		LogDir:    envOrDefault("LOG_DIR", "logs"),

		KafkaBrokers:   brokers,
		KafkaSinkTopic: envOrDefault("KAFKA_SINK_TOPIC", "neo-records"),
		KafkaEnabled:   kafkaEnabled,

		HTTPAddr: os.Getenv("HTTP_ADDR"),
	}

	if cfg.APIKey == "" {
		return nil, errors.New("NASA_API_KEY must not be empty")
	}
	if cfg.APIURL == "" {
		return nil, errors.New("NASA_API_URL must not be empty")
	}
	if cfg.OutputDir == "" {
		return nil, errors.New("OUTPUT_DIR must not be empty")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC must not be empty")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, def))
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseMaxAttempts() (int, error) {
	s := envOrDefault("NASA_MAX_ATTEMPTS", "3")
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, errors.New("invalid NASA_MAX_ATTEMPTS")
	}
	return n, nil
}

func parseBrokers(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
