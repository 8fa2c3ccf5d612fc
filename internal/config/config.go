// Package config loads runtime configuration for the envelope
// serialization demonstration harness from environment variables (and an
// optional .env file), the way the project's earlier config.go does.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config holds all runtime configuration for cmd/envctl.
//
// Tags:
//
//	env: environment variable name
//	envDefault: default value if not set
type Config struct {
	// Queue backend selection.
	QueueBackend  string `env:"ENV_QUEUE_BACKEND" envDefault:"nats"` // "nats" or "kafka"
	NATSUrl       string `env:"ENV_NATS_URL" envDefault:"nats://localhost:4222"`
	KafkaBrokers  string `env:"ENV_KAFKA_BROKERS" envDefault:"localhost:19092"`
	ConsumerGroup string `env:"ENV_CONSUMER_GROUP" envDefault:"envelopes-group"`
	Subject       string `env:"ENV_QUEUE_SUBJECT" envDefault:"envelopes.demo"`

	// Source URI stamped on created envelopes.
	SourceURI string `env:"ENV_SOURCE_URI" envDefault:"envctl://demo"`

	// Pooled-buffer / core behavior flags.
	CleanRentedBuffers          bool `env:"ENV_CLEAN_RENTED_BUFFERS" envDefault:"true"`
	LogMessageContent           bool `env:"ENV_LOG_MESSAGE_CONTENT" envDefault:"false"`
	ExperimentalFeaturesEnabled bool `env:"ENV_EXPERIMENTAL_FEATURES_ENABLED" envDefault:"false"`

	// Demo publish loop.
	PublishRate  float64 `env:"ENV_PUBLISH_RATE" envDefault:"5.0"` // messages/sec
	PublishBurst int     `env:"ENV_PUBLISH_BURST" envDefault:"1"`

	// Observability.
	MetricsAddr     string        `env:"ENV_METRICS_ADDR" envDefault:":9090"`
	MetricsInterval time.Duration `env:"ENV_METRICS_INTERVAL" envDefault:"15s"`
	LogLevel        string        `env:"ENV_LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"ENV_LOG_FORMAT" envDefault:"json"`
	Environment     string        `env:"ENV_ENVIRONMENT" envDefault:"development"`
}

// Load reads configuration from an optional .env file and environment
// variables, then validates it. Priority: env vars > .env file > defaults.
func Load(logger *zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if logger != nil {
			logger.Info().Msg("no .env file found, using environment variables only")
		}
	} else if logger != nil {
		logger.Info().Msg("loaded configuration from .env file")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks configuration for internally inconsistent or
// out-of-range values.
func (c *Config) Validate() error {
	if c.QueueBackend != "nats" && c.QueueBackend != "kafka" {
		return fmt.Errorf("ENV_QUEUE_BACKEND must be one of: nats, kafka (got: %s)", c.QueueBackend)
	}
	if c.PublishRate <= 0 {
		return fmt.Errorf("ENV_PUBLISH_RATE must be > 0, got %.2f", c.PublishRate)
	}
	if c.PublishBurst < 1 {
		return fmt.Errorf("ENV_PUBLISH_BURST must be >= 1, got %d", c.PublishBurst)
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("ENV_LOG_LEVEL must be one of: debug, info, warn, error (got: %s)", c.LogLevel)
	}

	validLogFormats := map[string]bool{"json": true, "pretty": true}
	if !validLogFormats[c.LogFormat] {
		return fmt.Errorf("ENV_LOG_FORMAT must be one of: json, pretty (got: %s)", c.LogFormat)
	}

	return nil
}

// Print dumps configuration in a human-readable format, for local
// debugging. For production, prefer LogConfig.
func (c *Config) Print() {
	fmt.Println("=== Envelope Serializer Configuration ===")
	fmt.Printf("Environment:     %s\n", c.Environment)
	fmt.Printf("Queue Backend:   %s\n", c.QueueBackend)
	fmt.Printf("NATS URL:        %s\n", c.NATSUrl)
	fmt.Printf("Kafka Brokers:   %s\n", c.KafkaBrokers)
	fmt.Printf("Source URI:      %s\n", c.SourceURI)
	fmt.Println("\n=== Core Behavior ===")
	fmt.Printf("Clean Buffers:   %v\n", c.CleanRentedBuffers)
	fmt.Printf("Log Content:     %v\n", c.LogMessageContent)
	fmt.Printf("Experimental:    %v\n", c.ExperimentalFeaturesEnabled)
	fmt.Println("\n=== Observability ===")
	fmt.Printf("Metrics Addr:    %s\n", c.MetricsAddr)
	fmt.Printf("Log Level:       %s\n", c.LogLevel)
	fmt.Printf("Log Format:      %s\n", c.LogFormat)
	fmt.Println("==========================================")
}

// LogConfig dumps configuration via structured logging.
func (c *Config) LogConfig(logger zerolog.Logger) {
	logger.Info().
		Str("environment", c.Environment).
		Str("queue_backend", c.QueueBackend).
		Str("source_uri", c.SourceURI).
		Bool("clean_rented_buffers", c.CleanRentedBuffers).
		Bool("log_message_content", c.LogMessageContent).
		Bool("experimental_features_enabled", c.ExperimentalFeaturesEnabled).
		Float64("publish_rate", c.PublishRate).
		Str("metrics_addr", c.MetricsAddr).
		Dur("metrics_interval", c.MetricsInterval).
		Str("log_level", c.LogLevel).
		Str("log_format", c.LogFormat).
		Msg("configuration loaded")
}
