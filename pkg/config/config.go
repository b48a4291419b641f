package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all client configuration.
type Config struct {
	// Application
	Environment Environment
	LogLevel    string
	HTTPPort    string

	// Credentials. PrivateKey is optional: without it the client can run
	// every unsigned operation but cannot place orders.
	APIKey     string
	PrivateKey string

	// Streaming session
	StreamDialTimeout           time.Duration
	StreamPingInterval          time.Duration
	StreamReconnectInitialDelay time.Duration
	StreamReconnectMaxDelay     time.Duration
	StreamReconnectBackoffMult  float64
	StreamEventBufferSize       int

	// Market metadata cache
	PairsCacheTTL time.Duration

	// Order journal
	JournalMode  string // "postgres" or "console"
	PostgresHost string
	PostgresPort string
	PostgresUser string
	PostgresPass string
	PostgresDB   string
	PostgresSSL  string
}

// LoadFromEnv loads configuration from environment variables with defaults.
func LoadFromEnv() (*Config, error) {
	env, err := ParseEnvironment(getEnvOrDefault("ODYSSEY_ENVIRONMENT", string(Testnet)))
	if err != nil {
		return nil, fmt.Errorf("ODYSSEY_ENVIRONMENT: %w", err)
	}

	cfg := &Config{
		Environment: env,
		LogLevel:    getEnvOrDefault("LOG_LEVEL", "info"),
		HTTPPort:    getEnvOrDefault("HTTP_PORT", "8080"),

		APIKey:     os.Getenv("ODYSSEY_API_KEY"),
		PrivateKey: os.Getenv("ODYSSEY_PRIVATE_KEY"),

		StreamDialTimeout:           getDurationOrDefault("STREAM_DIAL_TIMEOUT", 10*time.Second),
		StreamPingInterval:          getDurationOrDefault("STREAM_PING_INTERVAL", 10*time.Second),
		StreamReconnectInitialDelay: getDurationOrDefault("STREAM_RECONNECT_INITIAL_DELAY", 1*time.Second),
		StreamReconnectMaxDelay:     getDurationOrDefault("STREAM_RECONNECT_MAX_DELAY", 30*time.Second),
		StreamReconnectBackoffMult:  getFloat64OrDefault("STREAM_RECONNECT_BACKOFF_MULTIPLIER", 2.0),
		StreamEventBufferSize:       getIntOrDefault("STREAM_EVENT_BUFFER_SIZE", 1000),

		PairsCacheTTL: getDurationOrDefault("PAIRS_CACHE_TTL", 5*time.Minute),

		JournalMode:  getEnvOrDefault("JOURNAL_MODE", "console"),
		PostgresHost: getEnvOrDefault("POSTGRES_HOST", "localhost"),
		PostgresPort: getEnvOrDefault("POSTGRES_PORT", "5432"),
		PostgresUser: getEnvOrDefault("POSTGRES_USER", "odyssey"),
		PostgresPass: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:   getEnvOrDefault("POSTGRES_DB", "odyssey"),
		PostgresSSL:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
	}

	err = cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks that configuration values are valid.
func (c *Config) Validate() error {
	if _, err := ParseEnvironment(string(c.Environment)); err != nil {
		return err
	}

	if c.HTTPPort == "" {
		return fmt.Errorf("HTTP_PORT cannot be empty")
	}

	if c.StreamEventBufferSize <= 0 {
		return fmt.Errorf("STREAM_EVENT_BUFFER_SIZE must be positive, got %d", c.StreamEventBufferSize)
	}

	if c.StreamReconnectBackoffMult < 1.0 {
		return fmt.Errorf("STREAM_RECONNECT_BACKOFF_MULTIPLIER must be >= 1.0, got %f", c.StreamReconnectBackoffMult)
	}

	if c.JournalMode != "postgres" && c.JournalMode != "console" {
		return fmt.Errorf("JOURNAL_MODE must be 'postgres' or 'console', got %q", c.JournalMode)
	}

	return nil
}

func getEnvOrDefault(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intVal, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intVal
}

func getFloat64OrDefault(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	floatVal, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}

	return floatVal
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return duration
}
