package config

import (
	"errors"
	"os"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Quote    QuoteConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port string
	Host string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string
}

// QuoteConfig holds quote API configuration
type QuoteConfig struct {
	APIKey string
	// RefreshInterval is how often cached holdings get fresh prices.
	RefreshInterval time.Duration
}

// RedisConfig holds the session store configuration
type RedisConfig struct {
	Addr     string
	Password string
}

// KafkaConfig holds Kafka configuration. An empty broker list disables
// event publishing.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// ErrNoDatabase is returned when the persistence backend is not configured.
var ErrNoDatabase = errors.New("persistence backend is not configured: set DATABASE_URL")

// Load reads configuration from environment variables. A missing
// DATABASE_URL is a fatal startup error; everything else has a default.
func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, ErrNoDatabase
	}

	interval, err := time.ParseDuration(getEnv("REFRESH_INTERVAL", "10s"))
	if err != nil || interval <= 0 {
		interval = 10 * time.Second
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
		},
		Database: DatabaseConfig{
			URL: dbURL,
		},
		Quote: QuoteConfig{
			APIKey:          os.Getenv("FINNHUB_API_KEY"),
			RefreshInterval: interval,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		Kafka: KafkaConfig{
			Topic: getEnv("KAFKA_TOPIC", "holding-events"),
		},
	}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.Kafka.Brokers = []string{brokers}
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
