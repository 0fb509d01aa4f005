package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	AllocatorMemory = "memory"
	AllocatorRedis  = "redis"
)

type Config struct {
	App            AppConfig
	Server         ServerConfig
	Database       DatabaseConfig
	Redis          RedisConfig
	Recommendation RecommendationConfig
}

type AppConfig struct {
	Name        string `envconfig:"APP_NAME" default:"Recommendation Service"`
	Version     string `envconfig:"APP_VERSION" default:"1.0"`
	Environment string `envconfig:"APP_ENV" default:"development"`
}

type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8080"`
}

type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD"`
	Name     string `envconfig:"DB_NAME" default:"recommendations"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     string `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
}

type RecommendationConfig struct {
	// IDAllocator is "memory" (single replica) or "redis" (shared sequence).
	IDAllocator string `envconfig:"ID_ALLOCATOR" default:"memory"`
	// LegacyUpdateMatch also matches parent/related product ids on update.
	LegacyUpdateMatch bool    `envconfig:"LEGACY_UPDATE_MATCH" default:"false"`
	ClickRateLimit    float64 `envconfig:"CLICK_RATE_LIMIT" default:"0"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	cfg.Recommendation.IDAllocator = strings.ToLower(strings.TrimSpace(cfg.Recommendation.IDAllocator))
	switch cfg.Recommendation.IDAllocator {
	case AllocatorMemory, AllocatorRedis:
	default:
		return nil, fmt.Errorf("unknown id allocator %q", cfg.Recommendation.IDAllocator)
	}

	if cfg.Recommendation.ClickRateLimit < 0 {
		return nil, errors.New("click rate limit must not be negative")
	}

	return &cfg, nil
}
