package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all process configuration, read from environment variables
type Config struct {
	LogLevel         string `env:"LOG_LEVEL" envDefault:"info"`
	UseRedisForCache bool   `env:"USE_REDIS_FOR_CACHE" envDefault:"false"`

	Server    ServerConfig    `envPrefix:"SERVER_"`
	Database  DBConfig        `envPrefix:"DB_"`
	Cache     CacheConfig     `envPrefix:"REDIS_"`
	Broker    BrokerConfig    `envPrefix:"RABBITMQ_"`
	Readiness ReadinessConfig `envPrefix:"WAIT_"`
	JWT       JWTConfig       `envPrefix:"JWT_"`
	Admin     AdminConfig     `envPrefix:"ADMIN_"`
}

// ServerConfig holds HTTP server parameters
type ServerConfig struct {
	Port string `env:"PORT" envDefault:"8080"`
}

// CacheConfig holds redis connection parameters
type CacheConfig struct {
	Host     string        `env:"HOST" envDefault:"localhost"`
	Port     int           `env:"PORT" envDefault:"6379"`
	Password string        `env:"PASSWORD"`
	TTL      time.Duration `env:"TTL" envDefault:"5m"`
}

// Addr returns host:port of the redis server
func (c CacheConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// BrokerConfig holds the message broker endpoint
type BrokerConfig struct {
	Host        string        `env:"HOST" envDefault:"localhost"`
	Port        int           `env:"PORT" envDefault:"5672"`
	DialTimeout time.Duration `env:"DIAL_TIMEOUT" envDefault:"3s"`
}

// Addr returns host:port of the broker
func (c BrokerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ReadinessConfig controls the startup readiness gate
type ReadinessConfig struct {
	Interval    time.Duration `env:"INTERVAL" envDefault:"1s"`
	MaxAttempts int           `env:"MAX_ATTEMPTS" envDefault:"30"`
}

// JWTConfig holds token signing parameters
type JWTConfig struct {
	SecretKey       string `env:"SECRET_KEY"`
	ExpirationHours int64  `env:"EXPIRATION_HOURS" envDefault:"24"`
}

// AdminConfig holds defaults for the createsuperuser command
type AdminConfig struct {
	Email       string `env:"EMAIL"`
	PhoneNumber string `env:"PHONE_NUMBER"`
	Password    string `env:"PASSWORD"`
}

// Load parses configuration from the environment
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
