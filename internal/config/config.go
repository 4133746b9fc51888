// Package config loads service settings from the environment.
//
// Variables use the EMPLOYEES_ prefix and a double underscore for nesting,
// e.g. EMPLOYEES_DATABASE__HOST -> database.host. A .env file in the working
// directory is loaded first when present. Anything unset keeps the value
// from Default().
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "EMPLOYEES_"

type Config struct {
	App       AppConfig       `koanf:"app" validate:"required"`
	Server    ServerConfig    `koanf:"server" validate:"required"`
	Database  DatabaseConfig  `koanf:"database" validate:"required"`
	Redis     RedisConfig     `koanf:"redis"`
	Kafka     KafkaConfig     `koanf:"kafka"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
}

type AppConfig struct {
	Name string `koanf:"name" validate:"required"`
	Env  string `koanf:"env" validate:"required,oneof=development staging production test"`
}

type ServerConfig struct {
	Port         string        `koanf:"port" validate:"required"`
	ReadTimeout  time.Duration `koanf:"read_timeout" validate:"required"`
	WriteTimeout time.Duration `koanf:"write_timeout" validate:"required"`
	IdleTimeout  time.Duration `koanf:"idle_timeout" validate:"required"`
	// APIPrefix is an extra mount point for the employee routes, besides "/".
	APIPrefix string `koanf:"api_prefix"`
}

type DatabaseConfig struct {
	Host            string        `koanf:"host" validate:"required"`
	Port            string        `koanf:"port" validate:"required"`
	User            string        `koanf:"user" validate:"required"`
	Password        string        `koanf:"password"`
	Name            string        `koanf:"name" validate:"required"`
	SSLMode         string        `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int           `koanf:"max_open_conns" validate:"min=1"`
	MaxIdleConns    int           `koanf:"max_idle_conns" validate:"min=0"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	MaxRetries      int           `koanf:"max_retries" validate:"min=1"`
	AutoMigrate     bool          `koanf:"auto_migrate"`
}

// RedisConfig is optional; an empty Addr disables idempotency replay.
type RedisConfig struct {
	Addr           string        `koanf:"addr"`
	IdempotencyTTL time.Duration `koanf:"idempotency_ttl"`
}

// KafkaConfig is optional for the API and required by the worker.
type KafkaConfig struct {
	Brokers      string        `koanf:"brokers"` // comma separated host:port list
	Topic        string        `koanf:"topic" validate:"required"`
	PollInterval time.Duration `koanf:"poll_interval"`
	BatchSize    int           `koanf:"batch_size" validate:"min=1"`
}

type RateLimitConfig struct {
	RPS   float64 `koanf:"rps" validate:"min=0"`
	Burst int     `koanf:"burst" validate:"min=0"`
}

func Default() *Config {
	return &Config{
		App: AppConfig{Name: "go-employees", Env: "development"},
		Server: ServerConfig{
			Port:         "3000",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
			APIPrefix:    "/api",
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            "5432",
			User:            "postgres",
			Name:            "employees",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    10,
			ConnMaxLifetime: time.Hour,
			MaxRetries:      5,
			AutoMigrate:     true,
		},
		Redis: RedisConfig{IdempotencyTTL: 24 * time.Hour},
		Kafka: KafkaConfig{
			Topic:        "employees.lifecycle.v1",
			PollInterval: 3 * time.Second,
			BatchSize:    50,
		},
		RateLimit: RateLimitConfig{RPS: 20, Burst: 40},
	}
}

// Load reads .env (if any) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(env.Provider(envPrefix, ".", envKey))
}

func load(provider koanf.Provider) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(provider, nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// envKey maps EMPLOYEES_DATABASE__SSL_MODE to database.ssl_mode.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// DSN is the postgres connection string for gorm.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode,
	)
}

// BrokerList splits Brokers, dropping empty entries.
func (k KafkaConfig) BrokerList() []string {
	var out []string
	for _, b := range strings.Split(k.Brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}
