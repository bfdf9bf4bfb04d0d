// Package config предоставляет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Драйверы постоянного хранилища состояния клиента.
const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

// Config общая структура для хранения настроек
type Config struct {
	Env          string `yaml:"env" env:"YOKED_ENV" env-default:"local"`
	API          `yaml:"api"`
	Storage      `yaml:"storage"`
	HTTPServer   `yaml:"http_server"`
	Verification `yaml:"verification"`
}

// API структура для настройки клиента бэкенда
type API struct {
	BaseURL    string        `yaml:"base_url" env:"YOKED_API_URL" env-default:"http://127.0.0.1:8000/api"`
	TimeoutAPI time.Duration `yaml:"timeout"`    // 0: без таймаута, как у http.DefaultClient
	RateLimit  float64       `yaml:"rate_limit"` // запросов в секунду, 0: без ограничения
	Burst      int           `yaml:"burst" env-default:"5"`
}

// Storage структура для выбора и настройки хранилища состояния
type Storage struct {
	Driver                  string `yaml:"driver" env:"YOKED_STORAGE_DRIVER" env-default:"memory"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"YOKED_STORAGE_DSN"`
	KeyPrefix               string `yaml:"key_prefix" env-default:"yoked:"` // только для redis
	RedisConnection         `yaml:"redis_connection"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeoutredis"`
}

// HTTPServer структура для настройки локального агента сессии
type HTTPServer struct {
	AddressHTTP       string        `yaml:"addresshttp" env:"YOKED_AGENT_ADDR" env-default:"127.0.0.1:8081"`
	TimeoutHTTP       time.Duration `yaml:"timeouthttp" env-default:"10s"`
	IdleTimeout       time.Duration `yaml:"idle_timeout" env-default:"60s"`
	RequestsPerSecond float64       `yaml:"requests_per_second" env-default:"20"` // 0: без ограничения
	RequestBurst      int           `yaml:"request_burst" env-default:"40"`
}

// Verification структура для настройки опроса подтверждения почты
type Verification struct {
	InitialInterval time.Duration `yaml:"initial_interval" env-default:"1s"`
	MaxInterval     time.Duration `yaml:"max_interval" env-default:"15s"`
	MaxAttempts     uint          `yaml:"max_attempts" env-default:"5"`
}

// Load читает конфиг по указанному пути и проверяет его.
func Load(configPath string) (*Config, error) {
	const op = "config.Load"
	if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// MustLoad функция для загрузки конфига, путь берётся из CONFIG_PATH
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

func (c *Config) validate() error {
	switch c.Driver {
	case DriverMemory:
	case DriverRedis:
		if c.AddressRedis == "" {
			return fmt.Errorf("storage driver %q requires redis_connection.addressredis", c.Driver)
		}
	case DriverPostgres:
		if c.StorageConnectionString == "" {
			return fmt.Errorf("storage driver %q requires storage_connection_string", c.Driver)
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Driver)
	}
	if c.BaseURL == "" {
		return fmt.Errorf("api.base_url is empty")
	}
	if c.MaxAttempts == 0 {
		return fmt.Errorf("verification.max_attempts must be positive")
	}
	return nil
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"API:\n"+
			"  BaseURL: %s\n"+
			"  Timeout: %s\n"+
			"  RateLimit: %.2f\n"+
			"  Burst: %d\n"+
			"Storage:\n"+
			"  Driver: %s\n"+
			"  RedisAddr: %s\n"+
			"  RedisDB: %d\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"  RequestsPerSecond: %.2f\n"+
			"Verification:\n"+
			"  InitialInterval: %s\n"+
			"  MaxInterval: %s\n"+
			"  MaxAttempts: %d\n",
		c.Env,
		c.BaseURL,
		c.TimeoutAPI,
		c.RateLimit,
		c.Burst,
		c.Driver,
		c.AddressRedis,
		c.DB,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.RequestsPerSecond,
		c.InitialInterval,
		c.MaxInterval,
		c.MaxAttempts,
	)
}
