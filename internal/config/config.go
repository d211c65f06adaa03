// Package config предоставляет структуры и функции для загрузки конфигурации
// из YAML-файла и переменных окружения.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек.
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING" env-required:"true"`
	MigrationsPath          string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
	HTTPServer              `yaml:"http_server"`
	Session                 `yaml:"session"`
	RedisConnection         `yaml:"redis_connection"`
	RabbitMQ                `yaml:"rabbitmq"`
	Admin                   `yaml:"admin"`
}

// HTTPServer структура для настройки сервера.
type HTTPServer struct {
	AddressHTTP string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeout" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
	// MetricsAddress — отдельный адрес для /metrics, недоступный через основной сервер.
	MetricsAddress string `yaml:"metrics_address" env:"METRICS_ADDRESS" env-default:":2112"`
}

// Session настройки cookie-сессий.
type Session struct {
	SecretKey    string        `yaml:"secret_key" env:"SESSION_SECRET_KEY"`
	TTL          time.Duration `yaml:"ttl" env-default:"24h"`
	CookieName   string        `yaml:"cookie_name" env-default:"inventory_session"`
	SecureCookie bool          `yaml:"secure_cookie" env:"SESSION_SECURE_COOKIE"`
	Store        string        `yaml:"store" env:"SESSION_STORE" env-default:"memory"`
}

// RedisConnection структура для подключения к redis, если сессии хранятся в нём.
type RedisConnection struct {
	AddressRedis string        `yaml:"address" env:"REDIS_ADDRESS"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeout"`
}

// RabbitMQ настройки публикации доменных событий. Пустой URL отключает события.
type RabbitMQ struct {
	URL        string        `yaml:"url" env:"RABBITMQ_URL"`
	Exchange   string        `yaml:"exchange" env-default:"inventory"`
	Retries    int           `yaml:"retries" env-default:"5"`
	RetryDelay time.Duration `yaml:"retry_delay" env-default:"2s"`
}

// Admin данные учётной записи администратора, создаваемой при инициализации БД.
type Admin struct {
	AdminUsername string `yaml:"username" env-default:"admin"`
	AdminEmail    string `yaml:"email" env-default:"admin@app.com"`
	AdminPassword string `yaml:"password" env:"ADMIN_PASSWORD" env-default:"admin123"`
}

const (
	// SessionStoreMemory хранит сессии в памяти процесса.
	SessionStoreMemory = "memory"
	// SessionStoreRedis хранит сессии в redis и позволяет запускать несколько экземпляров.
	SessionStoreRedis = "redis"
)

// Load читает конфиг из файла по пути path и проверяет его.
func Load(path string) (*Config, error) {
	const op = "config.Load"
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: file %s does not exist", op, path)
	}
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// MustLoad загружает конфиг по пути из CONFIG_PATH и завершает процесс при ошибке.
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

// Validate проверяет согласованность настроек.
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return errors.New("session secret key is not set")
	}
	if c.MetricsAddress == c.AddressHTTP {
		return errors.New("metrics address must differ from http address")
	}
	switch c.Store {
	case SessionStoreMemory:
	case SessionStoreRedis:
		if c.AddressRedis == "" {
			return errors.New("redis address is required for redis session store")
		}
	default:
		return fmt.Errorf("unknown session store %q", c.Store)
	}
	return nil
}

// String возвращает конфиг для лога, скрывая секреты.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"MigrationsPath: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"  MetricsAddress: %s\n"+
			"Session:\n"+
			"  Store: %s\n"+
			"  TTL: %s\n"+
			"  CookieName: %s\n"+
			"Redis:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"RabbitMQ:\n"+
			"  Enabled: %t\n"+
			"  Exchange: %s\n",
		c.Env,
		c.MigrationsPath,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.MetricsAddress,
		c.Store,
		c.TTL,
		c.CookieName,
		c.AddressRedis,
		c.DB,
		c.URL != "",
		c.Exchange,
	)
}
