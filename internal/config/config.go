// Package config loads storefront settings: defaults, then an optional YAML
// file, then environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fjod/go_cart/storefront/internal/pricing"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
	StoreRedis    = "redis"
	StoreSQLite   = "sqlite"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	GRPC     GRPCConfig     `yaml:"grpc"`
	Pricing  PricingConfig  `yaml:"pricing"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Orders   OrdersConfig   `yaml:"orders"`
	Sessions SessionsConfig `yaml:"sessions"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Log      LogConfig      `yaml:"log"`
}

type HTTPConfig struct {
	Port               string        `yaml:"port"`
	RequestTimeout     time.Duration `yaml:"request_timeout"`
	ShutdownTimeout    time.Duration `yaml:"shutdown_timeout"`
	MaxRequestBodySize int64         `yaml:"max_request_body_size"`
}

type GRPCConfig struct {
	Port string `yaml:"port"`
}

// PricingConfig holds amounts as decimal strings.
type PricingConfig struct {
	FreeShippingThreshold string `yaml:"free_shipping_threshold"`
	FlatShippingFee       string `yaml:"flat_shipping_fee"`
	TaxRate               string `yaml:"tax_rate"`
}

type CatalogConfig struct {
	Driver         string        `yaml:"driver"`
	DBPath         string        `yaml:"db_path"`
	MigrationsPath string        `yaml:"migrations_path"`
	BreakerTimeout time.Duration `yaml:"breaker_timeout"`
	MaxFailures    uint32        `yaml:"max_failures"`
}

type OrdersConfig struct {
	Driver         string `yaml:"driver"`
	DBHost         string `yaml:"db_host"`
	DBPort         int    `yaml:"db_port"`
	DBUser         string `yaml:"db_user"`
	DBPassword     string `yaml:"db_password"`
	DBName         string `yaml:"db_name"`
	MigrationsPath string `yaml:"migrations_path"`
	MongoURI       string `yaml:"mongo_uri"`
	MongoDBName    string `yaml:"mongo_db_name"`

	MongoConnectTimeout time.Duration `yaml:"mongo_connect_timeout"`
	MongoSelectTimeout  time.Duration `yaml:"mongo_server_selection_timeout"`
	MongoMaxPoolSize    uint64        `yaml:"mongo_max_pool_size"`
	MongoMinPoolSize    uint64        `yaml:"mongo_min_pool_size"`
}

type SessionsConfig struct {
	Driver        string        `yaml:"driver"`
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	TTL           time.Duration `yaml:"ttl"`
}

type KafkaConfig struct {
	Brokers   []string      `yaml:"brokers"`
	Topic     string        `yaml:"topic"`
	PollEvery time.Duration `yaml:"poll_every"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Port:               "8080",
			RequestTimeout:     30 * time.Second,
			ShutdownTimeout:    10 * time.Second,
			MaxRequestBodySize: 1 << 20, // 1MB
		},
		GRPC: GRPCConfig{
			Port: "50055",
		},
		Pricing: PricingConfig{
			FreeShippingThreshold: "150.00",
			FlatShippingFee:       "9.90",
			TaxRate:               "0.18",
		},
		Catalog: CatalogConfig{
			Driver:         StoreSQLite,
			DBPath:         "storefront.db",
			MigrationsPath: "internal/catalog/migrations",
			BreakerTimeout: 10 * time.Second,
			MaxFailures:    5,
		},
		Orders: OrdersConfig{
			Driver:         StoreMemory,
			DBHost:         "localhost",
			DBPort:         5432,
			DBUser:         "postgres",
			DBName:         "storefront",
			MigrationsPath: "internal/repository/migrations",
			MongoURI:       "mongodb://localhost:27017",
			MongoDBName:    "storefront",

			MongoConnectTimeout: 10 * time.Second,
			MongoSelectTimeout:  5 * time.Second,
			MongoMaxPoolSize:    50,
			MongoMinPoolSize:    5,
		},
		Sessions: SessionsConfig{
			Driver:    StoreMemory,
			RedisAddr: "localhost:6379",
			TTL:       2 * time.Hour,
		},
		Kafka: KafkaConfig{
			Topic:     "order-events",
			PollEvery: time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load builds the effective configuration. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		fileCfg, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func (c *Config) applyEnv() error {
	c.HTTP.Port = getEnv("HTTP_PORT", c.HTTP.Port)
	c.GRPC.Port = getEnv("GRPC_PORT", c.GRPC.Port)

	c.Catalog.Driver = getEnv("CATALOG_STORE", c.Catalog.Driver)
	c.Catalog.DBPath = getEnv("CATALOG_DB_PATH", c.Catalog.DBPath)
	c.Catalog.MigrationsPath = getEnv("CATALOG_MIGRATIONS_PATH", c.Catalog.MigrationsPath)

	c.Orders.Driver = getEnv("ORDER_STORE", c.Orders.Driver)
	c.Orders.DBHost = getEnv("DB_HOST", c.Orders.DBHost)
	c.Orders.DBUser = getEnv("DB_USER", c.Orders.DBUser)
	c.Orders.DBPassword = getEnv("DB_PASSWORD", c.Orders.DBPassword)
	c.Orders.DBName = getEnv("DB_NAME", c.Orders.DBName)
	c.Orders.MigrationsPath = getEnv("MIGRATIONS_PATH", c.Orders.MigrationsPath)
	c.Orders.MongoURI = getEnv("MONGO_URI", c.Orders.MongoURI)
	c.Orders.MongoDBName = getEnv("MONGO_DB_NAME", c.Orders.MongoDBName)
	if port := os.Getenv("DB_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("DB_PORT: %w", err)
		}
		c.Orders.DBPort = p
	}

	c.Sessions.Driver = getEnv("SESSION_STORE", c.Sessions.Driver)
	c.Sessions.RedisAddr = getEnv("REDIS_ADDR", c.Sessions.RedisAddr)
	c.Sessions.RedisPassword = getEnv("REDIS_PASSWORD", c.Sessions.RedisPassword)

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		c.Kafka.Brokers = strings.Split(brokers, ",")
	}
	c.Kafka.Topic = getEnv("KAFKA_TOPIC", c.Kafka.Topic)

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	return nil
}

func (c *Config) Validate() error {
	if c.HTTP.Port == "" {
		return fmt.Errorf("http.port is required")
	}
	if c.GRPC.Port == "" {
		return fmt.Errorf("grpc.port is required")
	}
	if _, err := c.PricingPolicy(); err != nil {
		return err
	}

	switch c.Catalog.Driver {
	case StoreSQLite, StoreMemory:
	default:
		return fmt.Errorf("catalog.driver must be sqlite or memory, got %q", c.Catalog.Driver)
	}
	switch c.Orders.Driver {
	case StorePostgres, StoreMongo, StoreMemory:
	default:
		return fmt.Errorf("orders.driver must be postgres, mongo or memory, got %q", c.Orders.Driver)
	}
	if c.Orders.MongoMaxPoolSize == 0 || c.Orders.MongoMinPoolSize > c.Orders.MongoMaxPoolSize {
		return fmt.Errorf("orders.mongo_min_pool_size must not exceed a non-zero orders.mongo_max_pool_size")
	}
	switch c.Sessions.Driver {
	case StoreRedis, StoreMemory:
	default:
		return fmt.Errorf("sessions.driver must be redis or memory, got %q", c.Sessions.Driver)
	}
	if c.Sessions.TTL <= 0 {
		return fmt.Errorf("sessions.ttl must be positive")
	}
	if len(c.Kafka.Brokers) > 0 && c.Orders.Driver != StorePostgres {
		return fmt.Errorf("kafka publishing requires orders.driver postgres")
	}
	return nil
}

// PricingPolicy parses the configured amounts.
func (c *Config) PricingPolicy() (pricing.Policy, error) {
	threshold, err := decimal.NewFromString(c.Pricing.FreeShippingThreshold)
	if err != nil {
		return pricing.Policy{}, fmt.Errorf("pricing.free_shipping_threshold: %w", err)
	}
	fee, err := decimal.NewFromString(c.Pricing.FlatShippingFee)
	if err != nil {
		return pricing.Policy{}, fmt.Errorf("pricing.flat_shipping_fee: %w", err)
	}
	rate, err := decimal.NewFromString(c.Pricing.TaxRate)
	if err != nil {
		return pricing.Policy{}, fmt.Errorf("pricing.tax_rate: %w", err)
	}
	if threshold.IsNegative() || fee.IsNegative() || rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return pricing.Policy{}, fmt.Errorf("pricing amounts must be non-negative and tax_rate at most 1")
	}
	return pricing.Policy{
		FreeShippingThreshold: threshold,
		FlatShippingFee:       fee,
		TaxRate:               rate,
	}, nil
}
