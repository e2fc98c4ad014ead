package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Catalog   CatalogConfig
	RateLimit RateLimitConfig
	Order     OrderConfig
}

type ServerConfig struct {
	Port        string
	Env         string
	CORSOrigins []string
}

// StoreConfig selects the durable key-value backend for cart and order state
type StoreConfig struct {
	Driver    string // memory | file | sqlite | postgres | redis
	Path      string // directory for file, DSN for sqlite
	Namespace string // session key prefix
	Timeout   time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Schema   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Addr returns host:port
func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

type KafkaConfig struct {
	Brokers []string // empty disables event publishing
	Topic   string
}

type CatalogConfig struct {
	File string // empty uses the bundled catalog
}

type RateLimitConfig struct {
	Enabled           bool
	RequestsPerWindow int
	Window            time.Duration
}

type OrderConfig struct {
	IDPrefix             string
	DefaultPaymentMethod string
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Load reads configuration from .env, any files listed in ENV_FILES, and the environment
func Load() *Config {
	if files := splitCSV(os.Getenv("ENV_FILES")); len(files) > 0 {
		if err := godotenv.Load(files...); err != nil {
			log.Printf("Warning: Could not load env files %v: %v", files, err)
		}
	}

	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	// Set defaults
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_ENV", "development")
	v.SetDefault("CORS_ORIGINS", "")
	v.SetDefault("STORE_DRIVER", "file")
	v.SetDefault("STORE_PATH", "./data")
	v.SetDefault("STORE_NAMESPACE", "local")
	v.SetDefault("STORE_TIMEOUT", "3s")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SCHEMA", "public")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC", "storefront.orders")
	v.SetDefault("CATALOG_FILE", "")
	v.SetDefault("RATE_LIMIT_ENABLED", false)
	v.SetDefault("RATE_LIMIT_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_WINDOW", "1m")
	v.SetDefault("ORDER_ID_PREFIX", "ORD")
	v.SetDefault("DEFAULT_PAYMENT_METHOD", "Credit Card")

	if err := v.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	return &Config{
		Server: ServerConfig{
			Port:        v.GetString("SERVER_PORT"),
			Env:         v.GetString("SERVER_ENV"),
			CORSOrigins: splitCSV(v.GetString("CORS_ORIGINS")),
		},
		Store: StoreConfig{
			Driver:    strings.ToLower(v.GetString("STORE_DRIVER")),
			Path:      v.GetString("STORE_PATH"),
			Namespace: v.GetString("STORE_NAMESPACE"),
			Timeout:   v.GetDuration("STORE_TIMEOUT"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Database: v.GetString("DB_DATABASE"),
			Schema:   v.GetString("DB_SCHEMA"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Kafka: KafkaConfig{
			Brokers: splitCSV(v.GetString("KAFKA_BROKERS")),
			Topic:   v.GetString("KAFKA_TOPIC"),
		},
		Catalog: CatalogConfig{
			File: v.GetString("CATALOG_FILE"),
		},
		RateLimit: RateLimitConfig{
			Enabled:           v.GetBool("RATE_LIMIT_ENABLED"),
			RequestsPerWindow: v.GetInt("RATE_LIMIT_REQUESTS"),
			Window:            v.GetDuration("RATE_LIMIT_WINDOW"),
		},
		Order: OrderConfig{
			IDPrefix:             v.GetString("ORDER_ID_PREFIX"),
			DefaultPaymentMethod: v.GetString("DEFAULT_PAYMENT_METHOD"),
		},
	}
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
