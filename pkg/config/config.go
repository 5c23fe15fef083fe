package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the full server configuration.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Search   SearchConfig   `mapstructure:"search"`
	Push     PushConfig     `mapstructure:"push"`
}

// AppConfig carries application-level settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	JWTSecret   string `mapstructure:"jwt_secret"`
	LogLevel    string `mapstructure:"log_level"`
	FrontendURL string `mapstructure:"frontend_url"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	HTTP HTTPConfig `mapstructure:"http"`
}

// HTTPConfig configures the HTTP transport.
type HTTPConfig struct {
	Network string `mapstructure:"network"`
	Addr    string `mapstructure:"addr"`
	Timeout string `mapstructure:"timeout"`
}

// DatabaseConfig groups the datastore settings.
type DatabaseConfig struct {
	PostgreSQL PostgreSQLConfig `mapstructure:"postgresql"`
	MongoDB    MongoDBConfig    `mapstructure:"mongodb"`
}

// PostgreSQLConfig configures the primary relational store.
type PostgreSQLConfig struct {
	DSN    string `mapstructure:"dsn"`
	DBName string `mapstructure:"db_name"`
}

// MongoDBConfig configures the analytics store.
type MongoDBConfig struct {
	URI    string `mapstructure:"uri"`
	DBName string `mapstructure:"db_name"`
}

// RedisConfig configures the cache.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// KafkaConfig configures the event broker.
type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	GroupID string   `mapstructure:"group_id"`
}

// SearchConfig configures Elasticsearch.
type SearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Index     string   `mapstructure:"index"`
}

// PushConfig configures push notification delivery.
type PushConfig struct {
	Topic       string `mapstructure:"topic"`
	BatchSize   int    `mapstructure:"batch_size"`
	DefaultIcon string `mapstructure:"default_icon"`
}

// LoadConfig reads config.yaml (when present) and environment
// variables, with sane local-development defaults.
func LoadConfig(serviceName string) (*Config, error) {
	v := viper.New()

	v.SetDefault("app.name", serviceName)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.jwt_secret", "newshub-dev-secret")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.frontend_url", "http://localhost:3000")

	v.SetDefault("server.http.network", "tcp")
	v.SetDefault("server.http.addr", ":8080")
	v.SetDefault("server.http.timeout", "30s")

	v.SetDefault("database.postgresql.dsn", "host=localhost user=postgres password=postgres dbname=newshub port=5432 sslmode=disable TimeZone=UTC")
	v.SetDefault("database.postgresql.db_name", "newshub")
	v.SetDefault("database.mongodb.uri", "mongodb://localhost:27017")
	v.SetDefault("database.mongodb.db_name", "newshub_analytics")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.group_id", serviceName+"-group")

	v.SetDefault("search.addresses", []string{"http://localhost:9200"})
	v.SetDefault("search.index", "articles")

	v.SetDefault("push.topic", "push_notifications")
	v.SetDefault("push.batch_size", 500)
	v.SetDefault("push.default_icon", "/logo.png")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine, a broken one is not.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvPrefix("NEWSHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
