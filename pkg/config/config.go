package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

// DBConfig holds the Postgres configuration used for merchant accounts and audit logs
type DBConfig struct {
	Host            string        `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port            string        `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User            string        `yaml:"user" env:"DB_USER" env-default:"postgres"`
	Password        string        `yaml:"password" env:"DB_PASSWORD" env-default:"password"`
	DBName          string        `yaml:"name" env:"DB_NAME" env-default:"rez"`
	SSLMode         string        `yaml:"ssl_mode" env:"DB_SSL_MODE" env-default:"disable"`
	MaxIdleConns    int           `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" env-default:"10"`
	MaxOpenConns    int           `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS" env-default:"100"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME" env-default:"1h"`
	LogLevel        string        `yaml:"log_level" env:"DB_LOG_LEVEL" env-default:"warn"`
}

// GetDSN returns the PostgreSQL connection string
func (c *DBConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// GormLogLevel maps the configured level onto gorm's logger levels
func (c *DBConfig) GormLogLevel() logger.LogLevel {
	switch c.LogLevel {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// MongoConfig holds the MongoDB configuration for catalogue documents
type MongoConfig struct {
	URI      string        `yaml:"uri" env:"MONGO_URI" env-default:"mongodb://localhost:27017"`
	Database string        `yaml:"database" env:"MONGO_DATABASE" env-default:"rez"`
	Timeout  time.Duration `yaml:"timeout" env:"MONGO_TIMEOUT" env-default:"10s"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string `yaml:"port" env:"SERVER_PORT" env-default:"8080"`
	Env  string `yaml:"env" env:"APP_ENV" env-default:"development"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	SigningKey      string `yaml:"signing_key" env:"JWT_SIGNING_KEY" env-default:"defaultsecretkey"`
	ExpirationHours int    `yaml:"expiration_hours" env:"JWT_EXPIRATION_HOURS" env-default:"24"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Prefix string `yaml:"prefix" env:"METRICS_PREFIX" env-default:"rez"`
}

// RedisConfig holds the page cache configuration. An empty Addr disables caching.
type RedisConfig struct {
	Addr        string        `yaml:"addr" env:"REDIS_ADDR"`
	Password    string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB          int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	OffersTTL   time.Duration `yaml:"offers_ttl" env:"REDIS_OFFERS_TTL" env-default:"5m"`
	HomepageTTL time.Duration `yaml:"homepage_ttl" env:"REDIS_HOMEPAGE_TTL" env-default:"2m"`
}

// KafkaConfig holds the event publisher configuration. No brokers disables publishing.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:","`
	Topic   string   `yaml:"topic" env:"KAFKA_TOPIC" env-default:"rez.catalog.events"`
}

// MediaConfig holds the media host configuration
type MediaConfig struct {
	Bucket         string `yaml:"bucket" env:"MEDIA_BUCKET" env-default:"rez-media"`
	Region         string `yaml:"region" env:"MEDIA_REGION" env-default:"ap-south-1"`
	BaseURL        string `yaml:"base_url" env:"MEDIA_BASE_URL"`
	TempDir        string `yaml:"temp_dir" env:"MEDIA_TEMP_DIR"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes" env:"MEDIA_MAX_UPLOAD_BYTES" env-default:"52428800"`
	// product galleries take images only
	MaxProductImageBytes int64 `yaml:"max_product_image_bytes" env:"MEDIA_MAX_PRODUCT_IMAGE_BYTES" env-default:"10485760"`
}

// ImportConfig holds bulk import limits
type ImportConfig struct {
	MaxRows   int `yaml:"max_rows" env:"IMPORT_MAX_ROWS" env-default:"1000"`
	BatchSize int `yaml:"batch_size" env:"IMPORT_BATCH_SIZE" env-default:"50"`
}

// Config holds all configuration
type Config struct {
	ServiceName string        `yaml:"service_name" env:"SERVICE_NAME" env-default:"rez-backend"`
	Server      ServerConfig  `yaml:"server"`
	Mongo       MongoConfig   `yaml:"mongo"`
	DB          DBConfig      `yaml:"db"`
	JWT         JWTConfig     `yaml:"jwt"`
	Log         LogConfig     `yaml:"log"`
	Metrics     MetricsConfig `yaml:"metrics"`
	Redis       RedisConfig   `yaml:"redis"`
	Kafka       KafkaConfig   `yaml:"kafka"`
	Media       MediaConfig   `yaml:"media"`
	Import      ImportConfig  `yaml:"import"`
}

// Load reads configuration from an optional YAML file named by CONFIG_PATH and the environment.
// A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: .env file not found, using environment variables\n")
	}

	var cfg Config
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		return &cfg, nil
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	return &cfg, nil
}

// IsProduction reports whether the service runs with APP_ENV=production
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// LogFields returns the non-secret configuration as zap fields
func (c *Config) LogFields() []zap.Field {
	return []zap.Field{
		zap.String("service", c.ServiceName),
		zap.String("environment", c.Server.Env),
		zap.String("server_port", c.Server.Port),
		zap.String("mongo_database", c.Mongo.Database),
		zap.String("db_host", c.DB.Host),
		zap.String("db_port", c.DB.Port),
		zap.String("db_name", c.DB.DBName),
		zap.Bool("cache_enabled", c.Redis.Addr != ""),
		zap.Int("kafka_brokers", len(c.Kafka.Brokers)),
		zap.String("media_bucket", c.Media.Bucket),
	}
}
