package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	Logger LoggerConfig

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int
	DBPath            string
	DBAutoMigrate     bool

	SnowflakeNode int64

	Redis RedisConfig

	Invoice InvoiceConfig
}

// RedisConfig configures the optional generation lock. An empty Addr disables it.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	LockTTL  int

	DocumentRate  float64
	DocumentBurst int
}

type LoggerConfig struct {
	Level string
}

// InvoiceConfig controls how invoice documents are numbered and presented.
type InvoiceConfig struct {
	NumberTemplate string
	Locale         string
	Currency       string
	DefaultFormat  string
	ConfigPath     string
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:     getenv("APP_SERVICE", "rentflow"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),
		Logger: LoggerConfig{
			Level: strings.ToLower(getenv("LOG_LEVEL", "info")),
		},
		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "rentflow"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 20),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 300),
		DBConnMaxIdleTime: getenvInt("DATABASE_CONN_MAX_IDLE_TIME", 60),
		DBPath:            getenv("DATABASE_PATH", "rentflow.db"),
		DBAutoMigrate:     getenvBool("DATABASE_AUTO_MIGRATE", true),
		SnowflakeNode:     int64(getenvInt("SNOWFLAKE_NODE", 1)),
		Redis: RedisConfig{
			Addr:     strings.TrimSpace(getenv("REDIS_ADDR", "")),
			Password: getenv("REDIS_PASSWORD", ""),
			DB:       getenvInt("REDIS_DB", 0),
			LockTTL:  getenvInt("INVOICE_LOCK_TTL", 30),

			DocumentRate:  getenvFloat("INVOICE_DOCUMENT_RATE", 1),
			DocumentBurst: getenvInt("INVOICE_DOCUMENT_BURST", 10),
		},
		Invoice: InvoiceConfig{
			NumberTemplate: getenv("INVOICE_NUMBER_TEMPLATE", "{ID}/{MM}/{YYYY}"),
			Locale:         strings.ToLower(getenv("INVOICE_LOCALE", "pl")),
			Currency:       strings.ToUpper(getenv("INVOICE_CURRENCY", "PLN")),
			DefaultFormat:  strings.ToLower(getenv("INVOICE_DEFAULT_FORMAT", "html")),
			ConfigPath:     strings.TrimSpace(getenv("INVOICE_CONFIG_PATH", "")),
		},
	}
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvBool(key string, def bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}
