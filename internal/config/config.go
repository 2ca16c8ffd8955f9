// Package config reads the service settings from the environment. A .env file
// in the working directory is loaded first when present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	GinMode string

	DBDriver       string // mysql or postgres
	DatabaseURL    string
	MySQLUser      string
	MySQLPassword  string
	MySQLHost      string
	MySQLPort      string
	MySQLDatabase  string
	DBMaxOpenConns int
	DBMaxIdleConns int

	RedisHost       string
	RedisPort       string
	RedisPassword   string
	ProductCacheTTL time.Duration

	RabbitMQURL      string
	RabbitMQExchange string
	EventBuffer      int

	JWTSecret string
	JWTTTL    time.Duration
	JWTIssuer string

	CORSOrigins []string
}

func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:    getString("PORT", "8080"),
		GinMode: getString("GIN_MODE", "release"),

		DBDriver:       strings.ToLower(getString("DB_DRIVER", "mysql")),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		MySQLUser:      getString("MYSQL_USER", "root"),
		MySQLPassword:  os.Getenv("MYSQL_PASSWORD"),
		MySQLHost:      getString("MYSQL_HOST", "127.0.0.1"),
		MySQLPort:      getString("MYSQL_PORT", "3306"),
		MySQLDatabase:  getString("MYSQL_DATABASE", "storefront"),
		DBMaxOpenConns: getInt("DB_MAX_OPEN_CONNS", 100),
		DBMaxIdleConns: getInt("DB_MAX_IDLE_CONNS", 20),

		RedisHost:       os.Getenv("REDIS_HOST"),
		RedisPort:       getString("REDIS_PORT", "6379"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		ProductCacheTTL: getDuration("PRODUCT_CACHE_TTL", time.Minute),

		RabbitMQURL:      os.Getenv("RABBITMQ_URL"),
		RabbitMQExchange: getString("RABBITMQ_EXCHANGE", "order.exchange"),
		EventBuffer:      getInt("EVENT_BUFFER", 1024),

		JWTSecret: os.Getenv("JWT_SECRET"),
		JWTTTL:    getDuration("JWT_TTL", 24*time.Hour),
		JWTIssuer: getString("JWT_ISSUER", "storefront-api"),

		CORSOrigins: getList("CORS_ORIGINS", []string{"*"}),
	}
}

// DSN returns DATABASE_URL when set, otherwise a MySQL DSN assembled from the
// MYSQL_* variables.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.MySQLUser, c.MySQLPassword, c.MySQLHost, c.MySQLPort, c.MySQLDatabase)
}

// RedisAddr is empty when Redis is not configured.
func (c *Config) RedisAddr() string {
	if c.RedisHost == "" {
		return ""
	}
	return c.RedisHost + ":" + c.RedisPort
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	switch c.DBDriver {
	case "mysql", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.DBDriver == "postgres" && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required for postgres")
	}
	return nil
}

func getString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}

func getList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
