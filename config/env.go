package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv   string
	Port     string
	LogLevel string

	DatabaseURL      string
	DBHost           string
	DBPort           string
	DBUser           string
	DBPassword       string
	DBName           string
	DBSSLMode        string
	DBMaxConns       int32
	DBMinConns       int32
	DBAcquireTimeout time.Duration
	RunMigrations    bool

	JWTSecret string
	JWTExpiry time.Duration

	RedisURL       string
	RedisAddr      string
	RedisPassword  string
	CacheTTL       time.Duration
	IdempotencyTTL time.Duration

	OrderTxTimeout      time.Duration
	OrderLegacyDefaults bool

	StaticDir      string
	AllowedOrigins []string

	AMQPURL          string
	OrderEventsQueue string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	return &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		Port:     getEnv("APP_PORT", getEnv("PORT", "5001")),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DatabaseURL:      os.Getenv("DATABASE_URL"),
		DBHost:           getEnv("DB_HOST", "localhost"),
		DBPort:           getEnv("DB_PORT", "5432"),
		DBUser:           getEnv("DB_USER", "postgres"),
		DBPassword:       getEnv("DB_PASSWORD", "postgres"),
		DBName:           getEnv("DB_NAME", "food_delivery"),
		DBSSLMode:        getEnv("DB_SSLMODE", "disable"),
		DBMaxConns:       int32(getInt("DB_MAX_CONNS", 10)),
		DBMinConns:       int32(getInt("DB_MIN_CONNS", 0)),
		DBAcquireTimeout: getDuration("DB_ACQUIRE_TIMEOUT", 30*time.Second),
		RunMigrations:    getBool("RUN_MIGRATIONS", true),

		JWTSecret: getEnv("JWT_SECRET", "secret"),
		JWTExpiry: getDuration("JWT_EXPIRY", 24*time.Hour),

		RedisURL:       os.Getenv("REDIS_URL"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		CacheTTL:       getDuration("CACHE_TTL", 5*time.Minute),
		IdempotencyTTL: getDuration("IDEMPOTENCY_TTL", 24*time.Hour),

		OrderTxTimeout:      getDuration("ORDER_TX_TIMEOUT", 10*time.Second),
		OrderLegacyDefaults: getBool("ORDER_LEGACY_DEFAULTS", false),

		StaticDir:      getEnv("STATIC_DIR", "../food-delivery-frontend"),
		AllowedOrigins: getList("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://127.0.0.1:5501"}),

		AMQPURL:          os.Getenv("AMQP_URL"),
		OrderEventsQueue: getEnv("ORDER_EVENTS_QUEUE", "order.created"),

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: getInt("SMTP_PORT", 587),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		SMTPFrom: os.Getenv("SMTP_FROM"),
	}
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func getList(key string, defaultValue []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}

	values := []string{}
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}
