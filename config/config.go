package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Eursukkul/stay-service/pkg/logger"
	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string
	LogLevel   string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// TxMaxAttempts bounds retries of a transaction aborted by a
	// serialization failure or deadlock.
	TxMaxAttempts int

	// RabbitURL and RedisAddr are optional; empty disables the integration.
	RabbitURL       string
	RedisAddr       string
	ListingCacheTTL time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logger.Log.Debug("no .env file found, using process environment")
	}

	return &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		DBHost:          getEnv("DB_HOST", "localhost"),
		DBPort:          getEnv("DB_PORT", "5432"),
		DBUser:          getEnv("DB_USER", "postgres"),
		DBPassword:      getEnv("DB_PASSWORD", "postgres"),
		DBName:          getEnv("DB_NAME", "stay_db"),
		TxMaxAttempts:   getEnvInt("DB_TX_MAX_ATTEMPTS", 3),
		RabbitURL:       os.Getenv("RABBITMQ_URL"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		ListingCacheTTL: getEnvDuration("LISTING_CACHE_TTL", 5*time.Minute),
	}
}

func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName,
	)
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := getEnv(key, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		logger.Log.Warnf("invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := getEnv(key, "")
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		logger.Log.Warnf("invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}
