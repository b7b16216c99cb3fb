package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	ServerPort string
	JWTSecret  string
	JWTExpiry  time.Duration
	LogLevel   string

	RedisAddr       string
	ColumnsCacheTTL time.Duration

	// Client side: where boardctl finds the card service and how long a
	// confirming request may hang before the move is rolled back.
	APIURL          string
	APIToken        string
	RequestTimeout  time.Duration
	InvalidateDelay time.Duration
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("⚠️  No .env file found, using system environment variables")
	}

	return &Config{
		DBHost:          getEnv("DB_HOST", "localhost"),
		DBPort:          getEnv("DB_PORT", "5431"),
		DBUser:          getEnv("DB_USER", "kanban_user"),
		DBPassword:      getEnv("DB_PASSWORD", "kanban_pass"),
		DBName:          getEnv("DB_NAME", "kanban_db"),
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		JWTSecret:       getEnv("JWT_SECRET", "supersecretkey"),
		JWTExpiry:       time.Duration(getEnvInt("JWT_EXPIRY_HOURS", 24)) * time.Hour,
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		ColumnsCacheTTL: getEnvDuration("COLUMNS_CACHE_TTL", time.Minute),
		APIURL:          getEnv("API_URL", "http://localhost:8080"),
		APIToken:        getEnv("API_TOKEN", ""),
		RequestTimeout:  getEnvDuration("REQUEST_TIMEOUT", 10*time.Second),
		InvalidateDelay: getEnvDuration("INVALIDATE_DELAY", 500*time.Millisecond),
	}
}

// DSN is the gorm postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName,
	)
}

// MigrationURL is the golang-migrate pgx/v5 database URL.
func (c *Config) MigrationURL() string {
	return fmt.Sprintf("pgx5://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("⚠️  Invalid %s=%q, using %d", key, value, defaultVal)
		return defaultVal
	}
	return n
}

// getEnvDuration accepts Go durations ("750ms") or plain milliseconds.
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(value); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	log.Printf("⚠️  Invalid %s=%q, using %s", key, value, defaultVal)
	return defaultVal
}
