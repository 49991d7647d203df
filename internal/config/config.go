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
	Port             string
	GinMode          string
	MongoURI         string
	MongoDatabase    string
	RabbitMQURI      string
	RabbitMQExchange string
	JWTSecret        string
	AccessTokenTTL   time.Duration
	RefreshTokenTTL  time.Duration
	AllowOrigins     []string
}

// Load reads the .env file (if present) and the process environment once at
// startup. Components receive the resulting Config by reference; nothing else
// reads the environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		Port:             getEnvOrDefault("PORT", "8080"),
		GinMode:          getEnvOrDefault("GIN_MODE", "debug"),
		MongoURI:         getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:    getEnvOrDefault("MONGO_DATABASE", "training_service"),
		RabbitMQURI:      os.Getenv("RABBITMQ_URI"),
		RabbitMQExchange: getEnvOrDefault("RABBITMQ_EXCHANGE", "training.events"),
		JWTSecret:        getEnvOrDefault("JWT_SECRET", "dev-only-secret"),
		AccessTokenTTL:   getEnvMinutes("ACCESS_TOKEN_EXPIRE_MINUTES", 30),
		RefreshTokenTTL:  getEnvMinutes("REFRESH_TOKEN_EXPIRE_MINUTES", 7*24*60),
		AllowOrigins:     strings.Split(getEnvOrDefault("ALLOW_ORIGINS", "http://localhost:3000"), ","),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvMinutes(key string, defaultMinutes int) time.Duration {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return time.Duration(n) * time.Minute
		}
		log.Printf("Invalid %s=%q, using default", key, value)
	}
	return time.Duration(defaultMinutes) * time.Minute
}
