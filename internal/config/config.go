package config

import (
	"fmt"
	"log"
	"os"
)

// App holds the runtime configuration loaded from environment variables.
type App struct {
	Env              string
	HTTPPort         string
	MongoURI         string
	MongoDB          string
	RedisAddr        string
	StoreBackend     string // mongo | memory
	RateLimitBackend string // memory | redis
	RateLimitPerMin  int
	DefaultPageSize  int
}

// Load returns application config populated from environment variables with sensible defaults.
func Load() App {
	return App{
		Env:              getEnv("APP_ENV", "dev"),
		HTTPPort:         getEnv("HTTP_PORT", "8080"),
		MongoURI:         getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:          getEnv("MONGO_DB", "academia"),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		StoreBackend:     getEnv("STORE_BACKEND", "mongo"),
		RateLimitBackend: getEnv("RATE_LIMIT_BACKEND", "memory"),
		RateLimitPerMin:  intEnv("RATE_LIMIT_PER_MIN", 120),
		DefaultPageSize:  intEnv("DEFAULT_PAGE_SIZE", 10),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var parsed int
		if _, err := fmt.Sscanf(val, "%d", &parsed); err == nil {
			return parsed
		}
		log.Printf("invalid int for %s, using fallback %d", key, fallback)
	}
	return fallback
}
