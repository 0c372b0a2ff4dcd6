package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Port        string
	Env         string
	StoreDriver string
	MongoURI    string
	MongoDB     string
	JWTSecret   string
	RedisAddr   string
}

// Load reads .env when present and builds the configuration from
// environment variables.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Proceeding with environment variables.")
	}

	return &Config{
		Port:        getenvDefault("PORT", "8000"),
		Env:         getenvDefault("APP_ENV", "development"),
		StoreDriver: getenvDefault("STORE_DRIVER", "mongo"),
		MongoURI:    getenvDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:     getenvDefault("MONGO_DB", "shop"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
