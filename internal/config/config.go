package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	API     APIConfig
	Storage StorageConfig
}

type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type StorageConfig struct {
	// DataDir is where the file-backed store keeps its keys. Ignored when
	// RedisURL is set.
	DataDir  string
	RedisURL string
}

func Load() (*Config, error) {
	godotenv.Load()

	cfg := &Config{
		API: APIConfig{
			BaseURL: getEnv("API_BASE_URL", "http://localhost:8000"),
			Timeout: getEnvDuration("API_TIMEOUT", 30*time.Second),
		},
		Storage: StorageConfig{
			DataDir:  getEnv("STOREFRONT_DATA_DIR", defaultDataDir()),
			RedisURL: getEnv("STOREFRONT_REDIS_URL", ""),
		},
	}

	return cfg, nil
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir + "/storefront"
	}
	return ".storefront"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
