package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr     string
	GatewayURL     string
	StateDir       string
	RequestTimeout time.Duration
}

// Load reads configuration from the environment, after loading an optional
// .env file from the working directory.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ListenAddr:     getEnv("POS_LISTEN_ADDR", "127.0.0.1:8090"),
		GatewayURL:     getEnv("POS_GATEWAY_URL", "https://platanadas.com/api"),
		StateDir:       getEnv("POS_STATE_DIR", defaultStateDir()),
		RequestTimeout: getDuration("POS_REQUEST_TIMEOUT", 10*time.Second),
	}
}

func defaultStateDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, "platanadas-pos")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
