package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN         string
	ServerPort    string
	SessionSecret string

	MediaRoot           string
	CORSOrigins         []string
	ProgressWeightsFile string

	LoginRatePerMin int
	LoginBurst      int

	AdminUsername string
	AdminPassword string
}

// Load reads .env (if present) and the environment. Missing required
// settings stop the process.
func Load() *Config {
	_ = godotenv.Load()

	cfg, err := Parse(os.Getenv)
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}

// Parse builds a Config from getenv.
func Parse(getenv func(string) string) (*Config, error) {
	get := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	cfg := &Config{
		DBDSN:               get("DB_DSN", ""),
		ServerPort:          get("SERVER_PORT", "8080"),
		SessionSecret:       get("SESSION_SECRET", ""),
		MediaRoot:           get("MEDIA_ROOT", "media"),
		ProgressWeightsFile: get("PROGRESS_WEIGHTS_FILE", ""),
		LoginBurst:          5,
		AdminUsername:       get("ADMIN_USERNAME", "admin"),
		AdminPassword:       get("ADMIN_PASSWORD", "Admin123!"),
	}

	if cfg.DBDSN == "" {
		return nil, errors.New("DB_DSN is not set")
	}
	if cfg.SessionSecret == "" {
		return nil, errors.New("SESSION_SECRET is not set")
	}

	for _, o := range strings.Split(get("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}

	rate, err := strconv.Atoi(get("LOGIN_RATE_PER_MIN", "10"))
	if err != nil || rate <= 0 {
		return nil, errors.New("LOGIN_RATE_PER_MIN must be a positive integer")
	}
	cfg.LoginRatePerMin = rate

	return cfg, nil
}
