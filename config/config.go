package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the full service configuration, read from the environment
// (optionally seeded from a .env file). JWT_SECRET is deliberately absent:
// token handling reads it from the environment directly, and main only
// checks its presence at startup.
type Config struct {
	ServerPort       string `envconfig:"SERVER_PORT" default:"8080"`
	MongoURI         string `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	MongoDBName      string `envconfig:"MONGO_DB_NAME" default:"project_management"`
	NotificationsURL string `envconfig:"NOTIFICATIONS_URL"`
	AllowedOrigin    string `envconfig:"ALLOWED_ORIGIN" default:"http://localhost:5173"`
}

// Load reads the configuration from the environment. A missing .env file is
// not an error; deployments set real environment variables instead.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}
