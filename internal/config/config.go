package config

import (
	"fmt"
	"os"
)

type Config struct {
	Port      string
	JWTSecret string
	Database  DatabaseConfig
}

// DatabaseConfig holds the discrete connection settings. Host, user,
// password and name have no usable defaults: Load fails when they are unset.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// URL renders the settings as a pgx connection string.
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:      getEnv("PORT", "8081"),
		JWTSecret: getEnv("JWT_SECRET", "dev-secret-change-in-production"),
		Database: DatabaseConfig{
			Host:     os.Getenv("DB_HOST"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
		},
	}

	for _, v := range []struct{ key, val string }{
		{"DB_HOST", cfg.Database.Host},
		{"DB_USER", cfg.Database.User},
		{"DB_PASSWORD", cfg.Database.Password},
		{"DB_NAME", cfg.Database.Name},
	} {
		if v.val == "" {
			return nil, fmt.Errorf("required environment variable %s is not set", v.key)
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
