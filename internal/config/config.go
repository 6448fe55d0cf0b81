// Package config loads the service configuration from the environment.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds everything the service needs to start up.
type Config struct {
	ServerPort     int
	Database       Database
	LogLevel       string
	RequestLogging bool
}

// Database holds the connection parameters for the MySQL server.
type Database struct {
	Host     string
	User     string
	Password string
	Name     string
}

// DSN builds the data source name for the MySQL driver. parseTime is
// required so that DATETIME columns scan into time.Time values.
func (d Database) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true",
		d.User, d.Password, d.Host, d.Name)
}

// Load reads the configuration from environment variables, falling back to
// defaults suitable for local development.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_USER", "root")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "test")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("REQUEST_LOGGING", true)

	v.AutomaticEnv()

	cfg := &Config{
		ServerPort: v.GetInt("SERVER_PORT"),
		Database: Database{
			Host:     v.GetString("DB_HOST"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
		},
		LogLevel:       v.GetString("LOG_LEVEL"),
		RequestLogging: v.GetBool("REQUEST_LOGGING"),
	}
	if cfg.ServerPort < 1 || cfg.ServerPort > 65535 {
		return nil, fmt.Errorf("invalid SERVER_PORT: %d", cfg.ServerPort)
	}
	return cfg, nil
}
