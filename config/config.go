// Package config loads the deepdocd server configuration from environment
// variables and an optional yaml config file.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config represents the server configuration
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Server   ServerConfig   `mapstructure:"server"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Storage  StorageConfig  `mapstructure:"storage"`
}

// DatabaseConfig represents the postgres connection settings
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

// ServerConfig represents the listen address
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// AuthConfig represents token signing and the seeded admin account
type AuthConfig struct {
	JWTSecret     string `mapstructure:"jwt_secret"`
	TokenTTLHours int    `mapstructure:"token_ttl_hours"`
	AdminEmail    string `mapstructure:"admin_email"`
	AdminPassword string `mapstructure:"admin_password"`
}

// StorageConfig represents where uploaded files are kept
type StorageConfig struct {
	UploadDir string `mapstructure:"upload_dir"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	// Optional .env next to the binary or in the working directory
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetDefault("database.host", getEnv("PG_HOST", "localhost"))
	viper.SetDefault("database.port", getEnvInt("PG_PORT", 5432))
	viper.SetDefault("database.user", getEnv("PG_USER", "postgres"))
	viper.SetDefault("database.password", getEnv("PG_PASSWORD", ""))
	viper.SetDefault("database.name", getEnv("PG_DATABASE", "deepdoc_dev"))
	viper.SetDefault("database.ssl_mode", getEnv("PG_SSL_MODE", "disable"))
	viper.SetDefault("server.host", getEnv("SERVER_HOST", "0.0.0.0"))
	viper.SetDefault("server.port", getEnvInt("SERVER_PORT", 8000))
	viper.SetDefault("auth.jwt_secret", getEnv("JWT_SECRET", "dev-secret-change-me"))
	viper.SetDefault("auth.token_ttl_hours", getEnvInt("TOKEN_TTL_HOURS", 72))
	viper.SetDefault("auth.admin_email", getEnv("ADMIN_EMAIL", "admin@deepdoc.local"))
	viper.SetDefault("auth.admin_password", getEnv("ADMIN_PASSWORD", "admin"))
	viper.SetDefault("storage.upload_dir", getEnv("UPLOAD_DIR", "./uploads"))

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Defaults and env vars are enough when no config file exists
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
