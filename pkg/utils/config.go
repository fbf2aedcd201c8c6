package utils

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Session  SessionConfig
	Notify   NotifyConfig
	Booking  BookingConfig
}

type AppConfig struct {
	Name     string
	Port     string
	Debug    bool
	LogPath  string
	Location *time.Location
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type SessionConfig struct {
	ExpiryHours int
}

type NotifyConfig struct {
	RedisURL     string
	RedisChannel string
	Buffer       int
}

type BookingConfig struct {
	RateLimit         string
	StrictTransitions bool
}

// LoadConfig reads .env when present, then lets the environment override it.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")

	// Set defaults
	v.SetDefault("APP_NAME", "booking-platform")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("TIMEZONE", "UTC")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("SESSION_EXPIRY_HOURS", 24)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_CHANNEL", "booking-status")
	v.SetDefault("NOTIFY_BUFFER", 16)
	v.SetDefault("BOOKING_RATE_LIMIT", "20-M")
	v.SetDefault("BOOKING_STRICT_TRANSITIONS", false)

	if _, err := os.Stat(".env"); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read .env: %w", err)
		}
	}

	v.AutomaticEnv()

	loc, err := time.LoadLocation(v.GetString("TIMEZONE"))
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", v.GetString("TIMEZONE"), err)
	}

	config := &Config{
		App: AppConfig{
			Name:     v.GetString("APP_NAME"),
			Port:     v.GetString("PORT"),
			Debug:    v.GetBool("DEBUG"),
			LogPath:  v.GetString("LOG_PATH"),
			Location: loc,
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASS"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
		},
		Session: SessionConfig{
			ExpiryHours: v.GetInt("SESSION_EXPIRY_HOURS"),
		},
		Notify: NotifyConfig{
			RedisURL:     v.GetString("REDIS_URL"),
			RedisChannel: v.GetString("REDIS_CHANNEL"),
			Buffer:       v.GetInt("NOTIFY_BUFFER"),
		},
		Booking: BookingConfig{
			RateLimit:         v.GetString("BOOKING_RATE_LIMIT"),
			StrictTransitions: v.GetBool("BOOKING_STRICT_TRANSITIONS"),
		},
	}

	return config, nil
}
