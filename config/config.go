package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration (asynq queue + health checks).
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Booking engine knobs.
	HoldMinutes         int `mapstructure:"HOLD_MINUTES"`          // interactive hold before confirmation
	DirectHoldMinutes   int `mapstructure:"DIRECT_HOLD_MINUTES"`   // short hold used by book-then-confirm
	MaxHoldTotalMinutes int `mapstructure:"MAX_HOLD_TOTAL_MINUTES"`
	SweepIntervalSec    int `mapstructure:"SWEEP_INTERVAL_SEC"`
	AlternativeSlots    int `mapstructure:"ALTERNATIVE_SLOTS"` // alternatives returned on booking conflict
	CalendarTimeoutSec  int `mapstructure:"CALENDAR_TIMEOUT_SEC"`

	// Google Calendar credentials (service account JSON).
	GoogleCredentialsFile string `mapstructure:"GOOGLE_CREDENTIALS_FILE"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "agendo")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_QUEUE_DB", 0)
	viper.SetDefault("HOLD_MINUTES", 5)
	viper.SetDefault("DIRECT_HOLD_MINUTES", 1)
	viper.SetDefault("MAX_HOLD_TOTAL_MINUTES", 15)
	viper.SetDefault("SWEEP_INTERVAL_SEC", 60)
	viper.SetDefault("ALTERNATIVE_SLOTS", 3)
	viper.SetDefault("CALENDAR_TIMEOUT_SEC", 10)
	viper.SetDefault("GOOGLE_CREDENTIALS_FILE", "")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
