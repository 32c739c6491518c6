package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string `mapstructure:"PORT"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`
	FrontendURL string `mapstructure:"FRONTEND_URL"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`

	// GeoAPIURL is the base URL of the best-effort IP geolocation
	// service used for session enrichment. Empty disables lookups.
	GeoAPIURL string `mapstructure:"GEO_API_URL"`

	// Flag submission throttling (per player, per challenge)
	SubmitAttemptLimit  int `mapstructure:"SUBMIT_ATTEMPT_LIMIT"`
	SubmitWindowSeconds int `mapstructure:"SUBMIT_WINDOW_SECONDS"`
}

var AppConfig *Config

func LoadConfig() {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	viper.SetDefault("GEO_API_URL", "http://ip-api.com/json")
	viper.SetDefault("SUBMIT_ATTEMPT_LIMIT", 5)
	viper.SetDefault("SUBMIT_WINDOW_SECONDS", 60)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Unable to decode config: %v", err)
	}
}
