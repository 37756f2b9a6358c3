package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// Reservation API client.
	APIURL            string        `mapstructure:"API_URL"`
	APITimeout        time.Duration `mapstructure:"API_TIMEOUT"`
	APIRequestsPerSec float64       `mapstructure:"API_REQUESTS_PER_SEC"`
	AuthToken         string        `mapstructure:"AUTH_TOKEN"`

	// Query cache.
	CacheDriver   string        `mapstructure:"CACHE_DRIVER"`
	CacheTTL      time.Duration `mapstructure:"CACHE_TTL"`
	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int           `mapstructure:"REDIS_CACHE_DB"`

	// Stub API server.
	StubPort          string        `mapstructure:"STUB_PORT"`
	JWTSecret         string        `mapstructure:"JWT_SECRET"`
	TokenTTL          time.Duration `mapstructure:"TOKEN_TTL"`
	MaxRequestsPerMin int           `mapstructure:"MAX_REQUESTS_PER_MIN"`
}

var AppConfig Config

func init() {
	setDefaults()
	_ = viper.Unmarshal(&AppConfig)
}

func setDefaults() {
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("API_URL", "http://localhost:8000/api")
	viper.SetDefault("API_TIMEOUT", "30s")
	viper.SetDefault("API_REQUESTS_PER_SEC", 10)
	viper.SetDefault("AUTH_TOKEN", "")
	viper.SetDefault("CACHE_DRIVER", "memory")
	viper.SetDefault("CACHE_TTL", "5m")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("STUB_PORT", "8000")
	viper.SetDefault("JWT_SECRET", "reservas-dev")
	viper.SetDefault("TOKEN_TTL", "1h")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 600)
}

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	setDefaults()

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
