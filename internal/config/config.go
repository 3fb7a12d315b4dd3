/**
 * @description
 * This package handles configuration management for pixhub. It uses the Viper
 * library to read configuration from environment variables and an optional
 * .env file, providing a centralized way to manage application settings for
 * both the server and the terminal client.
 *
 * @dependencies
 * - github.com/spf13/viper: A popular library for Go application configuration.
 */

package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all the configuration variables for the pixhub server.
// These values are loaded from environment variables.
type Config struct {
	ServerPort           string `mapstructure:"SERVER_PORT"`
	DatabaseURL          string `mapstructure:"DATABASE_URL"`
	RabbitMQURL          string `mapstructure:"RABBITMQ_URL"`
	RedisURL             string `mapstructure:"REDIS_URL"`
	RedisRateLimitPrefix string `mapstructure:"REDIS_RATE_LIMIT_PREFIX"`

	SessionSecret   string `mapstructure:"SESSION_SECRET"`
	SessionTTLHours int    `mapstructure:"SESSION_TTL_HOURS"`
	AllowedOrigins  string `mapstructure:"ALLOWED_ORIGINS"`

	ReviewThreshold         string `mapstructure:"REVIEW_THRESHOLD"`
	VelocityLimit           int    `mapstructure:"VELOCITY_LIMIT"`
	VelocityWindowSeconds   int    `mapstructure:"VELOCITY_WINDOW_SECONDS"`
	FirstTransferFloor      string `mapstructure:"FIRST_TRANSFER_FLOOR"`
	TransferRateLimitPerMin int    `mapstructure:"TRANSFER_RATE_LIMIT_PER_MINUTE"`

	ReviewExpirySchedule string `mapstructure:"REVIEW_EXPIRY_SCHEDULE"`
	ReviewTTLHours       int    `mapstructure:"REVIEW_TTL_HOURS"`

	DemoCustomerPassword string `mapstructure:"DEMO_CUSTOMER_PASSWORD"`
	DemoAnalystPassword  string `mapstructure:"DEMO_ANALYST_PASSWORD"`
}

// OriginList splits the comma-separated ALLOWED_ORIGINS value.
func (c Config) OriginList() []string {
	parts := strings.Split(c.AllowedOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// LoadConfig reads server configuration from environment variables and an
// optional .env file at the given path.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("REDIS_RATE_LIMIT_PREFIX", "pixhub:rate_limit")
	viper.SetDefault("SESSION_TTL_HOURS", 12)
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173")
	viper.SetDefault("REVIEW_THRESHOLD", "1000.00")
	viper.SetDefault("VELOCITY_LIMIT", 5)
	viper.SetDefault("VELOCITY_WINDOW_SECONDS", 120)
	viper.SetDefault("FIRST_TRANSFER_FLOOR", "200.00")
	viper.SetDefault("TRANSFER_RATE_LIMIT_PER_MINUTE", 0)
	viper.SetDefault("REVIEW_EXPIRY_SCHEDULE", "@every 10m")
	viper.SetDefault("REVIEW_TTL_HOURS", 24)
	viper.SetDefault("DEMO_CUSTOMER_PASSWORD", "pix-demo")
	viper.SetDefault("DEMO_ANALYST_PASSWORD", "pix-demo")

	// Bind environment variables explicitly to ensure they appear in Unmarshal
	_ = viper.BindEnv("SERVER_PORT")
	_ = viper.BindEnv("DATABASE_URL")
	_ = viper.BindEnv("RABBITMQ_URL")
	_ = viper.BindEnv("REDIS_URL")
	_ = viper.BindEnv("REDIS_RATE_LIMIT_PREFIX")
	_ = viper.BindEnv("SESSION_SECRET")
	_ = viper.BindEnv("SESSION_TTL_HOURS")
	_ = viper.BindEnv("ALLOWED_ORIGINS")
	_ = viper.BindEnv("REVIEW_THRESHOLD")
	_ = viper.BindEnv("VELOCITY_LIMIT")
	_ = viper.BindEnv("VELOCITY_WINDOW_SECONDS")
	_ = viper.BindEnv("FIRST_TRANSFER_FLOOR")
	_ = viper.BindEnv("TRANSFER_RATE_LIMIT_PER_MINUTE")
	_ = viper.BindEnv("REVIEW_EXPIRY_SCHEDULE")
	_ = viper.BindEnv("REVIEW_TTL_HOURS")
	_ = viper.BindEnv("DEMO_CUSTOMER_PASSWORD")
	_ = viper.BindEnv("DEMO_ANALYST_PASSWORD")

	// Attempt to read the config file. It's okay if it doesn't exist.
	if err = viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("level=warn component=config msg=\"failed to read config file; using environment values\" err=%v", err)
		}
	}

	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	config.RedisURL = strings.TrimSpace(config.RedisURL)
	config.RedisRateLimitPrefix = strings.TrimSpace(config.RedisRateLimitPrefix)
	if config.RedisRateLimitPrefix == "" {
		config.RedisRateLimitPrefix = "pixhub:rate_limit"
	}
	if config.SessionTTLHours <= 0 {
		config.SessionTTLHours = 12
	}
	if config.ReviewTTLHours <= 0 {
		config.ReviewTTLHours = 24
	}
	if config.VelocityWindowSeconds <= 0 {
		config.VelocityWindowSeconds = 120
	}

	return
}

// ClientConfig holds the settings for the pixhub terminal client.
type ClientConfig struct {
	ServerURL string `mapstructure:"PIXHUB_SERVER_URL"`

	CustomerTaxID    string `mapstructure:"PIXHUB_CUSTOMER_TAX_ID"`
	CustomerPassword string `mapstructure:"PIXHUB_CUSTOMER_PASSWORD"`
	AnalystTaxID     string `mapstructure:"PIXHUB_ANALYST_TAX_ID"`
	AnalystPassword  string `mapstructure:"PIXHUB_ANALYST_PASSWORD"`
}

// LoadClientConfig reads client configuration from environment variables and
// an optional .env file at the given path.
func LoadClientConfig(path string) (config ClientConfig, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// The backend runs on a fixed local address in the demo setup.
	v.SetDefault("PIXHUB_SERVER_URL", "http://localhost:8080")
	v.SetDefault("PIXHUB_CUSTOMER_TAX_ID", "123.456.789-00")
	v.SetDefault("PIXHUB_CUSTOMER_PASSWORD", "pix-demo")
	v.SetDefault("PIXHUB_ANALYST_TAX_ID", "999.888.777-00")
	v.SetDefault("PIXHUB_ANALYST_PASSWORD", "pix-demo")

	_ = v.BindEnv("PIXHUB_SERVER_URL")
	_ = v.BindEnv("PIXHUB_CUSTOMER_TAX_ID")
	_ = v.BindEnv("PIXHUB_CUSTOMER_PASSWORD")
	_ = v.BindEnv("PIXHUB_ANALYST_TAX_ID")
	_ = v.BindEnv("PIXHUB_ANALYST_PASSWORD")

	if err = v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("level=warn component=config msg=\"failed to read config file; using environment values\" err=%v", err)
		}
		err = nil
	}

	err = v.Unmarshal(&config)
	return
}
