package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Port    string `mapstructure:"PORT"`
	GinMode string `mapstructure:"GIN_MODE"`

	FirebaseProjectID                string `mapstructure:"FIREBASE_PROJECT_ID"`
	GoogleApplicationCredentials     string `mapstructure:"GOOGLE_APPLICATION_CREDENTIALS"`
	FirebaseServiceAccountJSONBase64 string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64"`

	// Payments are intentionally not required at startup: a missing key is a
	// per-request configuration error (500) on the billing endpoints, not a
	// reason to refuse to boot the rest of the product.
	PaymentsAPIBase       string `mapstructure:"PAYMENTS_API_BASE"`
	PaymentsSecretKey     string `mapstructure:"PAYMENTS_SECRET_KEY"`
	PaymentsWebhookSecret string `mapstructure:"PAYMENTS_WEBHOOK_SECRET"`

	ClientURL string `mapstructure:"CLIENT_URL"`

	// Optional infrastructure: each component degrades gracefully when its
	// address is left empty (in-memory cache, no-op analytics sink, no mail).
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	AMQPURL       string `mapstructure:"AMQP_URL"`

	SMTPHost        string `mapstructure:"SMTP_HOST"`
	SMTPPort        string `mapstructure:"SMTP_PORT"`
	SMTPUser        string `mapstructure:"SMTP_USER"`
	SMTPPass        string `mapstructure:"SMTP_PASS"`
	NotifyFrom      string `mapstructure:"NOTIFY_FROM"`
	NotifyDirectory string `mapstructure:"NOTIFY_DIRECTORY"` // "care-team=ops@example.com,family=family@example.com"
}

var appConfig *Config

// LoadConfig loads configuration from environment variables using Viper.
func LoadConfig() (*Config, error) {
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("GIN_MODE", "debug")
	viper.SetDefault("PAYMENTS_API_BASE", "https://api.stripe.com")
	viper.SetDefault("SMTP_HOST", "smtp.mailtrap.io")
	viper.SetDefault("SMTP_PORT", "2525")

	for _, key := range []string{
		"PORT", "GIN_MODE",
		"FIREBASE_PROJECT_ID", "GOOGLE_APPLICATION_CREDENTIALS", "FIREBASE_SERVICE_ACCOUNT_JSON_BASE64",
		"PAYMENTS_API_BASE", "PAYMENTS_SECRET_KEY", "PAYMENTS_WEBHOOK_SECRET",
		"CLIENT_URL",
		"REDIS_ADDR", "REDIS_PASSWORD", "AMQP_URL",
		"SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASS", "NOTIFY_FROM", "NOTIFY_DIRECTORY",
	} {
		viper.BindEnv(key)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.New("failed to unmarshal config: " + err.Error())
	}

	if cfg.FirebaseProjectID == "" {
		return nil, errors.New("FIREBASE_PROJECT_ID is required")
	}
	if cfg.GoogleApplicationCredentials == "" && cfg.FirebaseServiceAccountJSONBase64 == "" {
		return nil, errors.New("either GOOGLE_APPLICATION_CREDENTIALS or FIREBASE_SERVICE_ACCOUNT_JSON_BASE64 is required")
	}

	appConfig = &cfg
	return appConfig, nil
}

// GetConfig returns the loaded application configuration.
// It panics if LoadConfig has not been called successfully.
func GetConfig() *Config {
	if appConfig == nil {
		panic("config not loaded; call LoadConfig first")
	}
	return appConfig
}
