package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	// Operating modes for inbound update delivery.
	ModeWebhook = "webhook"
	ModePolling = "polling"
)

type Config struct {
	Server   ServerConfig
	Telegram TelegramConfig
	Mindee   MindeeConfig
	Webhook  WebhookConfig
	Logger   LoggerConfig
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Port string
}

type TelegramConfig struct {
	Token       string
	APIURL      string
	Timeout     time.Duration
	PollTimeout time.Duration
}

type MindeeConfig struct {
	APIKey   string
	Endpoint string
	Timeout  time.Duration
}

type WebhookConfig struct {
	// Mode selects webhook registration vs. continuous long polling.
	Mode string
	// Secret is the shared secret the webhook path is derived from.
	Secret string
	// BaseURL is the public base URL used for webhook registration.
	BaseURL string
}

func Load() (*Config, error) {
	// Try to load .env file from current directory or project root
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}
	// No .env file is fine, environment variables are used directly
	// (useful for Docker/K8s).

	httpTimeout, _ := strconv.Atoi(getEnv("HTTP_CLIENT_TIMEOUT", "30"))
	pollTimeout, _ := strconv.Atoi(getEnv("POLL_TIMEOUT", "25"))

	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
		},
		Telegram: TelegramConfig{
			Token:       getEnv("BOT_API_TOKEN", ""),
			APIURL:      getEnv("TELEGRAM_API_URL", "https://api.telegram.org"),
			Timeout:     time.Duration(httpTimeout) * time.Second,
			PollTimeout: time.Duration(pollTimeout) * time.Second,
		},
		Mindee: MindeeConfig{
			APIKey:   getEnv("MINDEE_API_TOKEN", ""),
			Endpoint: getEnv("MINDEE_ENDPOINT", "https://api.mindee.net/v1/products/mindee/expense_receipts/v3/predict"),
			Timeout:  time.Duration(httpTimeout) * time.Second,
		},
		Webhook: WebhookConfig{
			Mode:    getEnv("BOT_MODE", ModePolling),
			Secret:  getEnv("SECRET", ""),
			BaseURL: getEnv("WEBHOOK_HOST", ""),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
