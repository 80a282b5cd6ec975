package config

import "os"

type Config struct {
	PostgresURI       string
	RedisURI          string
	Port              string
	AppURL            string
	TriggerToken      string
	OpenAIBaseURL     string
	DefaultModel      string
	SchedulerAPIURL   string
	DiscordWebhookURL string
	PushoverToken     string
	PushoverUser      string
	CredentialKey     string
}

func LoadConfig() *Config {
	return &Config{
		PostgresURI:       getEnv("POSTGRES_URI", ""),
		RedisURI:          getEnv("REDIS_URI", "localhost:6379"),
		Port:              getEnv("PORT", "3000"),
		AppURL:            getEnv("APP_URL", "http://localhost:3000"),
		TriggerToken:      getEnv("TRIGGER_TOKEN", ""),
		OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		DefaultModel:      getEnv("OPENAI_DEFAULT_MODEL", "gpt-4o"),
		SchedulerAPIURL:   getEnv("SCHEDULER_API_URL", "https://app.succulent.social/api/posts/bulk"),
		DiscordWebhookURL: getEnv("DISCORD_WEBHOOK", ""),
		PushoverToken:     getEnv("PUSHOVER_API_TOKEN", ""),
		PushoverUser:      getEnv("PUSHOVER_USER_KEY", ""),
		CredentialKey:     getEnv("CREDENTIAL_KEY", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
