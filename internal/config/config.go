package config

import (
	"os"
	"strconv"
	"time"
)

// DefaultSystemPrompt instructs the generation provider to collect lead
// fields and emit them as a LEAD_DATA block once enough is known.
const DefaultSystemPrompt = "You are a professional gym receptionist AI assistant. " +
	"Ask about user's name, goals, fitness level, preferred joining time and contact. " +
	"Once enough data is collected, return this format: LEAD_DATA: Name: Contact: Goal: Intent: Time:"

type Config struct {
	Port            int
	LogLevel        string
	GroqAPIKey      string
	GroqModel       string
	SystemPrompt    string
	WebhookURL      string
	NatsURL         string
	ProviderTimeout time.Duration
	ForwardTimeout  time.Duration
}

func Load() Config {
	return Config{
		Port:            envInt("PORT", 3000),
		LogLevel:        envStr("LOG_LEVEL", "info"),
		GroqAPIKey:      envStr("GROQ_API_KEY", ""),
		GroqModel:       envStr("GROQ_MODEL", "mixtral-8x7b-32768"),
		SystemPrompt:    envStr("SYSTEM_PROMPT", DefaultSystemPrompt),
		WebhookURL:      envStr("N8N_WEBHOOK_URL", ""),
		NatsURL:         envStr("NATS_URL", ""),
		ProviderTimeout: envDur("PROVIDER_TIMEOUT", 60*time.Second),
		ForwardTimeout:  envDur("FORWARD_TIMEOUT", 10*time.Second),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDur(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
