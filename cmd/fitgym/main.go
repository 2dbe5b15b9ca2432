package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/karthik449213/fitgym/internal/api"
	"github.com/karthik449213/fitgym/internal/config"
	"github.com/karthik449213/fitgym/internal/engine"
	"github.com/karthik449213/fitgym/internal/events"
	"github.com/karthik449213/fitgym/internal/forwarder"
	"github.com/karthik449213/fitgym/internal/groq"
	"github.com/karthik449213/fitgym/internal/store"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("fitgym starting", "port", cfg.Port)

	// Generation provider
	if cfg.GroqAPIKey == "" {
		slog.Error("GROQ_API_KEY is required")
		os.Exit(1)
	}
	llm := groq.NewClient(cfg.GroqAPIKey, cfg.GroqModel, cfg.ProviderTimeout)
	slog.Info("groq client ready", "model", cfg.GroqModel)

	// Lead sink
	sink := forwarder.New(cfg.WebhookURL, cfg.ForwardTimeout, slog.Default())
	if cfg.WebhookURL == "" {
		slog.Warn("N8N_WEBHOOK_URL not set — records will not be forwarded")
	}

	// Event publisher (optional — the service works without NATS, just no
	// downstream events)
	var publisher *events.Publisher
	if cfg.NatsURL != "" {
		var err error
		publisher, err = events.Connect(cfg.NatsURL, slog.Default())
		if err != nil {
			slog.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer publisher.Close()
		slog.Info("NATS connected", "url", cfg.NatsURL)
	} else {
		slog.Warn("NATS not configured — running without event publication")
	}

	// Stores
	sessions := store.NewSessions()
	members := store.NewMembers()

	// Enrollment engine
	eng := engine.New(sessions, members, llm, sink, publisher, cfg.SystemPrompt, slog.Default())

	// HTTP API
	srv := api.NewServer(cfg.Port, eng, sessions, members, sink, slog.Default())
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	slog.Info("fitgym ready", "port", cfg.Port)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")
	slog.Info("fitgym stopped")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
