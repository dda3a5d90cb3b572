package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"ai-flashcards-be/internal/config"
	"ai-flashcards-be/internal/pkg/logger"
	"ai-flashcards-be/pkg/events"
	"ai-flashcards-be/pkg/nats"
)

// The audit worker tails the flashcard event stream and writes every event to
// the structured log, giving an off-process trail of generations and saves.
func main() {
	cfg := config.Load()

	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	defer sysLogger.Sync()

	subscriber, err := nats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Fatalf("Unable to connect subscriber to NATS: %v", err)
	}
	defer subscriber.Close()

	handler := func(ctx context.Context, event events.Event) error {
		sysLogger.Info("audit", event.EventType(), event.Payload())
		return nil
	}

	if err := subscriber.Subscribe(nats.SubjectPrefix+">", "flashcards-audit", handler); err != nil {
		log.Fatalf("Unable to subscribe to event stream: %v", err)
	}

	log.Println("Audit worker running. Press Ctrl+C to exit.")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Audit worker shutting down.")
}
