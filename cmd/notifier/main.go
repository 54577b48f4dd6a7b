// cmd/notifier/main.go
package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"bulk-order-api-server/config"
	"bulk-order-api-server/internal/kafka"
	"bulk-order-api-server/internal/notify"

	"github.com/joho/godotenv"
)

// The notifier reads bulk-order events from Kafka and emails buyers about
// status changes, for deployments that run with notify.mode=kafka.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment and config.yaml")
	}
	cfg, err := config.LoadConfig("./config")
	if err != nil {
		log.Fatalf("Could not load config: %v", err)
	}

	client := kafka.NewClient(cfg.Kafka.Brokers)
	if !client.Enabled() {
		log.Fatal("kafka.brokers is required for the notifier")
	}
	if !cfg.Mail.Enabled() {
		log.Fatal("mail.host and mail.from are required for the notifier")
	}

	sender, err := notify.NewSMTPSender(cfg.Mail)
	if err != nil {
		log.Fatalf("Failed to configure mail: %v", err)
	}

	reader := client.NewReader(cfg.Kafka.Topic, cfg.Kafka.GroupID)
	defer reader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("Notifier consuming %s as %s", cfg.Kafka.Topic, cfg.Kafka.GroupID)
	consumer := kafka.NewConsumer(reader, notify.NewEmailNotifier(sender), cfg.Notify.Timeout)
	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Notifier stopped: %v", err)
	}
	log.Println("Notifier stopped")
}
