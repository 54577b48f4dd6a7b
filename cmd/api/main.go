// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"bulk-order-api-server/config"
	"bulk-order-api-server/internal/api/routes"
	"bulk-order-api-server/internal/auth"
	"bulk-order-api-server/internal/bulkorder"
	"bulk-order-api-server/internal/database"
	"bulk-order-api-server/internal/events"
	"bulk-order-api-server/internal/kafka"
	"bulk-order-api-server/internal/metrics"
	"bulk-order-api-server/internal/notify"
	"bulk-order-api-server/internal/s3"
	"bulk-order-api-server/internal/socket"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	// 1. Load configuration
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment and config.yaml")
	}
	cfg, err := config.LoadConfig("./config")
	if err != nil {
		log.Fatalf("Could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. MongoDB
	client, err := database.Connect(ctx, cfg.Mongo.URI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())
	db := client.Database(cfg.Mongo.DBName)

	if err := database.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}
	if err := database.SeedAdmin(ctx, db, cfg.Admin); err != nil {
		log.Fatalf("Failed to seed admin: %v", err)
	}

	// 3. Metrics
	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(prometheus.DefaultRegisterer)
	}

	// 4. Event consumers
	hub := socket.NewHub()
	dispatcher := events.NewDispatcher(cfg.Notify.Timeout, m)
	dispatcher.Subscribe(socket.NewNotifier(hub))

	kafkaClient := kafka.NewClient(cfg.Kafka.Brokers)
	if kafkaClient.Enabled() && cfg.Kafka.Topic != "" {
		writer := kafkaClient.NewWriter(cfg.Kafka.Topic)
		defer writer.Close()
		dispatcher.Subscribe(kafka.NewPublisher(writer))
	}

	switch {
	case cfg.Notify.Mode == config.NotifyKafka:
		log.Println("Status emails are sent by the notifier process")
	case cfg.Mail.Enabled():
		sender, err := notify.NewSMTPSender(cfg.Mail)
		if err != nil {
			log.Fatalf("Failed to configure mail: %v", err)
		}
		dispatcher.Subscribe(notify.NewEmailNotifier(sender))
	default:
		log.Println("WARNING: mail is not configured, status emails are disabled")
	}

	// 5. Service
	users := database.NewUserStore(db)
	opts := []bulkorder.Option{bulkorder.WithMetrics(m), bulkorder.WithDirectory(users)}
	if cfg.S3.Enabled() {
		archiver, err := s3.NewArchiver(ctx, cfg.S3)
		if err != nil {
			log.Fatalf("Failed to configure S3 archive: %v", err)
		}
		opts = append(opts, bulkorder.WithArchiver(archiver))
	}
	service := bulkorder.NewService(
		database.NewBulkOrderStore(db),
		database.NewProductCatalog(db),
		dispatcher,
		opts...,
	)

	// 6. Router
	router := routes.SetupRouter(routes.Deps{
		Config:     cfg,
		Issuer:     auth.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.Expiration),
		BulkOrders: service,
		Users:      users,
		DB:         database.ClientPinger{Client: client},
		Hub:        hub,
		Metrics:    m,
		Gatherer:   prometheus.DefaultGatherer,
	})

	// 7. Start server
	srv := &http.Server{Addr: ":" + cfg.Server.Port, Handler: router, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Printf("Starting API server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to run server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
}
