package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/veyara-realtime/internal/api"
	"github.com/example/veyara-realtime/internal/auth"
	"github.com/example/veyara-realtime/internal/config"
	"github.com/example/veyara-realtime/internal/infrastructure/kafka"
	"github.com/example/veyara-realtime/internal/infrastructure/store"
	"github.com/example/veyara-realtime/internal/notification"
	"github.com/example/veyara-realtime/internal/realtime"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("[Realtime] Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[Realtime] Invalid configuration: %v", err)
	}

	log.Println("[Realtime] ========================================")
	log.Println("[Realtime] Veyara - Realtime Coordination Server")
	log.Println("[Realtime] ========================================")
	log.Printf("[Realtime] Kafka: %v", cfg.Kafka.Brokers)
	log.Printf("[Realtime] Notification topic: %s", cfg.Kafka.NotificationTopic)
	log.Printf("[Realtime] Strict tracking: %v", cfg.Realtime.StrictTracking)

	// Initialize PostgreSQL connection
	db, err := store.ConnectPostgres(cfg.Database.URL)
	if err != nil {
		log.Fatalf("[Realtime] Failed to connect to PostgreSQL: %v", err)
	}
	defer db.Close()
	log.Println("[Realtime] Connected to PostgreSQL")

	if cfg.Database.Migrate {
		if err := store.Migrate(context.Background(), db); err != nil {
			log.Fatalf("[Realtime] Migration failed: %v", err)
		}
		log.Println("[Realtime] Schema applied")
	}

	pgStore := store.NewPostgresStore(db)

	// Initialize Kafka producer for notification events
	producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.NotificationTopic)
	defer producer.Close()

	jwtService := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry)
	resolver := auth.NewResolver(jwtService, pgStore)

	notifier := notification.NewNotifier(pgStore, producer)
	hub := realtime.NewHub(realtime.NewRegistry(), pgStore, pgStore, notifier, realtime.Options{
		StrictTracking:      cfg.Realtime.StrictTracking,
		NotificationTimeout: cfg.Realtime.NotificationTimeout,
	})

	socket := api.NewSocketHandler(hub, api.SocketConfig{
		AllowedOrigins:  cfg.HTTP.AllowedOrigins,
		SendBuffer:      cfg.Realtime.SendBuffer,
		WriteTimeout:    cfg.Realtime.WriteTimeout,
		PongTimeout:     cfg.Realtime.PongTimeout,
		MaxMessageBytes: cfg.Realtime.MaxMessageBytes,
	})
	router := api.NewRouter(api.RouterConfig{
		Socket:   socket,
		Resolver: resolver,
		Health:   pgStore,
	})

	// Start HTTP server
	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[Realtime] Server started on %s", cfg.HTTP.Addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("[Realtime] Server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[Realtime] Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[Realtime] Shutdown error: %v", err)
	}

	// Shutdown does not track hijacked connections; the hub closes them and
	// lets pending notifications reach the store and the bus
	if err := hub.Shutdown(shutdownCtx); err != nil {
		log.Printf("[Realtime] Hub shutdown error: %v", err)
	}
	log.Println("[Realtime] Stopped")
}
