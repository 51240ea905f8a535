package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/khoward/portfolio-tracker/internal/api"
	"github.com/khoward/portfolio-tracker/internal/auth"
	"github.com/khoward/portfolio-tracker/internal/config"
	"github.com/khoward/portfolio-tracker/internal/database"
	"github.com/khoward/portfolio-tracker/internal/events"
	"github.com/khoward/portfolio-tracker/internal/portfolio"
	"github.com/khoward/portfolio-tracker/internal/quote"
	"github.com/khoward/portfolio-tracker/internal/web"
)

func main() {
	log.Println("starting portfolio tracker...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.New(cfg.Database.URL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations("db/migrations"); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}
	log.Println("database migrations applied")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer rdb.Close()
	log.Printf("redis connected at %s", cfg.Redis.Addr)

	sessions := auth.NewSessionStore(rdb)
	quotes := quote.New(cfg.Quote.APIKey)

	// An empty broker list leaves the publisher nil and event
	// publishing disabled.
	var publisher portfolio.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer := events.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer producer.Close()
		publisher = producer
		log.Printf("kafka producer connected, topic %s", cfg.Kafka.Topic)
	}

	controller := portfolio.New(db, quotes, publisher, cfg.Quote.RefreshInterval)
	controller.Start(ctx)

	apiHandler := api.NewHandler(controller, sessions)
	router := api.SetupRoutes(apiHandler)

	webHandler, err := web.NewHandler(controller, sessions)
	if err != nil {
		log.Fatalf("failed to build web handler: %v", err)
	}
	webHandler.Register(router)

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("serving at http://%s", addr)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-sigCh
	log.Println("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
	controller.Stop()
}
