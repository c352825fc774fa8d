package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/anushka-j18/XURVA/internal/cart"
	"github.com/anushka-j18/XURVA/internal/catalog"
	"github.com/anushka-j18/XURVA/internal/checkout"
	"github.com/anushka-j18/XURVA/internal/events"
	xhttp "github.com/anushka-j18/XURVA/internal/http"
	"github.com/anushka-j18/XURVA/internal/payment"
)

type Config struct {
	HTTPPort        string
	CatalogDBPath   string
	MongoURI        string
	MongoDatabase   string
	RedisAddr       string
	KafkaBrokers    []string
	StripeAPIKey    string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		CatalogDBPath:   getEnv("CATALOG_DB_PATH", "./catalog.db"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:   getEnv("MONGO_DATABASE", "xurva"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBrokers:    strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		StripeAPIKey:    os.Getenv("STRIPE_API_KEY"),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	log.Println("storefront starting...")

	cfg := loadConfig()
	if cfg.StripeAPIKey == "" {
		log.Fatal("STRIPE_API_KEY not set")
	}

	// Catalog (read-only, seeded by migrations)
	catalogRepo, err := catalog.NewRepository(cfg.CatalogDBPath)
	if err != nil {
		log.Fatalf("Failed to open catalog database: %v", err)
	}
	defer catalogRepo.Close()

	if err := catalogRepo.RunMigrations(); err != nil {
		log.Fatalf("Failed to run catalog migrations: %v", err)
	}
	log.Println("Catalog migrations completed")

	// Cart persistence
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	mongoDB, err := cart.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDatabase)
	cancel()
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	log.Printf("Connected to MongoDB at %s", cfg.MongoURI)

	idxCtx, idxCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := cart.EnsureIndexes(idxCtx, mongoDB); err != nil {
		log.Fatalf("Failed to create cart indexes: %v", err)
	}
	idxCancel()

	cartRepo := cart.NewMongoRepository(mongoDB)

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()
	cartCache := cart.NewRedisCache(redisClient)

	cartService := cart.NewService(cartRepo, cartCache)

	// Checkout
	publisher := events.NewKafkaPublisher(cfg.KafkaBrokers...)
	defer publisher.Close()

	provider := payment.NewStripeProvider(cfg.StripeAPIKey)
	builder := checkout.NewBuilder(catalogRepo, provider, publisher)

	router := xhttp.NewRouter(catalogRepo, cartService, builder, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Storefront listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
