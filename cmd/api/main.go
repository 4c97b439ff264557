package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/esencia-ar/backend/internal/assistant"
	"github.com/esencia-ar/backend/internal/catalog"
	"github.com/esencia-ar/backend/internal/checkout"
	"github.com/esencia-ar/backend/internal/clients/mercadopago"
	"github.com/esencia-ar/backend/internal/clients/scheduling"
	"github.com/esencia-ar/backend/internal/publisher"
	"github.com/esencia-ar/backend/internal/rates"
	"github.com/esencia-ar/backend/internal/repository"
	transport "github.com/esencia-ar/backend/internal/transport/http"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

type Config struct {
	HTTPPort        string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	DBHost         string
	DBPort         int
	DBUser         string
	DBPassword     string
	DBName         string
	MigrationsPath string

	RedisAddr    string
	MongoURI     string
	KafkaBrokers []string

	RateAPIURL    string
	MPAPIURL      string
	MPAccessToken string
	SchedulingURL string
	AssistantURL  string
}

func loadConfig() *Config {
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		log.Fatalf("Invalid DB_PORT: %v", err)
	}

	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,

		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         dbPort,
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", "postgres"),
		DBName:         getEnv("DB_NAME", "esencia"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./internal/repository/migrations"),

		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		MongoURI:     getEnv("MONGO_URI", ""),
		KafkaBrokers: strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),

		RateAPIURL:    getEnv("RATE_API_URL", "https://dolarapi.com/v1/dolares/blue"),
		MPAPIURL:      getEnv("MP_API_URL", "https://api.mercadopago.com/checkout/preferences"),
		MPAccessToken: getEnv("MP_ACCESS_TOKEN", ""),
		SchedulingURL: getEnv("SCHEDULING_URL", "http://localhost:8090/schedule"),
		AssistantURL:  getEnv("ASSISTANT_URL", "http://localhost:8091"),
	}
}

func main() {
	log.Println("api starting...")

	cfg := loadConfig()
	clientTimeout := 10 * time.Second

	// Authoritative order store
	creds := &repository.Credentials{
		Host:              cfg.DBHost,
		Port:              cfg.DBPort,
		User:              cfg.DBUser,
		Password:          cfg.DBPassword,
		DBName:            cfg.DBName,
		MigrationsDirPath: cfg.MigrationsPath,
	}

	repo, err := repository.NewRepository(creds)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer repo.Close()

	if err := repo.RunMigrations(creds); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	// Exchange-rate provider with Redis cache
	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()

	rateProvider := rates.NewProvider(
		rates.NewClient(cfg.RateAPIURL, clientTimeout),
		rates.NewRedisCache(redisClient),
	)

	// Catalog overrides, Mongo-backed when configured
	overrideRepo := catalog.NewMemoryOverrideRepository()
	if cfg.MongoURI != "" {
		mongoCtx, cancel := context.WithTimeout(context.Background(), clientTimeout)
		mongoClient, err := mongo.Connect(mongoCtx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			cancel()
			log.Fatalf("Failed to connect to mongo: %v", err)
		}
		defer func() {
			if err := mongoClient.Disconnect(context.Background()); err != nil {
				log.Printf("mongo disconnect: %v", err)
			}
		}()

		mongoOverrides := catalog.NewMongoOverrideRepository(mongoClient.Database("esencia"))
		if err := mongoOverrides.CreateIndexes(mongoCtx); err != nil {
			cancel()
			log.Fatalf("Failed to create mongo indexes: %v", err)
		}
		cancel()

		overrideRepo = mongoOverrides
		log.Println("Connected to mongo overrides store")
	}
	catalogSvc := catalog.NewService(catalog.BaseProducts(), overrideRepo)

	// External collaborators
	mpClient := mercadopago.NewClient(cfg.MPAPIURL, cfg.MPAccessToken, clientTimeout)
	schedulingClient := scheduling.NewClient(cfg.SchedulingURL, clientTimeout)

	// Checkout pipeline
	sessions := checkout.NewStore(rateProvider)
	coordinator := checkout.NewCoordinator(repo, mpClient, schedulingClient)

	// Assistant
	assistantStore := assistant.NewStore(assistant.NewHTTPQuerier(cfg.AssistantURL))

	// Outbox poller
	pollerCtx, stopPoller := context.WithCancel(context.Background())
	defer stopPoller()
	poller := publisher.NewOutboxPoller(repo, cfg.KafkaBrokers...)
	go poller.Run(pollerCtx)

	router := transport.NewRouter(
		transport.NewSessionHandler(sessions, coordinator, catalogSvc),
		transport.NewCatalogHandler(catalogSvc),
		transport.NewOrdersHandler(repo),
		transport.NewAssistantHandler(assistantStore, catalogSvc, rateProvider),
		cfg.RequestTimeout,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("API listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	stopPoller()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
