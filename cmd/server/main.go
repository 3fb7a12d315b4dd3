/**
 * @description
 * This is the main entry point for the pixhub backend. It is responsible for
 * initializing all components of the service: configuration, database pool,
 * schema migrations, the RabbitMQ event producer, the optional Redis rate
 * limiter, the fraud screener, the core application service and the HTTP
 * server. It wires everything together and runs until a shutdown signal.
 *
 * @dependencies
 * - github.com/jackc/pgx/v5: PostgreSQL driver and connection pool.
 * - github.com/redis/go-redis/v9: Redis client for rate limiting.
 * - github.com/robfig/cron/v3: Scheduler for review expiry.
 * - internal/api, internal/app, internal/auth, internal/config,
 *   internal/store, pkg/rabbitmq: Internal packages of the service.
 */

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/pixhub/pixhub/internal/api"
	"github.com/pixhub/pixhub/internal/app"
	"github.com/pixhub/pixhub/internal/auth"
	"github.com/pixhub/pixhub/internal/config"
	"github.com/pixhub/pixhub/internal/domain"
	"github.com/pixhub/pixhub/internal/store"
	"github.com/pixhub/pixhub/pkg/rabbitmq"
)

func main() {
	// Load application configuration from environment variables.
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"config load failed\" err=%v", err)
	}
	if strings.TrimSpace(cfg.SessionSecret) == "" {
		log.Fatalf("level=fatal component=bootstrap msg=\"session secret must be configured\" env=SESSION_SECRET")
	}
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		log.Fatalf("level=fatal component=bootstrap msg=\"database url must be configured\" env=DATABASE_URL")
	}

	log.Printf("level=info component=bootstrap msg=\"starting pixhub server\" port=%s", cfg.ServerPort)

	// Apply schema migrations before taking traffic.
	if err := store.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"migrations failed\" err=%v", err)
	}
	log.Println("level=info component=bootstrap msg=\"migrations applied\"")

	// Establish a connection pool to the PostgreSQL database.
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"database url parse failed\" err=%v", err)
	}
	poolConfig.MaxConns = 50
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute
	poolConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	dbpool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"database connection failed\" err=%v", err)
	}
	defer dbpool.Close()
	log.Println("level=info component=bootstrap msg=\"database connected\"")

	// Initialize the RabbitMQ producer. Events degrade to a no-op fallback
	// when the broker is unreachable so the demo still runs.
	var producer rabbitmq.Publisher
	eventProducer, err := rabbitmq.NewEventProducer(cfg.RabbitMQURL)
	if err != nil {
		log.Printf("level=warn component=bootstrap msg=\"rabbitmq producer unavailable; using fallback\" err=%v", err)
		producer = &rabbitmq.EventProducerFallback{}
	} else {
		defer eventProducer.Close()
		producer = eventProducer
		log.Println("level=info component=bootstrap msg=\"rabbitmq producer connected\"")
	}

	var redisClient *redis.Client
	if cfg.TransferRateLimitPerMin > 0 {
		if strings.TrimSpace(cfg.RedisURL) == "" {
			log.Println("level=warn component=bootstrap msg=\"redis url missing; transfer rate limiting disabled\" env=REDIS_URL")
		} else {
			redisOptions, parseErr := redis.ParseURL(cfg.RedisURL)
			if parseErr != nil {
				log.Printf("level=warn component=bootstrap msg=\"redis url parse failed; transfer rate limiting disabled\" err=%v", parseErr)
			} else {
				redisClient = redis.NewClient(redisOptions)
				pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancelPing()
				if pingErr := redisClient.Ping(pingCtx).Err(); pingErr != nil {
					log.Printf("level=warn component=bootstrap msg=\"redis ping failed; transfer rate limiting disabled\" err=%v", pingErr)
					redisClient.Close()
					redisClient = nil
				} else {
					defer redisClient.Close()
					log.Println("level=info component=bootstrap msg=\"redis connected\"")
				}
			}
		}
	}

	// Initialize the data access layer (repository).
	repository := store.NewPostgresRepository(dbpool)

	// Provision the demo identities on an empty database. Their passwords
	// come from configuration.
	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelSeed()
	if err := auth.SeedDemoProfiles(seedCtx, repository, demoProfiles(cfg)); err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"demo profile seed failed\" err=%v", err)
	}

	// Initialize the fraud screener with the configured thresholds.
	screener := app.NewScreener(repository, app.ScreenerConfig{
		ReviewThreshold:    mustDecimal(cfg.ReviewThreshold, "REVIEW_THRESHOLD"),
		VelocityLimit:      cfg.VelocityLimit,
		VelocityWindow:     time.Duration(cfg.VelocityWindowSeconds) * time.Second,
		FirstTransferFloor: mustDecimal(cfg.FirstTransferFloor, "FIRST_TRANSFER_FLOOR"),
	})

	// Initialize the core application service with its dependencies.
	transactionService := app.NewService(repository, screener, producer)
	if redisClient != nil {
		transactionService.SetTransferRateLimiter(
			app.NewRedisTransferRateLimiter(redisClient, cfg.RedisRateLimitPrefix),
			cfg.TransferRateLimitPerMin,
		)
	}

	// Credential verification for POST /sessions.
	verifier := auth.NewVerifier(repository, cfg.SessionSecret, time.Duration(cfg.SessionTTLHours)*time.Hour)

	// Expire stale pending reviews on a schedule.
	expiryJob := app.NewReviewExpiryJob(repository, producer, time.Duration(cfg.ReviewTTLHours)*time.Hour)
	scheduler, err := app.NewReviewExpiryScheduler(expiryJob, cfg.ReviewExpirySchedule)
	if err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"review expiry schedule invalid\" schedule=%q err=%v", cfg.ReviewExpirySchedule, err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Set up the API handlers and router.
	handlers := api.NewTransactionHandlers(transactionService, verifier)
	router := api.Routes(handlers, cfg.SessionSecret, cfg.OriginList())

	serverAddr := fmt.Sprintf(":%s", cfg.ServerPort)
	log.Printf("level=info component=http msg=\"server listening\" addr=%s", serverAddr)

	server := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("level=fatal component=http msg=\"server stopped unexpectedly\" err=%v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Println("level=info component=http msg=\"shutdown started\"")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("level=error component=http msg=\"shutdown failed\" err=%v", err)
	}

	log.Println("level=info component=http msg=\"shutdown complete\"")
}

// demoProfiles builds the two demo identities the client signs in with.
func demoProfiles(cfg config.Config) []auth.DemoProfile {
	return []auth.DemoProfile{
		{
			Profile: domain.Profile{
				ID:          uuid.New(),
				DisplayName: "Maria Silva",
				TaxID:       "12345678900",
				Role:        domain.RoleCustomer,
				PixKey:      domain.PixKey{Type: domain.KeyTypeEmail, Value: "maria.silva@pixhub.com"},
			},
			Password: cfg.DemoCustomerPassword,
		},
		{
			Profile: domain.Profile{
				ID:          uuid.New(),
				DisplayName: "Carlos Mendes",
				TaxID:       "99988877700",
				Role:        domain.RoleAnalyst,
				PixKey:      domain.PixKey{Type: domain.KeyTypeEmail, Value: "carlos.mendes@pixhub.com"},
			},
			Password: cfg.DemoAnalystPassword,
		},
	}
}

func mustDecimal(raw, env string) decimal.Decimal {
	value, err := decimal.NewFromString(raw)
	if err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"invalid decimal configuration\" env=%s value=%q err=%v", env, raw, err)
	}
	return value
}
