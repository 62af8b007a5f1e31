package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"polleria_backend/internal/adapters"
	"polleria_backend/internal/catalog"
	"polleria_backend/internal/customers"
	"polleria_backend/internal/events"
	"polleria_backend/internal/intake"
	"polleria_backend/internal/intake/gemini"
	"polleria_backend/internal/locations"
	"polleria_backend/internal/notification"
	"polleria_backend/internal/orders"
	"polleria_backend/internal/scheduler"
	"polleria_backend/internal/whatsapp"
	"polleria_backend/platform/config"
	"polleria_backend/platform/db"
	"polleria_backend/platform/logger"
	"polleria_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// The worker drains the intake queue. It shares the domain wiring with the
// API server but registers no HTTP routes; the API remains responsible for
// schema migrations.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting intake worker", "env", cfg.Env, "queue", cfg.GetAsynqQueueName())

	if cfg.GetRedisURL() == "" {
		panic("REDIS_URL is required for the intake worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	redisOpts, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		log.Error("invalid REDIS_URL", "error", err)
		panic("invalid REDIS_URL: " + err.Error())
	}
	redisClient := redis.NewClient(redisOpts)
	defer func() { _ = redisClient.Close() }()

	eventBus := events.NewInMemoryBus(log)
	val := validator.New()

	var sender whatsapp.Sender
	if client := whatsapp.NewClient(cfg, log); client != nil {
		sender = client
	} else {
		log.Warn("WhatsApp not configured; outbound messages disabled")
	}

	if !cfg.IsGeminiEnabled() {
		panic("GEMINI_API_KEY is required for the intake worker")
	}
	interpreter, err := gemini.New(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize gemini interpreter", "error", err)
		panic("failed to initialize gemini interpreter: " + err.Error())
	}

	rules, err := intake.LoadRoutingRules(cfg.GetRoutingRulesPath())
	if err != nil {
		log.Warn("routing rules not loaded, using defaults", "error", err)
	}

	catalogModule := catalog.NewModule(pool, nil, "", log, val)
	customersModule := customers.NewModule(pool, eventBus, log, val)
	locationsModule := locations.NewModule(pool)
	ordersModule := orders.NewModule(pool, log, val)

	intakeService := intake.NewService(intake.ServiceParams{
		Catalog:           adapters.NewCatalogReader(catalogModule.Service()),
		Customers:         adapters.NewCustomerDirectory(customersModule.Service()),
		Locations:         adapters.NewLocationDirectory(locationsModule.Service()),
		Orders:            adapters.NewOrderWriter(ordersModule.Service()),
		Interpreter:       interpreter,
		Sender:            sender,
		Lease:             intake.NewRedisLease(redisClient, cfg.GetIntakeLeaseTTL(), log),
		Rules:             rules,
		Bus:               eventBus,
		DefaultLocationID: cfg.GetDefaultLocationID(),
		Log:               log,
	})

	// Order events raised while processing queued messages fan out from here.
	smtpClient, err := notification.NewSMTPClient(cfg)
	if err != nil {
		log.Error("failed to initialize smtp client", "error", err)
		panic("failed to initialize smtp client: " + err.Error())
	}
	var emailSender notification.EmailSender
	if smtpClient != nil {
		emailSender = smtpClient
	}
	notification.NewNotifier(sender, emailSender, cfg, log).Subscribe(eventBus)

	worker, err := scheduler.NewWorker(cfg, intakeService, log)
	if err != nil {
		log.Error("failed to initialize worker", "error", err)
		panic("failed to initialize worker: " + err.Error())
	}

	workerErr := make(chan error, 1)
	go func() {
		workerErr <- worker.Run()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, draining worker")
		worker.Shutdown()
	case err := <-workerErr:
		if err != nil {
			log.Error("worker error", "error", err)
			panic("worker error: " + err.Error())
		}
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
