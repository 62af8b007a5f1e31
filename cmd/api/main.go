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
	"polleria_backend/internal/adapters/storage"
	"polleria_backend/internal/auth"
	"polleria_backend/internal/catalog"
	"polleria_backend/internal/customers"
	"polleria_backend/internal/events"
	apphttp "polleria_backend/internal/http"
	"polleria_backend/internal/http/router"
	"polleria_backend/internal/intake"
	"polleria_backend/internal/intake/gemini"
	"polleria_backend/internal/locations"
	"polleria_backend/internal/notification"
	"polleria_backend/internal/orders"
	"polleria_backend/internal/scheduler"
	"polleria_backend/internal/whatsapp"
	"polleria_backend/migrations"
	"polleria_backend/platform/config"
	"polleria_backend/platform/db"
	"polleria_backend/platform/logger"
	"polleria_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, migrations.FS, ".")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

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

	eventBus := events.NewInMemoryBus(log)
	val := validator.New()

	// Object storage for product images, optional.
	var images storage.ImageStore
	if cfg.IsMinIOEnabled() {
		store, err := storage.NewMinIOStore(cfg)
		if err != nil {
			log.Error("failed to initialize storage", "error", err)
			panic("failed to initialize storage: " + err.Error())
		}
		if err := withRetry(ctx, log, "ensure product images bucket", 5, 2*time.Second, func() error {
			return store.EnsureBucketExists(ctx, cfg.GetMinioBucketProductImages())
		}); err != nil {
			log.Error("failed to ensure storage bucket exists", "error", err)
			panic("failed to ensure storage bucket exists: " + err.Error())
		}
		images = store
		log.Info("storage initialized", "bucket", cfg.GetMinioBucketProductImages())
	} else {
		log.Warn("MinIO not configured; product image uploads disabled")
	}

	// Outbound messaging channel, optional.
	var sender whatsapp.Sender
	if client := whatsapp.NewClient(cfg, log); client != nil {
		sender = client
		log.Info("whatsapp channel configured")
	} else {
		log.Warn("WhatsApp not configured; outbound messages disabled")
	}

	var redisClient *redis.Client
	if cfg.GetRedisURL() != "" {
		redisOpts, err := redis.ParseURL(cfg.GetRedisURL())
		if err != nil {
			log.Error("invalid REDIS_URL", "error", err)
			panic("invalid REDIS_URL: " + err.Error())
		}
		redisClient = redis.NewClient(redisOpts)
		defer func() { _ = redisClient.Close() }()
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	authModule := auth.NewModule(pool, cfg, log, val)
	catalogModule := catalog.NewModule(pool, images, cfg.GetMinioBucketProductImages(), log, val)
	customersModule := customers.NewModule(pool, eventBus, log, val)
	locationsModule := locations.NewModule(pool)
	ordersModule := orders.NewModule(pool, log, val)

	intakeService := buildIntakeService(ctx, cfg, log, eventBus, sender, redisClient,
		catalogModule, customersModule, locationsModule, ordersModule)

	dispatcher, closeDispatcher := initDispatcher(cfg, log, intakeService)
	if closeDispatcher != nil {
		defer closeDispatcher()
	}
	intakeModule := intake.NewModule(intakeService, dispatcher, cfg, log)

	// Staff notifications subscribe to domain events, not HTTP.
	smtpClient, err := notification.NewSMTPClient(cfg)
	if err != nil {
		log.Error("failed to initialize smtp client", "error", err)
		panic("failed to initialize smtp client: " + err.Error())
	}
	var emailSender notification.EmailSender
	if smtpClient != nil {
		emailSender = smtpClient
	}
	notifier := notification.NewNotifier(sender, emailSender, cfg, log)
	notifier.Subscribe(eventBus)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			authModule,
			catalogModule,
			customersModule,
			locationsModule,
			ordersModule,
			intakeModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// buildIntakeService assembles the pipeline from the domain modules through
// the anti-corruption adapters.
func buildIntakeService(ctx context.Context, cfg *config.Config, log *logger.Logger, eventBus events.Bus, sender whatsapp.Sender, redisClient *redis.Client, catalogModule *catalog.Module, customersModule *customers.Module, locationsModule *locations.Module, ordersModule *orders.Module) *intake.Service {
	rules, err := intake.LoadRoutingRules(cfg.GetRoutingRulesPath())
	if err != nil {
		log.Warn("routing rules not loaded, using defaults", "error", err)
	}

	var interpreter intake.Interpreter
	if cfg.IsGeminiEnabled() {
		gi, err := gemini.New(ctx, cfg, log)
		if err != nil {
			log.Error("failed to initialize gemini interpreter", "error", err)
			panic("failed to initialize gemini interpreter: " + err.Error())
		}
		interpreter = gi
	} else {
		log.Warn("GEMINI_API_KEY not configured; inbound messages will be rejected")
		interpreter = unavailableInterpreter{}
	}

	var lease intake.PhoneLease
	if redisClient != nil {
		lease = intake.NewRedisLease(redisClient, cfg.GetIntakeLeaseTTL(), log)
	}

	return intake.NewService(intake.ServiceParams{
		Catalog:           adapters.NewCatalogReader(catalogModule.Service()),
		Customers:         adapters.NewCustomerDirectory(customersModule.Service()),
		Locations:         adapters.NewLocationDirectory(locationsModule.Service()),
		Orders:            adapters.NewOrderWriter(ordersModule.Service()),
		Interpreter:       interpreter,
		Sender:            sender,
		Lease:             lease,
		Rules:             rules,
		Bus:               eventBus,
		DefaultLocationID: cfg.GetDefaultLocationID(),
		Log:               log,
	})
}

// initDispatcher prefers the durable asynq queue and falls back to in-process
// goroutines when Redis is not configured.
func initDispatcher(cfg *config.Config, log *logger.Logger, svc *intake.Service) (intake.Dispatcher, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; processing inbound messages in-process")
		return scheduler.NewInlineDispatcher(svc, log), nil
	}

	client, err := scheduler.NewClient(cfg, log)
	if err != nil {
		log.Error("failed to initialize task queue client, falling back to in-process", "error", err)
		return scheduler.NewInlineDispatcher(svc, log), nil
	}

	log.Info("intake task queue configured", "queue", cfg.GetAsynqQueueName())
	return client, func() { _ = client.Close() }
}

// unavailableInterpreter rejects every message so the pipeline degrades to
// apology replies instead of crashing when the interpreter is unconfigured.
type unavailableInterpreter struct{}

func (unavailableInterpreter) Interpret(context.Context, string, string, []intake.CatalogItem) (intake.OrderIntent, error) {
	return intake.OrderIntent{}, errors.New("interpreter is not configured")
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
