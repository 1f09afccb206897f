package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	inventoryapp "github.com/wms/backend/internal/application/inventory"
	notificationapp "github.com/wms/backend/internal/application/notification"
	procurementapp "github.com/wms/backend/internal/application/procurement"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/infrastructure/auth"
	"github.com/wms/backend/internal/infrastructure/cache"
	"github.com/wms/backend/internal/infrastructure/config"
	"github.com/wms/backend/internal/infrastructure/event"
	"github.com/wms/backend/internal/infrastructure/logger"
	"github.com/wms/backend/internal/infrastructure/numbering"
	"github.com/wms/backend/internal/infrastructure/persistence"
	"github.com/wms/backend/internal/infrastructure/persistence/models"
	"github.com/wms/backend/internal/infrastructure/scheduler"
	"github.com/wms/backend/internal/infrastructure/storage"
	"github.com/wms/backend/internal/infrastructure/telemetry"
	"github.com/wms/backend/internal/interfaces/http/handler"
	"github.com/wms/backend/internal/interfaces/http/middleware"
	"github.com/wms/backend/internal/interfaces/http/router"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			WMS Backend API
//	@version		1.0
//	@description	Purchase requisition workflow and goods receipt for multi-store warehouses

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	// A missing .env is fine; real deployments use the environment
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	// Money fields are sent as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	log.Info("Starting WMS Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Tracing goes first so the DB plugin picks up the global provider
	tracer, err := telemetry.NewTracerProvider(ctx, &cfg.Telemetry, version, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	gormLog := logger.NewGormLogger(log, logger.GormLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connected successfully", zap.String("driver", cfg.Database.Driver))

	if cfg.Database.Driver == "sqlite" {
		// Local runs have no migrate step
		if err := db.DB.AutoMigrate(models.All()...); err != nil {
			log.Fatal("Failed to migrate sqlite schema", zap.Error(err))
		}
	}

	if tracer.Enabled() && cfg.Telemetry.DBTraceEnabled {
		if err := telemetry.RegisterDBTracing(db.DB, cfg.Database.Driver, cfg.Telemetry.DBSlowQueryThresh, log); err != nil {
			log.Warn("Failed to enable database tracing", zap.Error(err))
		}
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	}

	// PR and lot numbers continue after the ones already stored today
	type primedGenerator interface {
		shared.NumberGenerator
		Prime(ctx context.Context) error
	}
	seeder := numbering.WithSeeder(persistence.NewGormNumberSeeder(db.DB))
	var prNumbers, lotNumbers primedGenerator
	if redisClient != nil {
		prNumbers = numbering.NewRedisSequence(redisClient, numbering.PrefixPR, shared.SystemClock, log, seeder)
		lotNumbers = numbering.NewRedisSequence(redisClient, numbering.PrefixLot, shared.SystemClock, log, seeder)
	} else {
		prNumbers = numbering.NewDailySequence(numbering.PrefixPR, shared.SystemClock, seeder)
		lotNumbers = numbering.NewDailySequence(numbering.PrefixLot, shared.SystemClock, seeder)
	}
	for _, gen := range []primedGenerator{prNumbers, lotNumbers} {
		if err := gen.Prime(ctx); err != nil {
			log.Fatal("Failed to seed document numbers", zap.Error(err))
		}
	}

	storeOpts := []cache.StoreFactoryOption{}
	if redisClient != nil {
		storeOpts = append(storeOpts, cache.WithRedis(redisClient))
	}
	stores := cache.NewStoreFactory(log, storeOpts...)

	// Repositories
	prRepo := persistence.NewGormPurchaseRequisitionRepository(db.DB)
	poRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	storeItemRepo := persistence.NewGormStoreItemRepository(db.DB)
	lotRepo := persistence.NewGormInventoryLotRepository(db.DB)
	stockTxRepo := persistence.NewGormStockTransactionRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)
	masterItemRepo := persistence.NewGormMasterItemRepository(db.DB)
	storeRepo := persistence.NewGormStoreRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)

	// Application services
	ledger := inventoryapp.NewLedger(lotNumbers, log)
	workflow := procurementapp.NewWorkflowService(
		procurementapp.WorkflowConfig{
			RequiresPurchaseOrder: cfg.Workflow.RequiresPurchaseOrder,
			RequiresApproval:      cfg.Workflow.RequiresApproval,
		},
		persistence.NewGormTransactionScope(db.DB),
		prRepo,
		poRepo,
		ledger,
		prNumbers,
		log,
	)
	stockService := inventoryapp.NewStockService(
		ledger,
		persistence.NewGormLedgerScope(db.DB),
		storeItemRepo,
		lotRepo,
		stockTxRepo,
		log,
	)
	dashboard := procurementapp.NewDashboardService(prRepo, procurementapp.DashboardConfig{
		UpcomingDays:   cfg.Dashboard.UpcomingDays,
		TomorrowBucket: cfg.Dashboard.TomorrowBucket,
	}, shared.SystemClock)
	notifications := notificationapp.NewNotificationService(notificationRepo, userRepo, log)
	reminders := notificationapp.NewReminderService(
		notifications,
		notificationRepo,
		userRepo,
		prRepo,
		storeItemRepo,
		masterItemRepo,
		cfg.Notification.RetentionDays,
		log,
	)

	// Metrics
	var metrics *telemetry.Metrics
	if cfg.Telemetry.MetricsEnabled {
		metrics = telemetry.NewMetrics("wms")
		if sqlDB, err := db.DB.DB(); err == nil {
			if err := metrics.RegisterDB(sqlDB, cfg.Database.DBName); err != nil {
				log.Warn("Failed to register DB pool metrics", zap.Error(err))
			}
		}
		workflow.SetMetrics(metrics)
	}

	// Event bus
	bus := event.NewInMemoryEventBus(log)
	var notifierHandler shared.EventHandler = notificationapp.NewProcurementNotifier(notifications, userRepo, storeRepo, log)
	var eventStore shared.IdempotencyStore
	if cfg.Event.IdempotencyEnabled {
		eventStore = stores.Store("events")
		notifierHandler = event.NewIdempotentHandler(notifierHandler, eventStore, log,
			event.WithHandlerName("procurement_notifier"),
			event.WithIdempotencyConfig(shared.IdempotencyConfig{
				TTL:     cfg.Event.IdempotencyTTL,
				Enabled: true,
			}),
		)
	}
	bus.Subscribe(notifierHandler, notifierHandler.EventTypes()...)

	var forwarder *event.KafkaForwarder
	if cfg.Kafka.Enabled {
		producer, err := event.NewSaramaProducer(&cfg.Kafka)
		if err != nil {
			log.Fatal("Failed to create Kafka producer", zap.Error(err), zap.Strings("brokers", cfg.Kafka.Brokers))
		}
		forwarder = event.NewKafkaForwarder(producer, cfg.Kafka.Topic, log)
		bus.Subscribe(forwarder, forwarder.EventTypes()...)
		log.Info("Kafka forwarder enabled", zap.String("topic", cfg.Kafka.Topic))
	}

	if err := bus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	workflow.SetEventPublisher(bus)

	// Export archives
	var archiver handler.ExportArchive
	if cfg.Storage.Enabled {
		s3, err := storage.NewS3Storage(&cfg.Storage, log)
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		if err := s3.EnsureBucket(ctx); err != nil {
			log.Warn("Export bucket is not available", zap.Error(err), zap.String("bucket", s3.Bucket()))
		}
		archiver = procurementapp.NewExportArchiver(workflow, s3, cfg.Storage.PresignExpiration, log)
	}

	// Daily reminder jobs
	var jobs *scheduler.Scheduler
	var trigger *scheduler.DailyTrigger
	if cfg.Scheduler.Enabled {
		jobs = scheduler.NewScheduler(scheduler.ConfigFrom(&cfg.Scheduler), scheduler.NewReminderExecutor(reminders, log), log)
		if err := jobs.Start(ctx); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
		triggerCfg := scheduler.DefaultDailyTriggerConfig()
		triggerCfg.Hour = cfg.Scheduler.DailyHour
		triggerCfg.Minute = cfg.Scheduler.DailyMinute
		triggerCfg.CheckInterval = cfg.Scheduler.CheckInterval
		trigger = scheduler.NewDailyTrigger(triggerCfg, jobs, log)
		trigger.Start(ctx)
		log.Info("Reminder scheduler started",
			zap.Int("daily_hour", cfg.Scheduler.DailyHour),
			zap.Int("daily_minute", cfg.Scheduler.DailyMinute),
		)
	}

	// Auth
	jwtService := auth.NewJWTService(cfg.JWT)
	var blacklist auth.TokenBlacklist
	if redisClient != nil {
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
	}

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders

	securityCfg := middleware.DefaultSecurityConfig()
	securityCfg.HSTSEnabled = cfg.App.Env == "production"

	engine.Use(
		logger.Recovery(log),
		middleware.RequestID(),
		logger.GinMiddleware(log),
		middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     tracer.Enabled(),
		}),
		middleware.SpanErrorMarker(),
		middleware.CORSWithConfig(corsCfg),
		middleware.SecureWithConfig(securityCfg),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)
	if metrics != nil {
		engine.Use(metrics.GinMiddleware())
		engine.GET(cfg.Telemetry.MetricsPath, gin.WrapH(metrics.Handler()))
	}

	var limiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		limiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiter))
	}

	jwtCfg := middleware.DefaultJWTConfig(jwtService)
	jwtCfg.TokenBlacklist = blacklist
	jwtCfg.Logger = log

	checks := map[string]handler.HealthCheck{"database": db.Ping}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}
	healthHandler := handler.NewHealthHandler(version, checks)
	engine.GET("/health", healthHandler.Health)

	receiveKeys := stores.Store("receive")
	jwtAuth := middleware.JWTAuthMiddlewareWithConfig(jwtCfg)
	r := router.NewRouter(engine,
		router.WithAPIVersion("v1"),
		router.WithAPIMiddleware(
			jwtAuth,
			middleware.TracingAttributeInjector(),
		),
		router.WithSwagger(middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:     cfg.Swagger.Enabled,
			RequireAuth: cfg.Swagger.RequireAuth,
			AllowedIPs:  cfg.Swagger.AllowedIPs,
		}, jwtAuth)),
	)
	router.RegisterAPI(r, router.Handlers{
		Procurement:  handler.NewProcurementHandler(workflow, archiver),
		Dashboard:    handler.NewDashboardHandler(dashboard),
		Inventory:    handler.NewInventoryHandler(stockService),
		Notification: handler.NewNotificationHandler(notifications),
		Health:       healthHandler,
		Auth:         handler.NewAuthHandler(blacklist),
	}, middleware.IdempotencyKey(middleware.IdempotencyConfig{
		Store:  receiveKeys,
		TTL:    cfg.Event.ReceiveKeyTTL,
		Scope:  "receive",
		Logger: log,
	}))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if trigger != nil {
		trigger.Stop()
	}
	if jobs != nil {
		if err := jobs.Stop(shutdownCtx); err != nil {
			log.Error("Error stopping scheduler", zap.Error(err))
		}
	}
	if err := bus.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}
	if forwarder != nil {
		if err := forwarder.Close(); err != nil {
			log.Error("Error closing Kafka producer", zap.Error(err))
		}
	}
	if limiter != nil {
		limiter.Stop()
	}
	_ = receiveKeys.Close()
	if eventStore != nil {
		_ = eventStore.Close()
	}
	stop()
	if err := tracer.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer", zap.Error(err))
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing Redis", zap.Error(err))
		}
	}
	if err := db.Close(); err != nil {
		log.Error("Error closing database", zap.Error(err))
	}

	log.Info("Server exited")
}
