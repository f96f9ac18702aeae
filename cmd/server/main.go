package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	automationapp "github.com/gbpdash/backend/internal/application/automation"
	businessapp "github.com/gbpdash/backend/internal/application/business"
	contentapp "github.com/gbpdash/backend/internal/application/content"
	engagementapp "github.com/gbpdash/backend/internal/application/engagement"
	integrationapp "github.com/gbpdash/backend/internal/application/integration"
	"github.com/gbpdash/backend/internal/infrastructure/auth"
	"github.com/gbpdash/backend/internal/infrastructure/cache"
	"github.com/gbpdash/backend/internal/infrastructure/config"
	"github.com/gbpdash/backend/internal/infrastructure/event"
	"github.com/gbpdash/backend/internal/infrastructure/google"
	"github.com/gbpdash/backend/internal/infrastructure/logger"
	"github.com/gbpdash/backend/internal/infrastructure/persistence"
	"github.com/gbpdash/backend/internal/infrastructure/scheduler"
	"github.com/gbpdash/backend/internal/infrastructure/storage"
	"github.com/gbpdash/backend/internal/infrastructure/telemetry"
	"github.com/gbpdash/backend/internal/interfaces/http/handler"
	"github.com/gbpdash/backend/internal/interfaces/http/middleware"
	"github.com/gbpdash/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			GBP Dashboard API
//	@version		1.0
//	@description	Multi-tenant backend for managing Google Business Profile locations, reviews, questions, posts and media.

//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token issued by the identity provider. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}
	log, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()

	providers, err := telemetry.Setup(ctx, telemetry.FromConfig(cfg.Telemetry, version), log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	if lp := providers.LoggerProvider(); lp != nil {
		// Re-create the logger so every entry is also exported over OTLP
		log, err = logger.New(logCfg, logger.NewOTelCore(cfg.Telemetry.ServiceName, lp))
		if err != nil {
			panic("Failed to initialize logger: " + err.Error())
		}
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting GBP dashboard backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	profiler, err := telemetry.StartProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Telemetry.ProfilingEnabled,
		ServerAddress:   cfg.Telemetry.PyroscopeEndpoint,
		ApplicationName: cfg.Telemetry.ServiceName,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() {
		providers.EnableSpanProfiles()
	}

	// Slow statements are reported by telemetry.InstrumentDatabase
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(0),
		logger.WithSQL(cfg.Telemetry.DBLogFullSQL))
	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithGormLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected", zap.String("driver", db.Driver()))

	if db.Driver() == "sqlite" {
		// Local development has no migrations runner
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate sqlite schema", zap.Error(err))
		}
	}

	if err := telemetry.InstrumentDatabase(db.DB, telemetry.DBConfigFrom(
		cfg.Telemetry.DBTraceEnabled,
		cfg.Telemetry.DBLogFullSQL,
		cfg.Telemetry.DBSlowQueryThresh,
	), log); err != nil {
		log.Fatal("Failed to instrument database", zap.Error(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		if _, err := telemetry.RegisterPoolMetrics(providers.MeterProvider(), sqlDB); err != nil {
			log.Warn("Database pool metrics unavailable", zap.Error(err))
		}
	}

	gbpMetrics, err := telemetry.NewGBPMetrics(providers.MeterProvider())
	if err != nil {
		log.Fatal("Failed to register Business Profile metrics", zap.Error(err))
	}

	// Repositories
	accountRepo := persistence.NewGormAccountRepository(db.DB)
	locationRepo := persistence.NewGormLocationRepository(db.DB)
	reviewRepo := persistence.NewGormReviewRepository(db.DB)
	questionRepo := persistence.NewGormQuestionRepository(db.DB)
	postRepo := persistence.NewGormPostRepository(db.DB)
	mediaRepo := persistence.NewGormMediaRepository(db.DB)
	ruleRepo := persistence.NewGormRuleRepository(db.DB)

	// Infrastructure adapters
	jwtService := auth.NewJWTService(cfg.JWT)
	cipher, err := auth.NewTokenCipher(cfg.Google.TokenEncryptionKey)
	if err != nil {
		log.Fatal("Failed to initialize token cipher", zap.Error(err))
	}

	stateStore, redisClient := cache.NewOAuthStateStore(cfg.Redis, log)
	if redisClient != nil {
		defer func() {
			_ = redisClient.Close()
		}()
	}

	oauthClient, err := google.NewOAuthClient(cfg.Google, google.WithLogger(log))
	if err != nil {
		log.Fatal("Failed to initialize Google OAuth client", zap.Error(err))
	}
	platform := google.NewBusinessProfileClient(cfg.Google, google.WithLogger(log))

	objectStorage := newObjectStorage(ctx, cfg, log)

	eventBus := event.NewInMemoryEventBus(log, event.WithAsyncDispatch(4, 256))

	// Application services
	tokens := businessapp.NewTokenProvider(accountRepo, locationRepo, oauthClient, cipher, log).
		WithRefreshSkew(cfg.Sync.TokenRefreshSkew)

	syncService := integrationapp.NewSyncService(
		accountRepo, locationRepo, reviewRepo, questionRepo,
		tokens, platform, eventBus,
		integrationapp.SyncOptions{
			MaxConcurrency:   cfg.Sync.MaxConcurrency,
			LocationPageSize: cfg.Sync.LocationPageSize,
			ReviewPageSize:   cfg.Sync.ReviewPageSize,
			QuestionPageSize: cfg.Sync.QuestionPageSize,
		},
		log,
	)
	syncService.SetMetrics(gbpMetrics)

	accountService := businessapp.NewAccountService(accountRepo, tokens, oauthClient, cipher, eventBus, log)
	oauthService := businessapp.NewOAuthService(stateStore, oauthClient, platform, accountService, syncService, cfg.Google.StateTTL, log)
	locationService := businessapp.NewLocationService(locationRepo, accountRepo, tokens, platform, eventBus, log)
	insightsService := businessapp.NewInsightsService(tokens, platform)

	reviewService := engagementapp.NewReviewService(reviewRepo, tokens, platform, eventBus, log)
	questionService := engagementapp.NewQuestionService(questionRepo, tokens, platform, eventBus, log)

	publisher := contentapp.NewPublisher(postRepo, mediaRepo, objectStorage, tokens, platform, eventBus, cfg.Scheduler.PublishMaxAttempts, log)
	publisher.SetMetrics(gbpMetrics)
	postService := contentapp.NewPostService(postRepo, mediaRepo, locationRepo, tokens, platform, publisher, eventBus, log)
	calendarService := contentapp.NewCalendarService(postRepo)
	mediaService := contentapp.NewMediaService(mediaRepo, locationRepo, objectStorage, tokens, platform, eventBus,
		contentapp.MediaOptions{UploadExpiry: cfg.Storage.PresignExpiry},
		log,
	)

	ruleService := automationapp.NewRuleService(ruleRepo, locationRepo, log)

	// Auto replies run off the bus so a sync never waits on them
	eventBus.Subscribe(automationapp.NewAutoReplyHandler(ruleRepo, locationRepo, reviewService, questionService, log))
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	var (
		jobScheduler *scheduler.Scheduler
		cronTrigger  *scheduler.CronTrigger
	)
	if cfg.Scheduler.Enabled {
		jobScheduler = scheduler.NewScheduler(scheduler.Config{
			Workers:    cfg.Scheduler.Workers,
			QueueSize:  cfg.Scheduler.QueueSize,
			JobTimeout: cfg.Scheduler.JobTimeout,
			RetryDelay: cfg.Scheduler.RetryDelay,
		}, scheduler.NewExecutor(publisher, syncService, log), log)
		if err := jobScheduler.Start(ctx); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}

		cronTrigger = scheduler.NewCronTrigger(scheduler.CronTriggerConfig{
			CheckInterval:     cfg.Scheduler.CheckInterval,
			DailySyncHour:     cfg.Scheduler.DailySyncHour,
			PublishBatchSize:  cfg.Scheduler.PublishBatchSize,
			SyncRetries:       cfg.Scheduler.RetryAttempts,
			StalePublishAfter: 2 * cfg.Scheduler.JobTimeout,
		}, jobScheduler, publisher, accountRepo, log)
		if err := cronTrigger.Start(ctx); err != nil {
			log.Fatal("Failed to start cron trigger", zap.Error(err))
		}
	}

	// HTTP
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	tracingCfg := middleware.DefaultTracingConfig(cfg.Telemetry.ServiceName)
	tracingCfg.Enabled = providers.TracingEnabled()

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.TracingWithConfig(tracingCfg))
	engine.Use(middleware.SecureWithConfig(middleware.DefaultSecurityConfig()))
	engine.Use(middleware.CORSWithConfig(corsCfg))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.Telemetry.MetricsEnabled {
		httpMetrics, err := middleware.HTTPMetrics(providers.MeterProvider())
		if err != nil {
			log.Fatal("Failed to register HTTP metrics", zap.Error(err))
		}
		engine.Use(httpMetrics)
	}

	var limiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		limiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiter))
	}

	jwtCfg := middleware.DefaultJWTConfig(jwtService)
	jwtCfg.Logger = log

	r := router.NewRouter(engine).Use(
		middleware.JWTAuthMiddlewareWithConfig(jwtCfg),
		middleware.SpanAttributes(),
		middleware.Profiling(profiler.IsEnabled()),
	)
	router.RegisterAPI(r, router.Handlers{
		GMB:        handler.NewGMBHandler(oauthService, accountService, syncService, cfg.Google.FrontendURL),
		Locations:  handler.NewLocationHandler(locationService, syncService, insightsService),
		Reviews:    handler.NewReviewHandler(reviewService),
		Questions:  handler.NewQuestionHandler(questionService),
		Posts:      handler.NewPostHandler(postService, calendarService),
		Media:      handler.NewMediaHandler(mediaService),
		Automation: handler.NewAutomationHandler(ruleService),
	}).Setup()

	readiness := map[string]handler.HealthCheck{}
	if redisClient != nil {
		readiness["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}
	router.RegisterSystem(engine,
		handler.NewSystemHandler(version, db.Ping, readiness),
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:     cfg.Swagger.Enabled,
			RequireAuth: cfg.Swagger.RequireAuth,
			AllowedIPs:  cfg.Swagger.AllowedIPs,
		}, jwtService),
	)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
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

	// Stop producers before the consumers they feed
	if cronTrigger != nil {
		if err := cronTrigger.Stop(shutdownCtx); err != nil {
			log.Error("Cron trigger stop failed", zap.Error(err))
		}
	}
	if jobScheduler != nil {
		if err := jobScheduler.Stop(shutdownCtx); err != nil {
			log.Error("Scheduler stop failed", zap.Error(err))
		}
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Event bus stop failed", zap.Error(err))
	}
	if limiter != nil {
		limiter.Stop()
	}
	if closer, ok := stateStore.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
	if err := profiler.Stop(); err != nil {
		log.Error("Profiler stop failed", zap.Error(err))
	}
	_ = providers.Shutdown(shutdownCtx)

	log.Info("Server exited gracefully")
}

// newObjectStorage returns the S3 store when a bucket is configured and the
// local stand-in otherwise
func newObjectStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) contentapp.ObjectStorage {
	if !cfg.Storage.Enabled {
		if cfg.App.IsProduction() {
			log.Fatal("Object storage must be enabled in production")
		}
		log.Warn("Object storage disabled, media uploads use the development store")
		return storage.NewDevObjectStorage("")
	}

	s3, err := storage.NewS3ObjectStorage(ctx, &cfg.Storage, storage.WithLogger(log))
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}
	if cfg.Storage.Endpoint != "" {
		// Self-hosted stores (MinIO) are provisioned on first start
		if err := s3.EnsureBucket(ctx); err != nil {
			log.Fatal("Failed to ensure bucket", zap.String("bucket", s3.Bucket()), zap.Error(err))
		}
	}
	log.Info("Object storage ready", zap.String("bucket", s3.Bucket()))
	return s3
}
