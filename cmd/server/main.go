package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/IndraniBorra/InvoiceManagementStore/internal/application/catalog"
	invoicingapp "github.com/IndraniBorra/InvoiceManagementStore/internal/application/invoicing"
	partnerapp "github.com/IndraniBorra/InvoiceManagementStore/internal/application/partner"
	"github.com/IndraniBorra/InvoiceManagementStore/internal/domain/shared"
	"github.com/IndraniBorra/InvoiceManagementStore/internal/infrastructure/cache"
	"github.com/IndraniBorra/InvoiceManagementStore/internal/infrastructure/config"
	"github.com/IndraniBorra/InvoiceManagementStore/internal/infrastructure/logger"
	"github.com/IndraniBorra/InvoiceManagementStore/internal/infrastructure/migration"
	"github.com/IndraniBorra/InvoiceManagementStore/internal/infrastructure/persistence"
	"github.com/IndraniBorra/InvoiceManagementStore/internal/infrastructure/printing"
	"github.com/IndraniBorra/InvoiceManagementStore/internal/infrastructure/storage"
	"github.com/IndraniBorra/InvoiceManagementStore/internal/infrastructure/telemetry"
	"github.com/IndraniBorra/InvoiceManagementStore/internal/interfaces/http/handler"
	"github.com/IndraniBorra/InvoiceManagementStore/internal/interfaces/http/middleware"
	"github.com/IndraniBorra/InvoiceManagementStore/internal/interfaces/http/router"
	"github.com/IndraniBorra/InvoiceManagementStore/migrations"
	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	_ "github.com/IndraniBorra/InvoiceManagementStore/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			Invoice Management Store API
//	@version		1.0
//	@description	Customers, products and invoices with line items, due-date terms and PDF export.

//	@contact.name	API Support
//	@contact.url	https://github.com/IndraniBorra/InvoiceManagementStore

//	@host		localhost:8080
//	@BasePath	/api/v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(logger.FromAppConfig(cfg.Log))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	// Telemetry comes up before everything else so startup logs reach the collector
	providers, err := telemetry.Setup(context.Background(), cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	log = logger.Tee(log, providers.Logs.Core(logger.ParseLevel(cfg.Log.Level)))
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Invoice Management Store",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("db_driver", cfg.Database.Driver),
	)

	// Create GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
		logger.WithFullSQL(cfg.Telemetry.DBLogFullSQL),
	)

	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connected successfully")

	if err := telemetry.RegisterDBTracing(db.DB, cfg.Telemetry, log); err != nil {
		log.Warn("Failed to register database tracing", zap.Error(err))
	}
	poolMetrics, err := telemetry.RegisterPoolMetrics(providers.Meter.Meter("invoice-store/db"), db.Stats)
	if err != nil {
		log.Warn("Failed to register connection pool metrics", zap.Error(err))
	}

	if cfg.App.AutoMigrate {
		if err := migrate(context.Background(), cfg, db, log); err != nil {
			log.Fatal("Failed to migrate database schema", zap.Error(err))
		}
	}

	// Initialize repositories
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	invoiceMetrics, err := telemetry.NewInvoiceMetrics(providers.Meter.Meter("invoice-store/invoicing"))
	if err != nil {
		log.Fatal("Failed to create invoice metrics", zap.Error(err))
	}

	// Document rendering and archiving are optional
	var renderer invoicingapp.DocumentRenderer
	var chromeRenderer *printing.ChromedpRenderer
	if cfg.Document.RendererEnabled {
		tmpl, err := printing.NewInvoiceTemplate(cfg.Document.CompanyName, cfg.Document.Locale)
		if err != nil {
			log.Fatal("Failed to load invoice template", zap.Error(err))
		}
		chromeRenderer, err = printing.NewChromedpRenderer(cfg.Document, tmpl, log)
		if err != nil {
			log.Fatal("Failed to start PDF renderer", zap.Error(err))
		}
		renderer = chromeRenderer
		log.Info("PDF renderer enabled", zap.Duration("render_timeout", cfg.Document.RenderTimeout))
	}

	var archive invoicingapp.DocumentArchive
	switch {
	case cfg.Document.ArchiveEnabled:
		s3Archive, err := storage.NewS3Archive(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to create document archive", zap.Error(err))
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err = s3Archive.EnsureBucket(ctx)
		cancel()
		if err != nil {
			log.Fatal("Failed to prepare archive bucket", zap.Error(err), zap.String("bucket", cfg.Storage.Bucket))
		}
		archive = s3Archive
	case cfg.Document.RendererEnabled && cfg.App.Env == "development":
		archive = storage.NewMemoryArchive()
		log.Info("Using in-memory document archive")
	}

	// Initialize application services
	customerService := partnerapp.NewCustomerService(customerRepo, txScope)
	productService := catalogapp.NewProductService(productRepo, txScope)
	invoiceService := invoicingapp.NewInvoiceService(invoiceRepo, customerRepo, productRepo, txScope,
		invoicingapp.WithMetrics(invoiceMetrics),
	)
	documentService := invoicingapp.NewDocumentService(invoiceRepo, customerRepo, productRepo, renderer, archive, log)

	// Initialize HTTP handlers
	customerHandler := handler.NewCustomerHandler(customerService)
	productHandler := handler.NewProductHandler(productService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService, documentService)
	healthHandler := handler.NewHealthHandler(db)

	// Idempotent creates
	var createMiddleware []gin.HandlerFunc
	var idempotencyStore shared.IdempotencyStore
	if cfg.Idempotency.Enabled {
		factory := cache.NewIdempotencyStoreFactory(cfg.Redis,
			cache.WithLogger(log),
			cache.WithInMemoryFallback(cfg.App.Env != "production"),
		)
		idempotencyStore, err = factory.CreateStore()
		if err != nil {
			log.Fatal("Failed to create idempotency store", zap.Error(err))
		}
		createMiddleware = append(createMiddleware, middleware.Idempotency(middleware.IdempotencyConfig{
			Store:  idempotencyStore,
			TTL:    cfg.Idempotency.TTL,
			Logger: log,
		}))
		log.Info("Idempotency-Key support enabled", zap.Duration("ttl", cfg.Idempotency.TTL))
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack, outermost first:
	// request ID, panic recovery, access log, tracing, metrics, profiling,
	// security headers, CORS and the body size limit.
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log, "/health"))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
		SkipPaths:   []string{"/health"},
	}))
	engine.Use(middleware.SpanEnricher())
	engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
		MeterProvider: providers.Meter,
		Enabled:       cfg.Telemetry.MetricsEnabled,
		Logger:        log,
	}))
	profiling := middleware.DefaultProfilingConfig()
	profiling.Enabled = cfg.Telemetry.ProfilingEnabled
	engine.Use(middleware.Profiling(profiling))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", middleware.IdempotentReplayHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler.Check)

	if cfg.Swagger.Enabled {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	routerOpts := []router.RouterOption{router.WithAPIVersion("v1")}
	var rateLimiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		routerOpts = append(routerOpts, router.WithMiddleware(middleware.RateLimit(rateLimiter)))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	r := router.NewRouter(engine, routerOpts...)
	r.Register(
		handler.CustomerRoutes(customerHandler, createMiddleware...),
		handler.ProductRoutes(productHandler, createMiddleware...),
		handler.InvoiceRoutes(invoiceHandler, createMiddleware...),
	)
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
		log.Info("Server starting", zap.String("addr", srv.Addr), zap.String("api", r.BasePath()), zap.Int("routes", len(r.Routes())))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if rateLimiter != nil {
		rateLimiter.Stop()
	}
	if idempotencyStore != nil {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}
	if chromeRenderer != nil {
		if err := chromeRenderer.Close(); err != nil {
			log.Error("Error stopping PDF renderer", zap.Error(err))
		}
	}
	if poolMetrics != nil {
		if err := poolMetrics.Unregister(); err != nil {
			log.Warn("Error unregistering pool metrics", zap.Error(err))
		}
	}
	if err := db.Close(); err != nil {
		log.Error("Error closing database", zap.Error(err))
	}
	if err := providers.Shutdown(ctx); err != nil {
		log.Error("Error shutting down telemetry", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// migrate brings the schema up to date. PostgreSQL uses the versioned SQL
// migrations embedded in the binary; SQLite is created from the GORM models.
func migrate(ctx context.Context, cfg *config.Config, db *persistence.Database, log *zap.Logger) error {
	if cfg.Database.Driver != config.DriverPostgres {
		log.Info("Auto-migrating SQLite schema")
		return db.AutoMigrate(ctx)
	}

	sqlDB, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return err
	}
	m, err := migration.Open(sqlDB, migrations.FS, log)
	if err != nil {
		_ = sqlDB.Close()
		return err
	}
	defer m.Close()

	log.Info("Applying SQL migrations")
	return m.Up()
}
