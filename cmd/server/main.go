package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"expensetrack.backend/internal/config"
	"expensetrack.backend/internal/domain/entities"
	"expensetrack.backend/internal/infrastructure/jobs"
	"expensetrack.backend/internal/infrastructure/repositories"
	"expensetrack.backend/internal/interfaces/http/handlers"
	"expensetrack.backend/internal/interfaces/http/middleware"
	"expensetrack.backend/internal/usecases"
	"expensetrack.backend/pkg/cache"
	"expensetrack.backend/pkg/logger"
	"expensetrack.backend/pkg/metrics"
	"expensetrack.backend/pkg/redis"
	"expensetrack.backend/pkg/token"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	}
	runServer = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB  = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	// Load .env file
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := loadCfg()

	// Initialize Logger
	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	// Initialize Redis
	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(context.Background(), "Redis initialized")

	// Set Gin mode
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database using GORM
	dsn := cfg.Database.URL()
	db, err := openDB(dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Printf("⚠️ Database not available: %v (endpoints will return errors)", err)
	} else {
		log.Println("✅ Connected to PostgreSQL via GORM")
	}

	// Initialize token service
	tokenService := token.NewTokenService(cfg.Auth.Secret, cfg.Auth.SessionTTL)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	companyRepo := repositories.NewCompanyRepository(db)
	apiKeyRepo := repositories.NewApiKeyRepository(db)
	auditRepo := repositories.NewAuditRepository(db)
	expenseRepo := repositories.NewExpenseRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	uow := repositories.NewUnitOfWork(db)

	// In-process caches
	principals := cache.NewWithCapacity[*entities.User](cfg.Cache.MaxEntries)
	listings := cache.New[[]*entities.Category]()

	// Metrics aggregator with its own prometheus registry
	registry := prometheus.NewRegistry()
	aggregator := metrics.NewAggregator(registry)

	// Initialize usecases
	resolver := usecases.NewTenantResolver(companyRepo)
	auditTrail := usecases.NewAuditTrail(auditRepo)
	gate := usecases.NewAccessGate(tokenService, userRepo, apiKeyRepo, resolver, principals, cfg.Cache.PrincipalTTL)
	authUsecase := usecases.NewAuthUsecase(userRepo, tokenService, gate)
	userUsecase := usecases.NewUserUsecase(userRepo, uow, auditTrail, tokenService, gate)
	apiKeyUsecase := usecases.NewApiKeyUsecase(apiKeyRepo, uow, auditTrail, tokenService, gate)
	expenseUsecase := usecases.NewExpenseUsecase(expenseRepo, categoryRepo, uow, auditTrail)
	categoryUsecase := usecases.NewCategoryUsecase(categoryRepo, expenseRepo, uow, auditTrail, listings)
	companyUsecase := usecases.NewCompanyUsecase(companyRepo, uow, auditTrail)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authUsecase, userUsecase)
	userHandler := handlers.NewUserHandler(userUsecase)
	apiKeyHandler := handlers.NewApiKeyHandler(apiKeyUsecase)
	expenseHandler := handlers.NewExpenseHandler(expenseUsecase, gate)
	categoryHandler := handlers.NewCategoryHandler(categoryUsecase, gate)
	companyHandler := handlers.NewCompanyHandler(companyUsecase)
	auditHandler := handlers.NewAuditHandler(auditTrail)
	monitoringHandler := handlers.NewMonitoringHandler(aggregator, principals, listings)

	authMiddleware := middleware.AuthMiddleware(gate)
	apiKeyMiddleware := middleware.APIKeyMiddleware(gate)

	// Start background jobs
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sweepJob := jobs.NewCacheSweepJob(cfg.Cache.SweepInterval, map[string]jobs.Sweepable{
		"principals":        principals,
		"category_listings": listings,
	})
	go sweepJob.Start(ctx)

	flushJob := jobs.NewMetricsFlushJob(aggregator, cfg.Metrics.FlushInterval)
	go flushJob.Start(ctx)

	// Initialize router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware(aggregator))

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	registerMetricsRoute(r, registry)
	registerAPIV1Routes(r, routeDeps{
		authHandler:       authHandler,
		userHandler:       userHandler,
		apiKeyHandler:     apiKeyHandler,
		expenseHandler:    expenseHandler,
		categoryHandler:   categoryHandler,
		companyHandler:    companyHandler,
		auditHandler:      auditHandler,
		monitoringHandler: monitoringHandler,
		authMiddleware:    authMiddleware,
		apiKeyMiddleware:  apiKeyMiddleware,
	})

	// Print all registered routes for debugging
	log.Println("📋 Registered Routes:")
	for _, route := range r.Routes() {
		log.Printf("   %s %s", route.Method, route.Path)
	}

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("🛑 Shutting down server...")
		sweepJob.Stop()
		flushJob.Stop()
		cancel()
	}()

	// Start server
	log.Printf("🚀 ExpenseTrack Backend starting on port %s", cfg.Server.Port)
	log.Printf("📚 API: http://localhost:%s/api/v1", cfg.Server.Port)
	log.Printf("❤️ Health: http://localhost:%s/health", cfg.Server.Port)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
