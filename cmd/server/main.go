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
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"loan-origination.backend/internal/config"
	"loan-origination.backend/internal/infrastructure/bureau"
	datasource "loan-origination.backend/internal/infrastructure/datasources/postgres"
	"loan-origination.backend/internal/infrastructure/jobs"
	"loan-origination.backend/internal/infrastructure/metrics"
	"loan-origination.backend/internal/infrastructure/repositories"
	"loan-origination.backend/internal/interfaces/http/handlers"
	"loan-origination.backend/internal/interfaces/http/middleware"
	"loan-origination.backend/internal/usecases"
	"loan-origination.backend/pkg/jwt"
	"loan-origination.backend/pkg/logger"
	"loan-origination.backend/pkg/redis"
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
	migrateDB = func(cfg config.DatabaseConfig) error {
		conn, err := datasource.NewConnection(cfg)
		if err != nil {
			return err
		}
		defer conn.Close()
		return datasource.RunMigrations(conn)
	}
	newMetrics = metrics.New
	runServer  = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB   = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
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

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	ctx := context.Background()
	logger.Info(ctx, "Logger initialized", zap.String("env", cfg.Server.Env))

	// Redis only backs idempotency, which fails open
	if err := initRedis(cfg.Redis.URL, cfg.Redis.PASSWORD); err != nil {
		logger.Warn(ctx, "Redis unavailable, idempotency keys disabled", zap.Error(err))
		redis.SetClient(nil)
	} else {
		logger.Info(ctx, "Redis initialized")
		defer redis.Close()
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if cfg.Database.AutoMigrate {
		if err := migrateDB(cfg.Database); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		logger.Info(ctx, "Database migrations applied")
	}

	db, err := openDB(cfg.Database.URL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		logger.Warn(ctx, "Database not available, endpoints will return errors", zap.Error(err))
	} else {
		logger.Info(ctx, "Connected to PostgreSQL via GORM")
	}

	jwtService := jwt.NewJWTService(
		cfg.JWT.Secret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)
	m := newMetrics()

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	appRepo := repositories.NewLoanApplicationRepository(db)
	eventRepo := repositories.NewApplicationEventRepository(db)
	checkRepo := repositories.NewCreditCheckRepository(db)
	profileRepo := repositories.NewCreditProfileRepository(db)
	uow := repositories.NewUnitOfWork(db)

	// Initialize usecases
	authUsecase := usecases.NewAuthUsecase(userRepo, jwtService)
	creditCheckUsecase := usecases.NewCreditCheckUsecase(uow, profileRepo, m)
	creditBureau := bureau.NewCICBureau(creditCheckUsecase, cfg.Bureau.Institution)
	applicationUsecase := usecases.NewApplicationUsecase(appRepo, checkRepo)
	workflowUsecase := usecases.NewWorkflowUsecase(
		uow, appRepo, eventRepo, userRepo,
		usecases.NewExpertSelector(cfg.Workflow.ExpertSelection), m,
	)
	applicationCreditUsecase := usecases.NewApplicationCreditUsecase(
		uow, appRepo, eventRepo, checkRepo,
		creditCheckUsecase, creditBureau,
		cfg.Bureau.Timeout, cfg.Bureau.Institution, m,
	)
	creditProfileUsecase := usecases.NewCreditProfileUsecase(uow, profileRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authUsecase)
	applicationHandler := handlers.NewApplicationHandler(applicationUsecase, workflowUsecase)
	creditHandler := handlers.NewCreditHandler(applicationCreditUsecase, creditCheckUsecase)
	creditProfileHandler := handlers.NewCreditProfileHandler(creditProfileUsecase)

	// Start background jobs
	jobCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	staleJob := jobs.NewStaleCreditCheckJob(checkRepo, cfg.Jobs.StaleCheckInterval, cfg.Jobs.StaleCheckAfter, m)
	go staleJob.Start(jobCtx)
	defer staleJob.Stop()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware("/health", "/metrics"))

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	registerMetricsRoute(r)
	registerAPIV1Routes(r, routeDeps{
		authHandler:          authHandler,
		applicationHandler:   applicationHandler,
		creditHandler:        creditHandler,
		creditProfileHandler: creditProfileHandler,
		authMiddleware:       middleware.AuthMiddleware(jwtService),
	})

	for _, route := range r.Routes() {
		logger.Debug(ctx, "Route registered", zap.String("method", route.Method), zap.String("path", route.Path))
	}

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info(ctx, "Shutting down server")
		staleJob.Stop()
		cancel()
	}()

	logger.Info(ctx, "Loan origination backend starting",
		zap.String("port", cfg.Server.Port),
		zap.String("api", "http://localhost:"+cfg.Server.Port+"/api/v1"),
	)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
