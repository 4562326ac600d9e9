package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/finledger/ledger-engine/internal"
	"github.com/finledger/ledger-engine/internal/analytics"
	analyticsPostgres "github.com/finledger/ledger-engine/internal/analytics/postgres"
	auditPostgres "github.com/finledger/ledger-engine/internal/audit/postgres"
	"github.com/finledger/ledger-engine/internal/category"
	categoryPostgres "github.com/finledger/ledger-engine/internal/category/postgres"
	"github.com/finledger/ledger-engine/internal/ledger"
	ledgerPostgres "github.com/finledger/ledger-engine/internal/ledger/postgres"
	"github.com/finledger/ledger-engine/internal/report"
	"github.com/finledger/ledger-engine/internal/transport/rest"
	"github.com/finledger/ledger-engine/internal/user"
	userPostgres "github.com/finledger/ledger-engine/internal/user/postgres"
	"github.com/finledger/ledger-engine/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle ledger API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config           *internal.Config
	DB               *sqlx.DB
	Gorm             *gorm.DB
	Router           *chi.Mux
	Logger           *slog.Logger
	CategoryHandler  *category.Handler
	LedgerHandler    *ledger.Handler
	AnalyticsHandler *analytics.Handler
	ReportHandler    *report.Handler
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(
		deps.Router,
		deps.DB.DB,
		deps.CategoryHandler,
		deps.LedgerHandler,
		deps.AnalyticsHandler,
		deps.ReportHandler,
		deps.Logger,
	)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Logging.Format, config.Logging.Level)
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ORM: %w", err)
	}

	categoryRepo := categoryPostgres.NewCategoryRepository(gormDB)
	categoryService := category.NewService(categoryRepo, lg)

	auditRepo := auditPostgres.NewAuditRepository(gormDB)
	ledgerRepo := ledgerPostgres.NewLedgerRepository(gormDB, auditRepo)
	ledgerService := ledger.NewService(ledgerRepo, categoryService, auditRepo, lg)

	userRepo := userPostgres.NewUserRepository(gormDB)
	userService := user.NewService(userRepo, lg)

	analyticsRepo := analyticsPostgres.NewAnalyticsRepository(gormDB)
	analyticsService := analytics.NewService(analyticsRepo, userService, lg)

	reportService := report.NewService(analyticsService, ledgerRepo, userService, lg)

	return &Dependencies{
		Config:           config,
		Logger:           lg,
		DB:               db,
		Gorm:             gormDB,
		Router:           chi.NewRouter(),
		CategoryHandler:  category.NewHandler(categoryService),
		LedgerHandler:    ledger.NewHandler(ledgerService),
		AnalyticsHandler: analytics.NewHandler(analyticsService),
		ReportHandler:    report.NewHandler(reportService),
	}, nil
}

// initDB initializes the plain database connection used for health checks
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm opens the ORM connection the repositories run on
func initGorm(cfg internal.DatabaseConfig) (*gorm.DB, error) {
	gormDB, err := gorm.Open(gormPostgres.Open(cfg.Source), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm connection: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access underlying connection: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return gormDB, nil
}
