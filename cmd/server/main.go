package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appinvoicing "github.com/cloudbroker/backend/internal/application/invoicing"
	"github.com/cloudbroker/backend/internal/domain/invoicing"
	"github.com/cloudbroker/backend/internal/infrastructure/config"
	"github.com/cloudbroker/backend/internal/infrastructure/logger"
	"github.com/cloudbroker/backend/internal/infrastructure/persistence"
	"github.com/cloudbroker/backend/internal/infrastructure/scheduler"
	"github.com/cloudbroker/backend/internal/interfaces/http/handler"
	"github.com/cloudbroker/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
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
		_ = logger.Sync(log)
	}()

	log.Info("Starting broker backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))

	// Initialize database connection
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := persistence.AutoMigrate(db.DB); err != nil {
		log.Fatal("Failed to migrate database schema", zap.Error(err))
	}

	// Initialize repositories
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	packageRepo := persistence.NewGormTenantPackageRepository(db.DB)
	offeringRepo := persistence.NewGormSupportOfferingRepository(db.DB)
	contractRepo := persistence.NewGormExpertContractRepository(db.DB)

	// Assemble the registrator registry
	registry, err := invoicing.NewRegistry(
		appinvoicing.NewTenantPackageRegistrator(packageRepo),
		appinvoicing.NewSupportOfferingRegistrator(offeringRepo),
		appinvoicing.NewExpertContractRegistrator(contractRepo),
	)
	if err != nil {
		log.Fatal("Failed to build registrator registry", zap.Error(err))
	}

	// Initialize application services
	registrationManager := appinvoicing.NewRegistrationManager(registry, invoiceRepo, customerRepo, log)
	rolloverService := appinvoicing.NewRolloverService(invoiceRepo, customerRepo, registrationManager, log)
	queryService := appinvoicing.NewInvoiceQueryService(invoiceRepo)

	// Start the rollover trigger (if enabled)
	if cfg.Billing.RolloverEnabled {
		trigger := scheduler.NewRolloverTrigger(scheduler.RolloverTriggerConfig{
			RunHour:       cfg.Billing.RolloverHour,
			CheckInterval: cfg.Billing.RolloverCheckInterval,
		}, rolloverService, log)
		if err := trigger.Start(context.Background()); err != nil {
			log.Fatal("Failed to start rollover trigger", zap.Error(err))
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := trigger.Stop(stopCtx); err != nil {
				log.Error("Error stopping rollover trigger", zap.Error(err))
			}
		}()
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize HTTP surface
	invoiceHandler := handler.NewInvoiceHandler(queryService, cfg.Billing.PaymentIntervalDays)
	engine := router.New(log, invoiceHandler).Setup()

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", zap.Error(err))
	}
}
