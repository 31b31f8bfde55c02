package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/crestline-dev/budget-api/docs"
	"github.com/crestline-dev/budget-api/internal/auth"
	"github.com/crestline-dev/budget-api/internal/config"
	"github.com/crestline-dev/budget-api/internal/database"
	"github.com/crestline-dev/budget-api/internal/http/handler"
	"github.com/crestline-dev/budget-api/internal/http/middleware"
	"github.com/crestline-dev/budget-api/internal/http/router"
	"github.com/crestline-dev/budget-api/internal/jobs"
	"github.com/crestline-dev/budget-api/internal/ledger"
	"github.com/crestline-dev/budget-api/internal/logger"
	"github.com/crestline-dev/budget-api/internal/repository"
	"github.com/crestline-dev/budget-api/internal/service"
	"github.com/crestline-dev/budget-api/internal/storage"
	"go.uber.org/zap"
)

// @title Crestline Budget API
// @version 1.0
// @description Budget versioning and change order reconciliation for property development projects

// @contact.name API Support
// @contact.email support@crestline.dev

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key
// @description API Key for system operations

const jobTimeout = 2 * time.Minute

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	// Configure Swagger host based on environment
	switch basicCfg.App.Environment {
	case "staging":
		docs.SwaggerInfo.Host = "budget-api-staging.crestline.dev"
	case "production":
		docs.SwaggerInfo.Host = "budget-api.crestline.dev"
	default:
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	}

	// Load full configuration with secrets.
	// Development uses environment variables; staging/production fetch from
	// Azure Key Vault. Ledger credentials only ever come from Key Vault.
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	fileStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	// The ledger connection is optional and read-only. Without it the
	// posted-entries check before budget deletion is skipped.
	ledgerClient, err := ledger.NewClient(&cfg.Ledger, log)
	if err != nil {
		log.Warn("Ledger connection failed, continuing without it", zap.Error(err))
		ledgerClient = nil
	}

	// Repositories
	projectRepo := repository.NewProjectRepository(db)
	planRepo := repository.NewPlanRepository(db)
	templateRepo := repository.NewTemplateRepository(db)
	budgetRepo := repository.NewBudgetRepository(db)
	lineItemRepo := repository.NewLineItemRepository(db)
	changeOrderRepo := repository.NewChangeOrderRepository(db)

	// Services
	projectService := service.NewProjectService(projectRepo, log)
	planService := service.NewPlanService(planRepo, log)
	templateService := service.NewTemplateService(templateRepo, log)
	budgetService := service.NewBudgetService(budgetRepo, lineItemRepo, projectRepo, planRepo, templateRepo, ledgerClient, log)
	changeOrderService := service.NewChangeOrderService(changeOrderRepo, budgetRepo, lineItemRepo, fileStorage, log)

	// Middleware
	authMiddleware := auth.NewMiddleware(cfg, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Handlers
	projectHandler := handler.NewProjectHandler(projectService, log)
	planHandler := handler.NewPlanHandler(planService, log)
	templateHandler := handler.NewTemplateHandler(templateService, log)
	budgetHandler := handler.NewBudgetHandler(budgetService, log)
	changeOrderHandler := handler.NewChangeOrderHandler(changeOrderService, cfg.Storage.MaxUploadSizeMB, log)

	rt := router.NewRouter(
		cfg,
		log,
		db,
		ledgerClient,
		authMiddleware,
		rateLimiter,
		projectHandler,
		planHandler,
		templateHandler,
		budgetHandler,
		changeOrderHandler,
	)

	// Background jobs: plan catalog refresh + approval deadline sweep
	var scheduler *jobs.Scheduler
	if cfg.Jobs.Enabled {
		scheduler = jobs.NewScheduler(log)

		catalogJob := jobs.NewCatalogRefreshJob(planService, log, jobTimeout)
		if err := scheduler.AddJob(jobs.CatalogRefreshJobName, cfg.Jobs.CatalogRefreshSchedule, catalogJob.Run); err != nil {
			log.Error("Failed to register catalog refresh job", zap.Error(err))
		}

		deadlineJob := jobs.NewDeadlineSweepJob(changeOrderService, log, jobTimeout)
		if err := scheduler.AddJob(jobs.DeadlineSweepJobName, cfg.Jobs.DeadlineSweepSchedule, deadlineJob.Run); err != nil {
			log.Error("Failed to register deadline sweep job", zap.Error(err))
		}

		scheduler.Start()
		log.Info("Scheduler started",
			zap.Strings("jobs", scheduler.GetJobNames()),
		)
	} else {
		log.Info("Background jobs disabled")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		if scheduler != nil {
			ctx := scheduler.Stop()
			<-ctx.Done()
			log.Info("Scheduler stopped")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		if err := ledgerClient.Close(); err != nil {
			log.Warn("Error closing ledger connection", zap.Error(err))
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
