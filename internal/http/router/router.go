package router

import (
	"encoding/json"
	"net/http"

	"github.com/crestline-dev/budget-api/internal/auth"
	"github.com/crestline-dev/budget-api/internal/config"
	"github.com/crestline-dev/budget-api/internal/database"
	"github.com/crestline-dev/budget-api/internal/http/handler"
	"github.com/crestline-dev/budget-api/internal/http/middleware"
	"github.com/crestline-dev/budget-api/internal/ledger"
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/crestline-dev/budget-api/docs" // Import generated swagger docs
)

type Router struct {
	cfg                *config.Config
	logger             *zap.Logger
	db                 *gorm.DB
	ledgerClient       *ledger.Client
	authMiddleware     *auth.Middleware
	rateLimiter        *middleware.RateLimiter
	projectHandler     *handler.ProjectHandler
	planHandler        *handler.PlanHandler
	templateHandler    *handler.TemplateHandler
	budgetHandler      *handler.BudgetHandler
	changeOrderHandler *handler.ChangeOrderHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	ledgerClient *ledger.Client,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	projectHandler *handler.ProjectHandler,
	planHandler *handler.PlanHandler,
	templateHandler *handler.TemplateHandler,
	budgetHandler *handler.BudgetHandler,
	changeOrderHandler *handler.ChangeOrderHandler,
) *Router {
	return &Router{
		cfg:                cfg,
		logger:             logger,
		db:                 db,
		ledgerClient:       ledgerClient,
		authMiddleware:     authMiddleware,
		rateLimiter:        rateLimiter,
		projectHandler:     projectHandler,
		planHandler:        planHandler,
		templateHandler:    templateHandler,
		budgetHandler:      budgetHandler,
		changeOrderHandler: changeOrderHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)

	// Liveness probe
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Database readiness probe with pool stats
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheck(rt.db)
		if err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats":   stats,
		})
	})

	// Combined readiness check across dependencies
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		if _, err := database.HealthCheck(rt.db); err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}

		// The ledger is optional; "disabled" does not fail readiness
		ledgerStatus := rt.ledgerClient.HealthCheck(r.Context())
		checks["ledger"] = ledgerStatus
		if ledgerStatus.Status == "unhealthy" {
			allHealthy = false
		}

		w.Header().Set("Content-Type", "application/json")
		if allHealthy {
			w.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "healthy",
				"checks": checks,
			})
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "unhealthy",
				"checks": checks,
			})
		}
	})

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)
			// Authenticated callers get the per-actor allowance
			r.Use(rt.rateLimiter.Limit)

			// Projects
			r.Route("/projects", func(r chi.Router) {
				r.Get("/", rt.projectHandler.List)
				r.Post("/", rt.projectHandler.Create)
				r.Get("/{id}", rt.projectHandler.Get)

				// Budget versions
				r.Get("/{id}/budgets", rt.budgetHandler.ListByProject)
				r.Post("/{id}/budgets", rt.budgetHandler.Create)
				r.Get("/{id}/budgets/active", rt.budgetHandler.GetActive)
				r.Put("/{id}/budgets/{budgetId}/activate", rt.budgetHandler.Activate)

				// Change orders
				r.Post("/{id}/budgets/{budgetId}/change-orders", rt.changeOrderHandler.Create)
				r.Get("/{id}/change-orders", rt.changeOrderHandler.ListByProject)
				r.Get("/{id}/change-orders/summary", rt.changeOrderHandler.Summary)
			})

			// Plans
			r.Route("/plans", func(r chi.Router) {
				r.Get("/", rt.planHandler.List)
				r.Post("/", rt.planHandler.Create)
				r.Get("/{id}", rt.planHandler.Get)
				r.Put("/{id}", rt.planHandler.Update)
				r.Delete("/{id}", rt.planHandler.Delete)
			})

			// Templates (read-only seed source)
			r.Route("/templates", func(r chi.Router) {
				r.Get("/", rt.templateHandler.List)
				r.Get("/{id}", rt.templateHandler.Get)
			})

			// Budgets and line items
			r.Route("/budgets", func(r chi.Router) {
				r.Get("/{id}", rt.budgetHandler.Get)
				r.Put("/{id}", rt.budgetHandler.Update)
				r.Delete("/{id}", rt.budgetHandler.Delete)
				r.Get("/{id}/line-items", rt.budgetHandler.ListLineItems)
				r.Post("/{id}/line-items", rt.budgetHandler.CreateLineItem)
				r.Post("/{id}/line-items/bulk", rt.budgetHandler.BulkCreateLineItems)
				r.Put("/{id}/line-items/{itemId}", rt.budgetHandler.UpdateLineItem)
				r.Delete("/{id}/line-items/{itemId}", rt.budgetHandler.DeleteLineItem)
			})

			// Change order workflow
			r.Route("/change-orders", func(r chi.Router) {
				r.Get("/{id}", rt.changeOrderHandler.Get)
				r.Put("/{id}", rt.changeOrderHandler.Update)
				r.Delete("/{id}", rt.changeOrderHandler.Delete)
				r.Post("/{id}/approve", rt.changeOrderHandler.Approve)
				r.Post("/{id}/deny", rt.changeOrderHandler.Deny)
				r.Post("/{id}/pay", rt.changeOrderHandler.Pay)
				r.Post("/{id}/documents", rt.changeOrderHandler.UploadDocument)
				r.Get("/{id}/documents/{documentId}", rt.changeOrderHandler.DownloadDocument)
				r.Delete("/{id}/documents/{documentId}", rt.changeOrderHandler.DeleteDocument)
			})
		})
	})

	return r
}
