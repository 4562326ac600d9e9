package rest

import (
	"database/sql"
	"log/slog"

	"github.com/finledger/ledger-engine/internal/analytics"
	"github.com/finledger/ledger-engine/internal/category"
	"github.com/finledger/ledger-engine/internal/ledger"
	"github.com/finledger/ledger-engine/internal/report"
	"github.com/finledger/ledger-engine/internal/transport/middleware"
	"github.com/go-chi/chi"
)

// RegisterAllRoutes wires the mutation and read surfaces under /api/v1.
// There is no auth layer here: identity comes from the owning service in
// front of this one, and the X-Actor header names the audit principal.
func RegisterAllRoutes(
	router *chi.Mux,
	db *sql.DB,
	categoryHandler *category.Handler,
	ledgerHandler *ledger.Handler,
	analyticsHandler *analytics.Handler,
	reportHandler *report.Handler,
	logger *slog.Logger,
) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.RequestID)
	router.Use(middleware.Actor)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/users/{userID}", func(ur chi.Router) {
			if categoryHandler != nil {
				ur.Route("/categories", func(cr chi.Router) {
					cr.Post("/", categoryHandler.CreateCategory)
					cr.Get("/", categoryHandler.GetCategories)
					cr.Get("/hierarchy", categoryHandler.GetHierarchy)
					cr.Patch("/{id}/parent", categoryHandler.ReparentCategory)
					cr.Post("/{id}/deactivate", categoryHandler.DeactivateCategory)
				})
			}

			if ledgerHandler != nil {
				ur.Route("/transactions", func(tr chi.Router) {
					tr.Post("/", ledgerHandler.CreateTransaction)
					tr.Get("/", ledgerHandler.ListTransactions)
					tr.Get("/{id}", ledgerHandler.GetTransaction)
					tr.Patch("/{id}", ledgerHandler.UpdateTransaction)
					tr.Delete("/{id}", ledgerHandler.DeleteTransaction)
					tr.Get("/{id}/history", ledgerHandler.GetTransactionHistory)
				})
				ur.Get("/audit-trail", ledgerHandler.GetAuditTrail)
			}

			if analyticsHandler != nil {
				ur.Route("/analytics", func(ar chi.Router) {
					ar.Get("/monthly-summary", analyticsHandler.GetMonthlySummary)
					ar.Get("/category-totals", analyticsHandler.GetCategoryTotals)
					ar.Get("/balance-over-time", analyticsHandler.GetBalanceOverTime)
					ar.Get("/top-categories", analyticsHandler.GetTopCategories)
				})
			}

			if reportHandler != nil {
				ur.Get("/reports/monthly", reportHandler.GetMonthlyReport)
			}
		})
	})
}
