// Package server is the JSON API behind the back-office screens.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fleetbooks/fleetbooks/internal/config"
	"github.com/fleetbooks/fleetbooks/internal/model"
	"github.com/fleetbooks/fleetbooks/internal/store"
)

// Server routes API requests to the store and the book-keeping packages.
type Server struct {
	tables   *store.Tables
	cfg      *config.Config
	logger   *zap.Logger
	validate *validator.Validate
	metrics  *Metrics
	registry *prometheus.Registry
	router   chi.Router
	now      func() time.Time
}

// New builds the server and its routes. A nil registry gets a private one.
func New(tables *store.Tables, cfg *config.Config, logger *zap.Logger, registry *prometheus.Registry) *Server {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	s := &Server{
		tables:   tables,
		cfg:      cfg,
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		metrics:  NewMetrics(registry),
		registry: registry,
		now:      time.Now,
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(s.metrics.Middleware)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(api chi.Router) {
		api.Route("/journal_entries", func(je chi.Router) {
			je.Get("/", s.handleListEntries)
			je.Post("/", s.handleCreateEntry)
			je.Get("/{id}", s.handleGetEntry)
			je.Delete("/{id}", s.handleDeleteEntry)
			je.Post("/{id}/post", s.handlePostEntry)
			je.Post("/{id}/void", s.handleVoidEntry)
		})

		api.Route("/reports", func(rep chi.Router) {
			rep.Get("/trial-balance", s.handleTrialBalance)
			rep.Get("/balance-sheet", s.handleBalanceSheet)
			rep.Get("/income-statement", s.handleIncomeStatement)
			rep.Get("/ledger/{code}", s.handleLedger)
			rep.Get("/commissions/{driverID}", s.handleCommissions)
			rep.Get("/companies/{companyID}", s.handleCompanyStatement)
			rep.Get("/loads", s.handleLoadSummary)
			rep.Get("/payroll/{month}", s.handlePayrollReport)
			rep.Get("/stock", s.handleStock)
			rep.Get("/vehicle-costs", s.handleVehicleCosts)
		})

		api.Post("/payroll/{month}", s.handleRunPayroll)
		api.Post("/stock/issue", s.handleIssue)

		t := s.tables
		mount(s, api, t.Accounts, hooks[*model.Account]{check: s.checkAccount, checkDelete: s.checkAccountDelete})
		mount(s, api, t.Companies, hooks[*model.Company]{})
		mount(s, api, t.Vehicles, hooks[*model.Vehicle]{})
		mount(s, api, t.Drivers, hooks[*model.Driver]{
			check: s.defaultDriver,
			extra: func(r chi.Router) { r.Post("/{id}/pay-commission", s.handlePayCommission) },
		})
		mount(s, api, t.Loads, hooks[*model.Load]{
			check:       s.checkLoad,
			checkDelete: s.checkLoadDelete,
			extra:       func(r chi.Router) { r.Post("/{id}/deliver", s.handleDeliver) },
		})
		mount(s, api, t.Employees, hooks[*model.Employee]{})
		mount(s, api, t.SpareParts, hooks[*model.SparePart]{check: s.defaultPart})
		mount(s, api, t.Suppliers, hooks[*model.Supplier]{})
		mount(s, api, t.PurchaseOrders, hooks[*model.PurchaseOrder]{
			check:       s.checkPurchaseOrder,
			checkDelete: s.checkPurchaseOrderDelete,
			extra:       func(r chi.Router) { r.Post("/{id}/receive", s.handleReceive) },
		})
		mount(s, api, t.StockMovements, hooks[*model.StockMovement]{readOnly: true})
		mount(s, api, t.PayrollRuns, hooks[*model.PayrollRun]{readOnly: true})
		mount(s, api, t.Activity, hooks[*model.Activity]{readOnly: true})
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sqlDB, err := s.tables.DB().DB()
	if err == nil {
		err = sqlDB.PingContext(r.Context())
	}
	if err != nil {
		s.logger.Warn("health check failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Server.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
