package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"onhostel/internal/config"
	"onhostel/internal/domain"
	"onhostel/internal/models"
	"onhostel/internal/reports"
	"onhostel/internal/service"

	"github.com/rs/zerolog"
)

// Server exposes the panel HTTP API: sign-in, CRUD over the five record
// collections, occupancy grid, monthly summaries and report downloads.
type Server struct {
	cfg      config.APIConfig
	identity domain.Identity
	bookings *service.BookingService
	expenses *service.ExpenseService
	sendero  *service.SenderoService
	bar      *service.BarService
	finance  *service.FinanceService
	resync   *service.ResyncService
	reports  *reports.Generator
	sessions domain.SessionRepository
	units    []models.Unit
	logger   *zerolog.Logger
	server   *http.Server
	limiters sync.Map // map[string]*rate.Limiter
}

// Deps packs the collaborators the server needs.
type Deps struct {
	Identity domain.Identity
	Bookings *service.BookingService
	Expenses *service.ExpenseService
	Sendero  *service.SenderoService
	Bar      *service.BarService
	Finance  *service.FinanceService
	Resync   *service.ResyncService
	Reports  *reports.Generator
	Sessions domain.SessionRepository
	Units    []models.Unit
}

func NewServer(cfg config.APIConfig, deps Deps, logger *zerolog.Logger) *Server {
	s := &Server{
		cfg:      cfg,
		identity: deps.Identity,
		bookings: deps.Bookings,
		expenses: deps.Expenses,
		sendero:  deps.Sendero,
		bar:      deps.Bar,
		finance:  deps.Finance,
		resync:   deps.Resync,
		reports:  deps.Reports,
		sessions: deps.Sessions,
		units:    deps.Units,
		logger:   logger,
	}

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	return s
}

// Handler builds the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/v1/auth/signin", s.handleSignIn)
	mux.HandleFunc("/api/v1/auth/signout", s.handleSignOut)

	mux.HandleFunc("/api/v1/units", s.handleUnits)
	mux.HandleFunc("/api/v1/occupancy", s.handleOccupancy)

	mux.HandleFunc("/api/v1/bookings", s.handleBookings)
	mux.HandleFunc("/api/v1/bookings/", s.handleBookingByID)

	mux.HandleFunc("/api/v1/expenses", s.handleExpenses)
	mux.HandleFunc("/api/v1/expenses/defaults", s.handleExpenseDefaults)
	mux.HandleFunc("/api/v1/expenses/", s.handleExpenseByID)

	mux.HandleFunc("/api/v1/sendero", s.handleSendero)
	mux.HandleFunc("/api/v1/sendero/", s.handleSenderoByID)

	mux.HandleFunc("/api/v1/bar/transactions", s.handleBarTransactions)
	mux.HandleFunc("/api/v1/bar/transactions/", s.handleBarTransactionByID)
	mux.HandleFunc("/api/v1/bar/inventory", s.handleBarInventory)
	mux.HandleFunc("/api/v1/bar/inventory/", s.handleBarInventoryByID)

	mux.HandleFunc("/api/v1/summary", s.handleSummary)
	mux.HandleFunc("/api/v1/summary/movements", s.handleMovements)
	mux.HandleFunc("/api/v1/summary/trend", s.handleTrend)
	mux.HandleFunc("/api/v1/summary/bar", s.handleBarSummary)

	mux.HandleFunc("/api/v1/reports/monthly", s.handleMonthlyReport)
	mux.HandleFunc("/api/v1/reports/bar", s.handleBarReport)

	mux.HandleFunc("/api/v1/resync", s.handleResync)

	return s.loggingMiddleware(s.rateLimitMiddleware(s.authMiddleware(mux)))
}

// Start blocks serving HTTP until Shutdown.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}
