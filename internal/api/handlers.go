package api

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"onhostel/internal/auth"
	"onhostel/internal/database"
	"onhostel/internal/models"
	"onhostel/internal/service"
)

// monthParam parses the ?month=YYYY-MM query parameter, defaulting to the
// current month.
func monthParam(r *http.Request) (time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("month"))
	if raw == "" {
		return time.Now(), nil
	}
	month, err := time.ParseInLocation("2006-01", raw, time.Local)
	if err != nil {
		return time.Time{}, errors.New("invalid month format; expected YYYY-MM")
	}
	return month, nil
}

// idFromPath extracts the trailing record id from a prefixed path.
func idFromPath(r *http.Request, prefix string) string {
	id := strings.TrimPrefix(r.URL.Path, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return strings.TrimSpace(id)
}

// requireConfirm enforces the explicit confirmation step on destructive
// operations.
func requireConfirm(w http.ResponseWriter, r *http.Request) bool {
	if r.URL.Query().Get("confirm") != "true" {
		writeError(w, http.StatusBadRequest, "destructive operation requires confirm=true")
		return false
	}
	return true
}

// writeServiceError maps service failures onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	var stockErr *service.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":     stockErr.Error(),
			"item_name": stockErr.ItemName,
			"available": stockErr.Available,
		})
	case database.IsNotFound(err):
		writeError(w, http.StatusNotFound, "record not found")
	case isValidationError(err):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func isValidationError(err error) bool {
	for _, v := range []error{
		service.ErrMissingUnit, service.ErrUnknownUnit, service.ErrMissingGuestName,
		service.ErrInvalidDates, service.ErrMissingAmount, service.ErrMissingDesc,
		service.ErrInvalidPayment, service.ErrInvalidTxType, service.ErrMissingEmployee,
		service.ErrInvalidQuantity, service.ErrMissingName,
	} {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	token, uid, err := s.identity.SignIn(r.Context(), body.Email, body.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, auth.ErrInvalidCredentials.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token, "user_id": uid})
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if err := s.identity.SignOut(r.Context(), userID(r)); err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}

func (s *Server) handleUnits(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"units": s.units})
}

func (s *Server) handleOccupancy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	month, err := monthParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	grid, err := s.bookings.Occupancy(r.Context(), month)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"occupancy": grid})
}

func (s *Server) handleBookings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		bookings, err := s.bookings.GetBookings(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings})
	case http.MethodPost:
		var booking models.Booking
		if err := decodeJSON(r, &booking); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := s.bookings.CreateBooking(r.Context(), &booking); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, booking)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleBookingByID(w http.ResponseWriter, r *http.Request) {
	id := idFromPath(r, "/api/v1/bookings/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "booking id is required")
		return
	}

	switch r.Method {
	case http.MethodPut:
		var booking models.Booking
		if err := decodeJSON(r, &booking); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		booking.ID = id
		if err := s.bookings.UpdateBooking(r.Context(), &booking); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, booking)
	case http.MethodDelete:
		if !requireConfirm(w, r) {
			return
		}
		if err := s.bookings.DeleteBooking(r.Context(), id); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		expenses, err := s.expenses.GetExpenses(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"expenses": expenses})
	case http.MethodPost:
		var expense models.Expense
		if err := decodeJSON(r, &expense); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := s.expenses.CreateExpense(r.Context(), &expense, userID(r)); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, expense)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleExpenseDefaults returns the remembered expense form values from
// the user's session context.
func (s *Server) handleExpenseDefaults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	session, err := s.sessions.GetSession(r.Context(), userID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"date":           session.ExpenseDateOrDefault(time.Now()).Format("2006-01-02"),
		"payment_method": session.ExpenseMethodOrDefault(),
	})
}

func (s *Server) handleExpenseByID(w http.ResponseWriter, r *http.Request) {
	id := idFromPath(r, "/api/v1/expenses/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "expense id is required")
		return
	}
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !requireConfirm(w, r) {
		return
	}
	if err := s.expenses.DeleteExpense(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleSendero(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		records, err := s.sendero.GetRecords(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"records": records})
	case http.MethodPost:
		var record models.SenderoRecord
		if err := decodeJSON(r, &record); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := s.sendero.CreateRecord(r.Context(), &record); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, record)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleSenderoByID(w http.ResponseWriter, r *http.Request) {
	id := idFromPath(r, "/api/v1/sendero/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "record id is required")
		return
	}
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !requireConfirm(w, r) {
		return
	}
	if err := s.sendero.DeleteRecord(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleBarTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		txs, err := s.bar.GetTransactions(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"transactions": txs})
	case http.MethodPost:
		var tx models.BarTransaction
		if err := decodeJSON(r, &tx); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := s.bar.CreateTransaction(r.Context(), &tx); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, tx)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleBarTransactionByID(w http.ResponseWriter, r *http.Request) {
	id := idFromPath(r, "/api/v1/bar/transactions/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "transaction id is required")
		return
	}

	switch r.Method {
	case http.MethodPut:
		var tx models.BarTransaction
		if err := decodeJSON(r, &tx); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		tx.ID = id
		if err := s.bar.UpdateTransaction(r.Context(), &tx); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, tx)
	case http.MethodDelete:
		if !requireConfirm(w, r) {
			return
		}
		if err := s.bar.DeleteTransaction(r.Context(), id); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleBarInventory(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		items, err := s.bar.GetInventory(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items})
	case http.MethodPost:
		var item models.BarInventoryItem
		if err := decodeJSON(r, &item); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := s.bar.CreateItem(r.Context(), &item); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, item)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleBarInventoryByID(w http.ResponseWriter, r *http.Request) {
	id := idFromPath(r, "/api/v1/bar/inventory/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "item id is required")
		return
	}

	switch r.Method {
	case http.MethodPut:
		var item models.BarInventoryItem
		if err := decodeJSON(r, &item); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		item.ID = id
		if err := s.bar.UpdateItem(r.Context(), &item); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, item)
	case http.MethodDelete:
		if !requireConfirm(w, r) {
			return
		}
		if err := s.bar.DeleteItem(r.Context(), id); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	month, err := monthParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, growth, err := s.finance.MonthlySummary(r.Context(), month)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"summary": summary, "growth_percent": growth})
}

func (s *Server) handleMovements(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	month, err := monthParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil || page < 1 {
			writeError(w, http.StatusBadRequest, "invalid page")
			return
		}
	}

	result, err := s.finance.Movements(r.Context(), userID(r), month, r.URL.Query().Get("q"), page)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	month, err := monthParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	buckets, err := s.finance.TrendWindow(r.Context(), month)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"trend": buckets})
}

func (s *Server) handleBarSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	month, err := monthParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := s.finance.BarSummary(r.Context(), month)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	s.serveReport(w, r, s.reports.MonthlyReport)
}

func (s *Server) handleBarReport(w http.ResponseWriter, r *http.Request) {
	s.serveReport(w, r, s.reports.BarReport)
}

func (s *Server) serveReport(w http.ResponseWriter, r *http.Request, generate func(ctx context.Context, month time.Time) (string, error)) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	month, err := monthParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	path, err := generate(r.Context(), month)
	if err != nil {
		s.logger.Error().Err(err).Msg("report generation failed")
		writeError(w, http.StatusInternalServerError, "report generation failed")
		return
	}

	w.Header().Set("Content-Disposition", "attachment; filename="+filepath.Base(path))
	http.ServeFile(w, r, path)
}

func (s *Server) handleResync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.resync == nil {
		writeError(w, http.StatusServiceUnavailable, "remote store is not configured")
		return
	}

	snapshot, err := s.resync.Resync(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("resync failed")
		writeError(w, http.StatusBadGateway, "resync failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"taken_at":         snapshot.TakenAt,
		"bookings":         len(snapshot.Bookings),
		"expenses":         len(snapshot.Expenses),
		"sendero_records":  len(snapshot.SenderoRecords),
		"bar_transactions": len(snapshot.BarTxs),
		"bar_inventory":    len(snapshot.BarInventory),
	})
}
