package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/abhinav07-codes/budget-blitz-buddy/internal/core"
	"github.com/abhinav07-codes/budget-blitz-buddy/internal/services"
)

const (
	cacheKeyAll    = "expenses:all"
	cacheKeyMonth  = "expenses:month"
	cacheKeyLimits = "limits"
)

type (
	expenseRequest struct {
		Title    string     `json:"title"`
		Amount   core.Money `json:"amount"`
		Category string     `json:"category"`
		Date     string     `json:"date,omitempty"`
		Notes    string     `json:"notes,omitempty"`
	}

	limitRequest struct {
		Limit core.Money `json:"limit"`
	}

	limitsResponse struct {
		Categories []core.CategoryLimit `json:"categories"`
		Daily      core.DailyLimit      `json:"daily"`
	}

	importResponse struct {
		Accepted int `json:"accepted"`
	}

	errorResponse struct {
		Error string `json:"error"`
	}
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// sanitizeInput removes control characters and trims whitespace
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// parseExpenseDate accepts RFC3339 timestamps or plain YYYY-MM-DD days.
func (s *Server) parseExpenseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.In(s.loc), true
	}
	if day, err := core.ParseDay(raw); err == nil {
		return day.Time(s.loc), true
	}
	return time.Time{}, false
}

func (s *Server) expenseFromRequest(w http.ResponseWriter, r *http.Request) (core.Expense, bool) {
	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON body")
		return core.Expense{}, false
	}

	title := sanitizeInput(req.Title)
	if title == "" {
		writeError(w, http.StatusUnprocessableEntity, "title is required")
		return core.Expense{}, false
	}
	if err := req.Amount.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "amount must be positive")
		return core.Expense{}, false
	}
	category, err := core.ParseCategory(req.Category)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "unknown category")
		return core.Expense{}, false
	}
	date, ok := s.parseExpenseDate(req.Date)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "date must be RFC3339 or YYYY-MM-DD")
		return core.Expense{}, false
	}

	return core.Expense{
		Title:    title,
		Amount:   req.Amount,
		Category: category,
		Date:     date,
		Notes:    sanitizeInput(req.Notes),
	}, true
}

func (s *Server) invalidateExpenseCaches() {
	s.expensesCache.Delete(cacheKeyAll)
	s.expensesCache.Delete(cacheKeyMonth)
	s.limitsCache.Delete(cacheKeyLimits)
}

func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListExpenses(w, r)
	case http.MethodPost:
		s.handleCreateExpense(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	if raw := strings.TrimSpace(r.URL.Query().Get("date")); raw != "" {
		day, err := core.ParseDay(raw)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "date must be YYYY-MM-DD")
			return
		}
		expenses, err := s.svc.ExpensesOn(r.Context(), day)
		if err != nil {
			slog.ErrorContext(r.Context(), "List day expenses failed", "error", err, "day", day.String())
			writeError(w, http.StatusInternalServerError, "could not list expenses")
			return
		}
		writeJSON(w, http.StatusOK, expenses)
		return
	}

	if cached, found := s.expensesCache.Get(cacheKeyAll); found {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	expenses, err := s.svc.ListExpenses(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List expenses failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not list expenses")
		return
	}
	s.expensesCache.Set(cacheKeyAll, expenses)
	writeJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	e, ok := s.expenseFromRequest(w, r)
	if !ok {
		return
	}

	created, err := s.svc.AddExpense(r.Context(), e)
	if err != nil {
		slog.ErrorContext(r.Context(), "Create expense failed", "error", err, "title", e.Title)
		writeError(w, http.StatusInternalServerError, "could not save expense")
		return
	}

	s.invalidateExpenseCaches()
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleMonthExpenses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if cached, found := s.expensesCache.Get(cacheKeyMonth); found {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	expenses, err := s.svc.ExpensesInCurrentMonth(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List month expenses failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not list expenses")
		return
	}
	s.expensesCache.Set(cacheKeyMonth, expenses)
	writeJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleExpenseByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/expenses/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		e, found, err := s.svc.GetExpense(r.Context(), id)
		if err != nil {
			slog.ErrorContext(r.Context(), "Get expense failed", "error", err, "expense_id", id)
			writeError(w, http.StatusInternalServerError, "could not load expense")
			return
		}
		if !found {
			writeError(w, http.StatusNotFound, "expense not found")
			return
		}
		writeJSON(w, http.StatusOK, e)

	case http.MethodPut:
		_, found, err := s.svc.GetExpense(r.Context(), id)
		if err != nil {
			slog.ErrorContext(r.Context(), "Get expense failed", "error", err, "expense_id", id)
			writeError(w, http.StatusInternalServerError, "could not load expense")
			return
		}
		if !found {
			writeError(w, http.StatusNotFound, "expense not found")
			return
		}

		e, ok := s.expenseFromRequest(w, r)
		if !ok {
			return
		}
		e.ID = id

		updated, err := s.svc.UpdateExpense(r.Context(), e)
		if err != nil {
			slog.ErrorContext(r.Context(), "Update expense failed", "error", err, "expense_id", id)
			writeError(w, http.StatusInternalServerError, "could not update expense")
			return
		}
		s.invalidateExpenseCaches()
		writeJSON(w, http.StatusOK, updated)

	case http.MethodDelete:
		if err := s.svc.DeleteExpense(r.Context(), id); err != nil {
			slog.ErrorContext(r.Context(), "Delete expense failed", "error", err, "expense_id", id)
			writeError(w, http.StatusInternalServerError, "could not delete expense")
			return
		}
		s.invalidateExpenseCaches()
		w.WriteHeader(http.StatusNoContent)

	default:
		w.Header().Set("Allow", "GET, PUT, DELETE")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleLimits(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if cached, found := s.limitsCache.Get(cacheKeyLimits); found {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	categories, err := s.svc.CategoryLimits(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List category limits failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not load limits")
		return
	}
	daily, err := s.svc.TodayLimit(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Load daily limit failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not load limits")
		return
	}

	resp := limitsResponse{Categories: categories, Daily: daily}
	s.limitsCache.Set(cacheKeyLimits, resp)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDailyLimit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		w.Header().Set("Allow", "PUT")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req limitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON body")
		return
	}
	if err := req.Limit.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "limit must be positive")
		return
	}

	if err := s.svc.SetDailyCeiling(r.Context(), req.Limit); err != nil {
		slog.ErrorContext(r.Context(), "Set daily ceiling failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not update limit")
		return
	}

	s.limitsCache.Delete(cacheKeyLimits)
	daily, err := s.svc.TodayLimit(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Load daily limit failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not load limit")
		return
	}
	writeJSON(w, http.StatusOK, daily)
}

func (s *Server) handleCategoryLimit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		w.Header().Set("Allow", "PUT")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	raw := strings.TrimPrefix(r.URL.Path, "/api/limits/categories/")
	category, err := core.ParseCategory(raw)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "unknown category")
		return
	}

	var req limitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON body")
		return
	}
	if err := req.Limit.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "limit must be positive")
		return
	}

	if err := s.svc.SetCategoryCeiling(r.Context(), category, req.Limit); err != nil {
		slog.ErrorContext(r.Context(), "Set category ceiling failed", "error", err, "category", category.String())
		writeError(w, http.StatusInternalServerError, "could not update limit")
		return
	}

	s.limitsCache.Delete(cacheKeyLimits)
	writeJSON(w, http.StatusOK, map[string]string{
		"category": category.String(),
		"limit":    req.Limit.String(),
	})
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	accepted, err := s.svc.ImportBatch(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Import failed", "error", err)
		if errors.Is(err, services.ErrSourceUnavailable) {
			writeError(w, http.StatusBadGateway, "payment source unavailable")
			return
		}
		writeError(w, http.StatusInternalServerError, "could not import transactions")
		return
	}

	s.invalidateExpenseCaches()
	writeJSON(w, http.StatusOK, importResponse{Accepted: accepted})
}
