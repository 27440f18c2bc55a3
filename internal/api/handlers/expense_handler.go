package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"spendtrack/internal/auth"
	"spendtrack/internal/services"
)

// ExpenseHandler handles HTTP requests for expense management. Every route
// sits behind the auth middleware, so the caller's id is always present in
// the request context.
type ExpenseHandler struct {
	service services.ExpenseServiceProvider
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(service services.ExpenseServiceProvider) *ExpenseHandler {
	return &ExpenseHandler{service: service}
}

// Create handles expense creation. The owner is always the authenticated
// caller; a user_id in the payload is ignored.
func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var input services.ExpenseInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	expense, err := h.service.Create(caller, input)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expense)
}

// List returns the caller's expenses, most recent date first. A user_id
// query parameter naming anyone but the caller is rejected; listing other
// users' expenses would need an admin capability that does not exist.
func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	if filter := r.URL.Query().Get("user_id"); filter != "" {
		filterID, err := strconv.ParseInt(filter, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "user_id: must be an integer")
			return
		}
		if filterID != caller {
			writeError(w, http.StatusForbidden, "cannot list another user's expenses")
			return
		}
	}

	expenses, err := h.service.ListByUser(caller)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}

// Get handles retrieval of a single expense.
func (h *ExpenseHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, id, ok := h.callerAndID(w, r)
	if !ok {
		return
	}

	expense, err := h.service.Get(id, caller)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expense)
}

// Update replaces all mutable fields of an expense.
func (h *ExpenseHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, id, ok := h.callerAndID(w, r)
	if !ok {
		return
	}

	var input services.ExpenseInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	expense, err := h.service.Update(id, caller, input)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expense)
}

// Delete removes an expense.
func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, id, ok := h.callerAndID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(id, caller); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Stats returns the caller's per-category totals for one calendar month,
// defaulting to the current one.
func (h *ExpenseHandler) Stats(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	now := time.Now()
	year := now.Year()
	month := int(now.Month())

	if s := r.URL.Query().Get("year"); s != "" {
		y, err := strconv.Atoi(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "year: must be an integer")
			return
		}
		year = y
	}
	if s := r.URL.Query().Get("month"); s != "" {
		m, err := strconv.Atoi(s)
		if err != nil || m < 1 || m > 12 {
			writeError(w, http.StatusBadRequest, "month: must be between 1 and 12")
			return
		}
		month = m
	}

	totals, err := h.service.CategoryTotals(caller, year, time.Month(month))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

func (h *ExpenseHandler) callerAndID(w http.ResponseWriter, r *http.Request) (caller, id int64, ok bool) {
	caller, ok = auth.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return 0, 0, false
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "id: must be an integer")
		return 0, 0, false
	}
	return caller, id, true
}
