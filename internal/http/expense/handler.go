package expense

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vyapari/internal/auth"
	"github.com/MrJamesThe3rd/vyapari/internal/export"
	"github.com/MrJamesThe3rd/vyapari/internal/ledger"
)

type Handler struct {
	svc    *ledger.Service
	export *export.Service
	loc    *time.Location
	now    func() time.Time
}

func NewHandler(svc *ledger.Service, exportSvc *export.Service, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.UTC
	}

	return &Handler{svc: svc, export: exportSvc, loc: loc, now: time.Now}
}

// WithClock replaces the clock used to name export files.
func (h *Handler) WithClock(now func() time.Time) *Handler {
	h.now = now
	return h
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/csv", h.csv)
	r.Get("/summary", h.summary)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type expenseResponse struct {
	ID        string          `json:"id"`
	ExpenseID string          `json:"expense_id,omitempty"`
	Date      time.Time       `json:"date"`
	Reason    string          `json:"reason"`
	Category  string          `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	EnteredBy string          `json:"entered_by,omitempty"`
}

func (h *Handler) toResponse(tx *ledger.Transaction) expenseResponse {
	at, _ := tx.Time()

	return expenseResponse{
		ID:        tx.ID,
		ExpenseID: tx.Expense.ExpenseID,
		Date:      at.In(h.loc),
		Reason:    tx.Expense.Reason,
		Category:  tx.Expense.Category,
		Amount:    tx.Expense.Amount,
		EnteredBy: tx.Expense.EnteredBy,
	}
}

func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrNotFound), errors.Is(err, ledger.ErrWrongKind):
		http.Error(w, "expense not found", http.StatusNotFound)
	case errors.Is(err, ledger.ErrInvalidExpense):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		slog.Error("failed to handle expense request", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// dateRange reads optional from/to dates. to is inclusive.
func (h *Handler) dateRange(r *http.Request) (from, to *time.Time, err error) {
	if s := r.URL.Query().Get("from"); s != "" {
		t, err := time.ParseInLocation(time.DateOnly, s, h.loc)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid from date: %w", err)
		}

		from = new(t)
	}

	if s := r.URL.Query().Get("to"); s != "" {
		t, err := time.ParseInLocation(time.DateOnly, s, h.loc)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid to date: %w", err)
		}

		to = new(t.AddDate(0, 0, 1))
	}

	return from, to, nil
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	from, to, err := h.dateRange(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	txs, err := h.svc.List(r.Context(), ledger.ListFilter{Kind: new(ledger.KindExpense), From: from, To: to})
	if err != nil {
		httpError(w, err)
		return
	}

	resp := make([]expenseResponse, 0, len(txs))

	for i := len(txs) - 1; i >= 0; i-- {
		if txs[i].Expense != nil {
			resp = append(resp, h.toResponse(txs[i]))
		}
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type expenseRequest struct {
	Reason   string          `json:"reason"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	enteredBy := "Dashboard"
	if claims, ok := auth.ClaimsFrom(r.Context()); ok && claims.Name != "" {
		enteredBy = claims.Name
	}

	tx, err := h.svc.RecordExpense(r.Context(), ledger.ExpenseParams{
		Reason:    req.Reason,
		Category:  req.Category,
		Amount:    req.Amount,
		EnteredBy: enteredBy,
	})
	if err != nil {
		httpError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(h.toResponse(tx)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tx, err := h.svc.UpdateExpense(r.Context(), chi.URLParam(r, "id"), ledger.ExpenseParams{
		Reason:   req.Reason,
		Category: req.Category,
		Amount:   req.Amount,
	})
	if err != nil {
		httpError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(h.toResponse(tx)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteExpense(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) rows(w http.ResponseWriter, r *http.Request) ([]export.Row, bool) {
	from, to, err := h.dateRange(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}

	rows, err := h.export.Expenses(r.Context(), from, to)
	if err != nil {
		httpError(w, err)
		return nil, false
	}

	return rows, true
}

func (h *Handler) csv(w http.ResponseWriter, r *http.Request) {
	rows, ok := h.rows(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", export.FileName(h.now().In(h.loc))))

	if err := h.export.WriteCSV(w, rows); err != nil {
		slog.Error("failed to write csv", "error", err)
	}
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	rows, ok := h.rows(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if _, err := fmt.Fprint(w, h.export.Summary(rows)); err != nil {
		slog.Error("failed to write summary", "error", err)
	}
}
