package order

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vyapari/internal/auth"
	"github.com/MrJamesThe3rd/vyapari/internal/inventory"
	"github.com/MrJamesThe3rd/vyapari/internal/ledger"
)

type Handler struct {
	svc *ledger.Service
	loc *time.Location
}

func NewHandler(svc *ledger.Service, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.UTC
	}

	return &Handler{svc: svc, loc: loc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Patch("/{id}/status", h.updateStatus)
	r.Delete("/{id}", h.delete)
}

func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrNotFound), errors.Is(err, ledger.ErrWrongKind):
		http.Error(w, "order not found", http.StatusNotFound)
	case errors.Is(err, inventory.ErrItemNotFound):
		http.Error(w, "item not found", http.StatusNotFound)
	case errors.Is(err, ledger.ErrInvalidSale):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		slog.Error("failed to handle order request", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// list accepts optional from/to dates (inclusive, shop calendar).
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := ledger.ListFilter{Kind: new(ledger.KindSale)}

	if s := r.URL.Query().Get("from"); s != "" {
		t, err := time.ParseInLocation(time.DateOnly, s, h.loc)
		if err != nil {
			http.Error(w, "invalid from date", http.StatusBadRequest)
			return
		}

		filter.From = new(t)
	}

	if s := r.URL.Query().Get("to"); s != "" {
		t, err := time.ParseInLocation(time.DateOnly, s, h.loc)
		if err != nil {
			http.Error(w, "invalid to date", http.StatusBadRequest)
			return
		}

		filter.To = new(t.AddDate(0, 0, 1))
	}

	txs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		httpError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(txs)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type createOrderRequest struct {
	Item          string           `json:"item"`
	Qty           int              `json:"qty"`
	Rate          *decimal.Decimal `json:"rate,omitempty"`
	Total         *decimal.Decimal `json:"total,omitempty"`
	Discount      string           `json:"discount,omitempty"`
	CustomerName  string           `json:"customer_name,omitempty"`
	CustomerPhone string           `json:"customer_phone,omitempty"`
}

type createOrderResponse struct {
	Order      orderResponse `json:"order"`
	StockAlert string        `json:"stock_alert,omitempty"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	enteredBy := "Dashboard"
	if claims, ok := auth.ClaimsFrom(r.Context()); ok && claims.Name != "" {
		enteredBy = claims.Name
	}

	res, err := h.svc.RecordSale(r.Context(), ledger.SaleParams{
		Item:          req.Item,
		Qty:           req.Qty,
		Rate:          req.Rate,
		Total:         req.Total,
		Discount:      req.Discount,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		EnteredBy:     enteredBy,
	})
	if err != nil {
		httpError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(createOrderResponse{
		Order:      toResponse(res.Transaction),
		StockAlert: res.StockAlert,
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type updateStatusRequest struct {
	Status ledger.SaleStatus `json:"status"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.UpdateSaleStatus(r.Context(), chi.URLParam(r, "id"), req.Status); err != nil {
		httpError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteSale(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
