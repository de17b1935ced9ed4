package customer

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/vyapari/internal/analytics"
	"github.com/MrJamesThe3rd/vyapari/internal/ledger"
)

type Handler struct {
	engine *analytics.Engine
	ledger *ledger.Service
}

func NewHandler(engine *analytics.Engine, ledgerSvc *ledger.Service) *Handler {
	return &Handler{engine: engine, ledger: ledgerSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/archive", h.archive)
}

type customerResponse struct {
	Key           string    `json:"key"`
	Name          string    `json:"name"`
	Phone         string    `json:"phone,omitempty"`
	TotalOrders   int       `json:"total_orders"`
	TotalSpend    float64   `json:"total_spend"`
	FirstPurchase time.Time `json:"first_purchase"`
	LastPurchase  time.Time `json:"last_purchase"`
	Status        string    `json:"status"`
	MemberSince   string    `json:"member_since"`
}

type growthPointResponse struct {
	Label        string    `json:"label"`
	Start        time.Time `json:"start"`
	NewCustomers int       `json:"new_customers"`
}

type growthResponse struct {
	Granularity analytics.Granularity `json:"granularity"`
	Points      []growthPointResponse `json:"points"`
	NewInSpan   int                   `json:"new_in_span"`
}

type listResponse struct {
	Period    analytics.Period   `json:"period"`
	Customers []customerResponse `json:"customers"`
	Growth    growthResponse     `json:"growth"`
}

func toListResponse(report *analytics.CustomerReport) listResponse {
	resp := listResponse{
		Period:    report.Window.Period,
		Customers: make([]customerResponse, 0, len(report.Customers)),
		Growth: growthResponse{
			Granularity: report.Granularity,
			Points:      make([]growthPointResponse, 0, len(report.Growth)),
			NewInSpan:   report.NewInSpan,
		},
	}

	for _, c := range report.Customers {
		resp.Customers = append(resp.Customers, customerResponse{
			Key:           c.Key,
			Name:          c.DisplayName,
			Phone:         c.Phone,
			TotalOrders:   c.TotalOrders,
			TotalSpend:    c.TotalSpend.Round(2).InexactFloat64(),
			FirstPurchase: c.FirstPurchase,
			LastPurchase:  c.LastPurchase,
			Status:        string(c.Status),
			MemberSince:   c.MemberSince,
		})
	}

	for _, p := range report.Growth {
		resp.Growth.Points = append(resp.Growth.Points, growthPointResponse(p))
	}

	return resp
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	report, err := h.engine.Customers(r.Context(), r.URL.Query().Get("period"))
	if err != nil {
		slog.Error("failed to aggregate customers", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toListResponse(report)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type archiveRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type archiveResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Phone  string `json:"phone,omitempty"`
	Status string `json:"status"`
}

func (h *Handler) archive(w http.ResponseWriter, r *http.Request) {
	var req archiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tx, err := h.ledger.ArchiveCustomer(r.Context(), req.Name, req.Phone)
	if err != nil {
		if errors.Is(err, ledger.ErrInvalidCustomer) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		slog.Error("failed to archive customer", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(archiveResponse{
		ID:     tx.ID,
		Name:   tx.Customer.Name,
		Phone:  tx.Customer.Phone,
		Status: string(tx.Customer.Status),
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
