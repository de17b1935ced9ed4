package inventory

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vyapari/internal/inventory"
	"github.com/MrJamesThe3rd/vyapari/internal/inventory/csvimport"
)

const maxUploadSize = 10 << 20

type Handler struct {
	svc *inventory.Service
}

func NewHandler(svc *inventory.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/lowstock", h.lowStock)
	r.Post("/import", h.importCSV)
}

type itemResponse struct {
	Name              string          `json:"name"`
	Category          string          `json:"category"`
	Quantity          int             `json:"quantity"`
	CostPrice         decimal.Decimal `json:"cost_price"`
	SellingPrice      decimal.Decimal `json:"selling_price"`
	LowStockThreshold int             `json:"low_stock_threshold"`
	Low               bool            `json:"low"`
	LastSoldAt        *time.Time      `json:"last_sold_at"`
}

func toResponseList(items []*inventory.Item) []itemResponse {
	resp := make([]itemResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, itemResponse{
			Name:              item.Name,
			Category:          item.Category,
			Quantity:          item.Quantity,
			CostPrice:         item.CostPrice,
			SellingPrice:      item.SellingPrice,
			LowStockThreshold: item.LowStockThreshold,
			Low:               item.IsLow(),
			LastSoldAt:        item.LastSoldAt,
		})
	}

	return resp
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Snapshot(r.Context())
	if err != nil {
		slog.Error("failed to read inventory", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(items)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type lowStockResponse struct {
	Report string         `json:"report"`
	Items  []itemResponse `json:"items"`
}

func (h *Handler) lowStock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	items, err := h.svc.LowStock(ctx)
	if err != nil {
		slog.Error("failed to read low stock", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	report, err := h.svc.LowStockReport(ctx)
	if err != nil {
		slog.Error("failed to render low stock report", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(lowStockResponse{Report: report, Items: toResponseList(items)}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type importResponse struct {
	Rows    int `json:"rows"`
	Created int `json:"created"`
	Updated int `json:"updated"`
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	rows, err := csvimport.Parse(file)
	if err != nil {
		if errors.Is(err, csvimport.ErrMissingItemColumn) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		slog.Error("failed to parse catalog", "error", err)
		http.Error(w, "failed to parse catalog: "+err.Error(), http.StatusBadRequest)

		return
	}

	result, err := h.svc.Sync(r.Context(), rows)
	if err != nil {
		slog.Error("failed to sync inventory", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(importResponse{
		Rows:    len(rows),
		Created: result.Created,
		Updated: result.Updated,
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
