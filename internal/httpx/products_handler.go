package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/ariefcatur/go-restaurant-pos.git/internal/catalog"
	"github.com/ariefcatur/go-restaurant-pos.git/internal/ledger"
	"github.com/go-chi/chi/v5"
)

type ProductsHandler struct {
	Catalog *catalog.Repo
	Ledger  *ledger.Ledger
}

type productReq struct {
	Name              string  `json:"name"`
	Price             float64 `json:"price"`
	Category          string  `json:"category"`
	TaxGroup          string  `json:"tax_group"`
	StockQuantity     int     `json:"stock_quantity"`
	LowStockThreshold int     `json:"low_stock_threshold"`
	Unit              string  `json:"unit"`
}

type adjustReq struct {
	QuantityChange int    `json:"quantity_change"`
	Reason         string `json:"reason"`
}

func (h *ProductsHandler) Register(r *chi.Mux, mw *AuthMiddleware) {
	// terminals fetch the catalog without a session, like the sync endpoint
	r.Get("/sync/products", h.listWithSeed)
	r.Post("/products", h.create)
	r.Put("/products/{id}", h.update)
	r.Delete("/products/{id}", h.delete)
	r.Get("/products/{id}/history", h.history)
	r.Get("/inventory/low-stock", h.lowStock)
	r.With(mw.RequireUser).Post("/products/{id}/adjust", h.adjust)
}

// listWithSeed seeds the default menu on an empty catalog so a fresh install
// has something to sell.
func (h *ProductsHandler) listWithSeed(w http.ResponseWriter, r *http.Request) {
	products, err := h.Catalog.SeedDefaults(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *ProductsHandler) create(w http.ResponseWriter, r *http.Request) {
	var req productReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "missing name")
		return
	}
	if req.Unit == "" {
		req.Unit = "item"
	}
	if req.LowStockThreshold == 0 {
		req.LowStockThreshold = 10
	}
	p := &catalog.Product{
		Name: req.Name, Price: req.Price, Category: req.Category, TaxGroup: req.TaxGroup,
		StockQuantity: req.StockQuantity, LowStockThreshold: req.LowStockThreshold, Unit: req.Unit,
	}
	if err := h.Catalog.Create(r.Context(), p); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *ProductsHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req productReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	p := &catalog.Product{
		ID: id, Name: req.Name, Price: req.Price, Category: req.Category, TaxGroup: req.TaxGroup,
		StockQuantity: req.StockQuantity, LowStockThreshold: req.LowStockThreshold, Unit: req.Unit,
	}
	if err := h.Catalog.Update(r.Context(), p); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	updated, err := h.Catalog.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *ProductsHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.Catalog.Delete(r.Context(), id); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted", "id": id})
}

// adjust applies a manual stock movement (restock, damage, adjustment),
// attributed to the signed-in user in the ledger.
func (h *ProductsHandler) adjust(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req adjustReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	var userID *int64
	if u := UserFrom(r.Context()); u != nil {
		userID = &u.ID
	}
	newStock, err := h.Ledger.Adjust(r.Context(), id, req.QuantityChange, ledger.Reason(req.Reason), userID)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrProductNotFound):
			writeError(w, http.StatusNotFound, "product not found")
		case errors.Is(err, ledger.ErrInvalidReason):
			writeError(w, http.StatusBadRequest, "invalid reason")
		default:
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"product_id": id, "stock_quantity": newStock})
}

func (h *ProductsHandler) history(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := h.Ledger.History(r.Context(), id, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *ProductsHandler) lowStock(w http.ResponseWriter, r *http.Request) {
	items, err := h.Ledger.LowStock(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, items)
}
