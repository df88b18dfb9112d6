package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ariefcatur/go-restaurant-pos.git/internal/payments"
	"github.com/go-chi/chi/v5"
)

type MomoHandler struct {
	Store *payments.Store
}

func (h *MomoHandler) Register(r *chi.Mux) {
	r.Post("/momo/request", h.request)
	r.Get("/momo/status/{id}", h.status)
}

func (h *MomoHandler) request(w http.ResponseWriter, r *http.Request) {
	var req payments.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Phone == "" || req.TotalAmount <= 0 {
		writeError(w, http.StatusBadRequest, "missing fields")
		return
	}
	tx, err := h.Store.Request(r.Context(), req)
	if err != nil {
		if errors.Is(err, payments.ErrUnknownProvider) {
			writeError(w, http.StatusBadRequest, "unknown provider")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"transaction_id": tx.ID,
		"status":         tx.Status,
		"message":        "payment request sent, approve on your phone",
	})
}

func (h *MomoHandler) status(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	tx, err := h.Store.Status(r.Context(), id)
	if err != nil {
		if errors.Is(err, payments.ErrTxNotFound) {
			writeError(w, http.StatusNotFound, "transaction not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"transaction_id": tx.ID, "status": tx.Status})
}
