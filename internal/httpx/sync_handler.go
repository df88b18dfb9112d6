package httpx

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ariefcatur/go-restaurant-pos.git/internal/syncx"
	"github.com/go-chi/chi/v5"
)

// Ingester is what the handler needs from the reconciler.
type Ingester interface {
	Ingest(ctx context.Context, batch []syncx.Submission) (syncx.Summary, error)
}

type SyncHandler struct {
	Reconciler Ingester
}

type syncResp struct {
	Status       string `json:"status"`
	SyncedCount  int    `json:"synced_count"`
	SkippedCount int    `json:"skipped_count"`
}

func (h *SyncHandler) Register(r *chi.Mux) {
	r.Post("/sync/orders", h.syncOrders)
}

func (h *SyncHandler) syncOrders(w http.ResponseWriter, r *http.Request) {
	var batch []syncx.Submission
	if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	sum, err := h.Reconciler.Ingest(r.Context(), batch)
	if err != nil {
		// per-order commits already made stand; the terminal retries the batch
		// and committed orders come back as duplicates
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, syncResp{
		Status:       "success",
		SyncedCount:  sum.SyncedCount,
		SkippedCount: sum.SkippedCount,
	})
}
