package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	kafkax "github.com/ariefcatur/go-restaurant-pos.git/internal/kafka"
	"github.com/ariefcatur/go-restaurant-pos.git/internal/orders"
	"github.com/ariefcatur/go-restaurant-pos.git/internal/redisx"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
)

type KitchenHandler struct {
	Orders   *orders.Repo
	Redis    *redis.Client
	Producer *kafkax.Producer // kitchen.status.changed, optional
	Service  string
}

type statusUpdateReq struct {
	Status string `json:"status"`
}

func (h *KitchenHandler) Register(r *chi.Mux, mw *AuthMiddleware) {
	r.Route("/kitchen", func(r chi.Router) {
		r.Use(mw.RequireUser)
		r.Get("/orders", h.listOrders)
		r.Post("/orders/{id}/status", h.updateStatus)
	})
}

func (h *KitchenHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	list, err := h.Orders.ListKitchen(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if list == nil {
		list = []orders.Order{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *KitchenHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	var req statusUpdateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	next := orders.KitchenStatus(req.Status)
	if !next.Valid() {
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}

	current, err := h.Orders.GetKitchenStatus(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, orders.ErrNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !orders.CanTransition(current, next) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("cannot move from %s to %s", current, next))
		return
	}
	if err := h.Orders.UpdateKitchenStatus(r.Context(), orderID, next); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// cache for quick reads by the display
	skey := fmt.Sprintf(redisx.KeyKitchenStatus, orderID)
	_ = h.Redis.Set(r.Context(), skey, string(next), redisx.TTLStatusCache).Err()

	if h.Producer != nil {
		ev := orders.Envelope{
			EventID:       uuid.NewString(),
			EventType:     orders.EventKitchenStatusChanged,
			EventVersion:  1,
			OccurredAt:    time.Now().UTC(),
			Producer:      h.Service,
			TraceID:       r.Header.Get("X-Request-Id"),
			CorrelationID: orderID,
			Payload: kafkax.MustMarshal(orders.KitchenStatusPayload{
				OrderID: orderID, OldStatus: current, NewStatus: next,
			}),
		}
		h.Producer.Publish(orders.PartitionKey(orderID), kafkax.MustMarshal(ev),
			kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventKitchenStatusChanged)},
			kafkago.Header{Key: "x-event-version", Value: []byte("1")},
		)
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "status updated", "new_status": string(next)})
}
