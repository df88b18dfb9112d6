package orders

import (
	"encoding/json"
	"time"
)

const (
	EventOrderSynced          = "OrderSynced"
	EventKitchenStatusChanged = "KitchenStatusChanged"
)

type Envelope struct {
	EventID       string          `json:"event_id"`      // uuid
	EventType     string          `json:"event_type"`    // one of the consts above
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`   // RFC3339
	Producer      string          `json:"producer"`      // e.g., "pos-api"
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // usually order_id
	Payload       json.RawMessage `json:"payload"`
}

// ---- payload types per event ----

type OrderSyncedPayload struct {
	OrderID         string        `json:"order_id"`
	ReferenceNumber string        `json:"reference_number,omitempty"`
	Items           []LineItem    `json:"items"`
	TotalAmount     float64       `json:"total_amount"`
	PaymentMethod   string        `json:"payment_method"`
	KitchenStatus   KitchenStatus `json:"kitchen_status"`
	CreatedAt       time.Time     `json:"created_at"`
}

type KitchenStatusPayload struct {
	OrderID   string        `json:"order_id"`
	OldStatus KitchenStatus `json:"old_status"`
	NewStatus KitchenStatus `json:"new_status"`
}
