package orders

import "time"

// LineItem is one position of a finalized sale. ProductID is optional:
// offline terminals may sell items that were deleted from the catalog.
type LineItem struct {
	ProductID *int64  `json:"product_id,omitempty"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	TaxAmount float64 `json:"tax_amount"`
}

// Order is immutable once synced; only kitchen_status changes afterwards.
type Order struct {
	ID              string        `json:"id"`
	ReferenceNumber string        `json:"reference_number,omitempty"`
	Items           []LineItem    `json:"items"`
	TotalAmount     float64       `json:"total_amount"`
	TotalTax        float64       `json:"total_tax"`
	Status          string        `json:"status"`
	PaymentMethod   string        `json:"payment_method"`
	KitchenStatus   KitchenStatus `json:"kitchen_status"`
	UserID          *int64        `json:"user_id,omitempty"`
	ShiftID         *int64        `json:"shift_id,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	SyncedAt        time.Time     `json:"synced_at"`
}
