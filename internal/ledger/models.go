package ledger

import "time"

type Reason string

const (
	ReasonSale       Reason = "sale"
	ReasonRestock    Reason = "restock"
	ReasonDamage     Reason = "damage"
	ReasonAdjustment Reason = "adjustment"
)

func (r Reason) Valid() bool {
	switch r {
	case ReasonSale, ReasonRestock, ReasonDamage, ReasonAdjustment:
		return true
	}
	return false
}

// Entry is one append-only stock movement. Never mutated or deleted.
type Entry struct {
	ID             int64     `json:"id"`
	ProductID      int64     `json:"product_id"`
	QuantityChange int       `json:"quantity_change"` // signed, negative for sales
	Reason         Reason    `json:"reason"`
	Timestamp      time.Time `json:"timestamp"`
	UserID         *int64    `json:"user_id,omitempty"`
}

// Result of applying a sale to the ledger.
type Result struct {
	Applied  bool // false when the product no longer exists
	NewStock int
}

type LowStockItem struct {
	ProductID         int64  `json:"product_id"`
	Name              string `json:"name"`
	StockQuantity     int    `json:"stock_quantity"`
	LowStockThreshold int    `json:"low_stock_threshold"`
}
