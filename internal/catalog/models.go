package catalog

import "time"

type Product struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	Price             float64   `json:"price"`
	Category          string    `json:"category"`
	TaxGroup          string    `json:"tax_group"`
	StockQuantity     int       `json:"stock_quantity"`
	LowStockThreshold int       `json:"low_stock_threshold"`
	Unit              string    `json:"unit"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
