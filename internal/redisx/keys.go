package redisx

import "time"

const (
	// Mock momo transaction state: momo:tx:{transaction_id} -> JSON
	KeyMomoTx = "momo:tx:%s"

	// Kitchen display ticket: kitchen:ticket:{order_id} -> JSON
	KeyKitchenTicket = "kitchen:ticket:%s"

	// Cache kitchen status per order: kitchen:status:{order_id} -> status string
	KeyKitchenStatus = "kitchen:status:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLMomoTx        = 24 * time.Hour
	TTLKitchenTicket = 12 * time.Hour
	TTLStatusCache   = 5 * time.Minute
	TTLDedup         = 48 * time.Hour
)
