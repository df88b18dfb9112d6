package syncx

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	kafkax "github.com/ariefcatur/go-restaurant-pos.git/internal/kafka"
	"github.com/ariefcatur/go-restaurant-pos.git/internal/orders"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
)

// Submission is one client-generated order from an offline terminal. The id is
// the sole idempotency key; totals are computed client-side and trusted as
// submitted.
type Submission struct {
	ID              string            `json:"id"`
	ReferenceNumber string            `json:"reference_number,omitempty"`
	Items           []orders.LineItem `json:"items"`
	TotalAmount     float64           `json:"total_amount"`
	TotalTax        float64           `json:"total_tax"`
	Status          string            `json:"status"`
	PaymentMethod   string            `json:"payment_method"`
	UserID          *int64            `json:"user_id,omitempty"`
	ShiftID         *int64            `json:"shift_id,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
}

func (s *Submission) Validate() error {
	if s.ID == "" {
		return errors.New("missing order id")
	}
	if s.CreatedAt.IsZero() {
		return errors.New("missing created_at")
	}
	if len(s.Items) == 0 {
		return errors.New("missing line items")
	}
	for i, it := range s.Items {
		if it.Quantity < 1 {
			return fmt.Errorf("item %d: quantity must be positive", i)
		}
	}
	return nil
}

func (s *Submission) order() *orders.Order {
	return &orders.Order{
		ID:              s.ID,
		ReferenceNumber: s.ReferenceNumber,
		Items:           s.Items,
		TotalAmount:     s.TotalAmount,
		TotalTax:        s.TotalTax,
		Status:          s.Status,
		PaymentMethod:   s.PaymentMethod,
		KitchenStatus:   orders.KitchenPending,
		UserID:          s.UserID,
		ShiftID:         s.ShiftID,
		CreatedAt:       s.CreatedAt,
	}
}

// Summary reports how a batch landed. Skipped covers duplicates and malformed
// submissions; neither is an error for the batch.
type Summary struct {
	SyncedCount  int `json:"synced_count"`
	SkippedCount int `json:"skipped_count"`
}

// Tx is one order's all-or-nothing application.
type Tx interface {
	InsertOrder(ctx context.Context, o *orders.Order) error
	// ApplySale returns false when the product does not exist; the order still commits.
	ApplySale(ctx context.Context, productID int64, qty int, occurredAt time.Time) (bool, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Store is the persistence boundary of the reconciler.
type Store interface {
	OrderExists(ctx context.Context, id string) (bool, error)
	Begin(ctx context.Context) (Tx, error)
}

type Reconciler struct {
	Store    Store
	Producer *kafkax.Producer // optional; order.synced events, best effort
	Service  string
}

// Ingest applies a batch of submissions, one transaction per order, so a bad
// order cannot discard hundreds of committed siblings after a long offline
// stretch. Duplicates are skipped. An unexpected storage error stops the batch
// and returns the partial summary; everything committed so far stands, and a
// retried batch is safe because committed orders are then duplicates.
func (r *Reconciler) Ingest(ctx context.Context, batch []Submission) (Summary, error) {
	var sum Summary
	for i := range batch {
		sub := &batch[i]
		if err := sub.Validate(); err != nil {
			log.Printf("sync: dropping malformed submission %q: %v", sub.ID, err)
			sum.SkippedCount++
			continue
		}
		o, synced, err := r.ingestOne(ctx, sub)
		if err != nil {
			return sum, fmt.Errorf("sync order %s: %w", sub.ID, err)
		}
		if !synced {
			sum.SkippedCount++
			continue
		}
		sum.SyncedCount++
		r.publishSynced(o)
	}
	return sum, nil
}

func (r *Reconciler) ingestOne(ctx context.Context, sub *Submission) (*orders.Order, bool, error) {
	// cheap existence check first; the primary key is the real serialization point
	exists, err := r.Store.OrderExists(ctx, sub.ID)
	if err != nil {
		return nil, false, err
	}
	if exists {
		return nil, false, nil
	}

	tx, err := r.Store.Begin(ctx)
	if err != nil {
		return nil, false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	o := sub.order()
	if err := tx.InsertOrder(ctx, o); err != nil {
		if errors.Is(err, orders.ErrAlreadyExists) {
			// lost a concurrent race on the same id: the winner applied the
			// ledger effects, treat as duplicate
			return nil, false, nil
		}
		return nil, false, err
	}

	for _, it := range o.Items {
		if it.ProductID == nil {
			continue
		}
		applied, err := tx.ApplySale(ctx, *it.ProductID, it.Quantity, o.CreatedAt)
		if err != nil {
			return nil, false, err
		}
		if !applied {
			log.Printf("sync: order %s references unknown product %d, stock untouched", o.ID, *it.ProductID)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, err
	}
	return o, true, nil
}

func (r *Reconciler) publishSynced(o *orders.Order) {
	if r.Producer == nil {
		return
	}
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventOrderSynced,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      r.Service,
		CorrelationID: o.ID,
		Payload: kafkax.MustMarshal(orders.OrderSyncedPayload{
			OrderID:         o.ID,
			ReferenceNumber: o.ReferenceNumber,
			Items:           o.Items,
			TotalAmount:     o.TotalAmount,
			PaymentMethod:   o.PaymentMethod,
			KitchenStatus:   o.KitchenStatus,
			CreatedAt:       o.CreatedAt,
		}),
	}
	r.Producer.Publish(orders.PartitionKey(o.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventOrderSynced)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
