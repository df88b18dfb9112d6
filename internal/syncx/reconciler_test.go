package syncx

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ariefcatur/go-restaurant-pos.git/internal/orders"
	"github.com/stretchr/testify/require"
)

// fakeStore emulates the postgres store: the order insert takes a store-wide
// lock held until commit or rollback, which is how the row locks serialize
// conflicting transactions in production.
type fakeStore struct {
	mu         sync.Mutex
	orders     map[string]*orders.Order
	stock      map[int64]int
	entries    []fakeEntry
	failInsert map[string]error
}

type fakeEntry struct {
	productID int64
	change    int
	at        time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		orders:     map[string]*orders.Order{},
		stock:      map[int64]int{},
		failInsert: map[string]error{},
	}
}

func (s *fakeStore) OrderExists(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.orders[id]
	return ok, nil
}

func (s *fakeStore) Begin(ctx context.Context) (Tx, error) {
	return &fakeTx{s: s}, nil
}

type fakeTx struct {
	s     *fakeStore
	held  bool
	order *orders.Order
	sales []fakeEntry
}

func (t *fakeTx) InsertOrder(ctx context.Context, o *orders.Order) error {
	t.s.mu.Lock()
	t.held = true
	if err, ok := t.s.failInsert[o.ID]; ok {
		t.release()
		return err
	}
	if _, ok := t.s.orders[o.ID]; ok {
		t.release()
		return orders.ErrAlreadyExists
	}
	t.order = o
	return nil
}

func (t *fakeTx) ApplySale(ctx context.Context, productID int64, qty int, occurredAt time.Time) (bool, error) {
	if _, ok := t.s.stock[productID]; !ok {
		return false, nil
	}
	t.sales = append(t.sales, fakeEntry{productID: productID, change: -qty, at: occurredAt})
	return true, nil
}

func (t *fakeTx) Commit(ctx context.Context) error {
	if !t.held {
		return errors.New("commit without insert")
	}
	t.s.orders[t.order.ID] = t.order
	for _, e := range t.sales {
		t.s.stock[e.productID] += e.change
		t.s.entries = append(t.s.entries, e)
	}
	t.release()
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	t.release()
	return nil
}

func (t *fakeTx) release() {
	if t.held {
		t.held = false
		t.s.mu.Unlock()
	}
}

func pid(v int64) *int64 { return &v }

func submission(id string, items ...orders.LineItem) Submission {
	return Submission{
		ID:            id,
		Items:         items,
		TotalAmount:   100,
		TotalTax:      15,
		Status:        "completed",
		PaymentMethod: "cash",
		CreatedAt:     time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC),
	}
}

func TestIngestAppliesSaleOnce(t *testing.T) {
	store := newFakeStore()
	store.stock[1] = 50
	r := &Reconciler{Store: store}

	batch := []Submission{submission("o1", orders.LineItem{ProductID: pid(1), Name: "Jollof Rice", Price: 45, Quantity: 4})}

	sum, err := r.Ingest(context.Background(), batch)
	require.NoError(t, err)
	require.Equal(t, Summary{SyncedCount: 1, SkippedCount: 0}, sum)
	require.Equal(t, 46, store.stock[1])
	require.Len(t, store.entries, 1)
	require.Equal(t, -4, store.entries[0].change)
	require.Equal(t, batch[0].CreatedAt, store.entries[0].at)

	// identical resubmission: no second row, no second ledger effect
	sum, err = r.Ingest(context.Background(), batch)
	require.NoError(t, err)
	require.Equal(t, Summary{SyncedCount: 0, SkippedCount: 1}, sum)
	require.Equal(t, 46, store.stock[1])
	require.Len(t, store.entries, 1)
}

func TestIngestOverlappingBatch(t *testing.T) {
	store := newFakeStore()
	store.stock[1] = 50
	r := &Reconciler{Store: store}

	first := []Submission{
		submission("o1", orders.LineItem{ProductID: pid(1), Quantity: 2}),
		submission("o2", orders.LineItem{ProductID: pid(1), Quantity: 3}),
	}
	sum, err := r.Ingest(context.Background(), first)
	require.NoError(t, err)
	require.Equal(t, Summary{SyncedCount: 2}, sum)

	// overlapping retry: o2 again plus a new o3
	second := []Submission{
		first[1],
		submission("o3", orders.LineItem{ProductID: pid(1), Quantity: 1}),
	}
	sum, err = r.Ingest(context.Background(), second)
	require.NoError(t, err)
	require.Equal(t, Summary{SyncedCount: 1, SkippedCount: 1}, sum)
	require.Equal(t, 44, store.stock[1])
	require.Len(t, store.entries, 3)
}

func TestIngestPartialBatchProgress(t *testing.T) {
	store := newFakeStore()
	store.stock[1] = 50
	r := &Reconciler{Store: store}

	boom := errors.New("storage unavailable")
	store.failInsert["o2"] = boom

	batch := []Submission{
		submission("o1", orders.LineItem{ProductID: pid(1), Quantity: 1}),
		submission("o2", orders.LineItem{ProductID: pid(1), Quantity: 1}),
		submission("o3", orders.LineItem{ProductID: pid(1), Quantity: 1}),
	}

	sum, err := r.Ingest(context.Background(), batch)
	require.ErrorIs(t, err, boom)
	require.Equal(t, Summary{SyncedCount: 1}, sum)
	require.Equal(t, 49, store.stock[1])

	// retrying the full batch syncs only what is missing
	delete(store.failInsert, "o2")
	sum, err = r.Ingest(context.Background(), batch)
	require.NoError(t, err)
	require.Equal(t, Summary{SyncedCount: 2, SkippedCount: 1}, sum)
	require.Equal(t, 47, store.stock[1])
}

func TestIngestUnknownProductStillRecordsOrder(t *testing.T) {
	store := newFakeStore()
	r := &Reconciler{Store: store}

	batch := []Submission{submission("o1", orders.LineItem{ProductID: pid(99), Name: "Deleted Dish", Quantity: 2})}
	sum, err := r.Ingest(context.Background(), batch)
	require.NoError(t, err)
	require.Equal(t, Summary{SyncedCount: 1}, sum)
	require.Contains(t, store.orders, "o1")
	require.Empty(t, store.entries)
}

func TestIngestNegativeStockPermitted(t *testing.T) {
	store := newFakeStore()
	store.stock[1] = 2
	r := &Reconciler{Store: store}

	sum, err := r.Ingest(context.Background(), []Submission{
		submission("o1", orders.LineItem{ProductID: pid(1), Quantity: 5}),
	})
	require.NoError(t, err)
	require.Equal(t, 1, sum.SyncedCount)
	require.Equal(t, -3, store.stock[1])
	require.Len(t, store.entries, 1)
	require.Equal(t, -5, store.entries[0].change)
}

func TestIngestMalformedSubmissionSkipped(t *testing.T) {
	store := newFakeStore()
	store.stock[1] = 10
	r := &Reconciler{Store: store}

	missingID := submission("", orders.LineItem{ProductID: pid(1), Quantity: 1})
	badQty := submission("oq", orders.LineItem{ProductID: pid(1), Quantity: 0})
	noTimestamp := submission("ot", orders.LineItem{ProductID: pid(1), Quantity: 1})
	noTimestamp.CreatedAt = time.Time{}
	noItems := submission("oi")
	good := submission("ok", orders.LineItem{ProductID: pid(1), Quantity: 1})

	sum, err := r.Ingest(context.Background(), []Submission{missingID, badQty, noTimestamp, noItems, good})
	require.NoError(t, err)
	require.Equal(t, Summary{SyncedCount: 1, SkippedCount: 4}, sum)
	require.Equal(t, 9, store.stock[1])
	require.NotContains(t, store.orders, "oq")
	require.NotContains(t, store.orders, "oi")
}

func TestIngestLineItemWithoutProduct(t *testing.T) {
	store := newFakeStore()
	store.stock[1] = 10
	r := &Reconciler{Store: store}

	// custom/unmapped item: financial record only, no ledger effect
	sum, err := r.Ingest(context.Background(), []Submission{
		submission("o1",
			orders.LineItem{Name: "Off-menu special", Price: 30, Quantity: 1},
			orders.LineItem{ProductID: pid(1), Quantity: 2},
		),
	})
	require.NoError(t, err)
	require.Equal(t, 1, sum.SyncedCount)
	require.Equal(t, 8, store.stock[1])
	require.Len(t, store.entries, 1)
}

func TestIngestConcurrentBatchesCommute(t *testing.T) {
	store := newFakeStore()
	store.stock[1] = 50
	r := &Reconciler{Store: store}

	a := []Submission{submission("a", orders.LineItem{ProductID: pid(1), Quantity: 3})}
	b := []Submission{submission("b", orders.LineItem{ProductID: pid(1), Quantity: 5})}

	var wg sync.WaitGroup
	for _, batch := range [][]Submission{a, b} {
		wg.Add(1)
		go func(batch []Submission) {
			defer wg.Done()
			sum, err := r.Ingest(context.Background(), batch)
			require.NoError(t, err)
			require.Equal(t, 1, sum.SyncedCount)
		}(batch)
	}
	wg.Wait()

	require.Equal(t, 42, store.stock[1])
	require.Len(t, store.entries, 2)
}

func TestIngestConcurrentDuplicateAppliedExactlyOnce(t *testing.T) {
	store := newFakeStore()
	store.stock[1] = 50
	r := &Reconciler{Store: store}

	dup := []Submission{submission("same-id", orders.LineItem{ProductID: pid(1), Quantity: 4})}

	const callers = 8
	results := make(chan Summary, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sum, err := r.Ingest(context.Background(), dup)
			require.NoError(t, err)
			results <- sum
		}()
	}
	wg.Wait()
	close(results)

	var synced, skipped int
	for sum := range results {
		synced += sum.SyncedCount
		skipped += sum.SkippedCount
	}
	require.Equal(t, 1, synced)
	require.Equal(t, callers-1, skipped)
	require.Equal(t, 46, store.stock[1])
	require.Len(t, store.entries, 1)
}

func TestIngestEmptyBatch(t *testing.T) {
	r := &Reconciler{Store: newFakeStore()}
	sum, err := r.Ingest(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, Summary{}, sum)
}

func TestSubmissionValidate(t *testing.T) {
	base := submission("o1", orders.LineItem{ProductID: pid(1), Quantity: 1})
	require.NoError(t, base.Validate())

	cases := []struct {
		name   string
		mutate func(*Submission)
	}{
		{"missing id", func(s *Submission) { s.ID = "" }},
		{"zero created_at", func(s *Submission) { s.CreatedAt = time.Time{} }},
		{"no line items", func(s *Submission) { s.Items = nil }},
		{"zero quantity", func(s *Submission) { s.Items[0].Quantity = 0 }},
		{"negative quantity", func(s *Submission) { s.Items[0].Quantity = -2 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := submission("o1", orders.LineItem{ProductID: pid(1), Quantity: 1})
			tc.mutate(&s)
			require.Error(t, s.Validate())
		})
	}
}
