package payments

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type memBackend struct {
	mu  sync.Mutex
	txs map[string]Transaction
}

func newMemBackend() *memBackend { return &memBackend{txs: map[string]Transaction{}} }

func (b *memBackend) Put(ctx context.Context, tx Transaction) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.txs[tx.ID] = tx
	return nil
}

func (b *memBackend) Get(ctx context.Context, id string) (Transaction, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	tx, ok := b.txs[id]
	return tx, ok, nil
}

func TestRequestStartsPending(t *testing.T) {
	store := NewStore(newMemBackend(), time.Hour) // approval never fires in this test
	defer store.Close()

	tx, err := store.Request(context.Background(), Request{TotalAmount: 120, Phone: "0244000000", Provider: "mtn"})
	require.NoError(t, err)
	require.Equal(t, StatusPending, tx.Status)
	require.NotEmpty(t, tx.ID)

	got, err := store.Status(context.Background(), tx.ID)
	require.NoError(t, err)
	require.Equal(t, StatusPending, got.Status)
}

func TestApprovalFlipsToSuccess(t *testing.T) {
	store := NewStore(newMemBackend(), 20*time.Millisecond)
	defer store.Close()

	tx, err := store.Request(context.Background(), Request{TotalAmount: 45, Phone: "0244000000", Provider: "vodafone"})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		got, err := store.Status(context.Background(), tx.ID)
		return err == nil && got.Status == StatusSuccess
	}, 2*time.Second, 10*time.Millisecond)
}

func TestUnknownProviderRejected(t *testing.T) {
	store := NewStore(newMemBackend(), time.Hour)
	defer store.Close()

	_, err := store.Request(context.Background(), Request{TotalAmount: 10, Phone: "x", Provider: "western-union"})
	require.ErrorIs(t, err, ErrUnknownProvider)
}

func TestStatusUnknownTransaction(t *testing.T) {
	store := NewStore(newMemBackend(), time.Hour)
	defer store.Close()

	_, err := store.Status(context.Background(), "nope")
	require.ErrorIs(t, err, ErrTxNotFound)
}

func TestCloseCancelsPendingApprovals(t *testing.T) {
	backend := newMemBackend()
	store := NewStore(backend, time.Hour)

	tx, err := store.Request(context.Background(), Request{TotalAmount: 10, Phone: "x", Provider: "airteltigo"})
	require.NoError(t, err)

	store.Close() // must not hang on the pending timer

	got, ok, err := backend.Get(context.Background(), tx.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, StatusPending, got.Status)
}
