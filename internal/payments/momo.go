package payments

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Mock mobile-money flow: a request goes PENDING and flips to SUCCESS a few
// seconds later, standing in for the customer approving the USSD prompt.

const (
	StatusPending = "PENDING"
	StatusSuccess = "SUCCESS"
	StatusFailed  = "FAILED"
)

var (
	ErrUnknownProvider = errors.New("unknown momo provider")
	ErrTxNotFound      = errors.New("transaction not found")
)

var providers = map[string]bool{"mtn": true, "vodafone": true, "airteltigo": true}

type Transaction struct {
	ID        string    `json:"transaction_id"`
	Status    string    `json:"status"`
	Amount    float64   `json:"amount"`
	Phone     string    `json:"phone"`
	Provider  string    `json:"provider"`
	CreatedAt time.Time `json:"created_at"`
}

type Request struct {
	TotalAmount float64 `json:"total_amount"`
	Phone       string  `json:"phone"`
	Provider    string  `json:"provider"`
}

// Backend is the transaction state store. Redis in production; transactions
// expire on their own there instead of leaking in process memory.
type Backend interface {
	Put(ctx context.Context, tx Transaction) error
	Get(ctx context.Context, id string) (Transaction, bool, error)
}

// Store owns the pending transactions and the approval timers. Close waits
// for in-flight approvals so shutdown does not orphan goroutines.
type Store struct {
	backend Backend
	delay   time.Duration

	mu     sync.Mutex
	wg     sync.WaitGroup
	done   chan struct{}
	closed bool
}

func NewStore(backend Backend, approvalDelay time.Duration) *Store {
	return &Store{
		backend: backend,
		delay:   approvalDelay,
		done:    make(chan struct{}),
	}
}

func (s *Store) Request(ctx context.Context, req Request) (Transaction, error) {
	if !providers[req.Provider] {
		return Transaction{}, ErrUnknownProvider
	}
	tx := Transaction{
		ID:        uuid.NewString(),
		Status:    StatusPending,
		Amount:    req.TotalAmount,
		Phone:     req.Phone,
		Provider:  req.Provider,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.backend.Put(ctx, tx); err != nil {
		return Transaction{}, err
	}

	s.mu.Lock()
	if !s.closed {
		s.wg.Add(1)
		go s.approveLater(tx.ID)
	}
	s.mu.Unlock()
	return tx, nil
}

func (s *Store) Status(ctx context.Context, id string) (Transaction, error) {
	tx, ok, err := s.backend.Get(ctx, id)
	if err != nil {
		return Transaction{}, err
	}
	if !ok {
		return Transaction{}, ErrTxNotFound
	}
	return tx, nil
}

func (s *Store) approveLater(id string) {
	defer s.wg.Done()
	t := time.NewTimer(s.delay)
	defer t.Stop()
	select {
	case <-s.done:
		return
	case <-t.C:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	tx, ok, err := s.backend.Get(ctx, id)
	if err != nil || !ok {
		return
	}
	if tx.Status != StatusPending {
		return
	}
	tx.Status = StatusSuccess
	if err := s.backend.Put(ctx, tx); err != nil {
		log.Printf("momo: approve %s: %v", id, err)
		return
	}
	log.Printf("momo: transaction %s approved", id)
}

func (s *Store) Close() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.done)
	}
	s.mu.Unlock()
	s.wg.Wait()
}
