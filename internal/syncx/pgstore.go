package syncx

import (
	"context"
	"time"

	"github.com/ariefcatur/go-restaurant-pos.git/internal/ledger"
	"github.com/ariefcatur/go-restaurant-pos.git/internal/orders"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore backs the reconciler with postgres. Each Begin opens one explicit
// transaction; product row locks taken by ApplySale are held until commit or
// rollback, so concurrent batches touching the same product serialize while
// disjoint ones run in parallel.
type PGStore struct {
	DB     *pgxpool.Pool
	Orders *orders.Repo
	Ledger *ledger.Ledger
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{
		DB:     db,
		Orders: &orders.Repo{DB: db},
		Ledger: &ledger.Ledger{DB: db},
	}
}

func (s *PGStore) OrderExists(ctx context.Context, id string) (bool, error) {
	return s.Orders.Exists(ctx, id)
}

func (s *PGStore) Begin(ctx context.Context) (Tx, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	return &pgTx{tx: tx, store: s}, nil
}

type pgTx struct {
	tx    pgx.Tx
	store *PGStore
}

func (t *pgTx) InsertOrder(ctx context.Context, o *orders.Order) error {
	return t.store.Orders.InsertTx(ctx, t.tx, o)
}

func (t *pgTx) ApplySale(ctx context.Context, productID int64, qty int, occurredAt time.Time) (bool, error) {
	res, err := t.store.Ledger.ApplySale(ctx, t.tx, productID, qty, occurredAt)
	if err != nil {
		return false, err
	}
	return res.Applied, nil
}

func (t *pgTx) Commit(ctx context.Context) error   { return t.tx.Commit(ctx) }
func (t *pgTx) Rollback(ctx context.Context) error { return t.tx.Rollback(ctx) }
