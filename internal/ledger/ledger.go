package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Ledger struct{ DB *pgxpool.Pool }

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidReason   = errors.New("invalid ledger reason")
)

// ApplySale decrements stock and appends one log entry, inside the caller's
// transaction. Stock is allowed to go negative: offline terminals cannot see
// real-time stock and rejecting the sale would lose the revenue record.
// An unknown product is a stock no-op, not an error; the order still commits.
func (l *Ledger) ApplySale(ctx context.Context, tx pgx.Tx, productID int64, qty int, occurredAt time.Time) (Result, error) {
	if qty <= 0 {
		return Result{}, fmt.Errorf("invalid sale quantity %d for product %d", qty, productID)
	}

	var stock int
	err := tx.QueryRow(ctx, `SELECT stock_quantity FROM products WHERE id=$1 FOR UPDATE`, productID).Scan(&stock)
	if errors.Is(err, pgx.ErrNoRows) {
		return Result{Applied: false}, nil
	}
	if err != nil {
		return Result{}, err
	}

	if _, err := tx.Exec(ctx, `
		UPDATE products SET stock_quantity = stock_quantity - $2, updated_at = now()
		WHERE id=$1`, productID, qty); err != nil {
		return Result{}, err
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO inventory_log(product_id, quantity_change, reason, timestamp)
		VALUES ($1,$2,$3,$4)`, productID, -qty, ReasonSale, occurredAt); err != nil {
		return Result{}, err
	}
	return Result{Applied: true, NewStock: stock - qty}, nil
}

// Adjust applies a manual stock movement (restock, damage, adjustment) in its
// own short transaction, with the same row-lock discipline as sales.
func (l *Ledger) Adjust(ctx context.Context, productID int64, delta int, reason Reason, userID *int64) (int, error) {
	if reason == ReasonSale || !reason.Valid() {
		return 0, ErrInvalidReason
	}
	if delta == 0 {
		return 0, fmt.Errorf("zero quantity change for product %d", productID)
	}

	tx, err := l.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var stock int
	err = tx.QueryRow(ctx, `SELECT stock_quantity FROM products WHERE id=$1 FOR UPDATE`, productID).Scan(&stock)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrProductNotFound
	}
	if err != nil {
		return 0, err
	}

	if _, err := tx.Exec(ctx, `
		UPDATE products SET stock_quantity = stock_quantity + $2, updated_at = now()
		WHERE id=$1`, productID, delta); err != nil {
		return 0, err
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO inventory_log(product_id, quantity_change, reason, timestamp, user_id)
		VALUES ($1,$2,$3,now(),$4)`, productID, delta, reason, userID); err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return stock + delta, nil
}

// History returns the most recent movements for a product.
func (l *Ledger) History(ctx context.Context, productID int64, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := l.DB.Query(ctx, `
		SELECT id, product_id, quantity_change, reason, timestamp, user_id
		FROM inventory_log
		WHERE product_id=$1
		ORDER BY timestamp DESC, id DESC
		LIMIT $2`, productID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.ProductID, &e.QuantityChange, &e.Reason, &e.Timestamp, &e.UserID); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// LowStock lists products at or below their threshold. Informational only,
// nothing is enforced against these.
func (l *Ledger) LowStock(ctx context.Context) ([]LowStockItem, error) {
	rows, err := l.DB.Query(ctx, `
		SELECT id, name, stock_quantity, low_stock_threshold
		FROM products
		WHERE stock_quantity <= low_stock_threshold
		ORDER BY stock_quantity ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LowStockItem
	for rows.Next() {
		var it LowStockItem
		if err := rows.Scan(&it.ProductID, &it.Name, &it.StockQuantity, &it.LowStockThreshold); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
