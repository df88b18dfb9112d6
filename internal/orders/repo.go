package orders

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

var (
	ErrAlreadyExists = errors.New("order already exists")
	ErrNotFound      = errors.New("order not found")
)

func (r *Repo) Exists(ctx context.Context, id string) (bool, error) {
	var one int
	err := r.DB.QueryRow(ctx, `SELECT 1 FROM orders WHERE id=$1`, id).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// InsertTx inserts the order inside the caller's transaction. A concurrent
// duplicate loses the race on the primary key; that surfaces as ErrAlreadyExists.
func (r *Repo) InsertTx(ctx context.Context, tx pgx.Tx, o *Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO orders(id, reference_number, total_amount, total_tax, status,
		                   payment_method, kitchen_status, user_id, shift_id, items_json, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`, o.ID, nullable(o.ReferenceNumber), o.TotalAmount, o.TotalTax, o.Status,
		o.PaymentMethod, o.KitchenStatus, o.UserID, o.ShiftID, items, o.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return ErrAlreadyExists
		}
		return err
	}
	return nil
}

// ListKitchen returns not-yet-served orders, oldest first.
func (r *Repo) ListKitchen(ctx context.Context) ([]Order, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, COALESCE(reference_number,''), total_amount, total_tax, status,
		       payment_method, kitchen_status, user_id, shift_id, items_json, created_at, synced_at
		FROM orders
		WHERE kitchen_status IN ('pending','preparing','ready')
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		var items []byte
		if err := rows.Scan(&o.ID, &o.ReferenceNumber, &o.TotalAmount, &o.TotalTax, &o.Status,
			&o.PaymentMethod, &o.KitchenStatus, &o.UserID, &o.ShiftID, &items, &o.CreatedAt, &o.SyncedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(items, &o.Items); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *Repo) GetKitchenStatus(ctx context.Context, id string) (KitchenStatus, error) {
	var s string
	err := r.DB.QueryRow(ctx, `SELECT kitchen_status FROM orders WHERE id=$1`, id).Scan(&s)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return KitchenStatus(s), nil
}

func (r *Repo) UpdateKitchenStatus(ctx context.Context, id string, status KitchenStatus) error {
	ct, err := r.DB.Exec(ctx, `UPDATE orders SET kitchen_status=$2 WHERE id=$1`, id, status)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
