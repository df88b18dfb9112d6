package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ddl = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id              BIGSERIAL PRIMARY KEY,
		username        TEXT NOT NULL UNIQUE,
		email           TEXT,
		hashed_password TEXT NOT NULL,
		role            TEXT NOT NULL DEFAULT 'cashier',
		is_active       BOOLEAN NOT NULL DEFAULT TRUE,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS shifts (
		id           BIGSERIAL PRIMARY KEY,
		user_id      BIGINT NOT NULL REFERENCES users(id),
		start_time   TIMESTAMPTZ NOT NULL,
		end_time     TIMESTAMPTZ,
		opening_cash DOUBLE PRECISION NOT NULL,
		closing_cash DOUBLE PRECISION,
		notes        TEXT,
		is_active    BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id                  BIGSERIAL PRIMARY KEY,
		name                TEXT NOT NULL,
		price               DOUBLE PRECISION NOT NULL,
		category            TEXT NOT NULL DEFAULT '',
		tax_group           TEXT NOT NULL DEFAULT '',
		stock_quantity      INT NOT NULL DEFAULT 0,
		low_stock_threshold INT NOT NULL DEFAULT 10,
		unit                TEXT NOT NULL DEFAULT 'item',
		created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id               TEXT PRIMARY KEY,
		reference_number TEXT,
		total_amount     DOUBLE PRECISION NOT NULL,
		total_tax        DOUBLE PRECISION NOT NULL DEFAULT 0,
		status           TEXT NOT NULL,
		payment_method   TEXT NOT NULL DEFAULT '',
		kitchen_status   TEXT NOT NULL DEFAULT 'pending',
		user_id          BIGINT,
		shift_id         BIGINT,
		items_json       JSONB NOT NULL DEFAULT '[]',
		created_at       TIMESTAMPTZ NOT NULL,
		synced_at        TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS inventory_log (
		id              BIGSERIAL PRIMARY KEY,
		product_id      BIGINT NOT NULL,
		quantity_change INT NOT NULL,
		reason          TEXT NOT NULL,
		timestamp       TIMESTAMPTZ NOT NULL,
		user_id         BIGINT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_kitchen_status ON orders (kitchen_status)`,
	`CREATE INDEX IF NOT EXISTS idx_inventory_log_product ON inventory_log (product_id, timestamp)`,
	`CREATE INDEX IF NOT EXISTS idx_shifts_user_active ON shifts (user_id, is_active)`,
}

// Migrate creates all tables on startup (idempotent, mirrors create-on-boot).
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range ddl {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
