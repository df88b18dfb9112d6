package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

var ErrNotFound = errors.New("product not found")

const productCols = `id, name, price, category, tax_group, stock_quantity, low_stock_threshold, unit, created_at, updated_at`

func scanProduct(row pgx.Row, p *Product) error {
	return row.Scan(&p.ID, &p.Name, &p.Price, &p.Category, &p.TaxGroup,
		&p.StockQuantity, &p.LowStockThreshold, &p.Unit, &p.CreatedAt, &p.UpdatedAt)
}

func (r *Repo) Create(ctx context.Context, p *Product) error {
	return scanProduct(r.DB.QueryRow(ctx, `
		INSERT INTO products(name, price, category, tax_group, stock_quantity, low_stock_threshold, unit)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING `+productCols,
		p.Name, p.Price, p.Category, p.TaxGroup, p.StockQuantity, p.LowStockThreshold, p.Unit), p)
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*Product, error) {
	var p Product
	err := scanProduct(r.DB.QueryRow(ctx, `SELECT `+productCols+` FROM products WHERE id=$1`, id), &p)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repo) Update(ctx context.Context, p *Product) error {
	ct, err := r.DB.Exec(ctx, `
		UPDATE products
		SET name=$2, price=$3, category=$4, tax_group=$5,
		    stock_quantity=$6, low_stock_threshold=$7, unit=$8, updated_at=now()
		WHERE id=$1`,
		p.ID, p.Name, p.Price, p.Category, p.TaxGroup, p.StockQuantity, p.LowStockThreshold, p.Unit)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id int64) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) List(ctx context.Context) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+productCols+` FROM products ORDER BY category, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Category, &p.TaxGroup,
			&p.StockQuantity, &p.LowStockThreshold, &p.Unit, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// SeedDefaults inserts the default menu when the catalog is empty, so a fresh
// install has something to sell against.
func (r *Repo) SeedDefaults(ctx context.Context) ([]Product, error) {
	existing, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing, nil
	}

	defaults := []Product{
		{Name: "Jollof Rice", Price: 45.00, Category: "Main", TaxGroup: "VAT_standard", StockQuantity: 50, LowStockThreshold: 10, Unit: "item"},
		{Name: "Fried Rice", Price: 40.00, Category: "Main", TaxGroup: "VAT_standard", StockQuantity: 50, LowStockThreshold: 10, Unit: "item"},
		{Name: "Grilled Tilapia", Price: 75.00, Category: "Main", TaxGroup: "VAT_standard", StockQuantity: 20, LowStockThreshold: 10, Unit: "item"},
		{Name: "Kelewele", Price: 20.00, Category: "Side", TaxGroup: "VAT_standard", StockQuantity: 100, LowStockThreshold: 10, Unit: "item"},
	}
	for i := range defaults {
		if err := r.Create(ctx, &defaults[i]); err != nil {
			return nil, err
		}
	}
	return r.List(ctx)
}
