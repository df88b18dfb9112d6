package shifts

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

var (
	ErrNotFound      = errors.New("shift not found")
	ErrActiveShift   = errors.New("user already has an active shift")
	ErrAlreadyClosed = errors.New("shift is already closed")
)

const shiftCols = `id, user_id, start_time, end_time, opening_cash, closing_cash, COALESCE(notes,''), is_active`

func scanShift(row pgx.Row, s *Shift) error {
	return row.Scan(&s.ID, &s.UserID, &s.StartTime, &s.EndTime, &s.OpeningCash, &s.ClosingCash, &s.Notes, &s.IsActive)
}

// Start opens a shift for the user; a second concurrent start loses on the
// active-shift check inside the transaction.
func (r *Repo) Start(ctx context.Context, userID int64, openingCash float64) (*Shift, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var n int
	if err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM shifts WHERE user_id=$1 AND is_active`, userID).Scan(&n); err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, ErrActiveShift
	}

	var s Shift
	err = scanShift(tx.QueryRow(ctx, `
		INSERT INTO shifts(user_id, start_time, opening_cash, is_active)
		VALUES ($1, $2, $3, TRUE)
		RETURNING `+shiftCols, userID, time.Now().UTC(), openingCash), &s)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repo) Get(ctx context.Context, id int64) (*Shift, error) {
	var s Shift
	err := scanShift(r.DB.QueryRow(ctx, `SELECT `+shiftCols+` FROM shifts WHERE id=$1`, id), &s)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repo) End(ctx context.Context, id int64, closingCash float64, notes string) (*Shift, error) {
	var s Shift
	err := scanShift(r.DB.QueryRow(ctx, `
		UPDATE shifts
		SET closing_cash=$2, notes=NULLIF($3,''), end_time=$4, is_active=FALSE
		WHERE id=$1 AND is_active
		RETURNING `+shiftCols, id, closingCash, notes, time.Now().UTC()), &s)
	if errors.Is(err, pgx.ErrNoRows) {
		// distinguish missing from already closed
		if _, gerr := r.Get(ctx, id); gerr != nil {
			return nil, gerr
		}
		return nil, ErrAlreadyClosed
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repo) Active(ctx context.Context, userID int64) (*Shift, error) {
	var s Shift
	err := scanShift(r.DB.QueryRow(ctx,
		`SELECT `+shiftCols+` FROM shifts WHERE user_id=$1 AND is_active`, userID), &s)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// History lists shifts newest first. Admins see everyone's, others their own.
func (r *Repo) History(ctx context.Context, userID int64, all bool, limit int) ([]Shift, error) {
	if limit <= 0 {
		limit = 20
	}
	q := `SELECT ` + shiftCols + ` FROM shifts WHERE user_id=$1 ORDER BY start_time DESC LIMIT $2`
	args := []any{userID, limit}
	if all {
		q = `SELECT ` + shiftCols + ` FROM shifts ORDER BY start_time DESC LIMIT $1`
		args = []any{limit}
	}
	rows, err := r.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Shift
	for rows.Next() {
		var s Shift
		if err := rows.Scan(&s.ID, &s.UserID, &s.StartTime, &s.EndTime, &s.OpeningCash, &s.ClosingCash, &s.Notes, &s.IsActive); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
