package shifts

import "time"

type Shift struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	OpeningCash float64    `json:"opening_cash"`
	ClosingCash *float64   `json:"closing_cash,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	IsActive    bool       `json:"is_active"`
}
