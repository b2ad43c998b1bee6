package domain

import "time"

// Medicine is a single inventory record.
type Medicine struct {
	ID        string
	Name      string
	Price     float64
	Quantity  int64
	CreatedAt time.Time
}
