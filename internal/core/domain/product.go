package domain

import "time"

// Product stock is never negative; the store enforces it on every write.
type Product struct {
	ID        string
	Name      string
	Price     float64
	Stock     int
	CreatedAt time.Time
	UpdatedAt time.Time
}
