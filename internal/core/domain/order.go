package domain

import "time"

type Order struct {
	ID          string
	CustomerID  string
	TotalAmount float64
	OrderDate   time.Time

	// CustomerEmail is populated on reads that join the customer record.
	CustomerEmail string
}

// Filters for list queries. Zero values mean "no constraint".

type OrderFilter struct {
	OrderDateGte *time.Time
	CustomerID   string
	First        int
	Skip         int
}

type CustomerFilter struct {
	Search string // matches name or email, case-insensitive
	First  int
	Skip   int
}

type ProductFilter struct {
	Search   string
	MinPrice *float64
	MaxPrice *float64
	First    int
	Skip     int
}
