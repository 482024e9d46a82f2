package domain

import "time"

type Customer struct {
	ID        string
	Name      string
	Email     string
	Phone     string // optional, empty when not provided
	CreatedAt time.Time
}
