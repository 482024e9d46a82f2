package domain

import (
	"errors"
	"time"
)

var (
	ErrNameRequired  = errors.New("name is required")
	ErrEmailRequired = errors.New("email is required")
	ErrNegativePrice = errors.New("price must not be negative")
	ErrNegativeStock = errors.New("stock must not be negative")
)

type CustomerInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

func (in CustomerInput) Validate() error {
	if in.Name == "" {
		return ErrNameRequired
	}
	if in.Email == "" {
		return ErrEmailRequired
	}
	return nil
}

type ProductInput struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

func (in ProductInput) Validate() error {
	if in.Name == "" {
		return ErrNameRequired
	}
	if in.Price < 0 {
		return ErrNegativePrice
	}
	if in.Stock < 0 {
		return ErrNegativeStock
	}
	return nil
}

type OrderInput struct {
	CustomerID  string    `json:"customerId"`
	TotalAmount float64   `json:"totalAmount"`
	OrderDate   time.Time `json:"orderDate,omitempty"`
}

func (in OrderInput) Validate() error {
	if in.CustomerID == "" {
		return errors.New("customerId is required")
	}
	if in.TotalAmount < 0 {
		return errors.New("totalAmount must not be negative")
	}
	return nil
}
