package port

import (
	"context"

	"github.com/rl1809/crm-ops/internal/core/domain"
)

// DatabaseRepository is the CRM domain store. Get methods return (nil, nil)
// when the record does not exist.
type DatabaseRepository interface {
	CreateCustomer(ctx context.Context, in domain.CustomerInput) (*domain.Customer, error)
	CreateProduct(ctx context.Context, in domain.ProductInput) (*domain.Product, error)
	CreateOrder(ctx context.Context, in domain.OrderInput) (*domain.Order, error)

	GetCustomer(ctx context.Context, id string) (*domain.Customer, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)

	ListCustomers(ctx context.Context, f domain.CustomerFilter) ([]domain.Customer, error)
	ListProducts(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error)
	ListOrders(ctx context.Context, f domain.OrderFilter) ([]domain.Order, error)

	// LowStockProducts returns products with stock strictly below threshold.
	LowStockProducts(ctx context.Context, threshold int) ([]domain.Product, error)

	// RestockLowStock adds amount to every product with stock below threshold,
	// all inside one transaction. Returns the updated products; a failure
	// leaves every product's stock unchanged.
	RestockLowStock(ctx context.Context, threshold, amount int) ([]domain.Product, error)

	CountCustomers(ctx context.Context) (int, error)
	CountOrders(ctx context.Context) (int, error)

	// TotalRevenue sums order totals, 0 when there are no orders.
	TotalRevenue(ctx context.Context) (float64, error)
}
