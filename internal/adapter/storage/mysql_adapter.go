package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rl1809/crm-ops/internal/core/domain"
)

type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

func (m *MySQLAdapter) CreateCustomer(ctx context.Context, in domain.CustomerInput) (*domain.Customer, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	c := domain.Customer{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		CreatedAt: time.Now(),
	}

	var phone any
	if c.Phone != "" {
		phone = c.Phone
	}

	_, err := m.db.ExecContext(ctx, `
		INSERT INTO customers (id, name, email, phone, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Email, phone, c.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert customer: %w", err)
	}

	return &c, nil
}

func (m *MySQLAdapter) CreateProduct(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	p := domain.Product{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Price:     in.Price,
		Stock:     in.Stock,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := m.db.ExecContext(ctx, `
		INSERT INTO products (id, name, price, stock, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Price, p.Stock, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}

	return &p, nil
}

func (m *MySQLAdapter) CreateOrder(ctx context.Context, in domain.OrderInput) (*domain.Order, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	orderDate := in.OrderDate
	if orderDate.IsZero() {
		orderDate = time.Now()
	}

	o := domain.Order{
		ID:          uuid.NewString(),
		CustomerID:  in.CustomerID,
		TotalAmount: in.TotalAmount,
		OrderDate:   orderDate,
	}

	_, err := m.db.ExecContext(ctx, `
		INSERT INTO orders (id, customer_id, total_amount, order_date)
		VALUES (?, ?, ?, ?)`,
		o.ID, o.CustomerID, o.TotalAmount, o.OrderDate,
	)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	return &o, nil
}

func (m *MySQLAdapter) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	var (
		c     domain.Customer
		phone sql.NullString
	)
	err := m.db.QueryRowContext(ctx, `
		SELECT id, name, email, phone, created_at
		FROM customers WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name, &c.Email, &phone, &c.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query customer: %w", err)
	}

	c.Phone = phone.String
	return &c, nil
}

func (m *MySQLAdapter) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	err := m.db.QueryRowContext(ctx, `
		SELECT id, name, price, stock, created_at, updated_at
		FROM products WHERE id = ?`, id,
	).Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.CreatedAt, &p.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query product: %w", err)
	}

	return &p, nil
}

func (m *MySQLAdapter) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	var o domain.Order
	err := m.db.QueryRowContext(ctx, `
		SELECT o.id, o.customer_id, o.total_amount, o.order_date, c.email
		FROM orders o JOIN customers c ON c.id = o.customer_id
		WHERE o.id = ?`, id,
	).Scan(&o.ID, &o.CustomerID, &o.TotalAmount, &o.OrderDate, &o.CustomerEmail)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query order: %w", err)
	}

	return &o, nil
}

func (m *MySQLAdapter) ListCustomers(ctx context.Context, f domain.CustomerFilter) ([]domain.Customer, error) {
	query := `SELECT id, name, email, phone, created_at FROM customers`
	var (
		where []string
		args  []any
	)
	if f.Search != "" {
		where = append(where, `(name LIKE ? OR email LIKE ?)`)
		pattern := "%" + f.Search + "%"
		args = append(args, pattern, pattern)
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at" + limitClause(f.First, f.Skip)

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	customers := []domain.Customer{}
	for rows.Next() {
		var (
			c     domain.Customer
			phone sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &phone, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		c.Phone = phone.String
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (m *MySQLAdapter) ListProducts(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	query := `SELECT id, name, price, stock, created_at, updated_at FROM products`
	var (
		where []string
		args  []any
	)
	if f.Search != "" {
		where = append(where, `name LIKE ?`)
		args = append(args, "%"+f.Search+"%")
	}
	if f.MinPrice != nil {
		where = append(where, `price >= ?`)
		args = append(args, *f.MinPrice)
	}
	if f.MaxPrice != nil {
		where = append(where, `price <= ?`)
		args = append(args, *f.MaxPrice)
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at" + limitClause(f.First, f.Skip)

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

func (m *MySQLAdapter) ListOrders(ctx context.Context, f domain.OrderFilter) ([]domain.Order, error) {
	query := `
		SELECT o.id, o.customer_id, o.total_amount, o.order_date, c.email
		FROM orders o JOIN customers c ON c.id = o.customer_id`
	var (
		where []string
		args  []any
	)
	if f.OrderDateGte != nil {
		where = append(where, `o.order_date >= ?`)
		args = append(args, *f.OrderDateGte)
	}
	if f.CustomerID != "" {
		where = append(where, `o.customer_id = ?`)
		args = append(args, f.CustomerID)
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY o.order_date" + limitClause(f.First, f.Skip)

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.TotalAmount, &o.OrderDate, &o.CustomerEmail); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (m *MySQLAdapter) LowStockProducts(ctx context.Context, threshold int) ([]domain.Product, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, name, price, stock, created_at, updated_at
		FROM products WHERE stock < ? ORDER BY name`, threshold,
	)
	if err != nil {
		return nil, fmt.Errorf("query low stock products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// RestockLowStock selects the under-threshold products FOR UPDATE and bumps
// them in the same transaction, so the batch commits or rolls back as one.
func (m *MySQLAdapter) RestockLowStock(ctx context.Context, threshold, amount int) ([]domain.Product, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `
		SELECT id, name, price, stock, created_at, updated_at
		FROM products WHERE stock < ? ORDER BY name FOR UPDATE`, threshold,
	)
	if err != nil {
		return nil, fmt.Errorf("query low stock products: %w", err)
	}
	products, err := scanProducts(rows)
	rows.Close()
	if err != nil {
		return nil, err
	}

	if len(products) == 0 {
		return []domain.Product{}, nil
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE products
		SET stock = stock + ?, updated_at = NOW()
		WHERE stock < ?`, amount, threshold,
	)
	if err != nil {
		return nil, fmt.Errorf("restock products: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit restock: %w", err)
	}

	for i := range products {
		products[i].Stock += amount
	}
	return products, nil
}

func (m *MySQLAdapter) CountCustomers(ctx context.Context) (int, error) {
	var n int
	if err := m.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM customers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count customers: %w", err)
	}
	return n, nil
}

func (m *MySQLAdapter) CountOrders(ctx context.Context) (int, error) {
	var n int
	if err := m.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}

func (m *MySQLAdapter) TotalRevenue(ctx context.Context) (float64, error) {
	var total float64
	err := m.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(total_amount), 0) FROM orders`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum revenue: %w", err)
	}
	return total, nil
}

func scanProducts(rows *sql.Rows) ([]domain.Product, error) {
	products := []domain.Product{}
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func limitClause(first, skip int) string {
	switch {
	case first > 0 && skip > 0:
		return fmt.Sprintf(" LIMIT %d OFFSET %d", first, skip)
	case first > 0:
		return fmt.Sprintf(" LIMIT %d", first)
	case skip > 0:
		// MySQL has no OFFSET without LIMIT
		return fmt.Sprintf(" LIMIT 18446744073709551615 OFFSET %d", skip)
	}
	return ""
}
