package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/crm-ops/internal/core/domain"
)

// Mock DatabaseRepository
type mockStore struct {
	customers []domain.Customer
	products  []domain.Product
	orders    []domain.Order

	restocked    []domain.Product
	restockErr   error
	lastOrderGte *time.Time
}

func (m *mockStore) CreateCustomer(_ context.Context, in domain.CustomerInput) (*domain.Customer, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	c := domain.Customer{ID: "c-1", Name: in.Name, Email: in.Email, Phone: in.Phone, CreatedAt: time.Now()}
	m.customers = append(m.customers, c)
	return &c, nil
}

func (m *mockStore) CreateProduct(_ context.Context, in domain.ProductInput) (*domain.Product, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	p := domain.Product{ID: "p-1", Name: in.Name, Price: in.Price, Stock: in.Stock}
	m.products = append(m.products, p)
	return &p, nil
}

func (m *mockStore) CreateOrder(_ context.Context, in domain.OrderInput) (*domain.Order, error) {
	o := domain.Order{ID: "o-1", CustomerID: in.CustomerID, TotalAmount: in.TotalAmount, OrderDate: in.OrderDate}
	m.orders = append(m.orders, o)
	return &o, nil
}

func (m *mockStore) GetCustomer(_ context.Context, id string) (*domain.Customer, error) {
	for _, c := range m.customers {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, nil
}

func (m *mockStore) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	for _, p := range m.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, nil
}

func (m *mockStore) GetOrder(_ context.Context, id string) (*domain.Order, error) {
	for _, o := range m.orders {
		if o.ID == id {
			return &o, nil
		}
	}
	return nil, nil
}

func (m *mockStore) ListCustomers(_ context.Context, _ domain.CustomerFilter) ([]domain.Customer, error) {
	return m.customers, nil
}

func (m *mockStore) ListProducts(_ context.Context, _ domain.ProductFilter) ([]domain.Product, error) {
	return m.products, nil
}

func (m *mockStore) ListOrders(_ context.Context, f domain.OrderFilter) ([]domain.Order, error) {
	m.lastOrderGte = f.OrderDateGte
	return m.orders, nil
}

func (m *mockStore) LowStockProducts(_ context.Context, threshold int) ([]domain.Product, error) {
	low := []domain.Product{}
	for _, p := range m.products {
		if p.Stock < threshold {
			low = append(low, p)
		}
	}
	return low, nil
}

func (m *mockStore) RestockLowStock(_ context.Context, threshold, amount int) ([]domain.Product, error) {
	if m.restockErr != nil {
		return nil, m.restockErr
	}
	return m.restocked, nil
}

func (m *mockStore) CountCustomers(_ context.Context) (int, error) { return len(m.customers), nil }
func (m *mockStore) CountOrders(_ context.Context) (int, error)    { return len(m.orders), nil }

func (m *mockStore) TotalRevenue(_ context.Context) (float64, error) {
	var total float64
	for _, o := range m.orders {
		total += o.TotalAmount
	}
	return total, nil
}

func newTestHandler(store *mockStore) *HTTPHandler {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewHTTPHandler(store, logger)
}

func post(t *testing.T, h *HTTPHandler, query string, variables any) (*httptest.ResponseRecorder, graphQLResponse) {
	t.Helper()

	body, err := json.Marshal(map[string]any{"query": query, "variables": variables})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.GraphQL(rec, req)

	var resp graphQLResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return rec, resp
}

func TestGraphQL_Hello(t *testing.T) {
	h := newTestHandler(&mockStore{})

	rec, resp := post(t, h, `query { hello }`, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, resp.Errors)
	assert.Equal(t, "Hello GraphQL!", resp.Data["hello"])
}

func TestGraphQL_Stats(t *testing.T) {
	store := &mockStore{
		customers: []domain.Customer{{ID: "c-1"}, {ID: "c-2"}},
		orders: []domain.Order{
			{ID: "o-1", TotalAmount: 100.5},
			{ID: "o-2", TotalAmount: 49.5},
		},
	}
	h := newTestHandler(store)

	_, resp := post(t, h, `query GetCRMStats { totalCustomers totalOrders totalRevenue }`, nil)
	require.Empty(t, resp.Errors)
	assert.Equal(t, float64(2), resp.Data["totalCustomers"])
	assert.Equal(t, float64(2), resp.Data["totalOrders"])
	assert.Equal(t, 150.0, resp.Data["totalRevenue"])
}

func TestGraphQL_OrdersWithDateFilter(t *testing.T) {
	store := &mockStore{
		orders: []domain.Order{
			{ID: "o-1", CustomerEmail: "a@example.com", OrderDate: time.Now()},
		},
	}
	h := newTestHandler(store)

	cutoff := time.Now().AddDate(0, 0, -7).UTC().Truncate(time.Second)
	_, resp := post(t, h,
		`query GetRecentOrders($orderDateGte: DateTime!) { orders(orderDateGte: $orderDateGte) { id orderDate customer { email } } }`,
		map[string]any{"orderDateGte": cutoff.Format(time.RFC3339)},
	)
	require.Empty(t, resp.Errors)
	require.NotNil(t, store.lastOrderGte)
	assert.True(t, store.lastOrderGte.Equal(cutoff))

	raw, err := json.Marshal(resp.Data["orders"])
	require.NoError(t, err)
	var orders []orderDTO
	require.NoError(t, json.Unmarshal(raw, &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, "o-1", orders[0].ID)
	assert.Equal(t, "a@example.com", orders[0].Customer.Email)
}

func TestGraphQL_NestedCustomerFieldDoesNotDispatch(t *testing.T) {
	h := newTestHandler(&mockStore{})

	// The customer selection inside orders must not trigger the top-level
	// customer resolver (which would fail on the missing id).
	_, resp := post(t, h, `query { orders { id customer { email } } }`, nil)
	assert.Empty(t, resp.Errors)
	_, hasCustomer := resp.Data["customer"]
	assert.False(t, hasCustomer)
}

func TestGraphQL_UpdateLowStock(t *testing.T) {
	store := &mockStore{
		restocked: []domain.Product{
			{Name: "Widget", Stock: 15},
			{Name: "Gadget", Stock: 12},
		},
	}
	h := newTestHandler(store)

	_, resp := post(t, h,
		`mutation UpdateLowStockProducts { updateLowStockProducts { success message updatedProducts { name stock } } }`,
		nil,
	)
	require.Empty(t, resp.Errors)

	raw, err := json.Marshal(resp.Data["updateLowStockProducts"])
	require.NoError(t, err)
	var result mutationResult
	require.NoError(t, json.Unmarshal(raw, &result))

	assert.True(t, result.Success)
	assert.Equal(t, "Updated 2 products", result.Message)
	require.Len(t, result.UpdatedProducts, 2)
	assert.Equal(t, "Widget", result.UpdatedProducts[0].Name)
	assert.Equal(t, 15, result.UpdatedProducts[0].Stock)
}

func TestGraphQL_UpdateLowStock_NothingBelowThreshold(t *testing.T) {
	h := newTestHandler(&mockStore{})

	_, resp := post(t, h,
		`mutation { updateLowStockProducts(threshold: $threshold) { success message updatedProducts { name stock } } }`,
		map[string]any{"threshold": 5},
	)
	require.Empty(t, resp.Errors)

	raw, _ := json.Marshal(resp.Data["updateLowStockProducts"])
	var result mutationResult
	require.NoError(t, json.Unmarshal(raw, &result))

	assert.True(t, result.Success)
	assert.Equal(t, "No products with stock below 5", result.Message)
	assert.Empty(t, result.UpdatedProducts)
}

func TestGraphQL_UpdateLowStock_StoreFailure(t *testing.T) {
	store := &mockStore{restockErr: errors.New("deadlock found")}
	h := newTestHandler(store)

	_, resp := post(t, h, `mutation { updateLowStockProducts { success message } }`, nil)
	require.Empty(t, resp.Errors, "a failed restock is a payload outcome, not a document error")

	raw, _ := json.Marshal(resp.Data["updateLowStockProducts"])
	var result mutationResult
	require.NoError(t, json.Unmarshal(raw, &result))

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "deadlock found")
}

func TestGraphQL_CreateCustomer(t *testing.T) {
	h := newTestHandler(&mockStore{})

	_, resp := post(t, h,
		`mutation CreateCustomer($input: CustomerInput!) { createCustomer(input: $input) { success message customer { id name email } } }`,
		map[string]any{"input": map[string]any{"name": "Alice", "email": "alice@example.com"}},
	)
	require.Empty(t, resp.Errors)

	raw, _ := json.Marshal(resp.Data["createCustomer"])
	var result mutationResult
	require.NoError(t, json.Unmarshal(raw, &result))

	assert.True(t, result.Success)
	require.NotNil(t, result.Customer)
	assert.Equal(t, "Alice", result.Customer.Name)
}

func TestGraphQL_CreateCustomer_MissingEmail(t *testing.T) {
	h := newTestHandler(&mockStore{})

	_, resp := post(t, h,
		`mutation { createCustomer(input: $input) { success message } }`,
		map[string]any{"input": map[string]any{"name": "Bob"}},
	)
	require.Empty(t, resp.Errors)

	raw, _ := json.Marshal(resp.Data["createCustomer"])
	var result mutationResult
	require.NoError(t, json.Unmarshal(raw, &result))

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "email is required")
}

func TestGraphQL_CreateProduct_NegativePrice(t *testing.T) {
	h := newTestHandler(&mockStore{})

	_, resp := post(t, h,
		`mutation { createProduct(input: $input) { success message } }`,
		map[string]any{"input": map[string]any{"name": "Widget", "price": -1.0, "stock": 5}},
	)
	require.Empty(t, resp.Errors)

	raw, _ := json.Marshal(resp.Data["createProduct"])
	var result mutationResult
	require.NoError(t, json.Unmarshal(raw, &result))

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "price must not be negative")
}

func TestGraphQL_UnknownDocument(t *testing.T) {
	h := newTestHandler(&mockStore{})

	rec, resp := post(t, h, `query { somethingNobodyKnows }`, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"unknown document"}, resp.Errors)
}

func TestGraphQL_InvalidBody(t *testing.T) {
	h := newTestHandler(&mockStore{})

	req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader([]byte("{")))
	rec := httptest.NewRecorder()
	h.GraphQL(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGraphQL_MethodNotAllowed(t *testing.T) {
	h := newTestHandler(&mockStore{})

	req := httptest.NewRequest(http.MethodGet, "/graphql", nil)
	rec := httptest.NewRecorder()
	h.GraphQL(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestTopLevelFields(t *testing.T) {
	fields := topLevelFields(`query GetRecentOrders($orderDateGte: DateTime!) {
		orders(orderDateGte: $orderDateGte, first: 10) {
			id
			orderDate
			customer {
				email
			}
		}
	}`)

	assert.True(t, fields["orders"])
	assert.False(t, fields["customer"], "nested selections are not top-level")
	assert.False(t, fields["orderDateGte"], "arguments are not fields")
	assert.False(t, fields["GetRecentOrders"], "operation name is not a field")
}
