package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rl1809/crm-ops/internal/core/domain"
	"github.com/rl1809/crm-ops/internal/port"
)

// HTTPHandler serves the query gateway: a POST endpoint taking a document
// plus variables and dispatching to store-backed resolvers. Documents are
// recognized by their top-level field names; this is a fixed-document
// gateway, not a general GraphQL executor.
type HTTPHandler struct {
	store  port.DatabaseRepository
	logger *logrus.Logger
}

func NewHTTPHandler(store port.DatabaseRepository, logger *logrus.Logger) *HTTPHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &HTTPHandler{store: store, logger: logger}
}

type graphQLRequest struct {
	Query     string          `json:"query"`
	Variables json.RawMessage `json:"variables"`
}

type graphQLResponse struct {
	Data   map[string]any `json:"data,omitempty"`
	Errors []string       `json:"errors,omitempty"`
}

type customerDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	CreatedAt string `json:"createdAt"`
}

type productDTO struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

type orderDTO struct {
	ID          string      `json:"id"`
	OrderDate   string      `json:"orderDate"`
	TotalAmount float64     `json:"totalAmount"`
	Customer    customerRef `json:"customer"`
}

type customerRef struct {
	Email string `json:"email"`
}

type mutationResult struct {
	Success         bool         `json:"success"`
	Message         string       `json:"message"`
	Customer        *customerDTO `json:"customer,omitempty"`
	Product         *productDTO  `json:"product,omitempty"`
	UpdatedProducts []productDTO `json:"updatedProducts,omitempty"`
}

func (h *HTTPHandler) GraphQL(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req graphQLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, graphQLResponse{Errors: []string{"invalid request body"}})
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeJSON(w, http.StatusBadRequest, graphQLResponse{Errors: []string{"empty document"}})
		return
	}

	data, errs := h.execute(r.Context(), req)
	if len(errs) > 0 {
		writeJSON(w, http.StatusOK, graphQLResponse{Errors: errs})
		return
	}
	writeJSON(w, http.StatusOK, graphQLResponse{Data: data})
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) execute(ctx context.Context, req graphQLRequest) (map[string]any, []string) {
	data := map[string]any{}
	var errs []string

	resolvers := []struct {
		field   string
		resolve func(ctx context.Context, vars json.RawMessage) (any, error)
	}{
		{"hello", h.resolveHello},
		{"updateLowStockProducts", h.resolveUpdateLowStock},
		{"createCustomer", h.resolveCreateCustomer},
		{"createProduct", h.resolveCreateProduct},
		{"lowStockProducts", h.resolveLowStockProducts},
		{"totalCustomers", h.resolveTotalCustomers},
		{"totalOrders", h.resolveTotalOrders},
		{"totalRevenue", h.resolveTotalRevenue},
		{"customers", h.resolveCustomers},
		{"customer", h.resolveCustomer},
		{"orders", h.resolveOrders},
		{"order", h.resolveOrder},
		{"products", h.resolveProducts},
		{"product", h.resolveProduct},
	}

	fields := topLevelFields(req.Query)

	matched := false
	for _, res := range resolvers {
		if !fields[res.field] {
			continue
		}
		matched = true
		value, err := res.resolve(ctx, req.Variables)
		if err != nil {
			h.logger.WithError(err).WithField("field", res.field).Warn("resolver failed")
			errs = append(errs, fmt.Sprintf("%s: %v", res.field, err))
			continue
		}
		data[res.field] = value
	}

	if !matched {
		return nil, []string{"unknown document"}
	}
	return data, errs
}

func (h *HTTPHandler) resolveHello(context.Context, json.RawMessage) (any, error) {
	return "Hello GraphQL!", nil
}

func (h *HTTPHandler) resolveUpdateLowStock(ctx context.Context, vars json.RawMessage) (any, error) {
	params := struct {
		Threshold     *int `json:"threshold"`
		RestockAmount *int `json:"restockAmount"`
	}{}
	if err := decodeVars(vars, &params); err != nil {
		return nil, err
	}
	threshold := 10
	if params.Threshold != nil {
		threshold = *params.Threshold
	}
	amount := 10
	if params.RestockAmount != nil {
		amount = *params.RestockAmount
	}

	updated, err := h.store.RestockLowStock(ctx, threshold, amount)
	if err != nil {
		// Mirror the store outcome into the payload; a failed restock is a
		// well-formed mutation response, not a document error.
		return mutationResult{Success: false, Message: fmt.Sprintf("Error updating products: %v", err)}, nil
	}

	result := mutationResult{
		Success:         true,
		Message:         fmt.Sprintf("Updated %d products", len(updated)),
		UpdatedProducts: []productDTO{},
	}
	if len(updated) == 0 {
		result.Message = fmt.Sprintf("No products with stock below %d", threshold)
	}
	for _, p := range updated {
		result.UpdatedProducts = append(result.UpdatedProducts, toProductDTO(p))
	}
	return result, nil
}

func (h *HTTPHandler) resolveCreateCustomer(ctx context.Context, vars json.RawMessage) (any, error) {
	params := struct {
		Input domain.CustomerInput `json:"input"`
	}{}
	if err := decodeVars(vars, &params); err != nil {
		return nil, err
	}

	customer, err := h.store.CreateCustomer(ctx, params.Input)
	if err != nil {
		return mutationResult{Success: false, Message: fmt.Sprintf("Error creating customer: %v", err)}, nil
	}

	dto := toCustomerDTO(*customer)
	return mutationResult{Success: true, Message: "Customer created successfully", Customer: &dto}, nil
}

func (h *HTTPHandler) resolveCreateProduct(ctx context.Context, vars json.RawMessage) (any, error) {
	params := struct {
		Input domain.ProductInput `json:"input"`
	}{}
	if err := decodeVars(vars, &params); err != nil {
		return nil, err
	}

	product, err := h.store.CreateProduct(ctx, params.Input)
	if err != nil {
		return mutationResult{Success: false, Message: fmt.Sprintf("Error creating product: %v", err)}, nil
	}

	dto := toProductDTO(*product)
	return mutationResult{Success: true, Message: "Product created successfully", Product: &dto}, nil
}

func (h *HTTPHandler) resolveLowStockProducts(ctx context.Context, vars json.RawMessage) (any, error) {
	params := struct {
		Threshold *int `json:"threshold"`
	}{}
	if err := decodeVars(vars, &params); err != nil {
		return nil, err
	}
	threshold := 10
	if params.Threshold != nil {
		threshold = *params.Threshold
	}

	products, err := h.store.LowStockProducts(ctx, threshold)
	if err != nil {
		return nil, err
	}
	return toProductDTOs(products), nil
}

func (h *HTTPHandler) resolveTotalCustomers(ctx context.Context, _ json.RawMessage) (any, error) {
	return h.store.CountCustomers(ctx)
}

func (h *HTTPHandler) resolveTotalOrders(ctx context.Context, _ json.RawMessage) (any, error) {
	return h.store.CountOrders(ctx)
}

func (h *HTTPHandler) resolveTotalRevenue(ctx context.Context, _ json.RawMessage) (any, error) {
	return h.store.TotalRevenue(ctx)
}

func (h *HTTPHandler) resolveCustomers(ctx context.Context, vars json.RawMessage) (any, error) {
	params := struct {
		Search string `json:"search"`
		First  int    `json:"first"`
		Skip   int    `json:"skip"`
	}{}
	if err := decodeVars(vars, &params); err != nil {
		return nil, err
	}

	customers, err := h.store.ListCustomers(ctx, domain.CustomerFilter{
		Search: params.Search, First: params.First, Skip: params.Skip,
	})
	if err != nil {
		return nil, err
	}

	dtos := []customerDTO{}
	for _, c := range customers {
		dtos = append(dtos, toCustomerDTO(c))
	}
	return dtos, nil
}

func (h *HTTPHandler) resolveCustomer(ctx context.Context, vars json.RawMessage) (any, error) {
	id, err := idVar(vars)
	if err != nil {
		return nil, err
	}
	customer, err := h.store.GetCustomer(ctx, id)
	if err != nil || customer == nil {
		return nil, err
	}
	dto := toCustomerDTO(*customer)
	return &dto, nil
}

func (h *HTTPHandler) resolveOrders(ctx context.Context, vars json.RawMessage) (any, error) {
	params := struct {
		OrderDateGte string `json:"orderDateGte"`
		DateFrom     string `json:"dateFrom"` // legacy alias used by older callers
		CustomerID   string `json:"customerId"`
		First        int    `json:"first"`
		Skip         int    `json:"skip"`
	}{}
	if err := decodeVars(vars, &params); err != nil {
		return nil, err
	}

	filter := domain.OrderFilter{CustomerID: params.CustomerID, First: params.First, Skip: params.Skip}
	raw := params.OrderDateGte
	if raw == "" {
		raw = params.DateFrom
	}
	if raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, fmt.Errorf("invalid orderDateGte: %v", err)
		}
		filter.OrderDateGte = &ts
	}

	orders, err := h.store.ListOrders(ctx, filter)
	if err != nil {
		return nil, err
	}

	dtos := []orderDTO{}
	for _, o := range orders {
		dtos = append(dtos, toOrderDTO(o))
	}
	return dtos, nil
}

func (h *HTTPHandler) resolveOrder(ctx context.Context, vars json.RawMessage) (any, error) {
	id, err := idVar(vars)
	if err != nil {
		return nil, err
	}
	order, err := h.store.GetOrder(ctx, id)
	if err != nil || order == nil {
		return nil, err
	}
	dto := toOrderDTO(*order)
	return &dto, nil
}

func (h *HTTPHandler) resolveProducts(ctx context.Context, vars json.RawMessage) (any, error) {
	params := struct {
		Search   string   `json:"search"`
		MinPrice *float64 `json:"minPrice"`
		MaxPrice *float64 `json:"maxPrice"`
		First    int      `json:"first"`
		Skip     int      `json:"skip"`
	}{}
	if err := decodeVars(vars, &params); err != nil {
		return nil, err
	}

	products, err := h.store.ListProducts(ctx, domain.ProductFilter{
		Search:   params.Search,
		MinPrice: params.MinPrice,
		MaxPrice: params.MaxPrice,
		First:    params.First,
		Skip:     params.Skip,
	})
	if err != nil {
		return nil, err
	}
	return toProductDTOs(products), nil
}

func (h *HTTPHandler) resolveProduct(ctx context.Context, vars json.RawMessage) (any, error) {
	id, err := idVar(vars)
	if err != nil {
		return nil, err
	}
	product, err := h.store.GetProduct(ctx, id)
	if err != nil || product == nil {
		return nil, err
	}
	dto := toProductDTO(*product)
	return &dto, nil
}

// topLevelFields collects the field names in the operation's outermost
// selection set. Nested selections (like the customer email inside an
// orders query) and argument lists are skipped by tracking brace and paren
// depth, so only real top-level fields reach the resolvers.
func topLevelFields(document string) map[string]bool {
	fields := map[string]bool{}
	braces, parens := 0, 0

	for i := 0; i < len(document); i++ {
		switch c := document[i]; {
		case c == '{':
			braces++
		case c == '}':
			braces--
		case c == '(':
			parens++
		case c == ')':
			parens--
		case braces == 1 && parens == 0 && isWordChar(c):
			j := i
			for j < len(document) && isWordChar(document[j]) {
				j++
			}
			fields[document[i:j]] = true
			i = j - 1
		}
	}
	return fields
}

func isWordChar(b byte) bool {
	return b == '_' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

func decodeVars(vars json.RawMessage, into any) error {
	if len(vars) == 0 {
		return nil
	}
	if err := json.Unmarshal(vars, into); err != nil {
		return fmt.Errorf("invalid variables: %v", err)
	}
	return nil
}

func idVar(vars json.RawMessage) (string, error) {
	params := struct {
		ID string `json:"id"`
	}{}
	if err := decodeVars(vars, &params); err != nil {
		return "", err
	}
	if params.ID == "" {
		return "", fmt.Errorf("id is required")
	}
	return params.ID, nil
}

func toCustomerDTO(c domain.Customer) customerDTO {
	return customerDTO{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
}

func toProductDTO(p domain.Product) productDTO {
	return productDTO{ID: p.ID, Name: p.Name, Price: p.Price, Stock: p.Stock}
}

func toProductDTOs(products []domain.Product) []productDTO {
	dtos := []productDTO{}
	for _, p := range products {
		dtos = append(dtos, toProductDTO(p))
	}
	return dtos
}

func toOrderDTO(o domain.Order) orderDTO {
	return orderDTO{
		ID:          o.ID,
		OrderDate:   o.OrderDate.Format(time.RFC3339),
		TotalAmount: o.TotalAmount,
		Customer:    customerRef{Email: o.CustomerEmail},
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
