package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCustomerInput_Validate(t *testing.T) {
	assert.NoError(t, CustomerInput{Name: "Alice", Email: "alice@example.com"}.Validate())
	assert.NoError(t, CustomerInput{Name: "Bob", Email: "bob@example.com", Phone: "+1-555-0100"}.Validate())

	assert.ErrorIs(t, CustomerInput{Email: "alice@example.com"}.Validate(), ErrNameRequired)
	assert.ErrorIs(t, CustomerInput{Name: "Alice"}.Validate(), ErrEmailRequired)
}

func TestProductInput_Validate(t *testing.T) {
	assert.NoError(t, ProductInput{Name: "Widget", Price: 9.99, Stock: 0}.Validate())

	assert.ErrorIs(t, ProductInput{Price: 1, Stock: 1}.Validate(), ErrNameRequired)
	assert.ErrorIs(t, ProductInput{Name: "Widget", Price: -0.01, Stock: 1}.Validate(), ErrNegativePrice)
	assert.ErrorIs(t, ProductInput{Name: "Widget", Price: 1, Stock: -1}.Validate(), ErrNegativeStock)
}

func TestOrderInput_Validate(t *testing.T) {
	assert.NoError(t, OrderInput{CustomerID: "c-1", TotalAmount: 10}.Validate())
	assert.Error(t, OrderInput{TotalAmount: 10}.Validate())
	assert.Error(t, OrderInput{CustomerID: "c-1", TotalAmount: -1}.Validate())
}
