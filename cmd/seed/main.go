package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/rl1809/crm-ops/internal/adapter/storage"
	"github.com/rl1809/crm-ops/internal/config"
	"github.com/rl1809/crm-ops/internal/core/domain"
)

func main() {
	var (
		customerCount = flag.Int("customers", 10, "number of customers to create")
		productCount  = flag.Int("products", 10, "number of products to create")
		orderCount    = flag.Int("orders", 25, "number of orders to create")
		daySpread     = flag.Int("days", 30, "spread order dates over the past N days")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("failed to connect mysql: %v", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to ping mysql: %v", err)
	}

	store := storage.NewMySQLAdapter(db)

	customers := make([]domain.Customer, 0, *customerCount)
	for i := 0; i < *customerCount; i++ {
		c, err := store.CreateCustomer(ctx, domain.CustomerInput{
			Name:  fmt.Sprintf("Customer %d", i+1),
			Email: fmt.Sprintf("customer%d@example.com", i+1),
		})
		if err != nil {
			log.Fatalf("failed to create customer: %v", err)
		}
		customers = append(customers, *c)
	}

	for i := 0; i < *productCount; i++ {
		// Every third product starts below the default restock threshold so
		// the replenishment job has work to do.
		stock := 20 + rand.Intn(80)
		if i%3 == 0 {
			stock = rand.Intn(10)
		}
		_, err := store.CreateProduct(ctx, domain.ProductInput{
			Name:  fmt.Sprintf("Product %d", i+1),
			Price: float64(5+rand.Intn(500)) + 0.99,
			Stock: stock,
		})
		if err != nil {
			log.Fatalf("failed to create product: %v", err)
		}
	}

	for i := 0; i < *orderCount; i++ {
		customer := customers[rand.Intn(len(customers))]
		age := time.Duration(rand.Intn(*daySpread*24)) * time.Hour
		_, err := store.CreateOrder(ctx, domain.OrderInput{
			CustomerID:  customer.ID,
			TotalAmount: float64(10+rand.Intn(1000)) + 0.50,
			OrderDate:   time.Now().Add(-age),
		})
		if err != nil {
			log.Fatalf("failed to create order: %v", err)
		}
	}

	fmt.Println("========== SEED RESULTS ==========")
	fmt.Printf("Customers: %d\n", *customerCount)
	fmt.Printf("Products:  %d\n", *productCount)
	fmt.Printf("Orders:    %d (spread over %d days)\n", *orderCount, *daySpread)
	fmt.Println("==================================")
}
