package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"orders-ms/internal/config"
	"orders-ms/internal/database"
	"orders-ms/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container, a pool and the orders schema.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("ordersdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	dbConfig := config.DatabaseConfig{
		URL:             connStr,
		MaxConnections:  10,
		MinConnections:  2,
		MaxConnLifetime: 300,
	}

	logger := zerolog.Nop()
	pool, err := database.NewPool(ctx, dbConfig, logger)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := database.EnsureSchema(ctx, pool, logger); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// CleanupDB removes all orders and their items.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"order_items", "orders"}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}

// CountOrders returns the number of persisted orders and items.
func CountOrders(t *testing.T, pool *pgxpool.Pool) (orders, items int) {
	t.Helper()

	ctx := context.Background()
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM orders").Scan(&orders); err != nil {
		t.Fatalf("failed to count orders: %v", err)
	}
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM order_items").Scan(&items); err != nil {
		t.Fatalf("failed to count order items: %v", err)
	}
	return orders, items
}

// Catalogue is an in-memory product.Client. Unknown IDs are omitted from the
// result, the way the catalogue service reports them.
type Catalogue struct {
	Products map[string]model.Product
	Err      error
}

// NewCatalogue returns a catalogue seeded with a small set of products.
func NewCatalogue() *Catalogue {
	products := []model.Product{
		{ID: "A", Name: "Keyboard", Price: decimal.NewFromInt(10)},
		{ID: "B", Name: "Mouse", Price: decimal.NewFromInt(5)},
		{ID: "C", Name: "Monitor", Price: decimal.RequireFromString("199.99")},
	}

	c := &Catalogue{Products: make(map[string]model.Product, len(products))}
	for _, p := range products {
		c.Products[p.ID] = p
	}
	return c
}

// Validate returns the known products among ids.
func (c *Catalogue) Validate(ctx context.Context, ids []string) ([]model.Product, error) {
	if c.Err != nil {
		return nil, c.Err
	}

	out := make([]model.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := c.Products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}
