package repository

import (
	"context"
	"testing"
	"time"

	"orders-ms/internal/database"
	"orders-ms/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB creates a PostgreSQL testcontainer with the orders schema and returns a connection pool.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	if testing.Short() {
		t.Skip("skipping repository test in short mode")
	}

	ctx := context.Background()

	// Start PostgreSQL container
	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	// Get connection string
	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	// Create connection pool
	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	// Create schema
	require.NoError(t, database.EnsureSchema(ctx, pool, zerolog.Nop()))

	// Cleanup function
	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

// newTestOrder builds an order with one item per price/quantity pair.
func newTestOrder(status model.OrderStatus, createdAt time.Time, lines ...model.OrderItem) (*model.Order, []model.OrderItem) {
	order := &model.Order{
		ID:        uuid.New(),
		Status:    status,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}

	total := decimal.Zero
	for i := range lines {
		lines[i].ID = uuid.New()
		lines[i].OrderID = order.ID
		total = total.Add(lines[i].Price.Mul(decimal.NewFromInt(int64(lines[i].Quantity))))
		order.TotalItems += lines[i].Quantity
	}
	order.TotalAmount = total

	return order, lines
}

// insertOrder persists an order and its items in one transaction.
func insertOrder(t *testing.T, repo OrderRepository, order *model.Order, items []model.OrderItem) {
	ctx := context.Background()

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)

	require.NoError(t, repo.CreateOrder(ctx, tx, order))
	require.NoError(t, repo.CreateOrderItems(ctx, tx, items))
	require.NoError(t, tx.Commit(ctx))
}

func TestOrderRepository_BeginTx(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	logger := zerolog.Nop()
	repo := NewOrderRepository(pool, logger)

	ctx := context.Background()

	tx, err := repo.BeginTx(ctx)

	require.NoError(t, err)
	require.NotNil(t, tx)

	// Rollback to cleanup
	err = tx.Rollback(ctx)
	assert.NoError(t, err)
}

func TestOrderRepository_CreateAndGetByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	logger := zerolog.Nop()
	repo := NewOrderRepository(pool, logger)

	ctx := context.Background()

	order, items := newTestOrder(model.StatusPending, time.Now().UTC(),
		model.OrderItem{ProductID: "A", Quantity: 2, Price: decimal.RequireFromString("10.00")},
		model.OrderItem{ProductID: "B", Quantity: 1, Price: decimal.RequireFromString("5.50")},
	)
	insertOrder(t, repo, order, items)

	tests := []struct {
		name          string
		orderID       uuid.UUID
		expectNil     bool
		expectedItems int
	}{
		{
			name:          "Order exists with items",
			orderID:       order.ID,
			expectNil:     false,
			expectedItems: 2,
		},
		{
			name:          "Order does not exist",
			orderID:       uuid.New(),
			expectNil:     true,
			expectedItems: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			retrieved, err := repo.GetByID(ctx, tt.orderID)

			require.NoError(t, err)

			if tt.expectNil {
				assert.Nil(t, retrieved)
				return
			}

			require.NotNil(t, retrieved)
			assert.Equal(t, order.ID, retrieved.ID)
			assert.True(t, decimal.RequireFromString("25.50").Equal(retrieved.TotalAmount))
			assert.Equal(t, 3, retrieved.TotalItems)
			assert.Equal(t, model.StatusPending, retrieved.Status)
			assert.False(t, retrieved.Paid)
			require.Len(t, retrieved.Items, tt.expectedItems)
			assert.Equal(t, "A", retrieved.Items[0].ProductID)
			assert.Equal(t, "B", retrieved.Items[1].ProductID)

			itemsByProductID := make(map[string]model.OrderItem)
			for _, item := range retrieved.Items {
				itemsByProductID[item.ProductID] = item
			}

			for _, expectedItem := range items {
				actualItem, found := itemsByProductID[expectedItem.ProductID]
				require.True(t, found, "Product %s not found in retrieved items", expectedItem.ProductID)
				assert.Equal(t, expectedItem.OrderID, actualItem.OrderID)
				assert.Equal(t, expectedItem.Quantity, actualItem.Quantity)
				assert.True(t, expectedItem.Price.Equal(actualItem.Price))
				assert.Empty(t, actualItem.Name)
			}
		})
	}
}

func TestOrderRepository_TransactionRollback(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	logger := zerolog.Nop()
	repo := NewOrderRepository(pool, logger)

	ctx := context.Background()

	order, items := newTestOrder(model.StatusPending, time.Now().UTC(),
		model.OrderItem{ProductID: "A", Quantity: 1, Price: decimal.NewFromInt(10)},
	)
	// Second item violates the quantity check, so the whole unit must be discarded.
	items = append(items, model.OrderItem{ID: uuid.New(), OrderID: order.ID, ProductID: "B", Quantity: 0, Price: decimal.NewFromInt(1)})

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)

	require.NoError(t, repo.CreateOrder(ctx, tx, order))
	require.Error(t, repo.CreateOrderItems(ctx, tx, items))
	require.NoError(t, tx.Rollback(ctx))

	// Verify no partial order was persisted
	retrieved, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Nil(t, retrieved)

	var count int
	require.NoError(t, pool.QueryRow(ctx, "SELECT COUNT(*) FROM order_items WHERE order_id = $1", order.ID).Scan(&count))
	assert.Equal(t, 0, count)
}

func TestOrderRepository_CountAndList(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	logger := zerolog.Nop()
	repo := NewOrderRepository(pool, logger)

	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	statuses := []model.OrderStatus{
		model.StatusPending,
		model.StatusDelivered,
		model.StatusPending,
		model.StatusCancelled,
		model.StatusPending,
	}

	var ids []uuid.UUID
	for i, status := range statuses {
		order, items := newTestOrder(status, base.Add(time.Duration(i)*time.Minute),
			model.OrderItem{ProductID: "A", Quantity: 1, Price: decimal.NewFromInt(10)},
		)
		insertOrder(t, repo, order, items)
		ids = append(ids, order.ID)
	}

	pending := model.StatusPending
	paid := model.StatusPaid

	t.Run("Count all", func(t *testing.T) {
		count, err := repo.Count(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, 5, count)
	})

	t.Run("Count by status", func(t *testing.T) {
		count, err := repo.Count(ctx, &pending)
		require.NoError(t, err)
		assert.Equal(t, 3, count)

		count, err = repo.Count(ctx, &paid)
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})

	t.Run("List newest first", func(t *testing.T) {
		orders, err := repo.List(ctx, model.OrderFilter{Take: 2, Skip: 0})
		require.NoError(t, err)
		require.Len(t, orders, 2)
		assert.Equal(t, ids[4], orders[0].ID)
		assert.Equal(t, ids[3], orders[1].ID)
		assert.Empty(t, orders[0].Items)
	})

	t.Run("List with skip and status", func(t *testing.T) {
		orders, err := repo.List(ctx, model.OrderFilter{Status: &pending, Take: 10, Skip: 1})
		require.NoError(t, err)
		require.Len(t, orders, 2)
		assert.Equal(t, ids[2], orders[0].ID)
		assert.Equal(t, ids[0], orders[1].ID)
	})

	t.Run("List past the end", func(t *testing.T) {
		orders, err := repo.List(ctx, model.OrderFilter{Take: 10, Skip: 50})
		require.NoError(t, err)
		assert.Empty(t, orders)
	})
}

func TestOrderRepository_ListTiesKeepInsertionOrder(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	logger := zerolog.Nop()
	repo := NewOrderRepository(pool, logger)

	ctx := context.Background()
	createdAt := time.Now().UTC().Truncate(time.Second)

	first, firstItems := newTestOrder(model.StatusPending, createdAt,
		model.OrderItem{ProductID: "A", Quantity: 1, Price: decimal.NewFromInt(1)},
	)
	second, secondItems := newTestOrder(model.StatusPending, createdAt,
		model.OrderItem{ProductID: "A", Quantity: 1, Price: decimal.NewFromInt(1)},
	)
	insertOrder(t, repo, first, firstItems)
	insertOrder(t, repo, second, secondItems)

	orders, err := repo.List(ctx, model.OrderFilter{Take: 10})
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, second.ID, orders[0].ID)
	assert.Equal(t, first.ID, orders[1].ID)
}

func TestOrderRepository_UpdateStatus(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	logger := zerolog.Nop()
	repo := NewOrderRepository(pool, logger)

	ctx := context.Background()

	order, items := newTestOrder(model.StatusPending, time.Now().UTC(),
		model.OrderItem{ProductID: "A", Quantity: 2, Price: decimal.NewFromInt(10)},
	)
	insertOrder(t, repo, order, items)

	t.Run("Existing order", func(t *testing.T) {
		updated, err := repo.UpdateStatus(ctx, order.ID, model.StatusDelivered)
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Equal(t, model.StatusDelivered, updated.Status)
		assert.True(t, decimal.NewFromInt(20).Equal(updated.TotalAmount))
		assert.Equal(t, 2, updated.TotalItems)
	})

	t.Run("Missing order", func(t *testing.T) {
		updated, err := repo.UpdateStatus(ctx, uuid.New(), model.StatusDelivered)
		require.NoError(t, err)
		assert.Nil(t, updated)
	})
}

func TestOrderRepository_ErrorPaths(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	logger := zerolog.Nop()
	repo := NewOrderRepository(pool, logger)

	ctx := context.Background()

	// Close the pool to simulate database errors
	pool.Close()

	t.Run("BeginTx with closed pool", func(t *testing.T) {
		tx, err := repo.BeginTx(ctx)

		require.Error(t, err)
		assert.Nil(t, tx)
	})

	t.Run("GetByID with closed pool", func(t *testing.T) {
		order, err := repo.GetByID(ctx, uuid.New())

		require.Error(t, err)
		assert.Nil(t, order)
	})

	t.Run("Count with closed pool", func(t *testing.T) {
		_, err := repo.Count(ctx, nil)
		require.Error(t, err)
	})

	t.Run("List with closed pool", func(t *testing.T) {
		orders, err := repo.List(ctx, model.OrderFilter{Take: 10})
		require.Error(t, err)
		assert.Nil(t, orders)
	})
}
