package service

import (
	"testing"

	"orders-ms/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_PriceItems(t *testing.T) {
	c := newCatalog([]model.Product{
		{ID: "A", Name: "Alpha", Price: decimal.RequireFromString("19.99")},
		{ID: "B", Name: "Beta", Price: decimal.RequireFromString("0.10")},
	})
	orderID := uuid.New()

	items, total, count, err := c.priceItems(orderID, []model.OrderItemRequest{
		{ProductID: "A", Quantity: 3},
		{ProductID: "B", Quantity: 3},
	})

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "60.27", total.StringFixed(2))
	assert.Equal(t, 6, count)
	assert.Equal(t, orderID, items[0].OrderID)
	assert.NotEqual(t, items[0].ID, items[1].ID)
}

func TestCatalog_PriceItems_SubCentPrice(t *testing.T) {
	c := newCatalog([]model.Product{
		{ID: "A", Name: "Alpha", Price: decimal.RequireFromString("0.335")},
	})

	items, total, _, err := c.priceItems(uuid.New(), []model.OrderItemRequest{{ProductID: "A", Quantity: 3}})

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "0.34", items[0].Price.String())
	assert.Equal(t, "1.02", total.String())

	sum := items[0].Price.Mul(decimal.NewFromInt(int64(items[0].Quantity)))
	assert.True(t, total.Equal(sum))
	assert.True(t, total.Equal(total.Round(model.PriceScale)))
}

func TestCatalog_PriceItems_UnknownProduct(t *testing.T) {
	c := newCatalog(nil)

	_, _, _, err := c.priceItems(uuid.New(), []model.OrderItemRequest{{ProductID: "missing", Quantity: 1}})

	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrUnknownProduct)
	assert.Contains(t, err.Error(), "missing")
}

func TestCatalog_AttachNames(t *testing.T) {
	c := newCatalog([]model.Product{{ID: "A", Name: "Alpha"}})
	items := []model.OrderItem{{ProductID: "A"}, {ProductID: "A"}}

	require.NoError(t, c.attachNames(items))
	assert.Equal(t, "Alpha", items[0].Name)
	assert.Equal(t, "Alpha", items[1].Name)

	err := c.attachNames([]model.OrderItem{{ProductID: "B"}})
	assert.ErrorIs(t, err, model.ErrUnknownProduct)
}
