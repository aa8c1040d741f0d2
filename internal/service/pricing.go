package service

import (
	"fmt"

	"orders-ms/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// catalog indexes catalogue records by product ID. Prices are held at the
// stored scale so line items and totals agree with what is persisted.
type catalog map[string]model.Product

func newCatalog(products []model.Product) catalog {
	c := make(catalog, len(products))
	for _, p := range products {
		p.Price = p.Price.Round(model.PriceScale)
		c[p.ID] = p
	}
	return c
}

func (c catalog) lookup(id string) (model.Product, error) {
	p, ok := c[id]
	if !ok {
		return model.Product{}, fmt.Errorf("%w: %s", model.ErrUnknownProduct, id)
	}
	return p, nil
}

// priceItems builds the line items of orderID at catalogue prices and returns
// them with the order total and the total quantity.
func (c catalog) priceItems(orderID uuid.UUID, reqs []model.OrderItemRequest) ([]model.OrderItem, decimal.Decimal, int, error) {
	items := make([]model.OrderItem, len(reqs))
	total := decimal.Zero
	count := 0

	for i, req := range reqs {
		p, err := c.lookup(req.ProductID)
		if err != nil {
			return nil, decimal.Zero, 0, err
		}

		items[i] = model.OrderItem{
			ID:        uuid.New(),
			OrderID:   orderID,
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
			Price:     p.Price,
			Name:      p.Name,
		}
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(req.Quantity))))
		count += req.Quantity
	}

	return items, total, count, nil
}

// attachNames sets the product name of every item in place.
func (c catalog) attachNames(items []model.OrderItem) error {
	for i := range items {
		p, err := c.lookup(items[i].ProductID)
		if err != nil {
			return err
		}
		items[i].Name = p.Name
	}
	return nil
}
