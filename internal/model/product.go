package model

import "github.com/shopspring/decimal"

// Product is the catalogue view of a product as returned by the product service.
// It is never persisted by this service.
type Product struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}
