package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog product that list items can link to
type Product struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Brand     *string   `json:"brand,omitempty"`
	Category  *string   `json:"category,omitempty"`
	Barcode   *string   `json:"barcode,omitempty"`
	CreatedBy *string   `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// StorePrice is the most recent price of a product at one store
type StorePrice struct {
	StoreID    string    `json:"store_id"`
	StoreName  string    `json:"store_name"`
	Price      float64   `json:"price"`
	RecordedAt time.Time `json:"recorded_at"`
}

// ProductSearchResult is a catalog hit with its per-store prices and derived aggregates
type ProductSearchResult struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Brand        *string      `json:"brand,omitempty"`
	Category     *string      `json:"category,omitempty"`
	Prices       []StorePrice `json:"prices"`
	AveragePrice *float64     `json:"average_price,omitempty"`
	BestPrice    *float64     `json:"best_price,omitempty"`
	BestStore    *string      `json:"best_store,omitempty"`
}

// Aggregate derives the average price, best price and best store from Prices
func (p *ProductSearchResult) Aggregate() {
	p.AveragePrice, p.BestPrice, p.BestStore = nil, nil, nil
	if len(p.Prices) == 0 {
		return
	}

	sum := decimal.Zero
	best := p.Prices[0]
	for _, sp := range p.Prices {
		sum = sum.Add(decimal.NewFromFloat(sp.Price))
		if sp.Price < best.Price {
			best = sp
		}
	}
	avg := sum.Div(decimal.NewFromInt(int64(len(p.Prices)))).Round(2).InexactFloat64()
	bestPrice, bestStore := best.Price, best.StoreName
	p.AveragePrice, p.BestPrice, p.BestStore = &avg, &bestPrice, &bestStore
}

// ProductMatch is a scored association between a parsed candidate and a catalog product
type ProductMatch struct {
	Product         ProductSearchResult `json:"product"`
	Similarity      float64             `json:"similarity"`
	ConfidenceLevel string              `json:"confidence_level"`
	PriceDeviation  *float64            `json:"price_deviation,omitempty"` // Relative difference to the average price
}

// ConvertItemRequest is the request body for promoting a list item into a catalog product
type ConvertItemRequest struct {
	BrandName     string  `json:"brand_name"`
	StoreName     string  `json:"store_name"`
	StoreLocation *string `json:"store_location,omitempty"`
	Category      *string `json:"category,omitempty"`
	Barcode       *string `json:"barcode,omitempty"`
}

// CreateProductParams is the validated input of the catalog creation transaction
type CreateProductParams struct {
	ProductID     string
	PriceID       string
	Name          string
	BrandName     string
	StoreName     string
	StoreLocation *string
	Category      *string
	Barcode       *string
	Price         float64
	Unit          Unit
	Quantity      float64
	CreatedBy     string
}

// ProductConversion is the result of converting an item into a catalog product
type ProductConversion struct {
	Product Product          `json:"product"`
	PriceID string           `json:"price_id"`
	Item    ShoppingListItem `json:"item"`
}
