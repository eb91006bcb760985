package models

import (
	"time"
)

// Store is a shop where catalog prices are recorded
type Store struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  *string   `json:"location,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Brand is a product brand, created on demand by the catalog workflows
type Brand struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// PriceEntry is one recorded price of a product at a store
type PriceEntry struct {
	ID         string    `json:"id"`
	ProductID  string    `json:"product_id"`
	StoreID    string    `json:"store_id"`
	Amount     float64   `json:"amount"`
	Unit       Unit      `json:"unit"`
	Quantity   float64   `json:"quantity"`
	RecordedBy *string   `json:"recorded_by,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}
