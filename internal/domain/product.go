package domain

import (
	"time"
)

// Product represents a product in the catalog. Rating and NumReviews are
// derived from product_reviews and are recomputed in the same transaction
// as any review insert, so they never drift from the review rows.
type Product struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Brand        string    `json:"brand"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	CategoryID   string    `json:"category"`
	CategoryName string    `json:"categoryName,omitempty"`
	Quantity     int       `json:"quantity"`
	CountInStock int       `json:"countInStock"`
	Rating       float64   `json:"rating"`
	NumReviews   int       `json:"numReviews"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProductPage is one page of keyword search results.
type ProductPage struct {
	Products []*Product `json:"products"`
	Page     int        `json:"page"`
	Pages    int        `json:"pages"`
	HasMore  bool       `json:"hasMore"`
}
