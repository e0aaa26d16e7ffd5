package domain

import "time"

// Order represents a customer order. Item names and prices are snapshots
// taken at order time so later catalog edits do not rewrite history.
type Order struct {
	ID              string      `json:"id"`
	UserID          string      `json:"user"`
	Items           []OrderItem `json:"orderItems"`
	ShippingAddress Address     `json:"shippingAddress"`
	PaymentMethod   string      `json:"paymentMethod"`
	ItemsPrice      float64     `json:"itemsPrice"`
	TaxPrice        float64     `json:"taxPrice"`
	ShippingPrice   float64     `json:"shippingPrice"`
	TotalPrice      float64     `json:"totalPrice"`
	IsPaid          bool        `json:"isPaid"`
	PaidAt          *time.Time  `json:"paidAt,omitempty"`
	IsDelivered     bool        `json:"isDelivered"`
	DeliveredAt     *time.Time  `json:"deliveredAt,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// OrderItem is one line of an order.
type OrderItem struct {
	ProductID string  `json:"product"`
	Name      string  `json:"name"`
	Qty       int     `json:"qty"`
	Price     float64 `json:"price"`
}

// Address is the shipping destination for an order.
type Address struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}
