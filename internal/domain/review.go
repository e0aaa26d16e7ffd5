package domain

import (
	"time"
)

// Review represents a product review submitted by a user. Name is the
// reviewer's username denormalized at write time. A user may review a
// product at most once, enforced by a unique constraint on
// (product_id, user_id).
type Review struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	UserID    string    `json:"user"`
	Name      string    `json:"name"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}
