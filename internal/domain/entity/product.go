package entity

import (
	"time"

	"github.com/google/uuid"
)

// Product is a catalog item managed by admins. Deleting a product removes all
// of its reviews in the same transaction.
type Product struct {
	ID          uuid.UUID
	Name        string
	Description string
	Price       float64 // Non-negative. Stored as numeric(10,2).
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RatedProduct is a Product annotated with its current average rating.
// The rating is derived on read and never persisted.
type RatedProduct struct {
	Product
	AvgRating float64
}
