package entity

import (
	"time"

	"github.com/google/uuid"
)

// Rating bounds accepted for a review.
const (
	MinRating = 1
	MaxRating = 5
)

// Review is a single user's opinion on a product. At most one review exists
// per (product, user) pair, enforced by a unique index at the storage layer.
// Reviews are create-only: once present they are never edited or deleted
// except through product deletion.
type Review struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	UserID    uuid.UUID
	Author    string // Username of the review author, resolved on read.
	Rating    int    // Integer in [MinRating, MaxRating].
	Comment   string
	CreatedAt time.Time
}

// ValidRating reports whether a rating value is inside the accepted bounds.
func ValidRating(rating int) bool {
	return rating >= MinRating && rating <= MaxRating
}
