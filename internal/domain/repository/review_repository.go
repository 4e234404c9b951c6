package repository

import (
	"context"
	"errors"

	"bazaar/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrDuplicateReview is returned when an insert violates the one review per
// (product, user) unique index. The conflict itself is the duplicate check;
// there is no separate pre-insert existence read.
var ErrDuplicateReview = errors.New("review already exists for this product and user")

// ReviewRepository defines the standard operations for review persistence.
type ReviewRepository interface {
	// Create inserts a new review. A unique-index conflict is surfaced as
	// ErrDuplicateReview.
	Create(ctx context.Context, review *entity.Review) error

	// ListByProduct returns all reviews for a product ordered by creation
	// time, each annotated with the author's username.
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]*entity.Review, error)

	// AverageRating computes the arithmetic mean of all ratings for a
	// product, or 0 when the product has no reviews.
	AverageRating(ctx context.Context, productID uuid.UUID) (float64, error)

	// DeleteByProduct removes every review referencing a product. Used by the
	// catalog service's explicit cascade on product deletion.
	DeleteByProduct(ctx context.Context, productID uuid.UUID) error
}
