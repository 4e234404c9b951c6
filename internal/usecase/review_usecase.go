package usecase

import (
	"context"

	"bazaar/internal/domain/entity"

	"github.com/google/uuid"
)

// SubmitReviewInput carries a review submission. The author comes from the
// caller's principal, never from the payload.
type SubmitReviewInput struct {
	Rating  int    `json:"rating" form:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" form:"comment"`
}

// ReviewUsecase defines review reading and submission.
type ReviewUsecase interface {
	// ListReviews returns a product's reviews ordered by creation time, each
	// annotated with the author's username.
	ListReviews(ctx context.Context, productID uuid.UUID) ([]*entity.Review, error)

	// SubmitReview creates the caller's review for a product. At most one
	// review exists per (product, user); a second submission fails with
	// ErrDuplicateReview.
	SubmitReview(ctx context.Context, principal *entity.Principal, productID uuid.UUID, input *SubmitReviewInput) (*entity.Review, error)

	// AverageRating returns the product's mean rating rounded to two
	// decimals, 0 when it has no reviews. Recomputed on every call.
	AverageRating(ctx context.Context, productID uuid.UUID) (float64, error)
}
