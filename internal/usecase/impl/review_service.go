package impl

import (
	"context"
	"log/slog"

	deliverycontext "bazaar/internal/delivery/context"
	"bazaar/internal/domain/entity"
	domainerrors "bazaar/internal/domain/errors"
	"bazaar/internal/domain/repository"
	"bazaar/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// reviewService implements the ReviewUsecase interface.
type reviewService struct {
	productRepo repository.ProductRepository
	reviewRepo  repository.ReviewRepository
	logger      *slog.Logger
}

// ReviewServiceParams holds dependencies for reviewService, injected by Fx.
type ReviewServiceParams struct {
	fx.In

	ProductRepo repository.ProductRepository
	ReviewRepo  repository.ReviewRepository
	Logger      *slog.Logger
}

// NewReviewService is the constructor for reviewService.
func NewReviewService(params ReviewServiceParams) usecase.ReviewUsecase {
	return &reviewService{
		productRepo: params.ProductRepo,
		reviewRepo:  params.ReviewRepo,
		logger:      params.Logger,
	}
}

func (srv *reviewService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// requireProduct resolves the referenced product or fails with the domain
// not-found error shared by every review operation.
func (srv *reviewService) requireProduct(ctx context.Context, productID uuid.UUID) error {
	_, err := srv.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return errors.Wrap(domainerrors.ErrProductNotFound, "product lookup failed")
		}

		return errors.Wrap(err, "failed to load product")
	}

	return nil
}

// ListReviews returns all reviews for an existing product, oldest first.
func (srv *reviewService) ListReviews(ctx context.Context, productID uuid.UUID) ([]*entity.Review, error) {
	if err := srv.requireProduct(ctx, productID); err != nil {
		return nil, err
	}

	reviews, err := srv.reviewRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list reviews")
	}

	return reviews, nil
}

// SubmitReview creates the caller's review. Duplicate detection is a single
// atomic conditional insert: the storage-level unique index decides, so two
// concurrent submissions for the same pair yield one success and one
// ErrDuplicateReview.
func (srv *reviewService) SubmitReview(ctx context.Context, principal *entity.Principal, productID uuid.UUID, input *usecase.SubmitReviewInput) (*entity.Review, error) {
	if principal == nil {
		return nil, domainerrors.ErrUnauthorized.WrapMessage("review submission requires authentication")
	}
	if input == nil || !entity.ValidRating(input.Rating) {
		return nil, domainerrors.ErrInvalidRating.WrapMessage("rating outside the accepted range")
	}

	if err := srv.requireProduct(ctx, productID); err != nil {
		return nil, err
	}

	review := &entity.Review{
		ProductID: productID,
		UserID:    principal.UserID,
		Author:    principal.Username,
		Rating:    input.Rating,
		Comment:   input.Comment,
	}

	if err := srv.reviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicateReview) {
			srv.log(ctx).Debug("Duplicate review rejected",
				slog.Any("productID", productID), slog.Any("userID", principal.UserID))

			return nil, errors.Wrap(domainerrors.ErrDuplicateReview, "submit review failed")
		}
		if errors.Is(err, repository.ErrProductNotFound) {
			// The product was deleted between the existence check and the
			// insert; surface the same not-found the caller would have seen.
			return nil, errors.Wrap(domainerrors.ErrProductNotFound, "submit review failed")
		}

		return nil, errors.Wrap(err, "failed to create review")
	}

	srv.log(ctx).Info("Review submitted",
		slog.Any("productID", productID), slog.Any("userID", principal.UserID), slog.Int("rating", review.Rating))

	return review, nil
}

// AverageRating recomputes the product's mean rating on every call.
func (srv *reviewService) AverageRating(ctx context.Context, productID uuid.UUID) (float64, error) {
	if err := srv.requireProduct(ctx, productID); err != nil {
		return 0, err
	}

	avg, err := srv.reviewRepo.AverageRating(ctx, productID)
	if err != nil {
		return 0, errors.Wrap(err, "failed to compute average rating")
	}

	return avg, nil
}
