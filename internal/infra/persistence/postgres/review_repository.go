package postgres

import (
	"context"

	"bazaar/internal/domain/entity"
	domainerrors "bazaar/internal/domain/errors"
	"bazaar/internal/domain/repository"
	"bazaar/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// reviewRepository implements the domain.ReviewRepository interface using GORM.
type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository is the constructor for reviewRepository.
func NewReviewRepository(db *gorm.DB) repository.ReviewRepository {
	return &reviewRepository{db: db}
}

// Create inserts a new review. The unique index on (product_id, user_id) is
// the duplicate check: a conflict here means the user already reviewed the
// product, regardless of how the concurrent submissions interleaved.
func (repo *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	reviewM := fromReviewDomain(review)

	if err := repo.db.WithContext(ctx).Create(reviewM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateReview
		}
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrProductNotFound
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required review information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create review")
	}

	review.ID = reviewM.ID
	review.CreatedAt = reviewM.CreatedAt

	return nil
}

// ListByProduct returns all reviews for a product ordered by creation time,
// preloading the author so the username can be surfaced without the credential.
func (repo *reviewRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*entity.Review, error) {
	var reviewModels []model.ReviewModel
	err := repo.db.WithContext(ctx).
		Preload("User").
		Where("product_id = ?", productID).
		Order("created_at").
		Find(&reviewModels).Error

	if err != nil {
		return nil, errors.Wrap(err, "failed to list reviews by product")
	}

	reviews := make([]*entity.Review, 0, len(reviewModels))
	for i := range reviewModels {
		reviews = append(reviews, toReviewDomain(&reviewModels[i]))
	}

	return reviews, nil
}

// AverageRating computes the mean rating for a product, or 0 with no reviews.
// It is a view over the current review set, recomputed on every call.
func (repo *reviewRepository) AverageRating(ctx context.Context, productID uuid.UUID) (float64, error) {
	var avg float64
	err := repo.db.WithContext(ctx).
		Model(&model.ReviewModel{}).
		Where("product_id = ?", productID).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&avg).Error

	if err != nil {
		return 0, errors.Wrap(err, "failed to compute average rating")
	}

	return roundRating(avg), nil
}

// DeleteByProduct removes every review for a product. Deleting zero rows is
// fine: a product without reviews still cascades cleanly.
func (repo *reviewRepository) DeleteByProduct(ctx context.Context, productID uuid.UUID) error {
	err := repo.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Delete(&model.ReviewModel{}).Error

	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete reviews for product")
	}

	return nil
}

// --- Mapper Functions ---

// toReviewDomain converts a GORM ReviewModel to a domain Review entity.
func toReviewDomain(data *model.ReviewModel) *entity.Review {
	if data == nil {
		return nil
	}

	review := &entity.Review{
		ID:        data.ID,
		ProductID: data.ProductID,
		UserID:    data.UserID,
		Rating:    data.Rating,
		Comment:   data.Comment,
		CreatedAt: data.CreatedAt,
	}
	if data.User != nil {
		review.Author = data.User.Username
	}

	return review
}

// fromReviewDomain converts a domain Review entity to a GORM ReviewModel.
func fromReviewDomain(data *entity.Review) *model.ReviewModel {
	if data == nil {
		return nil
	}

	return &model.ReviewModel{
		ID:        data.ID,
		ProductID: data.ProductID,
		UserID:    data.UserID,
		Rating:    data.Rating,
		Comment:   data.Comment,
	}
}
