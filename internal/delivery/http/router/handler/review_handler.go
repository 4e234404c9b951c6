package handler

import (
	"log/slog"
	"net/http"
	"time"

	"bazaar/internal/delivery/http/metrics"
	"bazaar/internal/delivery/http/middleware"
	"bazaar/internal/delivery/http/response"
	"bazaar/internal/domain/entity"
	domainerrors "bazaar/internal/domain/errors"
	"bazaar/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// reviewView is the outward shape of a review.
type reviewView struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	Author    string    `json:"author"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

func newReviewView(review *entity.Review) reviewView {
	return reviewView{
		ID:        review.ID.String(),
		ProductID: review.ProductID.String(),
		Author:    review.Author,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
	}
}

// ReviewHandler holds dependencies for review handlers.
type ReviewHandler struct {
	uc     usecase.ReviewUsecase
	logger *slog.Logger
}

// NewReviewHandler is the constructor for ReviewHandler, injected by Fx.
func NewReviewHandler(uc usecase.ReviewUsecase, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{uc: uc, logger: logger}
}

// ListReviews returns a product's reviews in creation order.
func (h *ReviewHandler) ListReviews(c echo.Context) error {
	productID, err := parseProductID(c)
	if err != nil {
		return err
	}

	reviews, err := h.uc.ListReviews(c.Request().Context(), productID)
	if err != nil {
		return errors.WithStack(err)
	}

	views := make([]reviewView, 0, len(reviews))
	for _, review := range reviews {
		views = append(views, newReviewView(review))
	}

	return response.Success(c, http.StatusOK, views, "Reviews retrieved successfully")
}

// SubmitReview creates the caller's review for a product. A second review of
// the same product by the same user is rejected.
func (h *ReviewHandler) SubmitReview(c echo.Context) error {
	productID, err := parseProductID(c)
	if err != nil {
		return err
	}

	var input *usecase.SubmitReviewInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid review input")
	}
	if err := c.Validate(input); err != nil {
		metrics.ReviewsSubmittedTotal.WithLabelValues("rejected").Inc()

		return errors.WithStack(err)
	}

	principal, _ := middleware.GetPrincipal(c)

	review, err := h.uc.SubmitReview(c.Request().Context(), principal, productID, input)
	if err != nil {
		if errors.Is(err, domainerrors.ErrDuplicateReview) {
			metrics.ReviewsSubmittedTotal.WithLabelValues("duplicate").Inc()
		} else {
			metrics.ReviewsSubmittedTotal.WithLabelValues("rejected").Inc()
		}

		return errors.WithStack(err)
	}

	metrics.ReviewsSubmittedTotal.WithLabelValues("created").Inc()

	return response.Success(c, http.StatusCreated, newReviewView(review), "Review submitted successfully")
}

// GetAverageRating returns the product's current mean rating. The value is
// recomputed from the stored reviews on every call.
func (h *ReviewHandler) GetAverageRating(c echo.Context) error {
	productID, err := parseProductID(c)
	if err != nil {
		return err
	}

	avg, err := h.uc.AverageRating(c.Request().Context(), productID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"product_id": productID.String(),
		"avg_rating": avg,
	}, "Average rating retrieved successfully")
}
