package repository

import (
	"context"
	"errors"

	"bazaar/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrProductNotFound is returned when a product id does not reference an existing row.
var ErrProductNotFound = errors.New("product not found")

// ProductRepository defines the standard operations for catalog persistence.
type ProductRepository interface {
	// FindByID retrieves a single product by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)

	// ListWithRatings returns every product annotated with its current
	// average rating, ordered by creation time.
	ListWithRatings(ctx context.Context) ([]*entity.RatedProduct, error)

	// Create persists a new product.
	Create(ctx context.Context, product *entity.Product) error

	// Update modifies an existing product. Returns ErrProductNotFound when
	// the id does not exist.
	Update(ctx context.Context, product *entity.Product) error

	// Delete removes a product row. Returns ErrProductNotFound when the id
	// does not exist. Review cleanup is the service's explicit concern, not
	// an implicit storage-layer side effect.
	Delete(ctx context.Context, id uuid.UUID) error
}
