package usecase

import (
	"context"

	"bazaar/internal/domain/entity"

	"github.com/google/uuid"
)

// ProductInput carries the fields an admin supplies when creating or updating
// a product.
type ProductInput struct {
	Name        string  `json:"name" form:"name" validate:"required,max=255"`
	Description string  `json:"description" form:"description"`
	Price       float64 `json:"price" form:"price" validate:"gte=0"`
}

// CatalogUsecase defines catalog browsing and admin-only catalog management.
// Mutations require an admin principal; the check lives here as well as on
// the route so the rule holds no matter which surface calls in.
type CatalogUsecase interface {
	// ListProducts returns every product with its current average rating.
	ListProducts(ctx context.Context) ([]*entity.RatedProduct, error)

	// GetProduct returns one product with its current average rating.
	GetProduct(ctx context.Context, id uuid.UUID) (*entity.RatedProduct, error)

	// CreateProduct adds a product to the catalog.
	CreateProduct(ctx context.Context, principal *entity.Principal, input *ProductInput) (*entity.Product, error)

	// UpdateProduct replaces the mutable fields of an existing product.
	UpdateProduct(ctx context.Context, principal *entity.Principal, id uuid.UUID, input *ProductInput) (*entity.Product, error)

	// DeleteProduct removes a product and, explicitly and in the same
	// transaction, every review referencing it. Destructive and irreversible.
	DeleteProduct(ctx context.Context, principal *entity.Principal, id uuid.UUID) error
}
