package impl

import (
	"context"
	"log/slog"
	"strings"

	"bazaar/config"
	deliverycontext "bazaar/internal/delivery/context"
	"bazaar/internal/domain/entity"
	domainerrors "bazaar/internal/domain/errors"
	"bazaar/internal/domain/repository"
	"bazaar/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// catalogService implements the CatalogUsecase interface.
type catalogService struct {
	txManager   repository.TransactionManager
	productRepo repository.ProductRepository
	reviewRepo  repository.ReviewRepository
	logger      *slog.Logger
}

// CatalogServiceParams holds dependencies for catalogService, injected by Fx.
type CatalogServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	ProductRepo repository.ProductRepository
	ReviewRepo  repository.ReviewRepository
	Config      *config.Config
	Logger      *slog.Logger
}

// NewCatalogService is the constructor for catalogService.
func NewCatalogService(params CatalogServiceParams) usecase.CatalogUsecase {
	return &catalogService{
		txManager:   params.TxManager,
		productRepo: params.ProductRepo,
		reviewRepo:  params.ReviewRepo,
		logger:      params.Logger,
	}
}

func (srv *catalogService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// requireAdmin gates every catalog mutation. The route middleware performs the
// same check; keeping it here means the rule holds for any future caller.
func requireAdmin(principal *entity.Principal) error {
	if principal == nil || !principal.HasRole {
		return domainerrors.ErrUnauthorized.WrapMessage("catalog mutation requires authentication")
	}
	if principal.Role != entity.RoleAdmin {
		return domainerrors.ErrForbidden.WrapMessage("catalog mutation requires the admin role")
	}

	return nil
}

func validateProductInput(input *usecase.ProductInput) error {
	if input == nil || strings.TrimSpace(input.Name) == "" {
		return domainerrors.ErrValidationFailed.WrapMessage("product name is required")
	}
	if input.Price < 0 {
		return domainerrors.ErrValidationFailed.WrapMessage("product price must not be negative")
	}

	return nil
}

// ListProducts returns the catalog annotated with current average ratings.
func (srv *catalogService) ListProducts(ctx context.Context) ([]*entity.RatedProduct, error) {
	products, err := srv.productRepo.ListWithRatings(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	return products, nil
}

// GetProduct returns one product with its current average rating.
func (srv *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.RatedProduct, error) {
	product, err := srv.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, errors.Wrap(domainerrors.ErrProductNotFound, "get product failed")
		}

		return nil, errors.Wrap(err, "failed to load product")
	}

	avg, err := srv.reviewRepo.AverageRating(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to compute product rating")
	}

	return &entity.RatedProduct{Product: *product, AvgRating: avg}, nil
}

// CreateProduct adds a product to the catalog. Admin only.
func (srv *catalogService) CreateProduct(ctx context.Context, principal *entity.Principal, input *usecase.ProductInput) (*entity.Product, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	product := &entity.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
	}
	if err := srv.productRepo.Create(ctx, product); err != nil {
		return nil, errors.Wrap(err, "failed to create product")
	}

	srv.log(ctx).Info("Product created", slog.Any("productID", product.ID), slog.Any("adminID", principal.UserID))

	return product, nil
}

// UpdateProduct replaces the mutable fields of an existing product. Admin only.
func (srv *catalogService) UpdateProduct(ctx context.Context, principal *entity.Principal, id uuid.UUID, input *usecase.ProductInput) (*entity.Product, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	product := &entity.Product{
		ID:          id,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
	}
	if err := srv.productRepo.Update(ctx, product); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, errors.Wrap(domainerrors.ErrProductNotFound, "update product failed")
		}

		return nil, errors.Wrap(err, "failed to update product")
	}

	updated, err := srv.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to reload updated product")
	}

	srv.log(ctx).Info("Product updated", slog.Any("productID", id), slog.Any("adminID", principal.UserID))

	return updated, nil
}

// DeleteProduct removes a product and all of its reviews in one transaction.
// The review cleanup is an explicit step of this operation, not a hidden
// storage-layer side effect, so its behavior can be asserted directly.
func (srv *catalogService) DeleteProduct(ctx context.Context, principal *entity.Principal, id uuid.UUID) error {
	if err := requireAdmin(principal); err != nil {
		return err
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.ReviewRepo().DeleteByProduct(ctx, id); err != nil {
			return errors.Wrap(err, "failed to delete product reviews")
		}

		if err := repoFactory.ProductRepo().Delete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return errors.Wrap(domainerrors.ErrProductNotFound, "delete product failed")
			}

			return errors.Wrap(err, "failed to delete product")
		}

		return nil
	})
	if err != nil {
		return err
	}

	srv.log(ctx).Info("Product deleted with its reviews", slog.Any("productID", id), slog.Any("adminID", principal.UserID))

	return nil
}
