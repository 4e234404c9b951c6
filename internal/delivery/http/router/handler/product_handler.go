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

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// productView is the outward shape of a catalog product.
type productView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	AvgRating   *float64  `json:"avg_rating,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newProductView(product *entity.Product) productView {
	return productView{
		ID:          product.ID.String(),
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}

func newRatedProductView(rated *entity.RatedProduct) productView {
	view := newProductView(&rated.Product)
	avg := rated.AvgRating
	view.AvgRating = &avg

	return view
}

// ProductHandler holds dependencies for catalog handlers.
type ProductHandler struct {
	uc     usecase.CatalogUsecase
	logger *slog.Logger
}

// NewProductHandler is the constructor for ProductHandler, injected by Fx.
func NewProductHandler(uc usecase.CatalogUsecase, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{uc: uc, logger: logger}
}

// ListProducts returns the whole catalog with current average ratings.
func (h *ProductHandler) ListProducts(c echo.Context) error {
	products, err := h.uc.ListProducts(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, newRatedProductView(p))
	}

	return response.Success(c, http.StatusOK, views, "Products retrieved successfully")
}

// GetProduct returns a single product with its current average rating.
func (h *ProductHandler) GetProduct(c echo.Context) error {
	productID, err := parseProductID(c)
	if err != nil {
		return err
	}

	product, err := h.uc.GetProduct(c.Request().Context(), productID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newRatedProductView(product), "Product retrieved successfully")
}

// CreateProduct adds a product to the catalog. Admin only.
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var input *usecase.ProductInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid product input")
	}
	if err := c.Validate(input); err != nil {
		return errors.WithStack(err)
	}

	principal, _ := middleware.GetPrincipal(c)

	product, err := h.uc.CreateProduct(c.Request().Context(), principal, input)
	if err != nil {
		return errors.WithStack(err)
	}

	metrics.ProductMutationsTotal.WithLabelValues("create").Inc()

	return response.Success(c, http.StatusCreated, newProductView(product), "Product created successfully")
}

// UpdateProduct replaces the mutable fields of a product. Admin only.
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	productID, err := parseProductID(c)
	if err != nil {
		return err
	}

	var input *usecase.ProductInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid product input")
	}
	if err := c.Validate(input); err != nil {
		return errors.WithStack(err)
	}

	principal, _ := middleware.GetPrincipal(c)

	product, err := h.uc.UpdateProduct(c.Request().Context(), principal, productID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	metrics.ProductMutationsTotal.WithLabelValues("update").Inc()

	return response.Success(c, http.StatusOK, newProductView(product), "Product updated successfully")
}

// DeleteProduct removes a product together with all of its reviews. Admin only.
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	productID, err := parseProductID(c)
	if err != nil {
		return err
	}

	principal, _ := middleware.GetPrincipal(c)

	if err := h.uc.DeleteProduct(c.Request().Context(), principal, productID); err != nil {
		return errors.WithStack(err)
	}

	metrics.ProductMutationsTotal.WithLabelValues("delete").Inc()

	return response.Success(c, http.StatusOK, map[string]string{"id": productID.String()}, "Product deleted successfully")
}

// parseProductID reads the :id route parameter. A malformed id gets the same
// 404 a missing product would, so the URL space leaks nothing.
func parseProductID(c echo.Context) (uuid.UUID, error) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, domainerrors.ErrProductNotFound
	}

	return productID, nil
}
