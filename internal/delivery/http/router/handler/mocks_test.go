package handler

import (
	"context"
	"io"
	"log/slog"

	"bazaar/internal/domain/entity"
	"bazaar/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// --- Mock Account Usecase ---

type mockAccountUsecase struct {
	mock.Mock
}

func (m *mockAccountUsecase) Register(ctx context.Context, input *usecase.RegisterInput) (*entity.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *mockAccountUsecase) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.LoginOutput), args.Error(1)
}

func (m *mockAccountUsecase) Logout(ctx context.Context, sessionToken string) error {
	args := m.Called(ctx, sessionToken)
	return args.Error(0)
}

func (m *mockAccountUsecase) ResolveSession(ctx context.Context, sessionToken string) (*entity.Principal, error) {
	args := m.Called(ctx, sessionToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Principal), args.Error(1)
}

// --- Mock Catalog Usecase ---

type mockCatalogUsecase struct {
	mock.Mock
}

func (m *mockCatalogUsecase) ListProducts(ctx context.Context) ([]*entity.RatedProduct, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.RatedProduct), args.Error(1)
}

func (m *mockCatalogUsecase) GetProduct(ctx context.Context, id uuid.UUID) (*entity.RatedProduct, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RatedProduct), args.Error(1)
}

func (m *mockCatalogUsecase) CreateProduct(ctx context.Context, principal *entity.Principal, input *usecase.ProductInput) (*entity.Product, error) {
	args := m.Called(ctx, principal, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Product), args.Error(1)
}

func (m *mockCatalogUsecase) UpdateProduct(ctx context.Context, principal *entity.Principal, id uuid.UUID, input *usecase.ProductInput) (*entity.Product, error) {
	args := m.Called(ctx, principal, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Product), args.Error(1)
}

func (m *mockCatalogUsecase) DeleteProduct(ctx context.Context, principal *entity.Principal, id uuid.UUID) error {
	args := m.Called(ctx, principal, id)
	return args.Error(0)
}

// --- Mock Review Usecase ---

type mockReviewUsecase struct {
	mock.Mock
}

func (m *mockReviewUsecase) ListReviews(ctx context.Context, productID uuid.UUID) ([]*entity.Review, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Review), args.Error(1)
}

func (m *mockReviewUsecase) SubmitReview(ctx context.Context, principal *entity.Principal, productID uuid.UUID, input *usecase.SubmitReviewInput) (*entity.Review, error) {
	args := m.Called(ctx, principal, productID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Review), args.Error(1)
}

func (m *mockReviewUsecase) AverageRating(ctx context.Context, productID uuid.UUID) (float64, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(float64), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
