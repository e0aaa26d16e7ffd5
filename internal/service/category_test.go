package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Shashwat-pati/Ecommerce-Backend/internal/domain"
	apperrors "github.com/Shashwat-pati/Ecommerce-Backend/pkg/errors"
)

// --- Mock Repository ---

type mockCategoryRepository struct {
	mock.Mock
}

func (m *mockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *mockCategoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *mockCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Category), args.Error(1)
}

func (m *mockCategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *mockCategoryRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestCategoryService(repo *mockCategoryRepository) *CategoryService {
	return NewCategoryService(repo, newTestLogger())
}

// --- Tests ---

func TestCreateCategory_Success(t *testing.T) {
	repo := new(mockCategoryRepository)
	svc := newTestCategoryService(repo)
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*domain.Category")).Return(nil)

	category, err := svc.CreateCategory(ctx, "Footwear")

	require.NoError(t, err)
	assert.NotEmpty(t, category.ID)
	assert.Equal(t, "Footwear", category.Name)
	assert.NotZero(t, category.CreatedAt)

	repo.AssertExpectations(t)
}

func TestCreateCategory_DuplicateName(t *testing.T) {
	repo := new(mockCategoryRepository)
	svc := newTestCategoryService(repo)
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*domain.Category")).
		Return(apperrors.AlreadyExists("category", "name", "Footwear"))

	category, err := svc.CreateCategory(ctx, "Footwear")

	assert.Nil(t, category)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)

	repo.AssertExpectations(t)
}

func TestUpdateCategory_Renames(t *testing.T) {
	repo := new(mockCategoryRepository)
	svc := newTestCategoryService(repo)
	ctx := context.Background()

	existing := &domain.Category{ID: "cat-1", Name: "Footwear"}
	repo.On("GetByID", ctx, "cat-1").Return(existing, nil)
	repo.On("Update", ctx, mock.AnythingOfType("*domain.Category")).Return(nil)

	category, err := svc.UpdateCategory(ctx, "cat-1", "Shoes")

	require.NoError(t, err)
	assert.Equal(t, "Shoes", category.Name)

	repo.AssertExpectations(t)
}

func TestDeleteCategory_ReturnsLastState(t *testing.T) {
	repo := new(mockCategoryRepository)
	svc := newTestCategoryService(repo)
	ctx := context.Background()

	existing := &domain.Category{ID: "cat-1", Name: "Footwear"}
	repo.On("GetByID", ctx, "cat-1").Return(existing, nil)
	repo.On("Delete", ctx, "cat-1").Return(nil)

	category, err := svc.DeleteCategory(ctx, "cat-1")

	require.NoError(t, err)
	assert.Equal(t, existing, category)

	repo.AssertExpectations(t)
}

func TestDeleteCategory_NotFound(t *testing.T) {
	repo := new(mockCategoryRepository)
	svc := newTestCategoryService(repo)
	ctx := context.Background()

	repo.On("GetByID", ctx, "nonexistent").Return(nil, apperrors.NotFound("Category not found"))

	category, err := svc.DeleteCategory(ctx, "nonexistent")

	assert.Nil(t, category)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)

	repo.AssertExpectations(t)
}
