package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Shashwat-pati/Ecommerce-Backend/internal/domain"
	"github.com/Shashwat-pati/Ecommerce-Backend/internal/event"
	apperrors "github.com/Shashwat-pati/Ecommerce-Backend/pkg/errors"
)

type mockReviewRepository struct {
	mock.Mock
}

func (m *mockReviewRepository) Add(ctx context.Context, review *domain.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *mockReviewRepository) ListByProductID(ctx context.Context, productID string) ([]*domain.Review, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Review), args.Error(1)
}

func newTestReviewService(repo *mockReviewRepository) *ReviewService {
	logger := newTestLogger()
	producer := event.NewProducer(nil, logger)
	return NewReviewService(repo, producer, logger)
}

func TestAddReview_SnapshotsReviewerName(t *testing.T) {
	repo := new(mockReviewRepository)
	svc := newTestReviewService(repo)
	ctx := context.Background()

	var captured *domain.Review
	repo.On("Add", ctx, mock.AnythingOfType("*domain.Review")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*domain.Review)
		}).
		Return(nil)

	user := &domain.User{ID: "user-1", Username: "jane"}
	err := svc.AddReview(ctx, "prod-1", user, 5, "Great shoe")

	require.NoError(t, err)
	require.NotNil(t, captured)
	assert.NotEmpty(t, captured.ID)
	assert.Equal(t, "prod-1", captured.ProductID)
	assert.Equal(t, "user-1", captured.UserID)
	assert.Equal(t, "jane", captured.Name)
	assert.Equal(t, 5, captured.Rating)
	assert.Equal(t, "Great shoe", captured.Comment)

	repo.AssertExpectations(t)
}

func TestAddReview_Duplicate(t *testing.T) {
	repo := new(mockReviewRepository)
	svc := newTestReviewService(repo)
	ctx := context.Background()

	repo.On("Add", ctx, mock.AnythingOfType("*domain.Review")).
		Return(apperrors.InvalidInput("Product already reviewed"))

	user := &domain.User{ID: "user-1", Username: "jane"}
	err := svc.AddReview(ctx, "prod-1", user, 4, "Again")

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	repo.AssertExpectations(t)
}

func TestListReviews(t *testing.T) {
	repo := new(mockReviewRepository)
	svc := newTestReviewService(repo)
	ctx := context.Background()

	expected := []*domain.Review{{ID: "rev-1", ProductID: "prod-1"}}
	repo.On("ListByProductID", ctx, "prod-1").Return(expected, nil)

	reviews, err := svc.ListReviews(ctx, "prod-1")

	require.NoError(t, err)
	assert.Equal(t, expected, reviews)

	repo.AssertExpectations(t)
}
