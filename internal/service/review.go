package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Shashwat-pati/Ecommerce-Backend/internal/domain"
	"github.com/Shashwat-pati/Ecommerce-Backend/internal/event"
	"github.com/Shashwat-pati/Ecommerce-Backend/internal/repository"
)

// ReviewService implements review submission.
type ReviewService struct {
	repo     repository.ReviewRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(repo repository.ReviewRepository, producer *event.Producer, logger *slog.Logger) *ReviewService {
	return &ReviewService{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

// AddReview appends a review to a product on behalf of the given user. The
// repository rejects a second review from the same user and keeps the
// product's rating aggregates consistent with the insert.
func (s *ReviewService) AddReview(ctx context.Context, productID string, user *domain.User, rating int, comment string) error {
	review := &domain.Review{
		ID:        uuid.New().String(),
		ProductID: productID,
		UserID:    user.ID,
		Name:      user.Username,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Add(ctx, review); err != nil {
		return fmt.Errorf("add review: %w", err)
	}

	if err := s.producer.PublishReviewAdded(ctx, review); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review_added event",
			slog.String("product_id", productID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "review added",
		slog.String("product_id", productID),
		slog.String("user_id", user.ID),
		slog.Int("rating", rating),
	)

	return nil
}

// ListReviews returns the reviews for a product, newest first.
func (s *ReviewService) ListReviews(ctx context.Context, productID string) ([]*domain.Review, error) {
	reviews, err := s.repo.ListByProductID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}
