package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Shashwat-pati/Ecommerce-Backend/internal/auth"
	"github.com/Shashwat-pati/Ecommerce-Backend/internal/domain"
	"github.com/Shashwat-pati/Ecommerce-Backend/internal/service"
	apperrors "github.com/Shashwat-pati/Ecommerce-Backend/pkg/errors"
)

type mockReviewRepo struct {
	mock.Mock
}

func (m *mockReviewRepo) Add(ctx context.Context, review *domain.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *mockReviewRepo) ListByProductID(ctx context.Context, productID string) ([]*domain.Review, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Review), args.Error(1)
}

// reviewTestRouter wires the review routes behind the real auth middleware.
func reviewTestRouter(reviews *mockReviewRepo, users *mockUserRepo) (*chi.Mux, *auth.TokenManager) {
	tokens := testTokenManager()
	logger := handlerTestLogger()
	producer := testEventProducer()

	reviewSvc := service.NewReviewService(reviews, producer, logger)
	userSvc := service.NewUserService(users, producer, logger)
	authMW := NewAuthMiddleware(tokens, userSvc, logger)
	handler := NewReviewHandler(reviewSvc, logger)

	r := chi.NewRouter()
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/{id}/reviews", handler.ListReviews)
		r.Group(func(r chi.Router) {
			r.Use(authMW.Authenticate)
			r.Post("/{id}/reviews", handler.CreateReview)
		})
	})
	return r, tokens
}

func TestCreateReview_Success(t *testing.T) {
	reviews := new(mockReviewRepo)
	users := new(mockUserRepo)
	router, tokens := reviewTestRouter(reviews, users)

	users.On("GetByID", mock.Anything, "user-1").
		Return(&domain.User{ID: "user-1", Username: "jane"}, nil)
	reviews.On("Add", mock.Anything, mock.MatchedBy(func(rev *domain.Review) bool {
		return rev.ProductID == "prod-1" && rev.UserID == "user-1" &&
			rev.Name == "jane" && rev.Rating == 5
	})).Return(nil)

	b, _ := json.Marshal(CreateReviewRequest{Rating: 5, Comment: "Great shoe"})

	req := httptest.NewRequest(http.MethodPost, "/api/products/prod-1/reviews", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(sessionCookie(t, tokens, "user-1"))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "Review added", body["message"])

	reviews.AssertExpectations(t)
}

func TestCreateReview_Duplicate(t *testing.T) {
	reviews := new(mockReviewRepo)
	users := new(mockUserRepo)
	router, tokens := reviewTestRouter(reviews, users)

	users.On("GetByID", mock.Anything, "user-1").
		Return(&domain.User{ID: "user-1", Username: "jane"}, nil)
	reviews.On("Add", mock.Anything, mock.AnythingOfType("*domain.Review")).
		Return(apperrors.InvalidInput("Product already reviewed"))

	b, _ := json.Marshal(CreateReviewRequest{Rating: 4, Comment: "Again"})

	req := httptest.NewRequest(http.MethodPost, "/api/products/prod-1/reviews", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(sessionCookie(t, tokens, "user-1"))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Product already reviewed", decodeErrorBody(t, rec))
}

func TestCreateReview_MissingRating(t *testing.T) {
	reviews := new(mockReviewRepo)
	users := new(mockUserRepo)
	router, tokens := reviewTestRouter(reviews, users)

	users.On("GetByID", mock.Anything, "user-1").
		Return(&domain.User{ID: "user-1", Username: "jane"}, nil)

	b, _ := json.Marshal(CreateReviewRequest{Comment: "No rating"})

	req := httptest.NewRequest(http.MethodPost, "/api/products/prod-1/reviews", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(sessionCookie(t, tokens, "user-1"))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Rating is required", decodeErrorBody(t, rec))
	reviews.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestCreateReview_RatingOutOfRange(t *testing.T) {
	reviews := new(mockReviewRepo)
	users := new(mockUserRepo)
	router, tokens := reviewTestRouter(reviews, users)

	users.On("GetByID", mock.Anything, "user-1").
		Return(&domain.User{ID: "user-1", Username: "jane"}, nil)

	b, _ := json.Marshal(CreateReviewRequest{Rating: 6, Comment: "Too high"})

	req := httptest.NewRequest(http.MethodPost, "/api/products/prod-1/reviews", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(sessionCookie(t, tokens, "user-1"))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	reviews.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestCreateReview_Anonymous(t *testing.T) {
	reviews := new(mockReviewRepo)
	users := new(mockUserRepo)
	router, _ := reviewTestRouter(reviews, users)

	b, _ := json.Marshal(CreateReviewRequest{Rating: 5, Comment: "Great"})

	req := httptest.NewRequest(http.MethodPost, "/api/products/prod-1/reviews", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Not authorized, no token.", decodeErrorBody(t, rec))
	reviews.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestListReviews_Public(t *testing.T) {
	reviews := new(mockReviewRepo)
	users := new(mockUserRepo)
	router, _ := reviewTestRouter(reviews, users)

	expected := []*domain.Review{
		{
			ID:        "rev-1",
			ProductID: "prod-1",
			UserID:    "user-1",
			Name:      "jane",
			Rating:    5,
			Comment:   "Great shoe",
			CreatedAt: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
		},
	}
	reviews.On("ListByProductID", mock.Anything, "prod-1").Return(expected, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/products/prod-1/reviews", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var got []*domain.Review
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Len(t, got, 1)
	assert.Equal(t, "jane", got[0].Name)

	reviews.AssertExpectations(t)
}
