package http

import (
	"bytes"
	"context"
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

// =============================================================================
// Mock UserRepository
// =============================================================================

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) List(ctx context.Context) ([]*domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.User), args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// =============================================================================
// Test helpers
// =============================================================================

func testTokenManager() *auth.TokenManager {
	return auth.NewTokenManager("test-secret-key-for-unit-tests-only!", time.Hour, false, "strict")
}

// authTestRouter mounts a public route, an authenticated route, and an
// admin-only route behind the real middleware chain.
func authTestRouter(users *mockUserRepo) (*chi.Mux, *auth.TokenManager) {
	tokens := testTokenManager()
	logger := handlerTestLogger()
	userSvc := service.NewUserService(users, testEventProducer(), logger)
	authMW := NewAuthMiddleware(tokens, userSvc, logger)

	r := chi.NewRouter()
	r.Get("/public", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Group(func(r chi.Router) {
		r.Use(authMW.Authenticate)
		r.Get("/private", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
		r.Group(func(r chi.Router) {
			r.Use(authMW.RequireAdmin)
			r.Post("/admin", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusCreated)
			})
		})
	})
	return r, tokens
}

func sessionCookie(t *testing.T, tokens *auth.TokenManager, userID string) *http.Cookie {
	t.Helper()
	token, err := tokens.Issue(userID)
	require.NoError(t, err)
	return &http.Cookie{Name: auth.CookieName, Value: token}
}

// =============================================================================
// Authenticate
// =============================================================================

func TestAuthenticate_NoCookie(t *testing.T) {
	users := new(mockUserRepo)
	router, _ := authTestRouter(users)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Not authorized, no token.", decodeErrorBody(t, rec))
}

func TestAuthenticate_EmptyCookie(t *testing.T) {
	users := new(mockUserRepo)
	router, _ := authTestRouter(users)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: ""})
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Not authorized, no token.", decodeErrorBody(t, rec))
}

func TestAuthenticate_GarbageToken(t *testing.T) {
	users := new(mockUserRepo)
	router, _ := authTestRouter(users)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: "not-a-jwt"})
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Not authorized, token failed.", decodeErrorBody(t, rec))
}

func TestAuthenticate_DeletedUser(t *testing.T) {
	users := new(mockUserRepo)
	router, tokens := authTestRouter(users)

	// The token is valid but the account behind it no longer exists.
	users.On("GetByID", mock.Anything, "gone-user").
		Return(nil, apperrors.NotFound("User not found"))

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(sessionCookie(t, tokens, "gone-user"))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Not authorized, token failed.", decodeErrorBody(t, rec))
	users.AssertExpectations(t)
}

func TestAuthenticate_ValidSession(t *testing.T) {
	users := new(mockUserRepo)
	router, tokens := authTestRouter(users)

	users.On("GetByID", mock.Anything, "user-1").
		Return(&domain.User{ID: "user-1", Username: "jane"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(sessionCookie(t, tokens, "user-1"))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	users.AssertExpectations(t)
}

// =============================================================================
// RequireAdmin
// =============================================================================

func TestRequireAdmin_NonAdmin(t *testing.T) {
	users := new(mockUserRepo)
	router, tokens := authTestRouter(users)

	users.On("GetByID", mock.Anything, "user-1").
		Return(&domain.User{ID: "user-1", IsAdmin: false}, nil)

	req := httptest.NewRequest(http.MethodPost, "/admin", bytes.NewReader(nil))
	req.AddCookie(sessionCookie(t, tokens, "user-1"))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Not authorized as an admin.", decodeErrorBody(t, rec))
}

func TestRequireAdmin_Admin(t *testing.T) {
	users := new(mockUserRepo)
	router, tokens := authTestRouter(users)

	users.On("GetByID", mock.Anything, "admin-1").
		Return(&domain.User{ID: "admin-1", IsAdmin: true}, nil)

	req := httptest.NewRequest(http.MethodPost, "/admin", bytes.NewReader(nil))
	req.AddCookie(sessionCookie(t, tokens, "admin-1"))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

// =============================================================================
// ContentTypeJSON
// =============================================================================

func TestContentTypeJSON_RejectsWrongType(t *testing.T) {
	r := chi.NewRouter()
	r.Use(ContentTypeJSON)
	r.Post("/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte(`name=x`)))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestContentTypeJSON_AllowsEmptyBody(t *testing.T) {
	r := chi.NewRouter()
	r.Use(ContentTypeJSON)
	r.Post("/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
