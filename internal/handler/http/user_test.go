package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Shashwat-pati/Ecommerce-Backend/internal/auth"
	"github.com/Shashwat-pati/Ecommerce-Backend/internal/domain"
	"github.com/Shashwat-pati/Ecommerce-Backend/internal/service"
	apperrors "github.com/Shashwat-pati/Ecommerce-Backend/pkg/errors"
)

func userTestRouter(users *mockUserRepo) (*chi.Mux, *auth.TokenManager) {
	tokens := testTokenManager()
	logger := handlerTestLogger()
	userSvc := service.NewUserService(users, testEventProducer(), logger)
	authMW := NewAuthMiddleware(tokens, userSvc, logger)
	handler := NewUserHandler(userSvc, tokens, logger)

	r := chi.NewRouter()
	r.Route("/api/users", func(r chi.Router) {
		r.Post("/", handler.Register)
		r.Post("/auth", handler.Login)
		r.Post("/logout", handler.Logout)
		r.Group(func(r chi.Router) {
			r.Use(authMW.Authenticate)
			r.Get("/profile", handler.GetProfile)
			r.Put("/profile", handler.UpdateProfile)
		})
	})
	return r, tokens
}

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestRegister_SetsSessionCookie(t *testing.T) {
	users := new(mockUserRepo)
	router, _ := userTestRouter(users)

	users.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

	b, _ := json.Marshal(RegisterRequest{
		Username: "jane",
		Email:    "jane@example.com",
		Password: "s3cret-pass",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/users", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	cookie := findCookie(rec.Result().Cookies(), auth.CookieName)
	require.NotNil(t, cookie)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)

	var got domain.User
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "jane", got.Username)
	assert.False(t, got.IsAdmin)

	users.AssertExpectations(t)
}

func TestRegister_PasswordNeverInResponse(t *testing.T) {
	users := new(mockUserRepo)
	router, _ := userTestRouter(users)

	users.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

	b, _ := json.Marshal(RegisterRequest{
		Username: "jane",
		Email:    "jane@example.com",
		Password: "s3cret-pass",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/users", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var raw map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&raw))
	assert.NotContains(t, raw, "password")
	assert.NotContains(t, raw, "password_hash")
}

func TestRegister_InvalidEmail(t *testing.T) {
	users := new(mockUserRepo)
	router, _ := userTestRouter(users)

	b, _ := json.Marshal(RegisterRequest{
		Username: "jane",
		Email:    "not-an-email",
		Password: "s3cret-pass",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/users", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email must be a valid email address", decodeErrorBody(t, rec))
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	users := new(mockUserRepo)
	router, _ := userTestRouter(users)

	users.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).
		Return(apperrors.AlreadyExists("user", "email", "jane@example.com"))

	b, _ := json.Marshal(RegisterRequest{
		Username: "jane",
		Email:    "jane@example.com",
		Password: "s3cret-pass",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/users", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	users.AssertExpectations(t)
}

func TestLogin_Success(t *testing.T) {
	users := new(mockUserRepo)
	router, _ := userTestRouter(users)

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	users.On("GetByEmail", mock.Anything, "jane@example.com").
		Return(&domain.User{ID: "user-1", Email: "jane@example.com", PasswordHash: string(hash)}, nil)

	b, _ := json.Marshal(LoginRequest{Email: "jane@example.com", Password: "s3cret-pass"})

	req := httptest.NewRequest(http.MethodPost, "/api/users/auth", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	cookie := findCookie(rec.Result().Cookies(), auth.CookieName)
	require.NotNil(t, cookie)
	assert.NotEmpty(t, cookie.Value)

	users.AssertExpectations(t)
}

func TestLogin_WrongPassword(t *testing.T) {
	users := new(mockUserRepo)
	router, _ := userTestRouter(users)

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	users.On("GetByEmail", mock.Anything, "jane@example.com").
		Return(&domain.User{ID: "user-1", Email: "jane@example.com", PasswordHash: string(hash)}, nil)

	b, _ := json.Marshal(LoginRequest{Email: "jane@example.com", Password: "wrong"})

	req := httptest.NewRequest(http.MethodPost, "/api/users/auth", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid email or password", decodeErrorBody(t, rec))
	assert.Nil(t, findCookie(rec.Result().Cookies(), auth.CookieName))
}

func TestLogin_UnknownEmail(t *testing.T) {
	users := new(mockUserRepo)
	router, _ := userTestRouter(users)

	users.On("GetByEmail", mock.Anything, "nobody@example.com").
		Return(nil, apperrors.NotFound("User not found"))

	b, _ := json.Marshal(LoginRequest{Email: "nobody@example.com", Password: "whatever"})

	req := httptest.NewRequest(http.MethodPost, "/api/users/auth", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid email or password", decodeErrorBody(t, rec))
}

func TestLogout_ClearsCookie(t *testing.T) {
	users := new(mockUserRepo)
	router, _ := userTestRouter(users)

	req := httptest.NewRequest(http.MethodPost, "/api/users/logout", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	cookie := findCookie(rec.Result().Cookies(), auth.CookieName)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "Logged out successfully", body["message"])
}

func TestGetProfile_ReturnsCurrentUser(t *testing.T) {
	users := new(mockUserRepo)
	router, tokens := userTestRouter(users)

	users.On("GetByID", mock.Anything, "user-1").
		Return(&domain.User{ID: "user-1", Username: "jane", Email: "jane@example.com"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/users/profile", nil)
	req.AddCookie(sessionCookie(t, tokens, "user-1"))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var got domain.User
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "user-1", got.ID)
	assert.Equal(t, "jane", got.Username)
}

func TestUpdateProfile_SparseUpdate(t *testing.T) {
	users := new(mockUserRepo)
	router, tokens := userTestRouter(users)

	stored := &domain.User{ID: "user-1", Username: "jane", Email: "jane@example.com"}
	users.On("GetByID", mock.Anything, "user-1").Return(stored, nil)
	users.On("Update", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

	newEmail := "jane.doe@example.com"
	b, _ := json.Marshal(UpdateProfileRequest{Email: &newEmail})

	req := httptest.NewRequest(http.MethodPut, "/api/users/profile", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(sessionCookie(t, tokens, "user-1"))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var got domain.User
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "jane.doe@example.com", got.Email)
	assert.Equal(t, "jane", got.Username)

	users.AssertExpectations(t)
}
