package http

import (
	"log/slog"
	"net/http"

	"github.com/Shashwat-pati/Ecommerce-Backend/internal/auth"
	"github.com/Shashwat-pati/Ecommerce-Backend/internal/service"
	"github.com/Shashwat-pati/Ecommerce-Backend/pkg/httputil"
	"github.com/Shashwat-pati/Ecommerce-Backend/pkg/validator"
)

// UserHandler handles HTTP requests for accounts and sessions.
type UserHandler struct {
	service *service.UserService
	tokens  *auth.TokenManager
	logger  *slog.Logger
}

// NewUserHandler creates a new user HTTP handler.
func NewUserHandler(svc *service.UserService, tokens *auth.TokenManager, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		service: svc,
		tokens:  tokens,
		logger:  logger,
	}
}

// --- Request DTOs ---

// RegisterRequest is the JSON request body for registration.
type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest is the JSON request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest is the JSON request body for a sparse profile update.
type UpdateProfileRequest struct {
	Username *string `json:"username" validate:"omitempty,min=1"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=6"`
}

// --- Handlers ---

// Register handles POST /api/users. A fresh session cookie is issued so the
// new account is logged in immediately.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	var req RegisterRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	user, err := h.service.Register(r.Context(), &service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	h.tokens.SetCookie(w, token)

	httputil.WriteJSON(w, http.StatusCreated, user)
}

// Login handles POST /api/users/auth
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	var req LoginRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	user, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	h.tokens.SetCookie(w, token)

	httputil.WriteJSON(w, http.StatusOK, user)
}

// Logout handles POST /api/users/logout
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.tokens.ClearCookie(w)
	httputil.WriteJSON(w, http.StatusOK, httputil.MessageBody{Message: "Logged out successfully"})
}

// GetProfile handles GET /api/users/profile
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	httputil.WriteJSON(w, http.StatusOK, user)
}

// UpdateProfile handles PUT /api/users/profile
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	var req UpdateProfileRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	user := UserFromContext(r.Context())

	updated, err := h.service.UpdateProfile(r.Context(), user.ID, &service.UpdateProfileInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, updated)
}

// ListUsers handles GET /api/users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, users)
}
