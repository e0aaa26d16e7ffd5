package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Shashwat-pati/Ecommerce-Backend/internal/auth"
	"github.com/Shashwat-pati/Ecommerce-Backend/internal/domain"
	"github.com/Shashwat-pati/Ecommerce-Backend/internal/service"
	"github.com/Shashwat-pati/Ecommerce-Backend/pkg/httputil"
	"github.com/Shashwat-pati/Ecommerce-Backend/pkg/logger"
)

type contextKey string

const userContextKey contextKey = "current_user"

// AuthMiddleware authenticates requests from the session cookie and loads
// the account behind it.
type AuthMiddleware struct {
	tokens *auth.TokenManager
	users  *service.UserService
	logger *slog.Logger
}

// NewAuthMiddleware creates the authentication middleware.
func NewAuthMiddleware(tokens *auth.TokenManager, users *service.UserService, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		tokens: tokens,
		users:  users,
		logger: logger,
	}
}

// Authenticate requires a valid session cookie and resolves it to a live
// account. A token whose user no longer exists is treated the same as a bad
// token: the request never reaches the handler with an empty user.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(auth.CookieName)
		if err != nil || cookie.Value == "" {
			httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorBody{Error: "Not authorized, no token."})
			return
		}

		userID, err := m.tokens.Validate(cookie.Value)
		if err != nil {
			httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorBody{Error: "Not authorized, token failed."})
			return
		}

		user, err := m.users.GetUser(r.Context(), userID)
		if err != nil {
			httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorBody{Error: "Not authorized, token failed."})
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		ctx = logger.WithUserID(ctx, user.ID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin rejects authenticated requests whose account lacks the admin
// flag. It must be composed after Authenticate.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		if user == nil || !user.IsAdmin {
			httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorBody{Error: "Not authorized as an admin."})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// UserFromContext returns the authenticated user attached by Authenticate,
// or nil.
func UserFromContext(ctx context.Context) *domain.User {
	user, _ := ctx.Value(userContextKey).(*domain.User)
	return user
}

// ContentTypeJSON enforces that requests with a body have Content-Type: application/json.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > 0 {
			ct := r.Header.Get("Content-Type")
			if !strings.HasPrefix(ct, "application/json") {
				httputil.WriteJSON(w, http.StatusUnsupportedMediaType, httputil.ErrorBody{Error: "Content-Type must be application/json"})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
