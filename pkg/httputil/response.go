package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	apperrors "github.com/Shashwat-pati/Ecommerce-Backend/pkg/errors"
	"github.com/Shashwat-pati/Ecommerce-Backend/pkg/logger"
	"github.com/Shashwat-pati/Ecommerce-Backend/pkg/validator"
)

// ErrorBody is the wire format for every failure response.
type ErrorBody struct {
	Error string `json:"error"`
}

// MessageBody is the wire format for message-only success responses.
type MessageBody struct {
	Message string `json:"message"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError converts an error into an {"error": message} response. AppError
// messages pass through with their status; anything else becomes a generic
// 500 "Server error" and the cause is logged. It prefers the request-scoped
// logger from context (set by the RequestLogger middleware) over the fallback.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	l := logger.FromContext(r.Context())
	if l == slog.Default() {
		l = fallback
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Status == http.StatusInternalServerError {
			logInternal(r, l, err)
		}
		WriteJSON(w, appErr.Status, ErrorBody{Error: appErr.Message})
		return
	}

	status := apperrors.HTTPStatus(err)
	message := "Server error"

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		message = "Not found"
	case errors.Is(err, apperrors.ErrAlreadyExists):
		message = "Already exists"
	case errors.Is(err, apperrors.ErrInvalidInput):
		message = err.Error()
	case errors.Is(err, apperrors.ErrUnauthorized):
		message = "Not authorized"
	default:
		logInternal(r, l, err)
	}

	WriteJSON(w, status, ErrorBody{Error: message})
}

func logInternal(r *http.Request, l *slog.Logger, err error) {
	l.ErrorContext(r.Context(), "internal error",
		slog.String("error", err.Error()),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)
}

// WriteValidationError writes the first failed field's message as a 400
// {"error": "<Field> <problem>"} response, matching the one-field-at-a-time
// validation order of the request structs.
func WriteValidationError(w http.ResponseWriter, err error) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		WriteJSON(w, http.StatusBadRequest, ErrorBody{Error: valErr.First()})
		return
	}

	WriteJSON(w, http.StatusBadRequest, ErrorBody{Error: err.Error()})
}

// ParseUUID validates that the given string is a valid UUID and returns it.
// On failure it writes a 400 response and returns false, signaling the caller
// to return early.
func ParseUUID(w http.ResponseWriter, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(param)
	if err != nil {
		WriteJSON(w, http.StatusBadRequest, ErrorBody{Error: "invalid id: " + param})
		return uuid.Nil, false
	}
	return id, true
}
