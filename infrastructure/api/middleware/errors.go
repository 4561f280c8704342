package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/helixml/hackai-log/application/service"
	"github.com/helixml/hackai-log/domain/chat"
	domainservice "github.com/helixml/hackai-log/domain/service"
	"github.com/helixml/hackai-log/internal/log"
)

// APIError is an error carrying the HTTP status to respond with.
type APIError struct {
	code    int
	message string
	cause   error
}

// NewAPIError creates an APIError. cause may be nil.
func NewAPIError(code int, message string, cause error) *APIError {
	return &APIError{code: code, message: message, cause: cause}
}

// BadRequest creates a 400 APIError.
func BadRequest(message string, cause error) *APIError {
	return NewAPIError(http.StatusBadRequest, message, cause)
}

// Code returns the HTTP status code.
func (e *APIError) Code() int { return e.code }

// Message returns the client-facing message.
func (e *APIError) Message() string { return e.message }

func (e *APIError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("api error %d: %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("api error %d: %s", e.code, e.message)
}

// Unwrap returns the cause.
func (e *APIError) Unwrap() error { return e.cause }

// ErrorBody is the JSON error response.
type ErrorBody struct {
	Status string `json:"status"`
	Title  string `json:"title"`
	Detail string `json:"detail,omitempty"`
	ID     string `json:"id,omitempty"`
}

// ErrorResponse wraps error bodies.
type ErrorResponse struct {
	Errors []ErrorBody `json:"errors"`
}

// WriteError maps err to a status code and writes it as JSON.
func WriteError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	status := http.StatusInternalServerError
	title := "Internal Server Error"
	detail := err.Error()

	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.Code()
		title = http.StatusText(status)
		detail = apiErr.Message()
	case errors.Is(err, domainservice.ErrKeyNotFound), errors.Is(err, service.ErrComposerNotFound):
		status = http.StatusNotFound
		title = "Not Found"
	case errors.Is(err, chat.ErrCorruptValue):
		status = http.StatusUnprocessableEntity
		title = "Corrupt Chat Store"
	case errors.Is(err, service.ErrNotConfigured):
		status = http.StatusServiceUnavailable
		title = "Not Configured"
	}

	if logger == nil {
		logger = slog.Default()
	}
	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	logger.Log(r.Context(), level, "request error",
		"status", status,
		"error", err,
		"path", r.URL.Path,
	)

	resp := ErrorResponse{
		Errors: []ErrorBody{{
			Status: http.StatusText(status),
			Title:  title,
			Detail: detail,
			ID:     log.CorrelationID(r.Context()),
		}},
	}
	WriteJSON(w, status, resp)
}

// WriteJSON writes a JSON response.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
