package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nileshk07/bloghub/internal/domain"
)

// errUnauthenticated is returned when a protected handler runs without a
// user in the request context.
var errUnauthenticated = domain.ErrUnauthorized

// Response is the uniform success envelope.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       any    `json:"data"`
}

// ErrorResponse is the uniform failure envelope.
type ErrorResponse struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Errors     []string `json:"errors"`
}

func respond(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Response{
		StatusCode: status,
		Message:    message,
		Data:       data,
	})
}

func respondError(w http.ResponseWriter, err error) {
	status := statusFromError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		StatusCode: status,
		Message:    err.Error(),
		Errors:     []string{err.Error()},
	})
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func badRequest(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		StatusCode: http.StatusBadRequest,
		Message:    msg,
		Errors:     []string{msg},
	})
}
