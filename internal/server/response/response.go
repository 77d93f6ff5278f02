// Package response provides the JSON envelope used by every API endpoint:
// a data field on success and an error field on failure.
package response

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/agentstation/shelf/pkg/errors"
)

// Response represents the standardized API response structure.
type Response struct {
	Data  any    `json:"data"`
	Error *Error `json:"error"`
}

// Error represents an API error with code, message, and optional details.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Success creates a successful response with data.
func Success(data any) Response {
	return Response{Data: data}
}

// Fail creates an error response.
func Fail(code, message, details string) Response {
	return Response{
		Error: &Error{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; an encoding error cannot be reported.
	_ = json.NewEncoder(w).Encode(resp)
}

// OK writes a successful response with 200 status.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Success(data))
}

// BadRequest writes a 400 error response.
func BadRequest(w http.ResponseWriter, message, details string) {
	JSON(w, http.StatusBadRequest, Fail("BAD_REQUEST", message, details))
}

// NotFound writes a 404 error response.
func NotFound(w http.ResponseWriter, message, details string) {
	JSON(w, http.StatusNotFound, Fail("NOT_FOUND", message, details))
}

// Conflict writes a 409 error response.
func Conflict(w http.ResponseWriter, message string) {
	JSON(w, http.StatusConflict, Fail("CONFLICT", message, ""))
}

// BadGateway writes a 502 error response for upstream source failures.
func BadGateway(w http.ResponseWriter, details string) {
	JSON(w, http.StatusBadGateway, Fail("SOURCE_UNAVAILABLE", "Listing source failed", details))
}

// InternalError writes a 500 error response without exposing err.
func InternalError(w http.ResponseWriter, _ error) {
	JSON(w, http.StatusInternalServerError, Fail(
		"INTERNAL_ERROR",
		"Internal server error",
		"An unexpected error occurred",
	))
}

// ServiceUnavailable writes a 503 error response.
func ServiceUnavailable(w http.ResponseWriter, message string) {
	JSON(w, http.StatusServiceUnavailable, Fail("SERVICE_UNAVAILABLE", "Service unavailable", message))
}

// ErrorFromType maps typed errors to HTTP responses. Wrapped errors are
// unwrapped, so a ResourceError around a FetchError is still a 502.
func ErrorFromType(w http.ResponseWriter, err error) {
	var (
		notFound *errors.NotFoundError
		fetchErr *errors.FetchError
	)
	switch {
	case errors.As(err, &notFound):
		NotFound(w, notFound.Error(), "")
	case errors.IsValidationError(err):
		BadRequest(w, "Invalid request", err.Error())
	case errors.As(err, &fetchErr):
		BadGateway(w, fetchErr.Error())
	case errors.IsCanceled(err), errors.IsTimeout(err),
		errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		ServiceUnavailable(w, err.Error())
	default:
		InternalError(w, err)
	}
}
