// Package http provides HTTP server and handler implementations.
//
// This file implements the Builder Pattern for constructing JSON responses
// and maps ledger errors onto status codes and machine-readable codes.

package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"compta/internal/core"
)

// Error codes returned in the "code" field of error bodies.
const (
	CodeSameAccount       = "same_account"
	CodeNonPositiveAmount = "non_positive_amount"
	CodeEmptyDescription  = "empty_description"
	CodeUnknownAccount    = "unknown_account"
	CodeInvalidDate       = "invalid_date"
	CodeInvalidPeriod     = "invalid_period"
	CodeBadRequest        = "bad_request"
	CodeNotFound          = "not_found"
	CodeUnavailable       = "unavailable"
	CodeInternal          = "internal"
	CodeUnauthorized      = "unauthorized"
	CodeRateLimited       = "rate_limited"
	CodeMethodNotAllowed  = "method_not_allowed"
)

// retryAfterSeconds is advertised on 503 responses for transient store faults.
const retryAfterSeconds = 1

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// JSONResponseBuilder provides a fluent API for building JSON responses.
type JSONResponseBuilder struct {
	statusCode int
	body       any
	headers    map[string]string
}

// NewJSONResponse creates a new response builder with default 200 status.
func NewJSONResponse() *JSONResponseBuilder {
	return &JSONResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

// Status sets the HTTP status code for the response.
func (b *JSONResponseBuilder) Status(code int) *JSONResponseBuilder {
	b.statusCode = code
	return b
}

// Header adds a custom header to the response.
func (b *JSONResponseBuilder) Header(name, value string) *JSONResponseBuilder {
	b.headers[name] = value
	return b
}

// Body sets the value encoded as the response body.
func (b *JSONResponseBuilder) Body(v any) *JSONResponseBuilder {
	b.body = v
	return b
}

// Write sends the built response to the http.ResponseWriter.
func (b *JSONResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	if b.body == nil {
		w.WriteHeader(b.statusCode)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(b.statusCode)
	_ = json.NewEncoder(w).Encode(b.body)
}

// ErrorResponse creates an error response with the standard body.
func ErrorResponse(statusCode int, code, message string) *JSONResponseBuilder {
	return NewJSONResponse().
		Status(statusCode).
		Body(ErrorBody{Error: message, Code: code})
}

// BadRequestError creates a 422 response for malformed input.
func BadRequestError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusUnprocessableEntity, CodeBadRequest, message)
}

// NotFoundError creates a 404 Not Found error response.
func NotFoundError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusNotFound, CodeNotFound, message)
}

// InternalServerError creates a 500 Internal Server Error response.
func InternalServerError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, CodeInternal, message)
}

// MethodNotAllowedError creates a 405 Method Not Allowed error response.
func MethodNotAllowedError(allowedMethods string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusMethodNotAllowed, CodeMethodNotAllowed, "method not allowed").
		Header("Allow", allowedMethods)
}

// validationCodes is checked in order; leaves before their root.
var validationCodes = []struct {
	err  error
	code string
}{
	{core.ErrSameAccount, CodeSameAccount},
	{core.ErrNonPositiveAmount, CodeNonPositiveAmount},
	{core.ErrEmptyDescription, CodeEmptyDescription},
	{core.ErrUnknownAccount, CodeUnknownAccount},
	{core.ErrInvalidDate, CodeInvalidDate},
	{core.ErrInvalidPeriod, CodeInvalidPeriod},
	{core.ErrInvalidAmount, CodeBadRequest},
}

// FromError maps a ledger error onto a response.
func FromError(err error) *JSONResponseBuilder {
	switch {
	case errors.Is(err, errBadRequest):
		return BadRequestError(err.Error())
	case errors.Is(err, core.ErrValidation):
		for _, vc := range validationCodes {
			if errors.Is(err, vc.err) {
				return ErrorResponse(http.StatusUnprocessableEntity, vc.code, err.Error())
			}
		}
		return BadRequestError(err.Error())
	case errors.Is(err, core.ErrNotFound):
		return NotFoundError(err.Error())
	case core.IsTransient(err):
		return ErrorResponse(http.StatusServiceUnavailable, CodeUnavailable, "ledger temporarily unavailable, retry later").
			Header("Retry-After", strconv.Itoa(retryAfterSeconds))
	default:
		return InternalServerError("internal error")
	}
}
