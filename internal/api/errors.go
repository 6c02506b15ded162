package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-2xx response from the backend. The server reports
// failures as {"detail": ...} or {"message": ...}; Error prefers the
// human-readable detail when present.
type APIError struct {
	StatusCode int
	Detail     string
	Message    string
	Raw        string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Raw != "" {
		return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Raw)
	}
	return fmt.Sprintf("API error (status %d)", e.StatusCode)
}

func newAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: statusCode,
		Raw:        strings.TrimSpace(string(body)),
	}

	var payload struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.Detail = payload.Detail
		apiErr.Message = payload.Message
	}

	return apiErr
}

// IsUnauthorized reports whether err is a 401 from the backend.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// ServerMessage extracts a server-supplied human-readable message from err,
// or returns the empty string if there is none.
func ServerMessage(err error) string {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return ""
	}
	if apiErr.Detail != "" {
		return apiErr.Detail
	}
	return apiErr.Message
}
