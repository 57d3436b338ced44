package handlers

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/SohamKamathi18/synaphack/internal/errors"
	"github.com/SohamKamathi18/synaphack/pkg/hackapi"
)

// Error codes for standardized console API error responses
const (
	ErrCodeBadRequest     = "BAD_REQUEST"
	ErrCodeUnauthorized   = "UNAUTHORIZED"
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeConflict       = "CONFLICT"
	ErrCodeValidation     = "VALIDATION_ERROR"
	ErrCodeBackendDown    = "BACKEND_UNREACHABLE"
	ErrCodeSessionLoading = "SESSION_LOADING"
	ErrCodeInternalServer = "INTERNAL_SERVER_ERROR"
)

// APIError represents a console API error with an HTTP status and code.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"error"`
}

func (e *APIError) Error() string {
	return e.Message
}

// BadRequest creates a 400 error with a custom message.
func BadRequest(message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: ErrCodeBadRequest, Message: message}
}

// Unauthorized creates a 401 error with a custom message.
func Unauthorized(message string) *APIError {
	return &APIError{Status: http.StatusUnauthorized, Code: ErrCodeUnauthorized, Message: message}
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondOK writes a 200 OK JSON response.
func respondOK(w http.ResponseWriter, data interface{}) {
	respondJSON(w, http.StatusOK, data)
}

// respondError writes an error response.
func (h *Handlers) respondError(w http.ResponseWriter, err error) {
	if apiErr, ok := err.(*APIError); ok {
		respondJSON(w, apiErr.Status, apiErr)
		return
	}
	apiErr := h.toAPIError(err)
	respondJSON(w, apiErr.Status, apiErr)
}

// toAPIError converts backend and application errors to console API errors.
func (h *Handlers) toAPIError(err error) *APIError {
	// Backend failures keep their status and message
	var backendErr *hackapi.APIError
	if stderrors.As(err, &backendErr) {
		switch {
		case backendErr.Status == 0:
			return &APIError{Status: http.StatusBadGateway, Code: ErrCodeBackendDown, Message: "Backend unreachable"}
		case backendErr.Status == http.StatusUnauthorized:
			return &APIError{Status: http.StatusUnauthorized, Code: ErrCodeUnauthorized, Message: backendErr.Detail}
		case backendErr.Status == http.StatusNotFound:
			return &APIError{Status: http.StatusNotFound, Code: ErrCodeNotFound, Message: backendErr.Detail}
		case backendErr.Status == http.StatusConflict:
			return &APIError{Status: http.StatusConflict, Code: ErrCodeConflict, Message: backendErr.Detail}
		case backendErr.Status >= 400 && backendErr.Status < 500:
			return &APIError{Status: backendErr.Status, Code: ErrCodeValidation, Message: backendErr.Detail}
		}
		h.Log.Error("backend error", "status", backendErr.Status, "detail", backendErr.Detail)
		return &APIError{Status: http.StatusBadGateway, Code: ErrCodeInternalServer, Message: "Backend error"}
	}

	var appErr *errors.Error
	if stderrors.As(err, &appErr) {
		switch appErr.Kind {
		case errors.ErrTransient:
			return &APIError{Status: http.StatusBadGateway, Code: ErrCodeBackendDown, Message: appErr.Message}
		case errors.ErrAuth:
			return &APIError{Status: http.StatusUnauthorized, Code: ErrCodeUnauthorized, Message: appErr.Message}
		case errors.ErrValidation:
			return &APIError{Status: http.StatusBadRequest, Code: ErrCodeValidation, Message: appErr.Message}
		case errors.ErrNotFound:
			return &APIError{Status: http.StatusNotFound, Code: ErrCodeNotFound, Message: appErr.Message}
		case errors.ErrConflict:
			return &APIError{Status: http.StatusConflict, Code: ErrCodeConflict, Message: appErr.Message}
		}
	}

	h.Log.Error("internal error", "error", err)
	return &APIError{Status: http.StatusInternalServerError, Code: ErrCodeInternalServer, Message: "Internal server error"}
}

// userMessage extracts a message fit for showing in a form. Backend
// validation details are shown verbatim; everything else gets a
// generic message.
func userMessage(err error) string {
	var backendErr *hackapi.APIError
	if stderrors.As(err, &backendErr) {
		if backendErr.Status == 0 {
			return "Cannot reach the backend. Check your connection and try again."
		}
		if backendErr.Detail != "" && backendErr.Detail != "request failed" {
			return backendErr.Detail
		}
	}
	return "Something went wrong. Please try again."
}

// isAuthFailure reports whether the error means the session token was
// rejected, which forces a local logout.
func isAuthFailure(err error) bool {
	var backendErr *hackapi.APIError
	return stderrors.As(err, &backendErr) && backendErr.Status == http.StatusUnauthorized
}
