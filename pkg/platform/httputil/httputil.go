package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "cyphex/pkg/domain-errors"
)

// ErrorResponse is the JSON envelope for every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Errors after WriteHeader cannot change the status code, so we ignore encoding errors.
	_ = json.NewEncoder(w).Encode(response)
}

// WriteError centralizes domain error translation to HTTP responses.
// It translates transport-agnostic domain errors into HTTP status codes and error responses.
func WriteError(w http.ResponseWriter, err error) {
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		WriteJSON(w, DomainCodeToHTTPStatus(domainErr.Code), errorBody(domainErr))
		return
	}

	// Fallback for unexpected errors
	WriteJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
}

// errorBody chooses between a user-facing message and a generic title with
// the message attached as details.
func errorBody(e *dErrors.Error) ErrorResponse {
	switch e.Code {
	case dErrors.CodeInvalidJSON:
		return ErrorResponse{Error: "Invalid JSON", Details: e.Message}
	case dErrors.CodeMethodNotAllowed:
		return ErrorResponse{Error: "Method not allowed"}
	case dErrors.CodePayloadTooLarge:
		return ErrorResponse{Error: "Request body too large"}
	case dErrors.CodeUpstreamUnavailable, dErrors.CodeInternal:
		return ErrorResponse{Error: "Internal server error", Details: e.Message}
	default:
		return ErrorResponse{Error: e.Error()}
	}
}

// DomainCodeToHTTPStatus translates domain error codes to HTTP status codes.
func DomainCodeToHTTPStatus(code dErrors.Code) int {
	switch code {
	case dErrors.CodeBadRequest, dErrors.CodeInvalidJSON, dErrors.CodeValidation:
		return http.StatusBadRequest
	case dErrors.CodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case dErrors.CodePayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case dErrors.CodeRateLimited:
		return http.StatusTooManyRequests
	case dErrors.CodeTimeout:
		return http.StatusGatewayTimeout
	case dErrors.CodeUpstreamUnavailable, dErrors.CodeUpstreamError, dErrors.CodeNotConfigured, dErrors.CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
