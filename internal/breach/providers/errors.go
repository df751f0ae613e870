package providers

import (
	"errors"
	"fmt"
)

// ErrorCategory is the normalized failure taxonomy for provider calls.
type ErrorCategory string

const (
	// ErrorTimeout: the provider did not answer within the call budget.
	ErrorTimeout ErrorCategory = "timeout"

	// ErrorAccessDenied: 403. The orchestrator falls back to the next provider.
	ErrorAccessDenied ErrorCategory = "access_denied"

	// ErrorNotFound: 404, the address is not in the provider's data set.
	ErrorNotFound ErrorCategory = "not_found"

	ErrorRateLimited ErrorCategory = "rate_limited"

	// ErrorBadData: the body could not be decoded.
	ErrorBadData ErrorCategory = "bad_data"

	// ErrorProviderOutage: connection refused, DNS failure, reset.
	ErrorProviderOutage ErrorCategory = "provider_outage"

	// ErrorUpstream: any other non-2xx status. StatusCode is set.
	ErrorUpstream ErrorCategory = "upstream_error"

	// ErrorReported: the provider answered 200 with an error message in the body.
	ErrorReported ErrorCategory = "reported"

	ErrorInternal ErrorCategory = "internal"
)

// ProviderError wraps provider failures with a normalized category.
type ProviderError struct {
	Category   ErrorCategory
	ProviderID string
	Message    string
	StatusCode int
	Underlying error
}

func (e *ProviderError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("provider %s [%s]: %s: %v", e.ProviderID, e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("provider %s [%s]: %s", e.ProviderID, e.Category, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Underlying
}

func NewProviderError(category ErrorCategory, providerID, message string, underlying error) *ProviderError {
	return &ProviderError{
		Category:   category,
		ProviderID: providerID,
		Message:    message,
		Underlying: underlying,
	}
}

// NewStatusError classifies an unexpected HTTP status.
func NewStatusError(providerID string, status int) *ProviderError {
	return &ProviderError{
		Category:   ErrorUpstream,
		ProviderID: providerID,
		Message:    fmt.Sprintf("unexpected status: %d", status),
		StatusCode: status,
	}
}

// Reported builds the error a parser returns when the body itself says the
// lookup failed. The adapter fills in the provider ID.
func Reported(message string) *ProviderError {
	return &ProviderError{Category: ErrorReported, Message: message}
}

// GetCategory extracts the category from err, ErrorInternal when err is not a ProviderError.
func GetCategory(err error) ErrorCategory {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Category
	}
	return ErrorInternal
}

// AsProviderError is errors.As for *ProviderError.
func AsProviderError(err error) (*ProviderError, bool) {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

var (
	ErrProviderNotFound = errors.New("provider not found")
	ErrEmptyChain       = errors.New("provider chain is empty")
)
