package providers

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderErrorMessage(t *testing.T) {
	err := NewProviderError(ErrorTimeout, "hibp", "request timeout", errors.New("deadline exceeded"))
	assert.Equal(t, "provider hibp [timeout]: request timeout: deadline exceeded", err.Error())

	err = NewProviderError(ErrorNotFound, "hibp", "record not found", nil)
	assert.Equal(t, "provider hibp [not_found]: record not found", err.Error())
}

func TestGetCategory(t *testing.T) {
	wrapped := fmt.Errorf("lookup: %w", NewProviderError(ErrorAccessDenied, "xposedornot", "forbidden", nil))
	assert.Equal(t, ErrorAccessDenied, GetCategory(wrapped))
	assert.Equal(t, ErrorInternal, GetCategory(errors.New("plain")))
}

func TestNewStatusError(t *testing.T) {
	err := NewStatusError("leakcheck", 502)
	assert.Equal(t, ErrorUpstream, err.Category)
	assert.Equal(t, 502, err.StatusCode)
}

func TestAsProviderError(t *testing.T) {
	pe, ok := AsProviderError(fmt.Errorf("wrap: %w", Reported("Not found")))
	require.True(t, ok)
	assert.Equal(t, ErrorReported, pe.Category)
	assert.Equal(t, "Not found", pe.Message)

	_, ok = AsProviderError(errors.New("plain"))
	assert.False(t, ok)
}

func TestUnwrap(t *testing.T) {
	root := errors.New("connection refused")
	err := NewProviderError(ErrorProviderOutage, "hibp", "unreachable", root)
	assert.ErrorIs(t, err, root)
}
