package httputil

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	dErrors "cyphex/pkg/domain-errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRequest is a simple test struct for JSON decoding
type testRequest struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// validatingRequest implements Validatable
type validatingRequest struct {
	Name string `json:"name"`
}

func (r *validatingRequest) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

// fullRequest implements all preparation interfaces
type fullRequest struct {
	Name       string `json:"name"`
	normalized bool
	validated  bool
}

func (r *fullRequest) Normalize() {
	r.normalized = true
	r.Name = strings.TrimSpace(r.Name)
}

func (r *fullRequest) Validate() error {
	r.validated = true
	if r.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

func decodeErrorBody(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestDecodeJSON(t *testing.T) {
	t.Run("successful decode", func(t *testing.T) {
		body := `{"name":"test","value":42}`
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
		w := httptest.NewRecorder()

		result, ok := DecodeJSON[testRequest](w, req)

		assert.True(t, ok)
		require.NotNil(t, result)
		assert.Equal(t, "test", result.Name)
		assert.Equal(t, 42, result.Value)
	})

	t.Run("invalid JSON returns error", func(t *testing.T) {
		body := `{invalid json}`
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
		w := httptest.NewRecorder()

		result, ok := DecodeJSON[testRequest](w, req)

		assert.False(t, ok)
		assert.Nil(t, result)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeErrorBody(t, w)
		assert.Equal(t, "Invalid JSON", resp.Error)
		assert.NotEmpty(t, resp.Details)
	})

	t.Run("empty body returns error", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(""))
		w := httptest.NewRecorder()

		result, ok := DecodeJSON[testRequest](w, req)

		assert.False(t, ok)
		assert.Nil(t, result)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("oversized body returns 413", func(t *testing.T) {
		body := `{"name":"` + strings.Repeat("x", 64) + `"}`
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
		w := httptest.NewRecorder()
		req.Body = http.MaxBytesReader(w, req.Body, 16)

		result, ok := DecodeJSON[testRequest](w, req)

		assert.False(t, ok)
		assert.Nil(t, result)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}

func TestDecodeAndPrepare(t *testing.T) {
	t.Run("successful decode and validate", func(t *testing.T) {
		body := `{"name":"test"}`
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
		w := httptest.NewRecorder()

		result, ok := DecodeAndPrepare[validatingRequest](w, req)

		assert.True(t, ok)
		require.NotNil(t, result)
		assert.Equal(t, "test", result.Name)
	})

	t.Run("validation failure returns error", func(t *testing.T) {
		body := `{"name":""}`
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
		w := httptest.NewRecorder()

		result, ok := DecodeAndPrepare[validatingRequest](w, req)

		assert.False(t, ok)
		assert.Nil(t, result)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "name is required", decodeErrorBody(t, w).Error)
	})

	t.Run("calls all preparation methods", func(t *testing.T) {
		body := `{"name":"  test  "}`
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
		w := httptest.NewRecorder()

		result, ok := DecodeAndPrepare[fullRequest](w, req)

		assert.True(t, ok)
		require.NotNil(t, result)
		assert.True(t, result.normalized, "Normalize() should have been called")
		assert.True(t, result.validated, "Validate() should have been called")
		assert.Equal(t, "test", result.Name)
	})
}

// domainErrorRequest returns a domain error from Validate()
type domainErrorRequest struct {
	Email string `json:"email"`
}

func (r *domainErrorRequest) Validate() error {
	if r.Email == "" {
		return dErrors.New(dErrors.CodeValidation, "Email is required")
	}
	return nil
}

func TestDecodeAndPrepare_PreservesDomainError(t *testing.T) {
	body := `{}`
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	result, ok := DecodeAndPrepare[domainErrorRequest](w, req)

	assert.False(t, ok)
	assert.Nil(t, result)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Email is required"}`, w.Body.String())
}
