package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"cyphex/internal/breach/models"
	"cyphex/internal/breach/providers"
	"cyphex/internal/breach/providers/adapters/mocks"
)

func namesParser(body []byte) ([]models.BreachRecord, error) {
	var payload struct {
		Names []string `json:"names"`
		Error string   `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}
	if payload.Error != "" {
		return nil, providers.Reported(payload.Error)
	}
	out := make([]models.BreachRecord, 0, len(payload.Names))
	for _, n := range payload.Names {
		out = append(out, models.BreachRecord{Name: n})
	}
	return out, nil
}

func testURL(base, email string) string {
	return base + "/lookup/" + url.PathEscape(email)
}

func response(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func newAdapter(client HTTPDoer) *HTTPAdapter {
	return New(HTTPAdapterConfig{
		ID:         "test-provider",
		BaseURL:    "http://provider.test/",
		Timeout:    time.Second,
		HTTPClient: client,
		Headers:    map[string]string{"Accept": "application/json"},
		BuildURL:   testURL,
		Parser:     namesParser,
		Now:        func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) },
	})
}

func TestLookupSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockHTTPDoer(ctrl)

	client.EXPECT().Do(gomock.Any()).DoAndReturn(func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, http.MethodGet, req.Method)
		assert.Equal(t, "http://provider.test/lookup/a+b@example.com", req.URL.String())
		assert.Equal(t, "application/json", req.Header.Get("Accept"))
		_, hasDeadline := req.Context().Deadline()
		assert.True(t, hasDeadline)
		return response(http.StatusOK, `{"names":["Adobe","LinkedIn"]}`), nil
	})

	res, err := newAdapter(client).Lookup(context.Background(), "a+b@example.com")
	require.NoError(t, err)

	assert.Equal(t, "test-provider", res.ProviderID)
	require.Len(t, res.Breaches, 2)
	assert.Equal(t, "Adobe", res.Breaches[0].Name)
	assert.Equal(t, "Unknown", res.Breaches[0].Date, "placeholders applied")
	assert.False(t, res.CheckedAt.IsZero())
}

func TestLookupEmptyBodyIsClean(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockHTTPDoer(ctrl)
	client.EXPECT().Do(gomock.Any()).Return(response(http.StatusOK, "  "), nil)

	res, err := newAdapter(client).Lookup(context.Background(), "x@example.com")
	require.NoError(t, err)
	assert.Empty(t, res.Breaches)
}

func TestLookupStatusClassification(t *testing.T) {
	tests := []struct {
		status   int
		category providers.ErrorCategory
	}{
		{http.StatusUnauthorized, providers.ErrorUpstream},
		{http.StatusForbidden, providers.ErrorAccessDenied},
		{http.StatusNotFound, providers.ErrorNotFound},
		{http.StatusTooManyRequests, providers.ErrorRateLimited},
		{http.StatusInternalServerError, providers.ErrorUpstream},
		{http.StatusBadGateway, providers.ErrorUpstream},
		{http.StatusTeapot, providers.ErrorUpstream},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := mocks.NewMockHTTPDoer(ctrl)
			client.EXPECT().Do(gomock.Any()).Return(response(tt.status, `{}`), nil)

			_, err := newAdapter(client).Lookup(context.Background(), "x@example.com")
			require.Error(t, err)

			pe, ok := providers.AsProviderError(err)
			require.True(t, ok)
			assert.Equal(t, tt.category, pe.Category)
			assert.Equal(t, tt.status, pe.StatusCode)
			assert.Equal(t, "test-provider", pe.ProviderID)
		})
	}
}

func TestLookupTransportErrors(t *testing.T) {
	t.Run("connection failure is an outage", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := mocks.NewMockHTTPDoer(ctrl)
		client.EXPECT().Do(gomock.Any()).Return(nil, errors.New("dial tcp: connection refused"))

		_, err := newAdapter(client).Lookup(context.Background(), "x@example.com")
		assert.Equal(t, providers.ErrorProviderOutage, providers.GetCategory(err))
	})

	t.Run("deadline is a timeout", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := mocks.NewMockHTTPDoer(ctrl)
		client.EXPECT().Do(gomock.Any()).Return(nil, context.DeadlineExceeded)

		_, err := newAdapter(client).Lookup(context.Background(), "x@example.com")
		assert.Equal(t, providers.ErrorTimeout, providers.GetCategory(err))
	})

	t.Run("slow server trips the adapter timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		defer srv.Close()

		adapter := New(HTTPAdapterConfig{
			ID:       "slow",
			BaseURL:  srv.URL,
			Timeout:  50 * time.Millisecond,
			BuildURL: testURL,
			Parser:   namesParser,
		})

		_, err := adapter.Lookup(context.Background(), "x@example.com")
		assert.Equal(t, providers.ErrorTimeout, providers.GetCategory(err))
	})
}

func TestLookupParserErrors(t *testing.T) {
	t.Run("malformed JSON is bad data", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := mocks.NewMockHTTPDoer(ctrl)
		client.EXPECT().Do(gomock.Any()).Return(response(http.StatusOK, `{not json`), nil)

		_, err := newAdapter(client).Lookup(context.Background(), "x@example.com")
		assert.Equal(t, providers.ErrorBadData, providers.GetCategory(err))
	})

	t.Run("body-level error is reported with provider id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := mocks.NewMockHTTPDoer(ctrl)
		client.EXPECT().Do(gomock.Any()).Return(response(http.StatusOK, `{"error":"quota exhausted"}`), nil)

		_, err := newAdapter(client).Lookup(context.Background(), "x@example.com")
		pe, ok := providers.AsProviderError(err)
		require.True(t, ok)
		assert.Equal(t, providers.ErrorReported, pe.Category)
		assert.Equal(t, "quota exhausted", pe.Message)
		assert.Equal(t, "test-provider", pe.ProviderID)
	})
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		err     error
		healthy bool
	}{
		{"ok", http.StatusOK, nil, true},
		{"not found still reachable", http.StatusNotFound, nil, true},
		{"server error", http.StatusServiceUnavailable, nil, false},
		{"unreachable", 0, errors.New("no route to host"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := mocks.NewMockHTTPDoer(ctrl)
			if tt.err != nil {
				client.EXPECT().Do(gomock.Any()).Return(nil, tt.err)
			} else {
				client.EXPECT().Do(gomock.Any()).DoAndReturn(func(req *http.Request) (*http.Response, error) {
					assert.Equal(t, "http://provider.test/", req.URL.String())
					return response(tt.status, ""), nil
				})
			}

			err := newAdapter(client).Health(context.Background())
			if tt.healthy {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
