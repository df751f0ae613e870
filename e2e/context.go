package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cyphex/internal/mockupstream"
)

// TestContext holds state between test steps
type TestContext struct {
	BaseURL          string
	HTTPClient       *http.Client
	Upstream         *mockupstream.Server
	LastResponse     *http.Response
	LastResponseBody []byte
}

// NewTestContext creates a new test context. upstream is nil when the suite
// runs against an external server.
func NewTestContext(baseURL string, upstream *mockupstream.Server) *TestContext {
	return &TestContext{
		BaseURL:  baseURL,
		Upstream: upstream,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// POST makes a POST request with a JSON-encoded body and stores the response
func (tc *TestContext) POST(path string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}
	return tc.Do(http.MethodPost, path, string(data), nil)
}

// POSTRaw sends body verbatim, for malformed payloads.
func (tc *TestContext) POSTRaw(path, body string) error {
	return tc.Do(http.MethodPost, path, body, nil)
}

// GET makes a GET request and stores the response
func (tc *TestContext) GET(path string, headers map[string]string) error {
	return tc.Do(http.MethodGet, path, "", headers)
}

// Do sends any request and stores the response.
func (tc *TestContext) Do(method, path, body string, headers map[string]string) error {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequestWithContext(context.Background(), method, tc.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := tc.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}

	tc.LastResponse = resp
	tc.LastResponseBody, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	return nil
}

// GetResponseField extracts a top-level field from the JSON response
func (tc *TestContext) GetResponseField(field string) (any, error) {
	var data map[string]any
	if err := json.Unmarshal(tc.LastResponseBody, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	value, ok := data[field]
	if !ok {
		return nil, fmt.Errorf("field %s not found in response", field)
	}

	return value, nil
}

// ResponseContains checks if the response body contains a field or text
func (tc *TestContext) ResponseContains(text string) bool {
	if bytes.Contains(tc.LastResponseBody, []byte(text)) {
		return true
	}

	var data map[string]any
	if err := json.Unmarshal(tc.LastResponseBody, &data); err == nil {
		if _, ok := data[text]; ok {
			return true
		}
	}

	return false
}

func (tc *TestContext) GetLastResponseStatus() int {
	if tc.LastResponse == nil {
		return 0
	}
	return tc.LastResponse.StatusCode
}

func (tc *TestContext) GetLastResponseHeader(name string) string {
	if tc.LastResponse == nil {
		return ""
	}
	return tc.LastResponse.Header.Get(name)
}

func (tc *TestContext) GetLastResponseBody() []byte {
	return tc.LastResponseBody
}

// UpstreamCalls reports how often the fake provider was hit. ok is false
// when the suite runs against an external server.
func (tc *TestContext) UpstreamCalls(provider string) (int, bool) {
	if tc.Upstream == nil {
		return 0, false
	}
	return tc.Upstream.Calls(provider), true
}

func (tc *TestContext) ResetUpstream() {
	if tc.Upstream != nil {
		tc.Upstream.Reset()
	}
}
