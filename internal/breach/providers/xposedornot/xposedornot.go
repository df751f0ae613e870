// Package xposedornot adapts the XposedOrNot check-email API.
package xposedornot

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"cyphex/internal/breach/models"
	"cyphex/internal/breach/providers"
	"cyphex/internal/breach/providers/adapters"
)

const ID = "xposedornot"

// The API rejects non-browser clients with 403, so requests look like Chrome.
var browserHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Accept":          "application/json",
	"Accept-Language": "en-US,en;q=0.9",
	"Cache-Control":   "no-cache",
	"Pragma":          "no-cache",
}

type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient adapters.HTTPDoer
}

// checkEmailResponse is either {"breaches":[["Adobe","LinkedIn"]]} or {"Error":"Not found"}.
type checkEmailResponse struct {
	Breaches [][]string `json:"breaches"`
	Error    string     `json:"Error"`
}

func New(cfg Config) providers.Provider {
	return adapters.New(adapters.HTTPAdapterConfig{
		ID:         ID,
		BaseURL:    cfg.BaseURL,
		Timeout:    cfg.Timeout,
		HTTPClient: cfg.HTTPClient,
		Headers:    browserHeaders,
		BuildURL:   BuildURL,
		Parser:     ParseResponse,
	})
}

func BuildURL(baseURL, email string) string {
	return strings.TrimRight(baseURL, "/") + "/v1/check-email/" + url.PathEscape(email)
}

// ParseResponse reads the first breach group. "Not found" in the Error field
// means the address is clean; any other Error text is reported upstream.
func ParseResponse(body []byte) ([]models.BreachRecord, error) {
	var resp checkEmailResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal xposedornot response: %w", err)
	}

	if len(resp.Breaches) > 0 && len(resp.Breaches[0]) > 0 {
		records := make([]models.BreachRecord, 0, len(resp.Breaches[0]))
		for _, name := range resp.Breaches[0] {
			records = append(records, models.NewBreachRecord(strings.TrimSpace(name)))
		}
		return records, nil
	}

	if msg := strings.TrimSpace(resp.Error); msg != "" && !strings.EqualFold(msg, "not found") {
		return nil, providers.Reported(msg)
	}
	return nil, nil
}
