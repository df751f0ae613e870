// Package hibp adapts the HaveIBeenPwned v3 breachedaccount API.
package hibp

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"cyphex/internal/breach/models"
	"cyphex/internal/breach/providers"
	"cyphex/internal/breach/providers/adapters"
)

const (
	ID        = "hibp"
	UserAgent = "Cyphex-Email-Scanner"
)

type Config struct {
	BaseURL string
	// APIKey is sent as hibp-api-key when set. Without it the API answers 401,
	// which surfaces as "API error: 401" and does not advance the chain.
	APIKey     string
	Timeout    time.Duration
	HTTPClient adapters.HTTPDoer
}

type breach struct {
	Name        string   `json:"Name"`
	Title       string   `json:"Title"`
	Domain      string   `json:"Domain"`
	BreachDate  string   `json:"BreachDate"`
	PwnCount    int64    `json:"PwnCount"`
	Description string   `json:"Description"`
	DataClasses []string `json:"DataClasses"`
	IsSensitive bool     `json:"IsSensitive"`
}

func New(cfg Config) providers.Provider {
	headers := map[string]string{
		"User-Agent": UserAgent,
		"Accept":     "application/json",
	}
	if cfg.APIKey != "" {
		headers["hibp-api-key"] = cfg.APIKey
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	return adapters.New(adapters.HTTPAdapterConfig{
		ID:         ID,
		BaseURL:    base,
		Timeout:    cfg.Timeout,
		HTTPClient: cfg.HTTPClient,
		Headers:    headers,
		BuildURL:   BuildURL,
		Parser:     ParseResponse,
		// Public endpoint, no key required.
		HealthURL: base + "/api/v3/dataclasses",
	})
}

func BuildURL(baseURL, email string) string {
	return strings.TrimRight(baseURL, "/") + "/api/v3/breachedaccount/" + url.PathEscape(email) + "?truncateResponse=false"
}

// ParseResponse maps the breach array. A truncated response only carries
// Name, in which case the remaining fields fall back to placeholders.
func ParseResponse(body []byte) ([]models.BreachRecord, error) {
	var breaches []breach
	if err := json.Unmarshal(body, &breaches); err != nil {
		return nil, fmt.Errorf("failed to unmarshal hibp response: %w", err)
	}

	records := make([]models.BreachRecord, 0, len(breaches))
	for _, b := range breaches {
		name := b.Name
		if name == "" {
			name = b.Title
		}
		if name == "" {
			name = models.Unknown
		}
		records = append(records, models.BreachRecord{
			Name:             name,
			Date:             b.BreachDate,
			Description:      plainText(b.Description),
			DataTypes:        b.DataClasses,
			AffectedAccounts: b.PwnCount,
			Domain:           b.Domain,
			PasswordRisk:     passwordRisk(b.DataClasses),
		})
	}
	return records, nil
}

func passwordRisk(dataClasses []string) string {
	if len(dataClasses) == 0 {
		return ""
	}
	for _, dc := range dataClasses {
		if strings.EqualFold(dc, "Passwords") {
			return "High"
		}
	}
	for _, dc := range dataClasses {
		if strings.Contains(strings.ToLower(dc), "password") {
			return "Medium"
		}
	}
	return "Low"
}

// plainText strips the HTML markup HIBP embeds in breach descriptions.
func plainText(fragment string) string {
	if fragment == "" {
		return ""
	}
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.TextToken:
			b.Write(z.Text())
			b.WriteByte(' ')
		}
	}
}
