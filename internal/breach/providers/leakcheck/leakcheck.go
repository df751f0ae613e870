// Package leakcheck adapts the LeakCheck public lookup API.
package leakcheck

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

const ID = "leakcheck"

// defaultDataTypes applies when the response omits "fields"; every LeakCheck
// source is a credential dump.
var defaultDataTypes = []string{"Email addresses", "Passwords"}

// fieldNames maps LeakCheck field identifiers to display data types.
var fieldNames = map[string]string{
	"email":      "Email addresses",
	"password":   "Passwords",
	"username":   "Usernames",
	"name":       "Names",
	"first_name": "Names",
	"last_name":  "Names",
	"phone":      "Phone numbers",
	"address":    "Physical addresses",
	"zip":        "Physical addresses",
	"dob":        "Dates of birth",
	"ip":         "IP addresses",
	"hash":       "Password hashes",
}

type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient adapters.HTTPDoer
}

type source struct {
	Name   string `json:"name"`
	Source string `json:"source"`
	Date   string `json:"date"`
	Line   string `json:"line"`
}

// foundField accepts "found" as either a count or a boolean; both shapes
// appear in LeakCheck responses.
type foundField int

func (f *foundField) UnmarshalJSON(data []byte) error {
	var found bool
	if err := json.Unmarshal(data, &found); err == nil {
		*f = 0
		if found {
			*f = 1
		}
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("found must be a boolean or a count: %w", err)
	}
	*f = foundField(n)
	return nil
}

type publicResponse struct {
	Success *bool       `json:"success"`
	Found   *foundField `json:"found"`
	Error   string      `json:"error"`
	Fields  []string    `json:"fields"`
	Sources []source    `json:"sources"`
}

func New(cfg Config) providers.Provider {
	return adapters.New(adapters.HTTPAdapterConfig{
		ID:         ID,
		BaseURL:    cfg.BaseURL,
		Timeout:    cfg.Timeout,
		HTTPClient: cfg.HTTPClient,
		Headers:    map[string]string{"Accept": "application/json"},
		BuildURL:   BuildURL,
		Parser:     ParseResponse,
	})
}

func BuildURL(baseURL, email string) string {
	q := url.Values{}
	q.Set("check", email)
	q.Set("type", "email")
	return strings.TrimRight(baseURL, "/") + "/api/public?" + q.Encode()
}

// ParseResponse maps each source to a record. Only an explicit success=false
// is a failure; with "Not found" (or no message) the address is clean. A
// missing "success" defers to "found" and "sources".
func ParseResponse(body []byte) ([]models.BreachRecord, error) {
	var resp publicResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal leakcheck response: %w", err)
	}

	if resp.Success != nil && !*resp.Success {
		msg := strings.TrimSpace(resp.Error)
		if msg == "" || strings.EqualFold(msg, "not found") {
			return nil, nil
		}
		return nil, providers.Reported(msg)
	}
	if (resp.Found != nil && *resp.Found == 0) || len(resp.Sources) == 0 {
		return nil, nil
	}

	dataTypes := mapFields(resp.Fields)
	records := make([]models.BreachRecord, 0, len(resp.Sources))
	for _, s := range resp.Sources {
		name := s.Name
		if name == "" {
			name = s.Source
		}
		if name == "" {
			name = "Unknown Source"
		}
		records = append(records, models.BreachRecord{
			Name:         name,
			Date:         s.Date,
			Description:  strings.TrimSpace(s.Line),
			DataTypes:    append([]string(nil), dataTypes...),
			PasswordRisk: passwordRisk(resp.Fields),
		})
	}
	return records, nil
}

func mapFields(fields []string) []string {
	if len(fields) == 0 {
		return defaultDataTypes
	}
	seen := make(map[string]bool, len(fields)+1)
	out := []string{"Email addresses"}
	seen["Email addresses"] = true
	for _, f := range fields {
		name, ok := fieldNames[strings.ToLower(f)]
		if !ok {
			name = strings.ReplaceAll(f, "_", " ")
		}
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

func passwordRisk(fields []string) string {
	for _, f := range fields {
		switch strings.ToLower(f) {
		case "password":
			return "High"
		case "hash":
			return "Medium"
		}
	}
	return ""
}
