// Package models holds the breach lookup vocabulary shared by providers,
// the orchestrator, the score normalizer and the HTTP layer.
package models

import "fmt"

// Outcome classifies a lookup.
type Outcome string

const (
	OutcomeFound       Outcome = "found"
	OutcomeClean       Outcome = "clean"
	OutcomeRateLimited Outcome = "rate_limited"
	OutcomeError       Outcome = "error"
)

// Placeholders used when a provider does not supply a field.
const (
	Unknown           = "Unknown"
	UnknownBreachName = "Unknown Breach"
)

// Messages surfaced to the client.
const (
	MsgClean          = "No breaches found. Your email appears to be secure."
	MsgRateLimited    = "Rate limit exceeded. Please try again later."
	MsgAccessDenied   = "API access denied. Please try again later."
	MsgTimeout        = "Request timeout. Please try again."
	MsgUnreachable    = "Unable to reach breach database"
	MsgInvalidPayload = "Invalid response from breach database"
)

// DefaultDataTypes is reported when a provider does not list exposed data classes.
var DefaultDataTypes = []string{"Email addresses"}

// APIErrorMessage formats an unexpected upstream HTTP status.
func APIErrorMessage(status int) string {
	return fmt.Sprintf("API error: %d", status)
}

// BreachRecord is one breach the address appeared in, in the shape the UI renders.
type BreachRecord struct {
	Name             string   `json:"name"`
	Date             string   `json:"date"`
	Description      string   `json:"description"`
	DataTypes        []string `json:"dataTypes"`
	AffectedAccounts int64    `json:"affectedAccounts"`
	Domain           string   `json:"domain"`
	Industry         string   `json:"industry"`
	PasswordRisk     string   `json:"passwordRisk"`
}

// NewBreachRecord builds a record carrying only a name, with every other field
// set to its placeholder.
func NewBreachRecord(name string) BreachRecord {
	return BreachRecord{Name: name}.WithDefaults()
}

// WithDefaults fills unset fields with placeholders. An empty name becomes
// "Unknown Breach" but the description keeps the provider's raw name, so a
// nameless record reads "Email found in  breach".
func (r BreachRecord) WithDefaults() BreachRecord {
	raw := r.Name
	if r.Name == "" {
		r.Name = UnknownBreachName
	}
	if r.Date == "" {
		r.Date = Unknown
	}
	if r.Description == "" {
		r.Description = fmt.Sprintf("Email found in %s breach", raw)
	}
	if len(r.DataTypes) == 0 {
		r.DataTypes = append([]string(nil), DefaultDataTypes...)
	}
	if r.Domain == "" {
		r.Domain = Unknown
	}
	if r.Industry == "" {
		r.Industry = Unknown
	}
	if r.PasswordRisk == "" {
		r.PasswordRisk = Unknown
	}
	if r.AffectedAccounts < 0 {
		r.AffectedAccounts = 0
	}
	return r
}

// LookupResult is the orchestrator's verdict for one address.
// Found always carries at least one breach; use the constructors.
type LookupResult struct {
	Outcome  Outcome
	Breaches []BreachRecord
	Message  string
	Provider string
}

// Found returns a Found result, or Clean when records is empty.
func Found(provider string, records []BreachRecord) LookupResult {
	if len(records) == 0 {
		return Clean(provider)
	}
	return LookupResult{Outcome: OutcomeFound, Breaches: records, Provider: provider}
}

func Clean(provider string) LookupResult {
	return LookupResult{Outcome: OutcomeClean, Provider: provider}
}

func RateLimited(provider string) LookupResult {
	return LookupResult{Outcome: OutcomeRateLimited, Message: MsgRateLimited, Provider: provider}
}

func Failed(provider, message string) LookupResult {
	return LookupResult{Outcome: OutcomeError, Message: message, Provider: provider}
}

// BreachNames lists the breach names in order.
func (r LookupResult) BreachNames() []string {
	names := make([]string, len(r.Breaches))
	for i, b := range r.Breaches {
		names[i] = b.Name
	}
	return names
}

// Analytics echoes which provider answered and the raw breach names.
type Analytics struct {
	Provider string   `json:"provider"`
	Breaches []string `json:"breaches"`
}

// Report is the JSON payload returned by POST /api/check-breach.
type Report struct {
	BreachScore          int            `json:"breachScore"`
	ThreatProfileSummary string         `json:"threatProfileSummary"`
	BreachDetails        []BreachRecord `json:"breachDetails"`
	Analytics            *Analytics     `json:"analytics,omitempty"`
}
