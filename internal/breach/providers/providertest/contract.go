// Package providertest holds a reusable contract suite every breach provider must pass.
package providertest

import (
	"context"
	"fmt"
	"testing"

	"cyphex/internal/breach/models"
	"cyphex/internal/breach/providers"
)

// ContractTest defines a test case for provider contract validation
type ContractTest struct {
	Name          string
	Provider      providers.Provider
	Email         string
	ExpectBreachN int
	ValidateFunc  func(records []models.BreachRecord) error
}

// ContractSuite is a collection of contract tests for a provider
type ContractSuite struct {
	ProviderID string
	Tests      []ContractTest
}

// Run executes all contract tests in the suite
func (s *ContractSuite) Run(t *testing.T) {
	t.Helper()
	for _, test := range s.Tests {
		t.Run(test.Name, func(t *testing.T) {
			if test.Provider.ID() != s.ProviderID {
				t.Fatalf("expected provider ID %s, got %s", s.ProviderID, test.Provider.ID())
			}

			result, err := test.Provider.Lookup(context.Background(), test.Email)
			if err != nil {
				t.Fatalf("provider lookup failed: %v", err)
			}

			if result.ProviderID != s.ProviderID {
				t.Errorf("expected result provider ID %s, got %s", s.ProviderID, result.ProviderID)
			}
			if result.CheckedAt.IsZero() {
				t.Error("CheckedAt not set")
			}
			if len(result.Breaches) != test.ExpectBreachN {
				t.Errorf("expected %d breaches, got %d", test.ExpectBreachN, len(result.Breaches))
			}
			for i, rec := range result.Breaches {
				if err := checkPlaceholders(rec); err != nil {
					t.Errorf("record %d: %v", i, err)
				}
			}

			if test.ValidateFunc != nil {
				if err := test.ValidateFunc(result.Breaches); err != nil {
					t.Errorf("custom validation failed: %v", err)
				}
			}
		})
	}
}

// checkPlaceholders enforces that no display field is left blank.
func checkPlaceholders(rec models.BreachRecord) error {
	fields := map[string]string{
		"name":         rec.Name,
		"date":         rec.Date,
		"description":  rec.Description,
		"domain":       rec.Domain,
		"industry":     rec.Industry,
		"passwordRisk": rec.PasswordRisk,
	}
	for k, v := range fields {
		if v == "" {
			return fmt.Errorf("%s is empty", k)
		}
	}
	if len(rec.DataTypes) == 0 {
		return fmt.Errorf("dataTypes is empty")
	}
	if rec.AffectedAccounts < 0 {
		return fmt.Errorf("affectedAccounts is negative")
	}
	return nil
}

// RequireNames checks records carry exactly the given names, in order.
func RequireNames(records []models.BreachRecord, names ...string) error {
	if len(records) != len(names) {
		return fmt.Errorf("expected %d records, got %d", len(names), len(records))
	}
	for i, want := range names {
		if records[i].Name != want {
			return fmt.Errorf("record %d: expected name %q, got %q", i, want, records[i].Name)
		}
	}
	return nil
}
