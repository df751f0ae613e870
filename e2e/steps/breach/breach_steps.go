package breach

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body any) error
	GetLastResponseBody() []byte
	UpstreamCalls(provider string) (int, bool)
}

// RegisterSteps registers breach lookup step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &breachSteps{tc: tc}

	ctx.Step(`^I check the email "([^"]*)"$`, steps.checkEmail)
	ctx.Step(`^the breach details should list "([^"]*)"$`, steps.breachDetailsShouldList)
	ctx.Step(`^the breach details should be empty$`, steps.breachDetailsShouldBeEmpty)
	ctx.Step(`^the breach "([^"]*)" should have "([^"]*)" set to "([^"]*)"$`, steps.breachFieldShouldEqual)
	ctx.Step(`^the "([^"]*)" provider should have been called (\d+) times?$`, steps.providerCalls)
}

type breachSteps struct {
	tc TestContext
}

type report struct {
	BreachDetails []map[string]any `json:"breachDetails"`
}

func (s *breachSteps) checkEmail(ctx context.Context, email string) error {
	return s.tc.POST("/api/check-breach", map[string]string{"email": email})
}

func (s *breachSteps) report() (*report, error) {
	var r report
	if err := json.Unmarshal(s.tc.GetLastResponseBody(), &r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &r, nil
}

func (s *breachSteps) breachDetailsShouldList(ctx context.Context, names string) error {
	r, err := s.report()
	if err != nil {
		return err
	}
	want := strings.Split(names, ",")
	if len(r.BreachDetails) != len(want) {
		return fmt.Errorf("expected %d breaches, got %d", len(want), len(r.BreachDetails))
	}
	for i, name := range want {
		if got := r.BreachDetails[i]["name"]; got != strings.TrimSpace(name) {
			return fmt.Errorf("breach %d: expected %q, got %v", i, strings.TrimSpace(name), got)
		}
	}
	return nil
}

func (s *breachSteps) breachDetailsShouldBeEmpty(ctx context.Context) error {
	r, err := s.report()
	if err != nil {
		return err
	}
	if r.BreachDetails == nil || len(r.BreachDetails) != 0 {
		return fmt.Errorf("expected breachDetails to be an empty list, got %v", r.BreachDetails)
	}
	return nil
}

func (s *breachSteps) breachFieldShouldEqual(ctx context.Context, name, field, expected string) error {
	r, err := s.report()
	if err != nil {
		return err
	}
	for _, b := range r.BreachDetails {
		if b["name"] == name {
			if got := fmt.Sprint(b[field]); got != expected {
				return fmt.Errorf("breach %s: expected %s=%q, got %q", name, field, expected, got)
			}
			return nil
		}
	}
	return fmt.Errorf("breach %s not in response", name)
}

func (s *breachSteps) providerCalls(ctx context.Context, provider string, expected int) error {
	calls, ok := s.tc.UpstreamCalls(provider)
	if !ok {
		return godog.ErrSkip
	}
	if calls != expected {
		return fmt.Errorf("expected %d calls to %s, got %d", expected, provider, calls)
	}
	return nil
}
