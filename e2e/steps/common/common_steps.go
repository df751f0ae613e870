package common

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POSTRaw(path, body string) error
	GET(path string, headers map[string]string) error
	Do(method, path, body string, headers map[string]string) error
	GetResponseField(field string) (any, error)
	ResponseContains(text string) bool
	GetLastResponseStatus() int
	GetLastResponseHeader(name string) string
	GetLastResponseBody() []byte
}

// RegisterSteps registers common step definitions used across features
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &commonSteps{tc: tc}

	// Background steps
	ctx.Step(`^the Cyphex server is running$`, steps.serverIsRunning)

	// Generic request steps
	ctx.Step(`^I GET "([^"]*)"$`, steps.get)
	ctx.Step(`^I POST to "([^"]*)" with body '([^']*)'$`, steps.postRaw)
	ctx.Step(`^I send a (GET|PUT|DELETE|PATCH|OPTIONS) request to "([^"]*)"$`, steps.sendMethod)
	ctx.Step(`^I send a CORS preflight for "([^"]*)"$`, steps.preflight)

	// Response assertion steps
	ctx.Step(`^the response status should be (\d+)$`, steps.responseStatusShouldBe)
	ctx.Step(`^the response should contain "([^"]*)"$`, steps.responseShouldContain)
	ctx.Step(`^the response body should be empty$`, steps.responseBodyShouldBeEmpty)
	ctx.Step(`^the response body should be '([^']*)'$`, steps.responseBodyShouldBe)
	ctx.Step(`^the response field "([^"]*)" should equal "([^"]*)"$`, steps.responseFieldShouldEqual)
	ctx.Step(`^the response header "([^"]*)" should equal "([^"]*)"$`, steps.responseHeaderShouldEqual)
}

type commonSteps struct {
	tc TestContext
}

func (s *commonSteps) serverIsRunning(ctx context.Context) error {
	if err := s.tc.GET("/api/health", nil); err != nil {
		return err
	}
	if status := s.tc.GetLastResponseStatus(); status != 200 {
		return fmt.Errorf("health check returned %d", status)
	}
	return nil
}

func (s *commonSteps) get(ctx context.Context, path string) error {
	return s.tc.GET(path, nil)
}

func (s *commonSteps) postRaw(ctx context.Context, path, body string) error {
	return s.tc.POSTRaw(path, body)
}

func (s *commonSteps) sendMethod(ctx context.Context, method, path string) error {
	return s.tc.Do(method, path, "", nil)
}

func (s *commonSteps) preflight(ctx context.Context, path string) error {
	return s.tc.Do("OPTIONS", path, "", map[string]string{
		"Origin":                        "https://cyphex.example",
		"Access-Control-Request-Method": "POST",
	})
}

func (s *commonSteps) responseStatusShouldBe(ctx context.Context, expectedStatus int) error {
	actualStatus := s.tc.GetLastResponseStatus()
	if actualStatus != expectedStatus {
		return fmt.Errorf("expected status %d but got %d\nResponse: %s", expectedStatus, actualStatus, s.tc.GetLastResponseBody())
	}
	return nil
}

func (s *commonSteps) responseShouldContain(ctx context.Context, text string) error {
	if !s.tc.ResponseContains(text) {
		return fmt.Errorf("response does not contain: %s\nResponse: %s", text, string(s.tc.GetLastResponseBody()))
	}
	return nil
}

func (s *commonSteps) responseBodyShouldBeEmpty(ctx context.Context) error {
	if body := s.tc.GetLastResponseBody(); len(body) != 0 {
		return fmt.Errorf("expected empty body, got %q", body)
	}
	return nil
}

func (s *commonSteps) responseBodyShouldBe(ctx context.Context, expected string) error {
	if actual := strings.TrimSpace(string(s.tc.GetLastResponseBody())); actual != expected {
		return fmt.Errorf("expected body %s, got %s", expected, actual)
	}
	return nil
}

func (s *commonSteps) responseFieldShouldEqual(ctx context.Context, field, expected string) error {
	value, err := s.tc.GetResponseField(field)
	if err != nil {
		return err
	}
	if actual := formatValue(value); actual != expected {
		return fmt.Errorf("expected %s to be %q, got %q", field, expected, actual)
	}
	return nil
}

func (s *commonSteps) responseHeaderShouldEqual(ctx context.Context, name, expected string) error {
	if actual := s.tc.GetLastResponseHeader(name); actual != expected {
		return fmt.Errorf("expected header %s to be %q, got %q", name, expected, actual)
	}
	return nil
}

// formatValue renders JSON scalars the way feature files write them.
func formatValue(v any) string {
	switch t := v.(type) {
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case nil:
		return "null"
	default:
		return fmt.Sprint(t)
	}
}
