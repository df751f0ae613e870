package review

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body any) error
	GetLastResponseBody() []byte
}

// RegisterSteps registers code review step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &reviewSteps{tc: tc}

	ctx.Step(`^I submit the following code for review:$`, steps.submitForReview)
	ctx.Step(`^I submit the following code for explanation:$`, steps.submitForExplanation)
	ctx.Step(`^I ask which language this is:$`, steps.detectLanguage)
	ctx.Step(`^the languages list should have (\d+) entries in alphabetical order$`, steps.languagesSorted)
}

type reviewSteps struct {
	tc TestContext
}

func (s *reviewSteps) submitForReview(ctx context.Context, code *godog.DocString) error {
	return s.tc.POST("/api/review", map[string]any{"code": code.Content})
}

func (s *reviewSteps) submitForExplanation(ctx context.Context, code *godog.DocString) error {
	return s.tc.POST("/api/review", map[string]any{"code": code.Content, "explain": true})
}

func (s *reviewSteps) detectLanguage(ctx context.Context, code *godog.DocString) error {
	return s.tc.POST("/api/detect-language", map[string]any{"code": code.Content})
}

func (s *reviewSteps) languagesSorted(ctx context.Context, n int) error {
	var body struct {
		Languages []string `json:"languages"`
		Total     int      `json:"total"`
	}
	if err := json.Unmarshal(s.tc.GetLastResponseBody(), &body); err != nil {
		return fmt.Errorf("failed to unmarshal languages: %w", err)
	}
	if body.Total != n || len(body.Languages) != n {
		return fmt.Errorf("expected %d languages, got total=%d len=%d", n, body.Total, len(body.Languages))
	}
	for i := 1; i < len(body.Languages); i++ {
		if body.Languages[i-1] > body.Languages[i] {
			return fmt.Errorf("languages not sorted at %d: %s > %s", i, body.Languages[i-1], body.Languages[i])
		}
	}
	return nil
}
