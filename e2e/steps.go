package e2e

import (
	"github.com/cucumber/godog"

	"cyphex/e2e/steps/breach"
	"cyphex/e2e/steps/common"
	"cyphex/e2e/steps/review"
)

// RegisterSteps registers all step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	common.RegisterSteps(ctx, tc)
	breach.RegisterSteps(ctx, tc)
	review.RegisterSteps(ctx, tc)
}
