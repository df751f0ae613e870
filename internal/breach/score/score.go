// Package score turns a lookup verdict into the client-facing report.
package score

import (
	"cyphex/internal/breach/models"
	dErrors "cyphex/pkg/domain-errors"
)

const (
	// PointsPerBreach is the score contribution of each breach.
	PointsPerBreach = 10
	// Cap bounds the score.
	Cap = 100
)

// Risk summaries by tier.
const (
	SummaryLow      = "Low risk. Few breaches detected."
	SummaryMedium   = "Medium risk. Multiple breaches detected."
	SummaryHigh     = "High risk. Many breaches detected."
	SummaryCritical = "Critical risk. Extensive breach exposure."
)

// Score is min(breaches*10, 100). Negative counts score 0.
func Score(breaches int) int {
	if breaches <= 0 {
		return 0
	}
	if breaches >= Cap/PointsPerBreach {
		return Cap
	}
	return breaches * PointsPerBreach
}

// Tier returns the summary for a Found score.
func Tier(score int) string {
	switch {
	case score < 25:
		return SummaryLow
	case score < 50:
		return SummaryMedium
	case score < 75:
		return SummaryHigh
	default:
		return SummaryCritical
	}
}

// Normalize builds the report for a lookup result. An Error result is returned
// as a CodeUpstreamUnavailable domain error carrying the provider message.
func Normalize(result models.LookupResult) (models.Report, error) {
	switch result.Outcome {
	case models.OutcomeFound:
		if len(result.Breaches) == 0 {
			return clean(), nil
		}
		s := Score(len(result.Breaches))
		return models.Report{
			BreachScore:          s,
			ThreatProfileSummary: Tier(s),
			BreachDetails:        result.Breaches,
			Analytics: &models.Analytics{
				Provider: result.Provider,
				Breaches: result.BreachNames(),
			},
		}, nil
	case models.OutcomeClean:
		return clean(), nil
	case models.OutcomeRateLimited:
		msg := result.Message
		if msg == "" {
			msg = models.MsgRateLimited
		}
		return Soft(msg), nil
	case models.OutcomeError:
		return models.Report{}, dErrors.New(dErrors.CodeUpstreamUnavailable, result.Message)
	default:
		return models.Report{}, dErrors.New(dErrors.CodeInternal, "unknown lookup outcome: "+string(result.Outcome))
	}
}

// Soft is a zero-score report whose summary carries message.
func Soft(message string) models.Report {
	return models.Report{
		BreachScore:          0,
		ThreatProfileSummary: message,
		BreachDetails:        []models.BreachRecord{},
	}
}

func clean() models.Report {
	return Soft(models.MsgClean)
}
