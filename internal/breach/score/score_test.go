package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cyphex/internal/breach/models"
	dErrors "cyphex/pkg/domain-errors"
)

func records(names ...string) []models.BreachRecord {
	out := make([]models.BreachRecord, len(names))
	for i, n := range names {
		out[i] = models.NewBreachRecord(n)
	}
	return out
}

func TestScore(t *testing.T) {
	tests := []struct {
		breaches int
		want     int
	}{
		{-1, 0}, {0, 0}, {1, 10}, {2, 20}, {9, 90}, {10, 100}, {11, 100}, {1000, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Score(tt.breaches), "breaches=%d", tt.breaches)
	}
}

func TestScoreMonotonicAndCapped(t *testing.T) {
	prev := Score(0)
	for n := 1; n <= 50; n++ {
		s := Score(n)
		assert.GreaterOrEqual(t, s, prev, "score must not decrease at n=%d", n)
		assert.LessOrEqual(t, s, Cap)
		prev = s
	}
}

func TestTier(t *testing.T) {
	assert.Equal(t, SummaryLow, Tier(10))
	assert.Equal(t, SummaryLow, Tier(24))
	assert.Equal(t, SummaryMedium, Tier(25))
	assert.Equal(t, SummaryMedium, Tier(40))
	assert.Equal(t, SummaryHigh, Tier(50))
	assert.Equal(t, SummaryHigh, Tier(70))
	assert.Equal(t, SummaryCritical, Tier(75))
	assert.Equal(t, SummaryCritical, Tier(100))
}

func TestTiersAreTheOnlyFoundSummaries(t *testing.T) {
	allowed := map[string]bool{SummaryLow: true, SummaryMedium: true, SummaryHigh: true, SummaryCritical: true}
	for n := 1; n <= 15; n++ {
		names := make([]string, n)
		for i := range names {
			names[i] = "B"
		}
		report, err := Normalize(models.Found("p", records(names...)))
		require.NoError(t, err)
		assert.True(t, allowed[report.ThreatProfileSummary], "n=%d summary=%q", n, report.ThreatProfileSummary)
	}
}

func TestNormalizeFound(t *testing.T) {
	report, err := Normalize(models.Found("xposedornot", records("Adobe", "LinkedIn")))
	require.NoError(t, err)

	assert.Equal(t, 20, report.BreachScore)
	assert.Equal(t, "Low risk. Few breaches detected.", report.ThreatProfileSummary)
	require.Len(t, report.BreachDetails, 2)
	assert.Equal(t, "Adobe", report.BreachDetails[0].Name)
	assert.Equal(t, "Unknown", report.BreachDetails[0].Date)
	require.NotNil(t, report.Analytics)
	assert.Equal(t, []string{"Adobe", "LinkedIn"}, report.Analytics.Breaches)
	assert.Equal(t, "xposedornot", report.Analytics.Provider)
}

func TestCleanEqualsFoundEmpty(t *testing.T) {
	clean, err := Normalize(models.Clean("p"))
	require.NoError(t, err)
	empty, err := Normalize(models.LookupResult{Outcome: models.OutcomeFound, Provider: "p"})
	require.NoError(t, err)

	assert.Equal(t, clean, empty)
	assert.Equal(t, 0, clean.BreachScore)
	assert.Equal(t, "No breaches found. Your email appears to be secure.", clean.ThreatProfileSummary)
	assert.NotNil(t, clean.BreachDetails)
	assert.Empty(t, clean.BreachDetails)
	assert.Nil(t, clean.Analytics)
}

func TestNormalizeRateLimited(t *testing.T) {
	report, err := Normalize(models.RateLimited("xposedornot"))
	require.NoError(t, err)

	assert.Equal(t, 0, report.BreachScore)
	assert.Equal(t, "Rate limit exceeded. Please try again later.", report.ThreatProfileSummary)
	assert.Empty(t, report.BreachDetails)
}

func TestNormalizeError(t *testing.T) {
	_, err := Normalize(models.Failed("xposedornot", "API error: 500"))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUpstreamUnavailable))
	assert.Contains(t, err.Error(), "API error: 500")
}

func TestNormalizeUnknownOutcome(t *testing.T) {
	_, err := Normalize(models.LookupResult{Outcome: "sideways"})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
}
