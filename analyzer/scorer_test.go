package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seo-check/seo-check/config"
)

func TestScorePenalties(t *testing.T) {
	cfg := config.Default()

	t.Run("clean metrics keep full score", func(t *testing.T) {
		score, rating, penalties := Score(emptyMetrics(), cfg)
		assert.InDelta(t, 100, score, 1e-9)
		assert.Equal(t, RatingExcellent, rating)
		assert.Empty(t, penalties)
	})

	t.Run("flat penalty above the critical threshold", func(t *testing.T) {
		m := emptyMetrics()
		m.HTTP.Total = 100
		m.HTTP.ErrorRate4xx = 12
		score, _, penalties := Score(m, cfg)
		assert.InDelta(t, 75, score, 1e-9)
		require.Len(t, penalties, 1)
		assert.Equal(t, "Broken Links (> 5%): -25.0", penalties[0])
	})

	t.Run("proportional penalty below the threshold", func(t *testing.T) {
		m := emptyMetrics()
		m.HTTP.Total = 100
		m.HTTP.ErrorRate4xx = 2.5
		score, _, penalties := Score(m, cfg)
		// Halfway to the threshold costs half the weight.
		assert.InDelta(t, 100-12.5, score, 1e-9)
		require.Len(t, penalties, 1)
		assert.Equal(t, "Broken Links (2.5%): -12.5", penalties[0])
	})

	t.Run("missing titles floor at two points", func(t *testing.T) {
		m := emptyMetrics()
		m.Title.MissingPct = 1
		score, _, _ := Score(m, cfg)
		assert.InDelta(t, 98, score, 1e-9)
	})

	t.Run("meta misses halve below the threshold", func(t *testing.T) {
		m := emptyMetrics()
		m.Meta.MissingPct = 5
		score, _, _ := Score(m, cfg)
		// 5/10 of half the 10-point weight.
		assert.InDelta(t, 97.5, score, 1e-9)
	})

	t.Run("invalid certificate", func(t *testing.T) {
		m := emptyMetrics()
		m.Security.SSLValid = false
		score, _, penalties := Score(m, cfg)
		assert.InDelta(t, 80, score, 1e-9)
		assert.Contains(t, penalties, "Invalid SSL Certificate: -20.0")
	})

	t.Run("insecure pages scale with coverage", func(t *testing.T) {
		m := emptyMetrics()
		m.HTTP.Total = 10
		m.Security.NonHTTPS = []string{"a", "b", "c", "d", "e"}
		score, _, _ := Score(m, cfg)
		assert.InDelta(t, 95, score, 1e-9)
	})

	t.Run("huge pages floor at two points", func(t *testing.T) {
		m := emptyMetrics()
		m.HTTP.Total = 200
		m.Performance.HugePages = []string{"one"}
		score, _, _ := Score(m, cfg)
		assert.InDelta(t, 98, score, 1e-9)
	})

	t.Run("score clamps at zero", func(t *testing.T) {
		m := emptyMetrics()
		m.HTTP.Total = 10
		m.HTTP.ErrorRate4xx = 50
		m.H1.MissingPct = 50
		m.Title.MissingPct = 100
		m.Title.DuplicatePct = 50
		m.Meta.MissingPct = 100
		m.Images.MissingPct = 50
		m.Security.SSLValid = false
		m.Security.NonHTTPS = []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
		score, rating, _ := Score(m, cfg)
		assert.InDelta(t, 0, score, 1e-9)
		assert.Equal(t, RatingCritical, rating)
	})
}

func TestRatingBands(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{100, RatingExcellent},
		{90, RatingExcellent},
		{89.9, RatingGood},
		{75, RatingGood},
		{74.9, RatingAverage},
		{60, RatingAverage},
		{59.9, RatingPoor},
		{40, RatingPoor},
		{39.9, RatingCritical},
		{0, RatingCritical},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ratingFor(tc.score), "score %v", tc.score)
	}
}
