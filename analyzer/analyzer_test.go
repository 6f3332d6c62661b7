package analyzer

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seo-check/seo-check/config"
	"github.com/seo-check/seo-check/crawl"
	"github.com/seo-check/seo-check/logging"
)

func strp(s string) *string   { return &s }
func intp(n int) *int         { return &n }
func i64p(n int64) *int64     { return &n }
func f64p(f float64) *float64 { return &f }

func newTestAnalyzer() *Analyzer {
	return New(config.Default(), logging.NewNop())
}

func completePage(url string) crawl.PageRecord {
	return crawl.PageRecord{
		URL:       url,
		Status:    intp(200),
		Title:     strp("A perfectly sized page title for testing"),
		H1:        crawl.StringList{"Welcome"},
		MetaDesc:  strp("A meta description that is comfortably inside the configured length bounds so it raises no length finding at all, extended a bit."),
		Canonical: strp(url),
		Size:      i64p(20_000),
		Latency:   f64p(0.3),
	}
}

func TestRunFullSite(t *testing.T) {
	ds := crawl.NewDataset([]crawl.PageRecord{
		completePage("https://example.com/"),
		{URL: "https://example.com/missing", Status: intp(404)},
	})

	res := newTestAnalyzer().Run(ds, Options{})
	m := res.Metrics

	t.Run("error pages excluded from semantic checks", func(t *testing.T) {
		assert.InDelta(t, 0, m.H1.MissingPct, 1e-9)
		assert.InDelta(t, 0, m.Title.MissingPct, 1e-9)
		assert.Equal(t, 1, m.H1.Total)
	})

	t.Run("http covers the whole crawl", func(t *testing.T) {
		assert.Equal(t, 2, m.HTTP.Total)
		assert.InDelta(t, 50.0, m.HTTP.ErrorRate4xx, 1e-9)
		require.Len(t, m.HTTP.BrokenLinks, 1)
		assert.Equal(t, "https://example.com/missing", m.HTTP.BrokenLinks[0].URL)
	})

	t.Run("penalty trail", func(t *testing.T) {
		var broken, h1, titles bool
		for _, p := range res.Penalties {
			switch {
			case strings.Contains(p, "Broken Links"):
				broken = true
			case strings.Contains(p, "Missing H1"):
				h1 = true
			case strings.Contains(p, "Missing Titles"):
				titles = true
			}
		}
		assert.True(t, broken, "expected a broken links penalty: %v", res.Penalties)
		assert.False(t, h1, "no H1 penalty expected: %v", res.Penalties)
		assert.False(t, titles, "no title penalty expected: %v", res.Penalties)
	})

	t.Run("page statuses", func(t *testing.T) {
		assert.Equal(t, StatusNotice, m.PageDetails["https://example.com/missing"].Status,
			"status extras keep record-detail labels out of name matching")
	})
}

func TestRunWithoutStatusColumn(t *testing.T) {
	records := make([]crawl.PageRecord, 10)
	for i := range records {
		records[i] = crawl.PageRecord{URL: "https://example.com/p" + string(rune('a'+i))}
	}
	res := newTestAnalyzer().Run(crawl.NewDataset(records), Options{})
	m := res.Metrics

	assert.Empty(t, m.HTTP.Stats)
	assert.Zero(t, m.HTTP.ErrorRate4xx)
	assert.Zero(t, m.HTTP.ErrorRate5xx)
	assert.Equal(t, 10, m.HTTP.Total)

	assert.InDelta(t, 100, m.H1.MissingPct, 1e-9)
	assert.InDelta(t, 100, m.Title.MissingPct, 1e-9)
	assert.InDelta(t, 100, m.Meta.MissingPct, 1e-9)
	assert.Len(t, m.Title.NoTitle, 10)
}

func TestRunEmptyDataset(t *testing.T) {
	res := newTestAnalyzer().Run(crawl.NewDataset(nil), Options{})

	assert.InDelta(t, 100.0, res.Score, 1e-9)
	assert.Equal(t, RatingExcellent, res.Rating)
	assert.Empty(t, res.Penalties)
	assert.Empty(t, res.Metrics.PageDetails)
	assert.NotNil(t, res.Metrics.HTTP.Stats)
}

func TestRunIdempotent(t *testing.T) {
	build := func() *crawl.Dataset {
		return crawl.NewDataset([]crawl.PageRecord{
			completePage("https://example.com/"),
			{URL: "https://example.com/a", Status: intp(200), Title: strp("Short")},
			{URL: "https://example.com/b", Status: intp(200), Title: strp("Short")},
			{URL: "http://example.com/old", Status: intp(301)},
		})
	}
	a := newTestAnalyzer()

	first, err := json.Marshal(a.Run(build(), Options{}))
	require.NoError(t, err)
	second, err := json.Marshal(a.Run(build(), Options{}))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestScoreMonotonicInBrokenRate(t *testing.T) {
	cfg := config.Default()
	prev := 101.0
	for _, rate := range []float64{0, 1, 2.5, 5, 7.5, 20, 100} {
		m := emptyMetrics()
		m.HTTP.Total = 100
		m.HTTP.ErrorRate4xx = rate
		score, _, _ := Score(m, cfg)
		assert.LessOrEqual(t, score, prev, "rate %v", rate)
		prev = score
	}
}

func TestRunTLSProbe(t *testing.T) {
	ds := crawl.NewDataset([]crawl.PageRecord{completePage("https://example.com/")})

	t.Run("invalid certificate", func(t *testing.T) {
		res := newTestAnalyzer().Run(ds, Options{TLS: &TLSProbe{Valid: false, Err: "certificate expired"}})
		assert.False(t, res.Metrics.Security.SSLValid)

		require.NotEmpty(t, res.Metrics.Issues.Errors)
		var found *Issue
		for i := range res.Metrics.Issues.Errors {
			if res.Metrics.Issues.Errors[i].Name == "Invalid SSL Certificate" {
				found = &res.Metrics.Issues.Errors[i]
			}
		}
		require.NotNil(t, found)
		assert.Equal(t, "high", found.Priority)

		// The certificate issue is site-wide, not attributed to a page URL,
		// so it annotates the page listing without driving its status.
		detail := res.Metrics.PageDetails["https://example.com/"]
		assert.False(t, detail.SSLValid)
		assert.Contains(t, detail.Issues, "Invalid SSL Certificate: certificate expired")
	})

	t.Run("no probe leaves certificate unjudged", func(t *testing.T) {
		res := newTestAnalyzer().Run(ds, Options{})
		assert.True(t, res.Metrics.Security.SSLValid)
	})
}

