package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seo-check/seo-check/analyzer"
	"github.com/seo-check/seo-check/config"
	"github.com/seo-check/seo-check/crawl"
	"github.com/seo-check/seo-check/logging"
)

func strp(s string) *string { return &s }
func intp(n int) *int       { return &n }

func sampleReport(t *testing.T) *Report {
	t.Helper()
	cfg := config.Default()
	ds := crawl.NewDataset([]crawl.PageRecord{
		{
			URL:    "https://example.com/",
			Status: intp(200),
			Title:  strp("A title that is long enough to pass checks"),
			H1:     crawl.StringList{"Welcome"},
		},
		{URL: "https://example.com/gone", Status: intp(404)},
	})
	res := analyzer.New(cfg, logging.NewNop()).Run(ds, analyzer.Options{})
	return New(res, cfg)
}

func TestForFormat(t *testing.T) {
	for _, format := range []string{"json", "markdown", "md", "html"} {
		t.Run(format, func(t *testing.T) {
			r, err := ForFormat(format)
			require.NoError(t, err)
			assert.NotEmpty(t, r.Ext())
		})
	}

	_, err := ForFormat("pdf")
	assert.Error(t, err)
}

func TestJSONRender(t *testing.T) {
	rep := sampleReport(t)
	var buf bytes.Buffer
	require.NoError(t, JSONRenderer{}.Render(&buf, rep))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Contains(t, decoded, "score")
	assert.Contains(t, decoded, "glossary")
	assert.Contains(t, decoded, "metrics")

	metrics := decoded["metrics"].(map[string]any)
	assert.Contains(t, metrics, "http")
	assert.Contains(t, metrics, "page_details")
}

func TestMarkdownRender(t *testing.T) {
	rep := sampleReport(t)
	var buf bytes.Buffer
	require.NoError(t, MarkdownRenderer{}.Render(&buf, rep))
	out := buf.String()

	assert.Contains(t, out, "# SEO Audit Report")
	assert.Contains(t, out, rep.Rating)
	assert.Contains(t, out, "| Pages crawled | 2 |")
	assert.Contains(t, out, "https://example.com/gone")
}

func TestHTMLRender(t *testing.T) {
	rep := sampleReport(t)
	var buf bytes.Buffer
	require.NoError(t, HTMLRenderer{}.Render(&buf, rep))
	out := buf.String()

	assert.Contains(t, out, "<!DOCTYPE html>")
	assert.Contains(t, out, rep.Rating)
	assert.Contains(t, out, "https://example.com/gone")
	assert.True(t, strings.Contains(out, "Errors") || strings.Contains(out, "Notices"))
}
