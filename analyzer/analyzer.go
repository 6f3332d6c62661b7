// Package analyzer turns a crawl dataset into scored SEO metrics: one
// sub-analysis per signal, categorized issues, a per-page rollup, and a
// weighted 0-100 score.
package analyzer

import (
	"github.com/seo-check/seo-check/config"
	"github.com/seo-check/seo-check/crawl"
	"github.com/seo-check/seo-check/logging"
)

// Options carries per-run inputs gathered outside the dataset.
type Options struct {
	// TLS is the certificate probe result for the site, nil when no
	// handshake was attempted.
	TLS *TLSProbe
}

// Analyzer runs the full analysis pipeline. Safe for concurrent use.
type Analyzer struct {
	cfg *config.Config
	log logging.Interface
}

// New creates an Analyzer with the given thresholds.
func New(cfg *config.Config, log logging.Interface) *Analyzer {
	return &Analyzer{cfg: cfg, log: log}
}

// Run analyzes the dataset. Semantic checks (headings, titles, meta,
// canonical, images, performance, social, schema, content) are computed over
// successfully fetched pages only, so an error page is reported once as
// broken instead of once per absent tag; protocol-level checks cover the
// whole crawl. The same dataset and config always produce the same result.
func (a *Analyzer) Run(ds *crawl.Dataset, opts Options) *Result {
	if ds == nil || ds.Len() == 0 {
		a.log.Info("analysis skipped, empty dataset")
		return &Result{
			Score:     100,
			Rating:    RatingExcellent,
			Penalties: []string{},
			Metrics:   emptyMetrics(),
		}
	}

	valid := ds.Valid()
	a.log.Info("starting analysis", "pages", ds.Len(), "valid_pages", len(valid))

	m := &Metrics{}
	a.step("http", func() { m.HTTP = analyzeHTTPStatus(ds) })
	a.step("h1", func() { m.H1 = analyzeH1Tags(ds, valid) })
	a.step("title", func() { m.Title = analyzeTitles(ds, valid, a.cfg) })
	a.step("meta", func() { m.Meta = analyzeMetaDesc(ds, valid, a.cfg) })
	a.step("canonical", func() { m.Canonical = analyzeCanonical(ds, valid) })
	a.step("images", func() { m.Images = analyzeImages(ds, valid) })
	a.step("links", func() { m.Links = analyzeLinks(ds, a.cfg) })
	a.step("security", func() { m.Security = analyzeSecurity(ds, opts.TLS) })
	a.step("performance", func() { m.Performance = analyzePerformance(ds, valid, a.cfg) })
	a.step("social", func() { m.Social = analyzeSocialTags(ds, valid) })
	a.step("schema", func() { m.Schema = analyzeSchemaPresence(ds, valid) })
	a.step("structure", func() { m.Structure = analyzeURLStructure(ds) })
	a.step("content", func() { m.Content = analyzeContentQuality(ds, valid, a.cfg) })

	m.Issues = categorizeIssues(m, a.cfg)
	m.PageDetails = buildPageDetails(ds, m)

	score, rating, penalties := Score(m, a.cfg)
	a.log.Info("analysis complete",
		"score", score,
		"rating", rating,
		"errors", len(m.Issues.Errors),
		"warnings", len(m.Issues.Warnings),
		"notices", len(m.Issues.Notices))

	return &Result{Score: score, Rating: rating, Penalties: penalties, Metrics: m}
}

// step runs one check, converting a panic into a logged error so a single
// malformed signal cannot sink the whole report.
func (a *Analyzer) step(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Error("check failed", "check", name, "panic", r)
		}
	}()
	fn()
}
