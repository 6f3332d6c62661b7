// Package report renders analysis results for humans and machines and keeps
// the on-disk archive of past runs.
package report

import (
	"fmt"
	"io"

	"github.com/seo-check/seo-check/analyzer"
	"github.com/seo-check/seo-check/config"
)

// Report is the complete, self-describing output of one analysis run.
type Report struct {
	Score     float64           `json:"score"`
	Rating    string            `json:"rating"`
	Penalties []string          `json:"penalties"`
	Glossary  map[string]string `json:"glossary"`
	Metrics   *analyzer.Metrics `json:"metrics"`
}

// New assembles a Report from an analysis result, attaching the issue
// glossary so the output is readable without the tool at hand.
func New(res *analyzer.Result, cfg *config.Config) *Report {
	return &Report{
		Score:     res.Score,
		Rating:    res.Rating,
		Penalties: res.Penalties,
		Glossary:  analyzer.IssueDefinitions(cfg),
		Metrics:   res.Metrics,
	}
}

// Renderer writes a report in one output format.
type Renderer interface {
	Render(w io.Writer, r *Report) error
	// Ext is the file extension reports of this format are saved under.
	Ext() string
}

// ForFormat returns the renderer for a format name.
func ForFormat(format string) (Renderer, error) {
	switch format {
	case "json":
		return JSONRenderer{}, nil
	case "markdown", "md":
		return MarkdownRenderer{}, nil
	case "html":
		return HTMLRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}
