package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/seo-check/seo-check/analyzer"
)

// MarkdownRenderer writes a human-readable audit summary: score, penalty
// trail, issues by severity, and a per-page table.
type MarkdownRenderer struct{}

func (MarkdownRenderer) Ext() string { return "md" }

func (MarkdownRenderer) Render(w io.Writer, r *Report) error {
	var b strings.Builder

	b.WriteString("# SEO Audit Report\n\n")
	fmt.Fprintf(&b, "**Score:** %.1f / 100 — **%s**\n\n", r.Score, r.Rating)

	if len(r.Penalties) > 0 {
		b.WriteString("## Penalties\n\n")
		for _, p := range r.Penalties {
			fmt.Fprintf(&b, "- %s\n", p)
		}
		b.WriteString("\n")
	}

	m := r.Metrics
	b.WriteString("## Overview\n\n")
	fmt.Fprintf(&b, "| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Pages crawled | %d |\n", m.HTTP.Total)
	fmt.Fprintf(&b, "| Broken links (4xx) | %d |\n", len(m.HTTP.BrokenLinks))
	fmt.Fprintf(&b, "| Server errors (5xx) | %d |\n", len(m.HTTP.ServerErrors))
	fmt.Fprintf(&b, "| HTTPS coverage | %.1f%% |\n", m.Security.SecurePct)
	fmt.Fprintf(&b, "| Avg. response time | %.2fs |\n", m.Performance.AvgTime)
	fmt.Fprintf(&b, "| Avg. page size | %.0f bytes |\n", m.Performance.AvgSizeBytes)
	fmt.Fprintf(&b, "| Internal / external links | %d / %d |\n", m.Links.Internal, m.Links.External)
	fmt.Fprintf(&b, "| Max URL depth | %d |\n\n", m.Structure.MaxDepth)

	writeIssueSection(&b, "Errors", m.Issues.Errors)
	writeIssueSection(&b, "Warnings", m.Issues.Warnings)
	writeIssueSection(&b, "Notices", m.Issues.Notices)

	if len(m.PageDetails) > 0 {
		b.WriteString("## Pages\n\n")
		b.WriteString("| URL | Status | Title length | H1s | Words | Issues |\n|---|---|---|---|---|---|\n")
		urls := make([]string, 0, len(m.PageDetails))
		for u := range m.PageDetails {
			urls = append(urls, u)
		}
		sort.Strings(urls)
		for _, u := range urls {
			d := m.PageDetails[u]
			fmt.Fprintf(&b, "| %s | %s | %d | %d | %d | %d |\n",
				u, d.Status, d.TitleLen, d.H1Count, d.Words, len(d.Issues))
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeIssueSection(b *strings.Builder, title string, issues []analyzer.Issue) {
	if len(issues) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", title)
	for _, issue := range issues {
		fmt.Fprintf(b, "### %s (%d)\n\n", issue.Name, issue.Count)
		if issue.Description != "" {
			fmt.Fprintf(b, "%s\n\n", issue.Description)
		}
	}
}
