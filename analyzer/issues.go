package analyzer

import (
	"encoding/json"
	"fmt"

	"github.com/seo-check/seo-check/config"
)

type detailKind int

const (
	detailBare detailKind = iota
	detailRecord
	detailGroup
)

// Detail is one entry in an issue's details list. It takes one of three
// shapes on the wire: a bare string (usually a URL), a record object with a
// url plus one extra field, or a duplicate group {value, urls}.
type Detail struct {
	kind   detailKind
	bare   string
	url    string
	value  string
	urls   []string
	count  *int
	ratio  *float64
	status *int
}

func bareDetail(s string) Detail { return Detail{kind: detailBare, bare: s} }

func statusDetail(ps PageStatus) Detail {
	s := ps.Status
	return Detail{kind: detailRecord, url: ps.URL, status: &s}
}

func countDetail(pc PageCount) Detail {
	c := pc.Count
	return Detail{kind: detailRecord, url: pc.URL, count: &c}
}

func ratioDetail(pr PageRatio) Detail {
	r := pr.Ratio
	return Detail{kind: detailRecord, url: pr.URL, ratio: &r}
}

func groupDetail(value string, urls []string) Detail {
	return Detail{kind: detailGroup, value: value, urls: urls}
}

// MarshalJSON emits the shape-specific representation.
func (d Detail) MarshalJSON() ([]byte, error) {
	switch d.kind {
	case detailBare:
		return json.Marshal(d.bare)
	case detailGroup:
		return json.Marshal(struct {
			Value string   `json:"value"`
			URLs  []string `json:"urls"`
		}{d.value, d.urls})
	default:
		switch {
		case d.status != nil:
			return json.Marshal(struct {
				URL    string `json:"url"`
				Status int    `json:"status"`
			}{d.url, *d.status})
		case d.count != nil:
			return json.Marshal(struct {
				URL   string `json:"url"`
				Count int    `json:"count"`
			}{d.url, *d.count})
		case d.ratio != nil:
			return json.Marshal(struct {
				URL   string  `json:"url"`
				Ratio float64 `json:"ratio"`
			}{d.url, *d.ratio})
		}
		return json.Marshal(struct {
			URL string `json:"url"`
		}{d.url})
	}
}

type pageLabel struct {
	url   string
	label string
}

// pageLabels expands a detail into the per-URL issue strings shown in page
// details. Group values are truncated to 30 characters; record extras render
// as a parenthetical after the issue name.
func (d Detail) pageLabels(name string) []pageLabel {
	switch d.kind {
	case detailGroup:
		out := make([]pageLabel, 0, len(d.urls))
		value := []rune(d.value)
		if len(value) > 30 {
			value = value[:30]
		}
		for _, u := range d.urls {
			out = append(out, pageLabel{url: u, label: fmt.Sprintf("%s: '%s...'", name, string(value))})
		}
		return out
	case detailRecord:
		extra := ""
		switch {
		case d.count != nil:
			extra = fmt.Sprintf(" (%d)", *d.count)
		case d.ratio != nil:
			extra = fmt.Sprintf(" (%.1f%%)", *d.ratio)
		case d.status != nil:
			extra = fmt.Sprintf(" (%d)", *d.status)
		}
		return []pageLabel{{url: d.url, label: name + extra}}
	default:
		return []pageLabel{{url: d.bare, label: name}}
	}
}

// Issue is a named finding with per-page attribution. Count is the number of
// affected pages, or of duplicate groups for grouped details.
type Issue struct {
	Name        string   `json:"name"`
	Count       int      `json:"count"`
	Details     []Detail `json:"details"`
	Description string   `json:"description"`
	Priority    string   `json:"priority,omitempty"`
}

// IssueSet holds findings split by severity.
type IssueSet struct {
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
	Notices  []Issue `json:"notices"`
}

func urlDetails(urls []string) []Detail {
	out := make([]Detail, 0, len(urls))
	for _, u := range urls {
		out = append(out, bareDetail(u))
	}
	return out
}

func statusDetails(items []PageStatus) []Detail {
	out := make([]Detail, 0, len(items))
	for _, it := range items {
		out = append(out, statusDetail(it))
	}
	return out
}

func countDetails(items []PageCount) []Detail {
	out := make([]Detail, 0, len(items))
	for _, it := range items {
		out = append(out, countDetail(it))
	}
	return out
}

func ratioDetails(items []PageRatio) []Detail {
	out := make([]Detail, 0, len(items))
	for _, it := range items {
		out = append(out, ratioDetail(it))
	}
	return out
}

// groupedDetails emits duplicate groups sorted by value for stable output.
func groupedDetails(groups map[string][]string) []Detail {
	out := make([]Detail, 0, len(groups))
	for _, value := range sortedKeys(groups) {
		out = append(out, groupDetail(value, groups[value]))
	}
	return out
}

// categorizeIssues folds every check's findings into severity buckets.
// Empty findings produce no issue entry at all.
func categorizeIssues(m *Metrics, cfg *config.Config) IssueSet {
	defs := IssueDefinitions(cfg)
	set := IssueSet{Errors: []Issue{}, Warnings: []Issue{}, Notices: []Issue{}}

	add := func(list *[]Issue, name string, details []Detail, groupCount int, highPriority bool) {
		if len(details) == 0 {
			return
		}
		count := len(details)
		if groupCount > 0 {
			count = groupCount
		}
		issue := Issue{Name: name, Count: count, Details: details, Description: defs[name]}
		if highPriority {
			issue.Priority = "high"
		}
		*list = append(*list, issue)
	}

	add(&set.Errors, "Broken Links (4xx)", statusDetails(m.HTTP.BrokenLinks), 0, false)
	add(&set.Errors, "Server Errors (5xx)", statusDetails(m.HTTP.ServerErrors), 0, false)
	add(&set.Errors, "Duplicate Titles", groupedDetails(m.Title.Duplicates), len(m.Title.Duplicates), false)
	add(&set.Errors, "Non-HTTPS Pages", urlDetails(m.Security.NonHTTPS), 0, false)
	if !m.Security.SSLValid {
		reason := m.Security.SSLError
		if reason == "" {
			reason = "Verification failed"
		}
		add(&set.Errors, "Invalid SSL Certificate", []Detail{bareDetail(reason)}, 0, true)
	}

	add(&set.Warnings, "Missing H1 Tags", urlDetails(m.H1.NoH1), 0, false)
	add(&set.Warnings, "Duplicate H1 Content", groupedDetails(m.H1.DuplicateH1), len(m.H1.DuplicateH1), false)
	add(&set.Warnings, "Missing Meta Descriptions", urlDetails(m.Meta.NoMeta), 0, false)
	add(&set.Warnings, "Duplicate Meta Descriptions", groupedDetails(m.Meta.Duplicates), len(m.Meta.Duplicates), false)
	add(&set.Warnings, "Missing Titles", urlDetails(m.Title.NoTitle), 0, false)
	add(&set.Warnings, "Titles Too Long", urlDetails(m.Title.Long), 0, false)
	add(&set.Warnings, "Images Missing Alt Text", countDetails(m.Images.MissingAltDetails), 0, false)
	add(&set.Warnings, "Slow Load Time", urlDetails(m.Performance.SlowPages), 0, false)
	add(&set.Warnings, "Huge Page Size", urlDetails(m.Performance.HugePages), 0, false)
	add(&set.Warnings, "Low Word Count", countDetails(m.Content.LowWordCount), 0, false)

	add(&set.Notices, "Redirects (3xx)", statusDetails(m.HTTP.Redirects), 0, false)
	add(&set.Notices, "Titles Too Short", urlDetails(m.Title.Short), 0, false)
	add(&set.Notices, "Meta Desc Too Short", urlDetails(m.Meta.Short), 0, false)
	add(&set.Notices, "Meta Desc Too Long", urlDetails(m.Meta.Long), 0, false)
	add(&set.Notices, "Missing Canonical", urlDetails(m.Canonical.NoCanonical), 0, false)
	add(&set.Notices, "Low Text-HTML Ratio", ratioDetails(m.Content.LowTextRatio), 0, false)
	add(&set.Notices, "Missing JSON-LD Schema", urlDetails(m.Schema.MissingURLs), 0, false)
	add(&set.Notices, "Missing Open Graph Tags", urlDetails(m.Social.MissingURLs), 0, false)

	return set
}

// IssueDefinitions is the glossary attached to reports, keyed by issue name.
func IssueDefinitions(cfg *config.Config) map[string]string {
	return map[string]string{
		"Broken Links (4xx)":          "Links pointing to pages that do not exist (404 errors). User experience and crawlability are negatively affected.",
		"Server Errors (5xx)":         "The server failed to fulfill a valid request. Indicates server instability.",
		"Duplicate Titles":            "Multiple pages share the same Title Tag. Search engines may not know which page to rank.",
		"Non-HTTPS Pages":             "Pages served over insecure HTTP connection. Google prioritizes HTTPS.",
		"Missing H1 Tags":             "Pages without a main Heading 1. H1 is crucial for understanding page topic.",
		"Duplicate H1 Content":        "Multiple pages share the same H1. Can indicate duplicate content.",
		"Missing Meta Descriptions":   "No summary provided for search results. Lower CTR potential.",
		"Duplicate Meta Descriptions": "Multiple pages use the same description. Bad for uniqueness.",
		"Missing Titles":              "Page has no <title> tag. Critical for SEO ranking.",
		"Titles Too Long":             fmt.Sprintf("Title exceeds %d chars. Will be truncated in SERPs.", cfg.TitleMaxLength),
		"Images Missing Alt Text":     "Images without textual description. Bad for accessibility and Image SEO.",
		"Slow Load Time":              fmt.Sprintf("Page took longer than %gs to respond.", cfg.SlowPageThreshold),
		"Low Word Count":              fmt.Sprintf("Page has less than %d words. May be considered 'Thin Content'.", cfg.MinWordCount),
		"Redirects (3xx)":             "Page redirects to another URL. Too many redirects waste crawl budget.",
		"Titles Too Short":            fmt.Sprintf("Title is less than %d chars. May not be descriptive enough.", cfg.TitleMinLength),
		"Meta Desc Too Short":         "Description is too brief to entice clicks.",
		"Meta Desc Too Long":          "Description will be cut off in search results.",
		"Missing Canonical":           "No canonical tag found. Search engines may struggle with duplicate versions.",
		"Low Text-HTML Ratio":         "Page code is bloated compared to visible text. Can indicate code efficiency issues.",
		"Huge Page Size":              fmt.Sprintf("Page size exceeds %.1f MB. Heavy pages hurt mobile performance.", float64(cfg.MaxPageSizeBytes)/1024/1024),
		"Missing JSON-LD Schema":      "No structured data found. Rich snippets in search results may not be available.",
		"Missing Open Graph Tags":     "Open Graph tags are missing. Social media shares may not display correctly.",
		"Invalid SSL Certificate":     "The website's SSL certificate is expired, invalid, or untrusted. This is a major security risk and hurts SEO rankings.",
	}
}
