package analyzer

import (
	"encoding/json"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/seo-check/seo-check/crawl"
)

// Page statuses, worst first. A page takes the severity of its worst issue.
const (
	StatusCritical = "CRITICAL"
	StatusWarning  = "WARNING"
	StatusNotice   = "NOTICE"
	StatusGood     = "GOOD"
)

// PageDetail is the per-URL rollup shown in reports: the page's derived
// status, its issue strings, and excerpted raw fields for direct display.
type PageDetail struct {
	Status      string   `json:"status"`
	Title       string   `json:"title"`
	TitleLen    int      `json:"title_len"`
	H1          string   `json:"h1"`
	H1Count     int      `json:"h1_count"`
	Words       int      `json:"words"`
	Size        int64    `json:"size"`
	Depth       int      `json:"depth"`
	IsHTTPS     bool     `json:"is_https"`
	SSLValid    bool     `json:"ssl_valid"`
	SSLError    string   `json:"ssl_error"`
	MetaLen     int      `json:"meta_len"`
	TotalImages int      `json:"total_images"`
	MissingAlt  int      `json:"missing_alt"`
	Server      string   `json:"server"`
	ErrorMsg    string   `json:"error_msg"`
	Issues      []string `json:"issues"`
	MetaDesc    string   `json:"meta_desc"`
	Canonical   string   `json:"canonical"`
	StatusCode  int      `json:"status_code"`
	LoadTime    float64  `json:"load_time"`
	OGTitle     string   `json:"og_title"`
	OGDesc      string   `json:"og_desc"`
	OGImage     string   `json:"og_image"`
	JSONLD      string   `json:"jsonld"`
	HasSchema   bool     `json:"has_schema"`
}

// buildPageDetails inverts the categorized issues into a per-URL view and
// attaches each page's excerpted fields. Runs over the full crawl, error
// pages included.
func buildPageDetails(ds *crawl.Dataset, m *Metrics) map[string]PageDetail {
	urlIssues := map[string][]string{}
	collect := func(issues []Issue) {
		for _, issue := range issues {
			for _, d := range issue.Details {
				for _, pl := range d.pageLabels(issue.Name) {
					urlIssues[pl.url] = append(urlIssues[pl.url], pl.label)
				}
			}
		}
	}
	collect(m.Issues.Errors)
	collect(m.Issues.Warnings)
	collect(m.Issues.Notices)

	errorNames := issueNames(m.Issues.Errors)
	warningNames := issueNames(m.Issues.Warnings)

	details := make(map[string]PageDetail, ds.Len())
	for _, p := range ds.Records {
		issues := urlIssues[p.URL]
		status := pageStatus(issues, errorNames, warningNames)

		isHTTPS := strings.HasPrefix(p.URL, "https://")
		sslValid := false
		sslError := ""
		if isHTTPS {
			sslValid = m.Security.SSLValid
			if !sslValid {
				sslError = m.Security.SSLError
				// Status is already fixed by this point; the note is for
				// the page listing only.
				issues = append(issues, "Invalid SSL Certificate: "+sslError)
			}
		}

		detail := PageDetail{
			Status:    status,
			Title:     deref(p.Title),
			H1:        strings.Join(p.H1.Values(), ", "),
			H1Count:   len(p.H1.Values()),
			Words:     len(strings.Fields(deref(p.BodyText))),
			Depth:     urlDepth(p.URL),
			IsHTTPS:   isHTTPS,
			SSLValid:  sslValid,
			SSLError:  sslError,
			Server:    p.Server,
			ErrorMsg:  p.ErrorMsg,
			Issues:    issues,
			MetaDesc:  deref(p.MetaDesc),
			Canonical: deref(p.Canonical),
			OGTitle:   deref(p.OGTitle),
			OGDesc:    deref(p.OGDesc),
		}
		if detail.Issues == nil {
			detail.Issues = []string{}
		}
		detail.TitleLen = utf8.RuneCountInString(detail.Title)
		detail.MetaLen = utf8.RuneCountInString(detail.MetaDesc)
		if p.Size != nil {
			detail.Size = *p.Size
		}
		if p.Status != nil {
			detail.StatusCode = *p.Status
		}
		if p.Latency != nil {
			detail.LoadTime = *p.Latency
		}

		detail.TotalImages = len(p.ImgSrc)
		nonBlankAlts := len(p.ImgAlt.Values())
		if missing := detail.TotalImages - nonBlankAlts; missing > 0 {
			detail.MissingAlt = missing
		}

		detail.OGImage = socialImage(p)
		if jsonld := renderJSONLD(p.JSONLD); jsonld != "" {
			detail.JSONLD = jsonld
			detail.HasSchema = true
		}

		details[p.URL] = detail
	}
	return details
}

func issueNames(issues []Issue) map[string]bool {
	names := make(map[string]bool, len(issues))
	for _, i := range issues {
		names[i.Name] = true
	}
	return names
}

// pageStatus derives a page's severity from its issue strings. The text
// before the first ':' is matched against the categorized issue names;
// Critical beats Warning beats Notice beats Good.
func pageStatus(issues []string, errorNames, warningNames map[string]bool) string {
	if len(issues) == 0 {
		return StatusGood
	}
	for _, label := range issues {
		if errorNames[labelName(label)] {
			return StatusCritical
		}
	}
	for _, label := range issues {
		if warningNames[labelName(label)] {
			return StatusWarning
		}
	}
	return StatusNotice
}

func labelName(label string) string {
	if i := strings.Index(label, ":"); i >= 0 {
		return label[:i]
	}
	return label
}

// socialImage picks the page's share image: the Open Graph tag when set,
// otherwise the first crawled image, made absolute against the page URL.
func socialImage(p crawl.PageRecord) string {
	img := strings.TrimSpace(deref(p.OGImage))
	if img == "" {
		if srcs := p.ImgSrc.Values(); len(srcs) > 0 {
			img = srcs[0]
		}
	}
	if img == "" || strings.HasPrefix(img, "http") || strings.HasPrefix(img, "//") {
		return img
	}
	base, err := url.Parse(p.URL)
	if err != nil {
		return img
	}
	ref, err := url.Parse(img)
	if err != nil {
		return img
	}
	return base.ResolveReference(ref).String()
}

func renderJSONLD(data map[string]any) string {
	if len(data) == 0 {
		return ""
	}
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return ""
	}
	return string(b)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
