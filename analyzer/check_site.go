package analyzer

import (
	"net/url"
	"strings"

	"github.com/seo-check/seo-check/config"
	"github.com/seo-check/seo-check/crawl"
)

// Checks in this file run over the full crawl, error pages included.

// analyzeHTTPStatus tallies status codes and splits out redirects, client
// errors and server errors.
func analyzeHTTPStatus(ds *crawl.Dataset) HTTPMetrics {
	total := ds.Len()
	m := HTTPMetrics{
		Stats:        map[int]int{},
		Redirects:    []PageStatus{},
		BrokenLinks:  []PageStatus{},
		ServerErrors: []PageStatus{},
		Total:        total,
	}
	if !ds.Has(crawl.ColStatus) {
		return m
	}

	broken, serverErrs := 0, 0
	for _, p := range ds.Records {
		if p.Status == nil {
			continue
		}
		s := *p.Status
		m.Stats[s]++
		switch {
		case s >= 300 && s <= 399:
			m.Redirects = append(m.Redirects, PageStatus{URL: p.URL, Status: s})
		case s >= 400 && s <= 499:
			m.BrokenLinks = append(m.BrokenLinks, PageStatus{URL: p.URL, Status: s})
			broken++
		case s >= 500 && s <= 599:
			m.ServerErrors = append(m.ServerErrors, PageStatus{URL: p.URL, Status: s})
			serverErrs++
		}
	}
	m.ErrorRate4xx = pct(broken, total)
	m.ErrorRate5xx = pct(serverErrs, total)
	return m
}

// analyzeLinks counts internal against external links. A link is internal
// when it contains the configured site domain or is relative; external when
// it is an absolute URL elsewhere. With no external links the ratio is just
// the internal count.
func analyzeLinks(ds *crawl.Dataset, cfg *config.Config) LinkMetrics {
	if !ds.Has(crawl.ColLinksURL) {
		return LinkMetrics{}
	}

	domain := siteDomain(cfg.BaseURL)
	internal, external := 0, 0
	for _, p := range ds.Records {
		for _, link := range p.LinksURL.Values() {
			switch {
			case domain != "" && strings.Contains(link, domain):
				internal++
			case strings.HasPrefix(link, "http"):
				external++
			case strings.HasPrefix(link, "/") || strings.HasPrefix(link, "#"):
				internal++
			}
		}
	}

	ratio := float64(internal)
	if external > 0 {
		ratio = float64(internal) / float64(external)
	}
	return LinkMetrics{Internal: internal, External: external, Ratio: ratio}
}

// siteDomain extracts the host from a base URL that may lack a scheme.
func siteDomain(base string) string {
	if base == "" {
		return ""
	}
	if u, err := url.Parse(base); err == nil && u.Host != "" {
		return u.Host
	}
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		return strings.SplitN(base, "/", 2)[0]
	}
	return base
}

// TLSProbe is the outcome of the certificate handshake performed against
// the site before analysis. A nil probe means no handshake was attempted
// (non-HTTPS site) and leaves the certificate unjudged.
type TLSProbe struct {
	Valid bool
	Err   string
}

// analyzeSecurity lists non-HTTPS pages and folds in the TLS probe result.
func analyzeSecurity(ds *crawl.Dataset, probe *TLSProbe) SecurityMetrics {
	if ds.Len() == 0 {
		return SecurityMetrics{NonHTTPS: []string{}, SSLValid: false, SSLError: "No data"}
	}

	nonHTTPS := []string{}
	for _, p := range ds.Records {
		if !strings.HasPrefix(p.URL, "https://") {
			nonHTTPS = append(nonHTTPS, p.URL)
		}
	}

	m := SecurityMetrics{
		NonHTTPS:  nonHTTPS,
		SecurePct: pct(ds.Len()-len(nonHTTPS), ds.Len()),
		SSLValid:  true,
	}
	if probe != nil {
		m.SSLValid = probe.Valid
		m.SSLError = probe.Err
	}
	return m
}

// urlDepth counts path segments below the domain root.
func urlDepth(raw string) int {
	depth := strings.Count(strings.TrimRight(raw, "/"), "/") - 2
	if depth < 0 {
		depth = 0
	}
	return depth
}

// analyzeURLStructure summarizes how deep the crawled URLs sit.
func analyzeURLStructure(ds *crawl.Dataset) StructureMetrics {
	m := StructureMetrics{DepthDist: map[int]int{}}
	if ds.Len() == 0 {
		return m
	}

	sum := 0
	for _, p := range ds.Records {
		d := urlDepth(p.URL)
		m.DepthDist[d]++
		sum += d
		if d > m.MaxDepth {
			m.MaxDepth = d
		}
	}
	m.AvgDepth = float64(sum) / float64(ds.Len())
	return m
}
