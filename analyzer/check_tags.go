package analyzer

import (
	"sort"
	"unicode/utf8"

	"github.com/seo-check/seo-check/config"
	"github.com/seo-check/seo-check/crawl"
)

// allURLs returns every record's URL, used by the fully-missing branches.
func allURLs(pages []crawl.PageRecord) []string {
	out := make([]string, 0, len(pages))
	for _, p := range pages {
		out = append(out, p.URL)
	}
	return out
}

func pct(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// duplicateGroups groups rows by value and keeps only values shared by two
// or more rows. Returned map preserves each group's URL order of appearance;
// iterate with sortedKeys for deterministic output.
func duplicateGroups(values []string, urls []string) map[string][]string {
	byValue := make(map[string][]string)
	for i, v := range values {
		byValue[v] = append(byValue[v], urls[i])
	}
	groups := make(map[string][]string)
	for v, us := range byValue {
		if len(us) > 1 {
			groups[v] = us
		}
	}
	return groups
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// analyzeH1Tags classifies pages by H1 usage. Pages with several headings
// contribute every heading to the duplicate pool alongside single-heading
// pages; a page repeating its own heading therefore counts as a duplicate.
func analyzeH1Tags(ds *crawl.Dataset, pages []crawl.PageRecord) HeadingMetrics {
	total := len(pages)
	if !ds.Has(crawl.ColH1) {
		return HeadingMetrics{
			NoH1:        allURLs(pages),
			MultipleH1:  []string{},
			DuplicateH1: map[string][]string{},
			Total:       total,
			MissingPct:  100,
		}
	}

	noH1 := []string{}
	multiple := []string{}
	var poolValues, poolURLs []string

	for _, p := range pages {
		h1s := p.H1.Values()
		switch {
		case len(h1s) == 0:
			noH1 = append(noH1, p.URL)
		case len(h1s) > 1:
			multiple = append(multiple, p.URL)
			for _, h := range h1s {
				poolValues = append(poolValues, h)
				poolURLs = append(poolURLs, p.URL)
			}
		default:
			poolValues = append(poolValues, h1s[0])
			poolURLs = append(poolURLs, p.URL)
		}
	}

	return HeadingMetrics{
		NoH1:        noH1,
		MultipleH1:  multiple,
		DuplicateH1: duplicateGroups(poolValues, poolURLs),
		Total:       total,
		MissingPct:  pct(len(noH1), total),
	}
}

// analyzeTitles classifies each page's title as missing, too short or too
// long, and groups exact duplicates. A missing title is never also "short";
// duplicate percentage counts duplicated rows, not groups.
func analyzeTitles(ds *crawl.Dataset, pages []crawl.PageRecord, cfg *config.Config) TitleMetrics {
	total := len(pages)
	if !ds.Has(crawl.ColTitle) {
		return TitleMetrics{
			NoTitle:    allURLs(pages),
			Short:      []string{},
			Long:       []string{},
			Duplicates: map[string][]string{},
			Total:      total,
			MissingPct: 100,
		}
	}

	noTitle := []string{}
	short := []string{}
	long := []string{}
	var dupValues, dupURLs []string

	for _, p := range pages {
		if p.Title == nil || *p.Title == "" {
			noTitle = append(noTitle, p.URL)
			continue
		}
		length := utf8.RuneCountInString(*p.Title)
		if length < cfg.TitleMinLength {
			short = append(short, p.URL)
		} else if length > cfg.TitleMaxLength {
			long = append(long, p.URL)
		}
		dupValues = append(dupValues, *p.Title)
		dupURLs = append(dupURLs, p.URL)
	}

	groups := duplicateGroups(dupValues, dupURLs)
	dupRows := 0
	for _, us := range groups {
		dupRows += len(us)
	}

	return TitleMetrics{
		NoTitle:      noTitle,
		Short:        short,
		Long:         long,
		Duplicates:   groups,
		Total:        total,
		MissingPct:   pct(len(noTitle), total),
		DuplicatePct: pct(dupRows, total),
	}
}

// analyzeMetaDesc mirrors analyzeTitles for meta descriptions.
func analyzeMetaDesc(ds *crawl.Dataset, pages []crawl.PageRecord, cfg *config.Config) MetaMetrics {
	total := len(pages)
	if !ds.Has(crawl.ColMetaDesc) {
		return MetaMetrics{
			NoMeta:     allURLs(pages),
			Short:      []string{},
			Long:       []string{},
			Duplicates: map[string][]string{},
			Total:      total,
			MissingPct: 100,
		}
	}

	noMeta := []string{}
	short := []string{}
	long := []string{}
	var dupValues, dupURLs []string

	for _, p := range pages {
		if p.MetaDesc == nil || *p.MetaDesc == "" {
			noMeta = append(noMeta, p.URL)
			continue
		}
		length := utf8.RuneCountInString(*p.MetaDesc)
		if length < cfg.MetaDescMinLength {
			short = append(short, p.URL)
		} else if length > cfg.MetaDescMaxLength {
			long = append(long, p.URL)
		}
		dupValues = append(dupValues, *p.MetaDesc)
		dupURLs = append(dupURLs, p.URL)
	}

	return MetaMetrics{
		NoMeta:     noMeta,
		Short:      short,
		Long:       long,
		Duplicates: duplicateGroups(dupValues, dupURLs),
		Total:      total,
		MissingPct: pct(len(noMeta), total),
	}
}

// analyzeCanonical finds pages without a canonical tag and pages whose
// canonical points at a different URL. An empty canonical is "present but
// different", not missing.
func analyzeCanonical(ds *crawl.Dataset, pages []crawl.PageRecord) CanonicalMetrics {
	total := len(pages)
	if !ds.Has(crawl.ColCanonical) {
		return CanonicalMetrics{
			NoCanonical: allURLs(pages),
			Diff:        []CanonicalRef{},
			Total:       total,
			MissingPct:  100,
		}
	}

	noCanonical := []string{}
	diff := []CanonicalRef{}
	for _, p := range pages {
		if p.Canonical == nil {
			noCanonical = append(noCanonical, p.URL)
			continue
		}
		if *p.Canonical != p.URL {
			diff = append(diff, CanonicalRef{URL: p.URL, Canonical: *p.Canonical})
		}
	}

	return CanonicalMetrics{
		NoCanonical: noCanonical,
		Diff:        diff,
		Total:       total,
		MissingPct:  pct(len(noCanonical), total),
	}
}
