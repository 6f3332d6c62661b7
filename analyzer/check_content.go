package analyzer

import (
	"strings"

	"github.com/seo-check/seo-check/config"
	"github.com/seo-check/seo-check/crawl"
)

// analyzeImages counts images without alt text. A page's missing count is
// the number of blank alt entries plus the shortfall between src and alt
// list lengths. When the lists are misaligned this can over-count; the
// formula is kept as a documented approximation since the crawler does not
// guarantee positional pairing.
func analyzeImages(ds *crawl.Dataset, pages []crawl.PageRecord) ImageMetrics {
	if !ds.Has(crawl.ColImgAlt) {
		return ImageMetrics{MissingAltDetails: []PageCount{}}
	}

	totalImgs := 0
	missingCount := 0
	details := []PageCount{}

	for _, p := range pages {
		// Raw entries, blanks included: alt accounting relies on comparing
		// positional list lengths, so the cleaned view would skew the math.
		if len(p.ImgSrc) == 0 {
			continue
		}
		totalImgs += len(p.ImgSrc)

		blank := 0
		for _, a := range p.ImgAlt {
			if strings.TrimSpace(a) == "" {
				blank++
			}
		}
		shortfall := len(p.ImgSrc) - len(p.ImgAlt)
		if shortfall < 0 {
			shortfall = 0
		}

		if missing := blank + shortfall; missing > 0 {
			missingCount += missing
			details = append(details, PageCount{URL: p.URL, Count: missing})
		}
	}

	return ImageMetrics{
		MissingAltDetails: details,
		TotalImages:       totalImgs,
		MissingAltCount:   missingCount,
		MissingPct:        pct(missingCount, totalImgs),
	}
}

// analyzeContentQuality flags thin pages and pages whose visible text is a
// sliver of their HTML weight.
func analyzeContentQuality(ds *crawl.Dataset, pages []crawl.PageRecord, cfg *config.Config) ContentMetrics {
	lowWords := []PageCount{}
	lowRatio := []PageRatio{}

	if !ds.HasAny(crawl.ColBodyText, "body_text") {
		return ContentMetrics{LowWordCount: lowWords, LowTextRatio: lowRatio}
	}

	for _, p := range pages {
		text := ""
		if p.BodyText != nil {
			text = *p.BodyText
		}

		words := len(strings.Fields(text))
		if words < cfg.MinWordCount {
			lowWords = append(lowWords, PageCount{URL: p.URL, Count: words})
		}

		if p.Size != nil && *p.Size > 0 {
			ratio := float64(len(text)) / float64(*p.Size) * 100
			if ratio < cfg.TextRatioMin {
				lowRatio = append(lowRatio, PageRatio{URL: p.URL, Ratio: ratio})
			}
		}
	}

	return ContentMetrics{LowWordCount: lowWords, LowTextRatio: lowRatio}
}

// analyzePerformance flags slow and oversized pages and averages both
// signals over the pages that carry them.
func analyzePerformance(ds *crawl.Dataset, pages []crawl.PageRecord, cfg *config.Config) PerformanceMetrics {
	m := PerformanceMetrics{SlowPages: []string{}, HugePages: []string{}}

	if ds.Has(crawl.ColLatency) {
		sum, n := 0.0, 0
		for _, p := range pages {
			if p.Latency == nil {
				continue
			}
			sum += *p.Latency
			n++
			if *p.Latency > cfg.SlowPageThreshold {
				m.SlowPages = append(m.SlowPages, p.URL)
			}
		}
		if n > 0 {
			m.AvgTime = sum / float64(n)
		}
	}

	if ds.Has(crawl.ColSize) {
		sum, n := int64(0), 0
		for _, p := range pages {
			if p.Size == nil {
				continue
			}
			sum += *p.Size
			n++
			if *p.Size > cfg.MaxPageSizeBytes {
				m.HugePages = append(m.HugePages, p.URL)
			}
		}
		if n > 0 {
			m.AvgSizeBytes = float64(sum) / float64(n)
		}
	}

	return m
}

// analyzeSocialTags counts Open Graph coverage. A tag present with an empty
// value still counts as present; only a wholly absent tag is missing.
func analyzeSocialTags(ds *crawl.Dataset, pages []crawl.PageRecord) SocialMetrics {
	total := len(pages)
	m := SocialMetrics{MissingURLs: []string{}, Total: total}

	hasTitleCol := ds.HasAny(crawl.SocialTitleCols...)
	for _, p := range pages {
		if p.OGTitle != nil {
			m.OGTitleCount++
		} else if hasTitleCol {
			m.MissingURLs = append(m.MissingURLs, p.URL)
		}
		if p.OGDesc != nil {
			m.OGDescCount++
		}
		if p.OGImage != nil {
			m.OGImageCount++
		}
	}
	if !hasTitleCol {
		m.MissingURLs = allURLs(pages)
	}
	return m
}

// analyzeSchemaPresence counts pages carrying JSON-LD structured data.
func analyzeSchemaPresence(ds *crawl.Dataset, pages []crawl.PageRecord) SchemaMetrics {
	total := len(pages)
	m := SchemaMetrics{MissingURLs: []string{}, Total: total}

	if !ds.Has("jsonld") && !ds.HasPrefix("jsonld_") {
		m.MissingURLs = allURLs(pages)
		return m
	}

	for _, p := range pages {
		if len(p.JSONLD) > 0 {
			m.PresentCount++
		} else {
			m.MissingURLs = append(m.MissingURLs, p.URL)
		}
	}
	return m
}
