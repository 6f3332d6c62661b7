package analyzer

import (
	"fmt"

	"github.com/seo-check/seo-check/config"
)

// Rating bands, from a 0-100 score.
const (
	RatingExcellent = "EXCELLENT"
	RatingGood      = "GOOD"
	RatingAverage   = "AVERAGE"
	RatingPoor      = "POOR"
	RatingCritical  = "CRITICAL"
)

// Score applies the configured penalty weights to the metrics and returns
// the capped score, its rating band, and a human-readable penalty trail.
//
// Failure rates below their threshold draw a penalty proportional to how
// close they sit to it; above the threshold the full weight applies once.
// Semantic rates (H1, titles, meta) are computed over valid pages only, so
// a broken page is not additionally punished for its missing tags.
func Score(m *Metrics, cfg *config.Config) (float64, string, []string) {
	score := 100.0
	penalties := []string{}
	apply := func(p float64, entry string) {
		score -= p
		penalties = append(penalties, entry)
	}

	// Broken links
	brokenRate := m.HTTP.ErrorRate4xx
	if brokenRate > cfg.CriticalThreshold {
		apply(cfg.Penalties.BrokenLink,
			fmt.Sprintf("Broken Links (> %g%%): -%.1f", cfg.CriticalThreshold, cfg.Penalties.BrokenLink))
	} else if brokenRate > 0 {
		p := min(brokenRate/cfg.CriticalThreshold*cfg.Penalties.BrokenLink, cfg.Penalties.BrokenLink)
		apply(p, fmt.Sprintf("Broken Links (%.1f%%): -%.1f", brokenRate, p))
	}

	// H1
	h1Miss := m.H1.MissingPct
	if h1Miss > cfg.WarningThreshold {
		apply(cfg.Penalties.MissingH1,
			fmt.Sprintf("Missing H1 (> %g%%): -%.1f", cfg.WarningThreshold, cfg.Penalties.MissingH1))
	} else if h1Miss > 0 {
		p := min(h1Miss/cfg.WarningThreshold*cfg.Penalties.MissingH1, cfg.Penalties.MissingH1)
		apply(p, fmt.Sprintf("Missing H1 (%.1f%%): -%.1f", h1Miss, p))
	}

	// Titles: any missing title costs at least 2 points.
	if titleMiss := m.Title.MissingPct; titleMiss > 0 {
		p := max(titleMiss/100*cfg.Penalties.MissingTitle, 2.0)
		apply(p, fmt.Sprintf("Missing Titles (%.1f%%): -%.1f", titleMiss, p))
	}
	if m.Title.DuplicatePct > cfg.WarningThreshold {
		apply(cfg.Penalties.DuplicateTitle,
			fmt.Sprintf("Duplicate Titles (> %g%%): -%.1f", cfg.WarningThreshold, cfg.Penalties.DuplicateTitle))
	}

	// Meta descriptions: half weight while under the threshold.
	metaMiss := m.Meta.MissingPct
	if metaMiss > cfg.WarningThreshold {
		apply(cfg.Penalties.MissingMeta,
			fmt.Sprintf("Missing Meta Desc (> %g%%): -%.1f", cfg.WarningThreshold, cfg.Penalties.MissingMeta))
	} else if metaMiss > 0 {
		p := metaMiss / cfg.WarningThreshold * (cfg.Penalties.MissingMeta / 2)
		apply(p, fmt.Sprintf("Missing Meta Desc (%.1f%%): -%.1f", metaMiss, p))
	}

	// Images
	if m.Images.MissingPct > cfg.WarningThreshold {
		apply(cfg.Penalties.MissingAlt,
			fmt.Sprintf("Missing Alt Text (> %g%%): -%.1f", cfg.WarningThreshold, cfg.Penalties.MissingAlt))
	}

	// Security
	if m.HTTP.Total > 0 {
		if nonHTTPSPct := pct(len(m.Security.NonHTTPS), m.HTTP.Total); nonHTTPSPct > 0 {
			p := nonHTTPSPct / 100 * cfg.Penalties.InsecureHTTP
			apply(p, fmt.Sprintf("Insecure Pages (HTTP): -%.1f", p))
		}
	}
	if !m.Security.SSLValid {
		apply(cfg.Penalties.InvalidSSL,
			fmt.Sprintf("Invalid SSL Certificate: -%.1f", cfg.Penalties.InvalidSSL))
	}

	// Huge pages: any occurrence costs at least 2 points.
	if huge := len(m.Performance.HugePages); huge > 0 && m.HTTP.Total > 0 {
		hugePct := pct(huge, m.HTTP.Total)
		p := max(hugePct/100*cfg.Penalties.HugePage, 2.0)
		apply(p, fmt.Sprintf("Huge Pages (> %.0f MB): -%.1f", float64(cfg.MaxPageSizeBytes)/1024/1024, p))
	}

	if score < 0 {
		score = 0
	}
	return score, ratingFor(score), penalties
}

func ratingFor(score float64) string {
	switch {
	case score >= 90:
		return RatingExcellent
	case score >= 75:
		return RatingGood
	case score >= 60:
		return RatingAverage
	case score >= 40:
		return RatingPoor
	default:
		return RatingCritical
	}
}
