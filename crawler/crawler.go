// Package crawler fetches a site and extracts the per-page signals the
// analyzer consumes.
package crawler

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	colly "github.com/gocolly/colly/v2"

	"github.com/seo-check/seo-check/config"
	"github.com/seo-check/seo-check/crawl"
	"github.com/seo-check/seo-check/logging"
)

const startTimeKey = "crawl_start_time"

// Crawler walks a site breadth-first up to the configured depth and turns
// every fetched page into a crawl.PageRecord.
type Crawler struct {
	cfg *config.Config
	log logging.Interface
}

// New creates a Crawler.
func New(cfg *config.Config, log logging.Interface) *Crawler {
	return &Crawler{cfg: cfg, log: log}
}

// Crawl fetches the site rooted at baseURL and returns the dataset. Error
// responses are recorded with their status so the analyzer can report them;
// pages outside the start domain are not followed.
func (c *Crawler) Crawl(ctx context.Context, baseURL string) (*crawl.Dataset, error) {
	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", baseURL)
	}

	var (
		mu      sync.Mutex
		records []crawl.PageRecord
	)
	addRecord := func(rec crawl.PageRecord) {
		mu.Lock()
		records = append(records, rec)
		mu.Unlock()
	}

	opts := []colly.CollectorOption{
		colly.AllowedDomains(base.Hostname()),
		colly.MaxDepth(c.cfg.MaxDepth),
		colly.UserAgent(c.cfg.UserAgent),
		colly.Async(true),
	}
	if !c.cfg.RespectRobotsTxt {
		opts = append(opts, colly.IgnoreRobotsTxt())
	}
	collector := colly.NewCollector(opts...)
	if err := collector.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: c.cfg.ConcurrentRequests,
		Delay:       c.cfg.DownloadDelay,
	}); err != nil {
		return nil, fmt.Errorf("configuring rate limit: %w", err)
	}

	collector.OnRequest(func(r *colly.Request) {
		select {
		case <-ctx.Done():
			r.Abort()
		default:
		}
		r.Ctx.Put(startTimeKey, time.Now().Format(time.RFC3339Nano))
	})

	collector.OnHTML("html", func(e *colly.HTMLElement) {
		rec := extractPage(e)
		rec.Status = intp(e.Response.StatusCode)
		rec.Size = i64p(int64(len(e.Response.Body)))
		rec.Latency = requestLatency(e.Response.Ctx)
		if server := e.Response.Headers.Get("Server"); server != "" {
			rec.Server = server
		}
		addRecord(rec)
		c.log.Debug("page crawled", "url", rec.URL, "status", e.Response.StatusCode)
	})

	collector.OnHTML("a[href]", func(e *colly.HTMLElement) {
		if link := e.Request.AbsoluteURL(e.Attr("href")); link != "" {
			_ = e.Request.Visit(link)
		}
	})

	collector.OnError(func(r *colly.Response, err error) {
		if r.StatusCode == 0 {
			c.log.Warn("request failed", "url", r.Request.URL.String(), "error", err)
			return
		}
		rec := crawl.PageRecord{
			URL:     r.Request.URL.String(),
			Status:  intp(r.StatusCode),
			Size:    i64p(int64(len(r.Body))),
			Latency: requestLatency(r.Ctx),
		}
		if server := r.Headers.Get("Server"); server != "" {
			rec.Server = server
		}
		addRecord(rec)
		c.log.Debug("error page recorded", "url", rec.URL, "status", r.StatusCode)
	})

	c.log.Info("crawl starting", "url", baseURL, "max_depth", c.cfg.MaxDepth)
	if err := collector.Visit(base.String()); err != nil {
		return nil, fmt.Errorf("starting crawl: %w", err)
	}
	collector.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("crawl aborted: %w", err)
	}

	c.log.Info("crawl finished", "pages", len(records))
	return crawl.NewDataset(records), nil
}

// extractPage pulls every analyzed signal out of the parsed document.
func extractPage(e *colly.HTMLElement) crawl.PageRecord {
	doc := e.DOM
	rec := crawl.PageRecord{URL: e.Request.URL.String()}

	rec.Title = strp(strings.TrimSpace(doc.Find("title").First().Text()))

	var h1s crawl.StringList
	doc.Find("h1").Each(func(_ int, s *goquery.Selection) {
		h1s = append(h1s, strings.TrimSpace(s.Text()))
	})
	rec.H1 = h1s

	if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		rec.MetaDesc = strp(desc)
	}
	if canonical, ok := doc.Find(`link[rel="canonical"]`).Attr("href"); ok {
		rec.Canonical = strp(e.Request.AbsoluteURL(canonical))
	}

	var srcs, alts crawl.StringList
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		alt, _ := s.Attr("alt")
		srcs = append(srcs, src)
		alts = append(alts, alt)
	})
	rec.ImgSrc = srcs
	rec.ImgAlt = alts

	var links crawl.StringList
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if abs := e.Request.AbsoluteURL(href); abs != "" {
			links = append(links, abs)
		}
	})
	rec.LinksURL = links

	if og := metaProperty(doc, "og:title"); og != "" {
		rec.OGTitle = strp(og)
	}
	if og := metaProperty(doc, "og:description"); og != "" {
		rec.OGDesc = strp(og)
	}
	if og := metaProperty(doc, "og:image"); og != "" {
		rec.OGImage = strp(og)
	}

	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var data map[string]any
		if err := json.Unmarshal([]byte(s.Text()), &data); err != nil || len(data) == 0 {
			return true
		}
		rec.JSONLD = data
		return false
	})

	body := doc.Find("body").Clone()
	body.Find("script, style, noscript").Remove()
	rec.BodyText = strp(normalizeSpace(body.Text()))

	return rec
}

func metaProperty(doc *goquery.Selection, property string) string {
	content, _ := doc.Find(`meta[property="` + property + `"]`).Attr("content")
	if content == "" {
		content, _ = doc.Find(`meta[name="` + property + `"]`).Attr("content")
	}
	return strings.TrimSpace(content)
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func requestLatency(ctx *colly.Context) *float64 {
	raw := ctx.Get(startTimeKey)
	if raw == "" {
		return nil
	}
	start, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return nil
	}
	latency := time.Since(start).Seconds()
	return &latency
}

// WriteJSONL persists a dataset in the crawl file format, one record per
// line.
func WriteJSONL(ds *crawl.Dataset, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating crawl file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, rec := range ds.Records {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("writing crawl record: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing crawl file: %w", err)
	}
	return nil
}

func strp(s string) *string { return &s }
func intp(n int) *int       { return &n }
func i64p(n int64) *int64   { return &n }
