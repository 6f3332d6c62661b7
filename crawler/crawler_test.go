package crawler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seo-check/seo-check/config"
	"github.com/seo-check/seo-check/crawl"
	"github.com/seo-check/seo-check/logging"
)

const indexHTML = `<!DOCTYPE html>
<html>
<head>
  <title>Test Site Home</title>
  <meta name="description" content="A small site used to exercise the crawler.">
  <link rel="canonical" href="/">
  <meta property="og:title" content="Test Site">
  <meta property="og:image" content="/logo.png">
  <script type="application/ld+json">{"@type": "WebSite", "name": "Test"}</script>
</head>
<body>
  <h1>Welcome</h1>
  <p>Some body text for the content check.</p>
  <img src="/logo.png" alt="logo">
  <img src="/banner.png" alt="">
  <a href="/about">About</a>
  <a href="/missing">Broken</a>
  <a href="https://external.example.org/">Elsewhere</a>
</body>
</html>`

const aboutHTML = `<html><head><title>About the Test Site</title></head>
<body><h1>About</h1><h1>Second Heading</h1><p>About text.</p></body></html>`

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.MaxDepth = 2
	cfg.ConcurrentRequests = 2
	cfg.DownloadDelay = 0
	cfg.RespectRobotsTxt = false
	return cfg
}

func crawlTestSite(t *testing.T) *crawl.Dataset {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(indexHTML))
	})
	mux.HandleFunc("/about", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(aboutHTML))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	ds, err := New(testConfig(), logging.NewNop()).Crawl(context.Background(), srv.URL)
	require.NoError(t, err)
	return ds
}

func recordFor(t *testing.T, ds *crawl.Dataset, suffix string) crawl.PageRecord {
	t.Helper()
	for _, rec := range ds.Records {
		if rec.URL == suffix || filepath.Base(rec.URL) == suffix {
			return rec
		}
	}
	t.Fatalf("no record for %q in %d records", suffix, ds.Len())
	return crawl.PageRecord{}
}

func TestCrawlExtractsSignals(t *testing.T) {
	ds := crawlTestSite(t)
	require.GreaterOrEqual(t, ds.Len(), 3)

	t.Run("index page", func(t *testing.T) {
		var rec crawl.PageRecord
		for _, r := range ds.Records {
			if r.Title != nil && *r.Title == "Test Site Home" {
				rec = r
			}
		}
		require.NotNil(t, rec.Status)
		assert.Equal(t, 200, *rec.Status)
		assert.Equal(t, crawl.StringList{"Welcome"}, rec.H1)
		require.NotNil(t, rec.MetaDesc)
		assert.Equal(t, "A small site used to exercise the crawler.", *rec.MetaDesc)
		require.NotNil(t, rec.Canonical)

		assert.Len(t, rec.ImgSrc, 2)
		assert.Equal(t, crawl.StringList{"logo", ""}, rec.ImgAlt)

		require.NotNil(t, rec.OGTitle)
		assert.Equal(t, "Test Site", *rec.OGTitle)
		assert.Equal(t, "WebSite", rec.JSONLD["@type"])

		require.NotNil(t, rec.BodyText)
		assert.Contains(t, *rec.BodyText, "Some body text")
		assert.NotContains(t, *rec.BodyText, "ld+json", "script content stays out of body text")

		require.NotNil(t, rec.Latency)
		assert.Greater(t, *rec.Latency, 0.0)
	})

	t.Run("multiple headings survive", func(t *testing.T) {
		rec := recordFor(t, ds, "about")
		assert.Equal(t, crawl.StringList{"About", "Second Heading"}, rec.H1)
	})

	t.Run("broken link recorded with status", func(t *testing.T) {
		rec := recordFor(t, ds, "missing")
		require.NotNil(t, rec.Status)
		assert.Equal(t, 404, *rec.Status)
	})

	t.Run("external domain not followed", func(t *testing.T) {
		for _, rec := range ds.Records {
			assert.NotContains(t, rec.URL, "external.example.org")
		}
	})
}

func TestCrawlRoundTripsThroughJSONL(t *testing.T) {
	ds := crawlTestSite(t)

	path := filepath.Join(t.TempDir(), "crawl_data.jl")
	require.NoError(t, WriteJSONL(ds, path))

	loaded, err := crawl.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, ds.Len(), loaded.Len())
	assert.True(t, loaded.Has(crawl.ColStatus))
	assert.True(t, loaded.Has(crawl.ColH1))
	assert.True(t, loaded.HasPrefix("jsonld"))
}

func TestCrawlInvalidBaseURL(t *testing.T) {
	_, err := New(testConfig(), logging.NewNop()).Crawl(context.Background(), "not a url")
	assert.Error(t, err)
}

func TestProbeTLS(t *testing.T) {
	t.Run("non-https is not probed", func(t *testing.T) {
		assert.Nil(t, ProbeTLS(context.Background(), "http://example.com/"))
	})

	t.Run("self-signed certificate fails verification", func(t *testing.T) {
		srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		probe := ProbeTLS(ctx, srv.URL)
		require.NotNil(t, probe)
		assert.False(t, probe.Valid)
		assert.NotEmpty(t, probe.Err)
	})
}
