package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seo-check/seo-check/config"
	"github.com/seo-check/seo-check/logging"
	"github.com/seo-check/seo-check/report"
)

const pageHTML = `<html>
<head>
  <title>A title long enough to clear the minimum</title>
  <meta name="description" content="A metadata description that comfortably clears the minimum configured length threshold used for search result snippet display.">
</head>
<body><h1>Hello</h1><p>Body text for the checks.</p></body>
</html>`

func newTestServer(t *testing.T) (*Server, *report.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Default()
	cfg.MaxDepth = 1
	cfg.DownloadDelay = 0
	cfg.RespectRobotsTxt = false
	cfg.OutputDir = t.TempDir()

	store, err := report.NewStore(cfg.OutputDir)
	require.NoError(t, err)
	t.Cleanup(store.Close)

	return New(cfg, logging.NewNop(), store), store
}

func postAnalyze(t *testing.T, api *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(api.URL+"/api/analyze", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	return resp
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	api := httptest.NewServer(srv.Routes())
	defer api.Close()

	resp, err := http.Get(api.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAnalyzeRejectsBadInput(t *testing.T) {
	srv, _ := newTestServer(t)
	api := httptest.NewServer(srv.Routes())
	defer api.Close()

	t.Run("missing url", func(t *testing.T) {
		resp := postAnalyze(t, api, `{}`)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("not a url", func(t *testing.T) {
		resp := postAnalyze(t, api, `{"url": "not a url"}`)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown format", func(t *testing.T) {
		resp := postAnalyze(t, api, `{"url": "https://example.com", "format": "pdf"}`)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestAnalyzeLifecycle(t *testing.T) {
	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(pageHTML))
	}))
	defer site.Close()

	srv, store := newTestServer(t)
	api := httptest.NewServer(srv.Routes())
	defer api.Close()

	resp := postAnalyze(t, api, fmt.Sprintf(`{"url": %q}`, site.URL))
	defer resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	var run report.Run
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&run))
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, site.URL, run.URL)

	require.Eventually(t, func() bool {
		got, ok := store.Get(run.ID)
		return ok && (got.Status == report.RunComplete || got.Status == report.RunFailed)
	}, 15*time.Second, 200*time.Millisecond)

	got, ok := store.Get(run.ID)
	require.True(t, ok)
	require.Equal(t, report.RunComplete, got.Status, "run failed: %s", got.Error)
	require.NotNil(t, got.Score)
	assert.NotEmpty(t, got.Rating)
	assert.NotEmpty(t, got.ReportPath)

	// Status endpoint reflects the stored run.
	statusResp, err := http.Get(api.URL + "/api/status/" + run.ID)
	require.NoError(t, err)
	defer statusResp.Body.Close()
	assert.Equal(t, http.StatusOK, statusResp.StatusCode)

	// Completed report is served as a file.
	repResp, err := http.Get(api.URL + "/api/reports/" + run.ID)
	require.NoError(t, err)
	defer repResp.Body.Close()
	require.Equal(t, http.StatusOK, repResp.StatusCode)
	var body map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(repResp.Body).Decode(&body))
	assert.Contains(t, body, "score")
	assert.Contains(t, body, "metrics")
}

func TestStatusNotFound(t *testing.T) {
	srv, _ := newTestServer(t)
	api := httptest.NewServer(srv.Routes())
	defer api.Close()

	resp, err := http.Get(api.URL + "/api/status/nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestReportBeforeComplete(t *testing.T) {
	srv, store := newTestServer(t)
	api := httptest.NewServer(srv.Routes())
	defer api.Close()

	_, err := store.CreateRun("pending-run", "https://example.com")
	require.NoError(t, err)

	resp, err := http.Get(api.URL + "/api/reports/pending-run")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestListReports(t *testing.T) {
	srv, store := newTestServer(t)
	api := httptest.NewServer(srv.Routes())
	defer api.Close()

	_, err := store.CreateRun("run-a", "https://a.example.com")
	require.NoError(t, err)
	_, err = store.CreateRun("run-b", "https://b.example.com")
	require.NoError(t, err)

	resp, err := http.Get(api.URL + "/api/reports")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Runs []report.Run `json:"runs"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Runs, 2)
}
