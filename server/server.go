package server

import (
	"context"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/seo-check/seo-check/analyzer"
	"github.com/seo-check/seo-check/config"
	"github.com/seo-check/seo-check/crawler"
	"github.com/seo-check/seo-check/logging"
	"github.com/seo-check/seo-check/middleware"
	"github.com/seo-check/seo-check/report"
)

// Server wires the crawler and analyzer behind an HTTP API. Analysis runs
// asynchronously: POST /api/analyze returns a run ID immediately and the
// caller polls /api/status/:id until the run completes.
type Server struct {
	cfg     *config.Config
	log     logging.Interface
	store   *report.Store
	limiter *middleware.RateLimiter
}

func New(cfg *config.Config, log logging.Interface, store *report.Store) *Server {
	return &Server{
		cfg:     cfg,
		log:     log,
		store:   store,
		limiter: middleware.NewRateLimiter(2, 5), // 2 requests per second, bucket size of 5
	}
}

// Routes builds the gin engine with the full middleware chain.
func (s *Server) Routes() *gin.Engine {
	r := gin.New()

	r.Use(middleware.ErrorHandler(s.log))
	r.Use(s.limiter.RateLimit())
	r.Use(middleware.CORS())
	r.Use(middleware.RequestLogger(s.log))

	api := r.Group("/api")
	{
		api.GET("/health", s.health)
		api.POST("/analyze", s.analyze)
		api.GET("/status/:id", s.status)
		api.GET("/reports", s.listReports)
		api.GET("/reports/:id", s.getReport)
	}

	return r
}

// Run starts the server and blocks until it exits.
func (s *Server) Run(addr string) error {
	return s.Routes().Run(addr)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type analyzeRequest struct {
	URL    string `json:"url" binding:"required,url"`
	Format string `json:"format"`
}

func (s *Server) analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid URL provided",
		})
		return
	}

	format := req.Format
	if format == "" {
		format = s.cfg.OutputFormat
	}
	if _, err := report.ForFormat(format); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	id := uuid.NewString()
	run, err := s.store.CreateRun(id, req.URL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create run: " + err.Error(),
		})
		return
	}

	go s.execute(id, req.URL, format)

	c.JSON(http.StatusAccepted, run)
}

// execute runs the crawl/analyze pipeline for a single run. Every failure
// path lands in the store so the status endpoint can report it.
func (s *Server) execute(id, rawURL, format string) {
	log := s.log.With("run_id", id, "url", rawURL)

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.CrawlTimeout)
	defer cancel()

	// Each run gets its own config copy so the analyzed site can be set
	// without racing concurrent runs.
	cfg := *s.cfg
	cfg.BaseURL = rawURL

	s.store.SetStatus(id, report.RunCrawling)
	start := time.Now()

	cr := crawler.New(&cfg, log)
	ds, err := cr.Crawl(ctx, rawURL)
	if err != nil {
		log.Error("crawl failed", "error", err)
		s.store.SetFailed(id, err)
		return
	}
	log.Info("crawl finished", "pages", len(ds.Records), "elapsed", time.Since(start).String())

	if err := crawler.WriteJSONL(ds, filepath.Join(s.store.RunDir(id), "crawl.jsonl")); err != nil {
		log.Warn("saving crawl data failed", "error", err)
	}

	tls := crawler.ProbeTLS(ctx, rawURL)

	s.store.SetStatus(id, report.RunAnalyzing)
	res := analyzer.New(&cfg, log).Run(ds, analyzer.Options{TLS: tls})

	rep := report.New(res, &cfg)
	path, err := s.store.SaveReport(id, rep, format)
	if err != nil {
		log.Error("report write failed", "error", err)
		s.store.SetFailed(id, err)
		return
	}

	s.store.SetComplete(id, res.Score, res.Rating, path)
	log.Info("run complete", "score", res.Score, "rating", res.Rating)
}

func (s *Server) status(c *gin.Context) {
	run, ok := s.store.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}
	c.JSON(http.StatusOK, run)
}

func (s *Server) listReports(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"runs": s.store.List()})
}

func (s *Server) getReport(c *gin.Context) {
	run, ok := s.store.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}
	if run.Status != report.RunComplete {
		c.JSON(http.StatusConflict, gin.H{
			"error":  "run is not complete",
			"status": run.Status,
		})
		return
	}
	c.File(run.ReportPath)
}
