package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/seo-check/seo-check/analyzer"
	"github.com/seo-check/seo-check/crawl"
	"github.com/seo-check/seo-check/crawler"
	"github.com/seo-check/seo-check/report"
)

var (
	analyzeInput  string
	analyzeFormat string
	analyzeDepth  int

	analyzeCmd = &cobra.Command{
		Use:   "analyze <url>",
		Short: "Crawl a site and produce an SEO report",
		Long: `Crawl the given site, run the full set of SEO checks and write a
scored report under the output directory. With --input the crawl is
skipped and pages are read from a previously saved JSONL file instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAnalyze,
	}
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeInput, "input", "i", "", "read crawled pages from a JSONL file instead of crawling")
	analyzeCmd.Flags().StringVarP(&analyzeFormat, "format", "f", "", "report format: json, markdown or html")
	analyzeCmd.Flags().IntVarP(&analyzeDepth, "depth", "d", 0, "maximum crawl depth (overrides config)")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	if len(args) > 0 {
		cfg.BaseURL = args[0]
	} else {
		cfg.BaseURL, err = promptURL(cmd)
		if err != nil {
			return err
		}
	}
	if analyzeDepth > 0 {
		cfg.MaxDepth = analyzeDepth
	}
	format := cfg.OutputFormat
	if analyzeFormat != "" {
		format = analyzeFormat
	}
	renderer, err := report.ForFormat(format)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.CrawlTimeout)
	defer cancel()

	runDir := cfg.RunDir(time.Now().Format("20060102-150405"))
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return fmt.Errorf("creating run directory: %w", err)
	}

	var ds *crawl.Dataset
	if analyzeInput != "" {
		ds, err = crawl.LoadFile(analyzeInput)
		if err != nil {
			return fmt.Errorf("reading %s: %w", analyzeInput, err)
		}
	} else {
		sp := spinner.New(spinner.CharSets[9], 100*time.Millisecond)
		sp.Suffix = " crawling " + cfg.BaseURL
		sp.Start()
		ds, err = crawler.New(cfg, log).Crawl(ctx, cfg.BaseURL)
		sp.Stop()
		if err != nil {
			return fmt.Errorf("crawling %s: %w", cfg.BaseURL, err)
		}
		if err := crawler.WriteJSONL(ds, filepath.Join(runDir, "crawl.jsonl")); err != nil {
			return fmt.Errorf("saving crawl data: %w", err)
		}
	}
	fmt.Printf("Crawled %d pages\n", len(ds.Records))

	res := analyzer.New(cfg, log).Run(ds, analyzer.Options{
		TLS: crawler.ProbeTLS(ctx, cfg.BaseURL),
	})

	path := filepath.Join(runDir, "report."+renderer.Ext())
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	defer f.Close()
	if err := renderer.Render(f, report.New(res, cfg)); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}

	printSummary(res, path)
	return nil
}

// promptURL asks for the site to analyze when none was given on the
// command line.
func promptURL(cmd *cobra.Command) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), "URL to analyze: ")
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading url: %w", err)
	}
	rawURL := strings.TrimSpace(line)
	if rawURL == "" {
		return "", errors.New("no URL given")
	}
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		rawURL = "https://" + rawURL
	}
	return rawURL, nil
}

func printSummary(res *analyzer.Result, path string) {
	fmt.Printf("\nScore:  %.1f / 100 (%s)\n", res.Score, res.Rating)
	fmt.Printf("Issues: %d errors, %d warnings, %d notices\n",
		len(res.Metrics.Issues.Errors),
		len(res.Metrics.Issues.Warnings),
		len(res.Metrics.Issues.Notices))
	for _, p := range res.Penalties {
		fmt.Println("  " + p)
	}
	fmt.Println("Report: " + path)
}
