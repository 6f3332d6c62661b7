// Package config holds the analysis thresholds, penalty weights and crawler
// settings, loadable from a YAML file and SEO_* environment variables.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Penalties are the points subtracted from the 100 base score per finding,
// weighted toward ranking factors and user experience impact.
type Penalties struct {
	BrokenLink     float64 `mapstructure:"broken_link"`
	InvalidSSL     float64 `mapstructure:"invalid_ssl"`
	InsecureHTTP   float64 `mapstructure:"insecure_http"`
	MissingTitle   float64 `mapstructure:"missing_title"`
	MissingH1      float64 `mapstructure:"missing_h1"`
	DuplicateTitle float64 `mapstructure:"duplicate_title"`
	MissingMeta    float64 `mapstructure:"missing_meta"`
	MissingAlt     float64 `mapstructure:"missing_alt"`
	HugePage       float64 `mapstructure:"huge_page"`
}

// Config carries everything the crawler and analyzer need. Zero values are
// never used directly; construct via Default or Load.
type Config struct {
	// Crawl settings
	BaseURL            string        `mapstructure:"base_url"`
	MaxDepth           int           `mapstructure:"max_depth"`
	UserAgent          string        `mapstructure:"user_agent"`
	ConcurrentRequests int           `mapstructure:"concurrent_requests"`
	DownloadDelay      time.Duration `mapstructure:"download_delay"`
	RespectRobotsTxt   bool          `mapstructure:"respect_robots_txt"`
	CrawlTimeout       time.Duration `mapstructure:"crawl_timeout"`

	// Analysis thresholds
	TitleMinLength    int     `mapstructure:"title_min_length"`
	TitleMaxLength    int     `mapstructure:"title_max_length"`
	MetaDescMinLength int     `mapstructure:"meta_desc_min_length"`
	MetaDescMaxLength int     `mapstructure:"meta_desc_max_length"`
	SlowPageThreshold float64 `mapstructure:"slow_page_threshold"`
	MinWordCount      int     `mapstructure:"min_word_count"`
	TextRatioMin      float64 `mapstructure:"text_ratio_min"`
	MaxPageSizeBytes  int64   `mapstructure:"max_page_size_bytes"`

	// Scoring: failure percentage a site may carry before the flat penalty
	// replaces the proportional one.
	CriticalThreshold float64 `mapstructure:"critical_threshold"`
	WarningThreshold  float64 `mapstructure:"warning_threshold"`

	Penalties Penalties `mapstructure:"penalties"`

	// Output
	OutputDir    string `mapstructure:"output_dir"`
	OutputFormat string `mapstructure:"output_format"`
}

// Default returns the stock configuration.
func Default() *Config {
	return &Config{
		MaxDepth:           3,
		UserAgent:          "SEOCheckBot/1.0 (+https://example.com/bot)",
		ConcurrentRequests: 8,
		DownloadDelay:      500 * time.Millisecond,
		RespectRobotsTxt:   true,
		CrawlTimeout:       time.Hour,

		TitleMinLength:    30,
		TitleMaxLength:    60,
		MetaDescMinLength: 120,
		MetaDescMaxLength: 160,
		SlowPageThreshold: 3.0,
		MinWordCount:      250,
		TextRatioMin:      10.0,
		MaxPageSizeBytes:  2 * 1024 * 1024,

		CriticalThreshold: 5,
		WarningThreshold:  10,

		Penalties: Penalties{
			BrokenLink:     25,
			InvalidSSL:     20,
			InsecureHTTP:   10,
			MissingTitle:   20,
			MissingH1:      15,
			DuplicateTitle: 10,
			MissingMeta:    10,
			MissingAlt:     10,
			HugePage:       10,
		},

		OutputDir:    "reports",
		OutputFormat: "json",
	}
}

// Load builds a Config from defaults, an optional config file, and SEO_*
// environment variables, in increasing precedence. cfgFile may be empty, in
// which case seo-check.yaml is looked up in the working directory.
func Load(cfgFile string) (*Config, error) {
	// .env is optional; missing file is not an error.
	_ = godotenv.Load()

	v := viper.New()
	bindDefaults(v, Default())

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("seo-check")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix("SEO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings the analyzer cannot work with.
func (c *Config) Validate() error {
	if c.TitleMinLength <= 0 || c.TitleMaxLength < c.TitleMinLength {
		return fmt.Errorf("invalid title length bounds [%d, %d]", c.TitleMinLength, c.TitleMaxLength)
	}
	if c.MetaDescMinLength <= 0 || c.MetaDescMaxLength < c.MetaDescMinLength {
		return fmt.Errorf("invalid meta description bounds [%d, %d]", c.MetaDescMinLength, c.MetaDescMaxLength)
	}
	if c.CriticalThreshold <= 0 || c.WarningThreshold <= 0 {
		return fmt.Errorf("score thresholds must be positive")
	}
	if c.MaxPageSizeBytes <= 0 {
		return fmt.Errorf("max_page_size_bytes must be positive")
	}
	return nil
}

// RunDir returns the per-run output directory for a timestamped run.
func (c *Config) RunDir(timestamp string) string {
	return filepath.Join(c.OutputDir, timestamp)
}

func bindDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("max_depth", d.MaxDepth)
	v.SetDefault("user_agent", d.UserAgent)
	v.SetDefault("concurrent_requests", d.ConcurrentRequests)
	v.SetDefault("download_delay", d.DownloadDelay)
	v.SetDefault("respect_robots_txt", d.RespectRobotsTxt)
	v.SetDefault("crawl_timeout", d.CrawlTimeout)
	v.SetDefault("title_min_length", d.TitleMinLength)
	v.SetDefault("title_max_length", d.TitleMaxLength)
	v.SetDefault("meta_desc_min_length", d.MetaDescMinLength)
	v.SetDefault("meta_desc_max_length", d.MetaDescMaxLength)
	v.SetDefault("slow_page_threshold", d.SlowPageThreshold)
	v.SetDefault("min_word_count", d.MinWordCount)
	v.SetDefault("text_ratio_min", d.TextRatioMin)
	v.SetDefault("max_page_size_bytes", d.MaxPageSizeBytes)
	v.SetDefault("critical_threshold", d.CriticalThreshold)
	v.SetDefault("warning_threshold", d.WarningThreshold)
	v.SetDefault("penalties.broken_link", d.Penalties.BrokenLink)
	v.SetDefault("penalties.invalid_ssl", d.Penalties.InvalidSSL)
	v.SetDefault("penalties.insecure_http", d.Penalties.InsecureHTTP)
	v.SetDefault("penalties.missing_title", d.Penalties.MissingTitle)
	v.SetDefault("penalties.missing_h1", d.Penalties.MissingH1)
	v.SetDefault("penalties.duplicate_title", d.Penalties.DuplicateTitle)
	v.SetDefault("penalties.missing_meta", d.Penalties.MissingMeta)
	v.SetDefault("penalties.missing_alt", d.Penalties.MissingAlt)
	v.SetDefault("penalties.huge_page", d.Penalties.HugePage)
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("output_format", d.OutputFormat)
}
