// Package cmd implements the seo-check command-line interface.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/seo-check/seo-check/config"
	"github.com/seo-check/seo-check/logging"
)

var (
	cfgFile  string
	logLevel string

	rootCmd = &cobra.Command{
		Use:   "seo-check",
		Short: "Crawl a site and grade its on-page SEO",
		Long: `seo-check crawls a website, runs a battery of on-page SEO checks
(titles, headings, meta descriptions, links, security, performance and
structured data) and produces a scored report.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./seo-check.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
}

// setup loads configuration and builds the logger shared by all commands.
func setup() (*config.Config, *logging.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logging.New(logLevel), nil
}
