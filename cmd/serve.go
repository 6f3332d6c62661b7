package cmd

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/seo-check/seo-check/report"
	"github.com/seo-check/seo-check/server"
)

var (
	servePort string

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the analysis HTTP API",
		Long: `Start the HTTP API. Analysis is asynchronous: POST /api/analyze
returns a run ID, GET /api/status/:id reports progress and
GET /api/reports/:id serves the finished report.`,
		RunE: runServe,
	}
)

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "port to listen on (default $PORT or 8082)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	if mode := os.Getenv("GIN_MODE"); mode != "" {
		gin.SetMode(mode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := report.NewStore(cfg.OutputDir)
	if err != nil {
		return err
	}
	defer store.Close()

	port := servePort
	if port == "" {
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = "8082"
	}

	log.Info("server starting", "addr", "http://localhost:"+port)
	return server.New(cfg, log, store).Run(":" + port)
}
