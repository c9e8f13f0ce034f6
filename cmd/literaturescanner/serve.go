package main

import (
	"github.com/spf13/cobra"

	"LiteratureScanner/internal/app"
)

var serveAddr string

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API and refresh the article set periodically",
	Long: `Serve the JSON API used by the presentation layer:

  GET  /api/articles?journal=..&q=..&sort=newest|oldest
  GET  /api/articles/{id}
  POST /api/articles/{id}/summary
  POST /api/refresh   {"days":30,"publicationTypes":["Review"]}
  GET  /api/vocabulary
  GET  /api/digest?format=html|markdown
  GET  /metrics`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	application, err := app.New(cmd.Context(), cfg, nil)
	if err != nil {
		return err
	}
	defer application.Close()

	return application.Serve(cmd.Context())
}
