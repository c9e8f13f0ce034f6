package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"LiteratureScanner/internal/app"
	"LiteratureScanner/internal/domain"
	"LiteratureScanner/internal/logging"
	"LiteratureScanner/internal/render"
)

var (
	summarizeDays   int
	summarizeTypes  []string
	summarizeFormat string
)

func init() {
	summarizeCmd.Flags().IntVar(&summarizeDays, "days", 0, "Publication window in days to look the article up in (default from config)")
	summarizeCmd.Flags().StringArrayVarP(&summarizeTypes, "type", "t", nil, "Publication type (repeatable; default all)")
	summarizeCmd.Flags().StringVarP(&summarizeFormat, "format", "f", render.FormatMarkdown, "Output format: json or markdown")
	rootCmd.AddCommand(summarizeCmd)
}

var summarizeCmd = &cobra.Command{
	Use:   "summarize <pmid>",
	Short: "Summarize one recent article into a clinical synopsis",
	Long: `Fetch the configured window, find the article by PMID and ask the
configured summarizer for its research design, study population,
interventions, endpoints and results.

Examples:
  literaturescanner summarize 38000001
  literaturescanner summarize 38000001 --days 90 --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runSummarize,
}

func runSummarize(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	application, err := app.New(ctx, cfg, logging.NewTo(os.Stderr, cfg.Logging.Level))
	if err != nil {
		return err
	}
	defer application.Close()

	session := application.Session()
	result, _ := session.Refresh(ctx, fetchRequest(application, summarizeDays, summarizeTypes))
	if !result.OK() {
		return result.Err
	}

	summary, err := session.RequestSummary(ctx, args[0])
	if err != nil {
		return err
	}
	article, err := session.Article(ctx, args[0])
	if err != nil {
		return err
	}
	article.CachedSummary = &summary

	switch summarizeFormat {
	case render.FormatJSON:
		return render.JSON(os.Stdout, []domain.Article{article})
	case render.FormatMarkdown, "md":
		_, err := fmt.Fprint(os.Stdout, render.Markdown([]domain.Article{article}))
		return err
	default:
		return fmt.Errorf("unknown format %q", summarizeFormat)
	}
}
