package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"LiteratureScanner/internal/app"
	"LiteratureScanner/internal/domain"
	"LiteratureScanner/internal/listing"
	"LiteratureScanner/internal/logging"
	"LiteratureScanner/internal/render"
	"LiteratureScanner/internal/usecase"
	"LiteratureScanner/internal/vocabulary"
)

var (
	fetchDays     int
	fetchTypes    []string
	fetchJournals []string
	fetchQuery    string
	fetchSort     string
	fetchFormat   string
)

func init() {
	fetchCmd.Flags().IntVar(&fetchDays, "days", 0, "Publication window in days (default from config)")
	fetchCmd.Flags().StringArrayVarP(&fetchTypes, "type", "t", nil, "Publication type (repeatable; default all)")
	fetchCmd.Flags().StringArrayVarP(&fetchJournals, "journal", "j", nil, "Journal to show (repeatable; default all)")
	fetchCmd.Flags().StringVarP(&fetchQuery, "query", "q", "", "Case-insensitive text to match in title or abstract")
	fetchCmd.Flags().StringVar(&fetchSort, "sort", string(domain.SortNewest), "Sort by date: newest or oldest")
	fetchCmd.Flags().StringVarP(&fetchFormat, "format", "f", render.FormatTable, "Output format: table, json, markdown or html")
	rootCmd.AddCommand(fetchCmd)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch recent articles and print them",
	Long: `Fetch recent articles from the tracked journals and print them.

Examples:
  literaturescanner fetch --days 7
  literaturescanner fetch -t "Randomized Controlled Trial" -t Meta-Analysis
  literaturescanner fetch -j JAMA -j "The Lancet" -q semaglutide --sort oldest
  literaturescanner fetch --format html > digest.html`,
	Args: cobra.NoArgs,
	RunE: runFetch,
}

func runFetch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	application, err := app.New(ctx, cfg, logging.NewTo(os.Stderr, cfg.Logging.Level))
	if err != nil {
		return err
	}
	defer application.Close()

	result := application.Pipeline().Fetch(ctx, fetchRequest(application, fetchDays, fetchTypes))
	if !result.OK() {
		fmt.Fprintf(os.Stderr, "warning: %v\n", result.Err)
	}

	articles := listing.FilterAndSort(result.Articles, buildView(fetchJournals, fetchQuery, fetchSort))
	return render.Write(os.Stdout, fetchFormat, articles)
}

func fetchRequest(application *app.Application, days int, types []string) usecase.FetchRequest {
	req := application.DefaultFetchRequest()
	if days > 0 {
		req.Days = days
	}
	if len(types) > 0 {
		req.PublicationTypes = types
	}
	return req
}

func buildView(journals []string, query, sort string) listing.View {
	v := listing.DefaultView()
	if len(journals) > 0 {
		v.Journals = make([]string, 0, len(journals))
		for _, j := range journals {
			v.Journals = append(v.Journals, vocabulary.ReconcileJournal(j))
		}
	}
	v.Query = query
	v.Sort = domain.ParseSortDirection(sort)
	return v
}
