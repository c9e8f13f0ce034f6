// Package render turns an article list into terminal, markdown, HTML or JSON output.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/yuin/goldmark"

	"LiteratureScanner/internal/domain"
)

// Output formats accepted by Write.
const (
	FormatTable    = "table"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

// Column limits for the terminal table, in display cells.
const (
	maxTitleWidth   = 60
	maxJournalWidth = 24
	maxAuthorsWidth = 32
	ellipsis        = "…"
)

// Write renders articles in the named format.
func Write(w io.Writer, format string, articles []domain.Article) error {
	switch strings.ToLower(format) {
	case "", FormatTable:
		return Table(w, articles)
	case FormatJSON:
		return JSON(w, articles)
	case FormatMarkdown, "md":
		_, err := io.WriteString(w, Markdown(articles))
		return err
	case FormatHTML:
		html, err := HTML(articles)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, html)
		return err
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// Table writes an aligned plain-text table. Cells are measured in display
// width so CJK and accented titles line up.
func Table(w io.Writer, articles []domain.Article) error {
	rows := [][]string{{"DATE", "JOURNAL", "TITLE", "AUTHORS", "TRIAL", "ID"}}
	for _, a := range articles {
		trial := ""
		if a.IsTrial {
			trial = "yes"
		}
		rows = append(rows, []string{
			a.PubDate,
			runewidth.Truncate(a.Journal, maxJournalWidth, ellipsis),
			runewidth.Truncate(a.Title, maxTitleWidth, ellipsis),
			runewidth.Truncate(strings.Join(a.Authors, ", "), maxAuthorsWidth, ellipsis),
			trial,
			a.ID,
		})
	}

	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if width := runewidth.StringWidth(cell); width > widths[i] {
				widths[i] = width
			}
		}
	}

	var sb strings.Builder
	for _, row := range rows {
		for i, cell := range row {
			if i == len(row)-1 {
				sb.WriteString(cell)
				continue
			}
			sb.WriteString(runewidth.FillRight(cell, widths[i]))
			sb.WriteString("  ")
		}
		sb.WriteString("\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// JSON writes the articles as an indented JSON array.
func JSON(w io.Writer, articles []domain.Article) error {
	if articles == nil {
		articles = []domain.Article{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(articles)
}

// Markdown renders a digest with one section per article and its synopsis
// when one is cached.
func Markdown(articles []domain.Article) string {
	var sb strings.Builder
	sb.WriteString("# Literature digest\n\n")
	if len(articles) == 0 {
		sb.WriteString("No articles.\n")
		return sb.String()
	}

	for _, a := range articles {
		fmt.Fprintf(&sb, "## %s\n\n", a.Title)
		fmt.Fprintf(&sb, "*%s*, %s", a.Journal, a.PubDate)
		if a.IsTrial {
			sb.WriteString(" · trial")
		}
		sb.WriteString("\n\n")
		fmt.Fprintf(&sb, "%s\n\n", strings.Join(a.Authors, ", "))
		fmt.Fprintf(&sb, "<%s>\n\n", a.DOILink)
		fmt.Fprintf(&sb, "%s\n\n", a.Abstract)
		if s := a.CachedSummary; s != nil {
			fmt.Fprintf(&sb, "- **Research design:** %s\n", s.ResearchDesign)
			fmt.Fprintf(&sb, "- **Study population:** %s\n", s.StudyPopulation)
			fmt.Fprintf(&sb, "- **Interventions:** %s\n", s.Interventions)
			fmt.Fprintf(&sb, "- **Endpoints:** %s\n", s.Endpoints)
			fmt.Fprintf(&sb, "- **Results:** %s\n\n", s.Results)
		}
	}
	return sb.String()
}

// HTML converts the markdown digest to an HTML fragment.
func HTML(articles []domain.Article) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(Markdown(articles)), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return buf.String(), nil
}
