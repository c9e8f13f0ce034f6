package normalize

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"LiteratureScanner/internal/domain"
	"LiteratureScanner/internal/vocabulary"
)

const (
	doiResolverURL = "https://doi.org/"
	pubmedSiteURL  = "https://pubmed.ncbi.nlm.nih.gov/"
)

// Normalizer converts records into articles. Every field has a fallback, so
// normalization of a single record never fails.
type Normalizer struct {
	Now   func() time.Time
	NewID func() string
}

// New returns a normalizer using the wall clock and random UUIDs.
func New() *Normalizer {
	return &Normalizer{
		Now:   time.Now,
		NewID: func() string { return uuid.New().String() },
	}
}

// Articles normalizes a batch, keeping input order and guaranteeing unique IDs.
func (n *Normalizer) Articles(records []Record) []domain.Article {
	articles := make([]domain.Article, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		article := n.Article(rec)
		if _, dup := seen[article.ID]; dup {
			article.ID = n.freshID(seen)
		}
		seen[article.ID] = struct{}{}
		articles = append(articles, article)
	}
	return articles
}

// Article normalizes a single record.
func (n *Normalizer) Article(rec Record) domain.Article {
	id := strings.TrimSpace(deref(rec.PMID))
	if id == "" {
		id = n.newID()
	}

	return domain.Article{
		ID:       id,
		Title:    Title(rec),
		Journal:  Journal(rec),
		Authors:  Authors(rec.Authors),
		PubDate:  PubDate(rec.PubYear, rec.PubMonth, rec.PubDay, n.now()),
		Abstract: Abstract(rec.AbstractSegments),
		DOILink:  Link(rec),
		IsTrial:  vocabulary.IsTrialPublicationType(rec.PublicationTypes),
	}
}

// Title returns the first non-empty title field, or the sentinel.
func Title(rec Record) string {
	for _, candidate := range []*string{rec.Title, rec.VernacularTitle} {
		if t := strings.TrimSpace(deref(candidate)); t != "" {
			return t
		}
	}
	return domain.UntitledTitle
}

// Abstract joins labeled segments into paragraphs. A single segment is kept
// verbatim, without its label.
func Abstract(segments []Segment) string {
	switch len(segments) {
	case 0:
		return domain.NoAbstract
	case 1:
		return segments[0].Text
	}

	paragraphs := make([]string, 0, len(segments))
	for _, seg := range segments {
		label := strings.TrimSpace(deref(seg.Label))
		if label == "" {
			paragraphs = append(paragraphs, seg.Text)
			continue
		}
		paragraphs = append(paragraphs, strings.ToUpper(label)+": "+seg.Text)
	}
	return strings.Join(paragraphs, "\n\n")
}

// Authors renders "Last Initials" entries, keeps the first three and marks the
// rest with "et al.".
func Authors(authors []Author) []string {
	if len(authors) == 0 {
		return []string{domain.UnknownAuthors}
	}

	rendered := make([]string, 0, domain.MaxDisplayAuthors+1)
	for _, a := range authors {
		if len(rendered) == domain.MaxDisplayAuthors {
			break
		}
		rendered = append(rendered, renderAuthor(a))
	}
	if len(authors) > domain.MaxDisplayAuthors {
		rendered = append(rendered, domain.EtAl)
	}
	return rendered
}

func renderAuthor(a Author) string {
	if a.LastName == nil && a.Initials == nil && a.CollectiveName != nil {
		return strings.TrimSpace(*a.CollectiveName)
	}
	return deref(a.LastName) + " " + deref(a.Initials)
}

// Journal reconciles the raw journal title, keeping unknown titles as-is.
func Journal(rec Record) string {
	return vocabulary.ReconcileJournal(deref(rec.JournalTitle))
}

// PubDate builds YYYY-MM-DD from independently optional parts. Numeric month and
// day values are zero-padded; textual months pass through unchanged.
func PubDate(year, month, day *string, now time.Time) string {
	y := strings.TrimSpace(deref(year))
	if y == "" {
		y = strconv.Itoa(now.Year())
	}
	return y + "-" + padPart(month) + "-" + padPart(day)
}

func padPart(part *string) string {
	v := strings.TrimSpace(deref(part))
	if v == "" {
		return domain.DefaultMonthOrDay
	}
	if n, err := strconv.Atoi(v); err == nil && len(v) == 1 {
		return "0" + strconv.Itoa(n)
	}
	return v
}

// Link prefers a DOI resolver URL and falls back to the PubMed page.
func Link(rec Record) string {
	if doi := strings.TrimSpace(deref(rec.DOI)); doi != "" {
		return doiResolverURL + doi
	}
	pmid := strings.TrimSpace(deref(rec.PMID))
	if pmid == "" {
		return pubmedSiteURL
	}
	return pubmedSiteURL + pmid + "/"
}

func (n *Normalizer) now() time.Time {
	if n.Now == nil {
		return time.Now()
	}
	return n.Now()
}

func (n *Normalizer) newID() string {
	if n.NewID == nil {
		return uuid.New().String()
	}
	return n.NewID()
}

func (n *Normalizer) freshID(seen map[string]struct{}) string {
	base := n.newID()
	id := base
	for i := 2; ; i++ {
		if _, dup := seen[id]; !dup {
			return id
		}
		id = base + "-" + strconv.Itoa(i)
	}
}
