package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LiteratureScanner/internal/domain"
	"LiteratureScanner/internal/vocabulary"
)

func fixedNormalizer() *Normalizer {
	counter := 0
	return &Normalizer{
		Now: func() time.Time { return time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC) },
		NewID: func() string {
			counter++
			return "generated-" + string(rune('0'+counter))
		},
	}
}

func author(last, initials string) Author {
	return Author{LastName: Str(last), Initials: Str(initials)}
}

func TestAbstractSegments(t *testing.T) {
	t.Parallel()

	assert.Equal(t, domain.NoAbstract, Abstract(nil))

	single := []Segment{{Label: Str("BACKGROUND"), Text: "Only one paragraph."}}
	assert.Equal(t, "Only one paragraph.", Abstract(single))

	multi := []Segment{
		{Label: Str("Background"), Text: "Why."},
		{Text: "Unlabeled."},
		{Label: Str("results"), Text: "What."},
	}
	assert.Equal(t, "BACKGROUND: Why.\n\nUnlabeled.\n\nRESULTS: What.", Abstract(multi))
}

func TestAuthorsTruncation(t *testing.T) {
	t.Parallel()

	five := []Author{
		author("Smith", "J"), author("Doe", "A"), author("Lee", "K"),
		author("Chen", "W"), author("Park", "S"),
	}
	assert.Equal(t, []string{"Smith J", "Doe A", "Lee K", domain.EtAl}, Authors(five))

	two := []Author{author("Smith", "J"), author("Doe", "A")}
	assert.Equal(t, []string{"Smith J", "Doe A"}, Authors(two))

	assert.Equal(t, []string{domain.UnknownAuthors}, Authors(nil))

	three := []Author{author("A", "B"), author("C", "D"), author("E", "F")}
	assert.Len(t, Authors(three), 3)
}

func TestAuthorsMissingParts(t *testing.T) {
	t.Parallel()

	got := Authors([]Author{
		{LastName: Str("Solo")},
		{Initials: Str("JQ")},
		{CollectiveName: Str("RECOVERY Collaborative Group")},
	})
	assert.Equal(t, []string{"Solo ", " JQ", "RECOVERY Collaborative Group"}, got)
}

func TestPubDatePadding(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "2024-03-07", PubDate(Str("2024"), Str("3"), Str("7"), now))
	assert.Equal(t, "2024-01-01", PubDate(Str("2024"), nil, nil, now))
	assert.Equal(t, "2025-01-01", PubDate(nil, nil, nil, now))
	assert.Equal(t, "2025-11-01", PubDate(nil, Str("11"), nil, now))
	assert.Equal(t, "2024-12-25", PubDate(Str("2024"), Str("12"), Str("25"), now))
	assert.Equal(t, "2024-Mar-05", PubDate(Str("2024"), Str("Mar"), Str("5"), now))
}

func TestLink(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://doi.org/10.1056/NEJMoa2400001",
		Link(Record{PMID: Str("39000001"), DOI: Str("10.1056/NEJMoa2400001")}))
	assert.Equal(t, "https://pubmed.ncbi.nlm.nih.gov/39000001/",
		Link(Record{PMID: Str("39000001")}))
}

func TestArticleFallbacks(t *testing.T) {
	t.Parallel()

	n := fixedNormalizer()
	article := n.Article(Record{})

	assert.Equal(t, "generated-1", article.ID)
	assert.Equal(t, domain.UntitledTitle, article.Title)
	assert.Equal(t, "", article.Journal)
	assert.Equal(t, []string{domain.UnknownAuthors}, article.Authors)
	assert.Equal(t, "2025-01-01", article.PubDate)
	assert.Equal(t, domain.NoAbstract, article.Abstract)
	assert.Equal(t, "https://pubmed.ncbi.nlm.nih.gov/", article.DOILink)
	assert.False(t, article.IsTrial)
	assert.Nil(t, article.CachedSummary)
}

func TestArticleFullRecord(t *testing.T) {
	t.Parallel()

	n := fixedNormalizer()
	article := n.Article(Record{
		PMID:             Str("39000001"),
		Title:            Str("  Semaglutide in Heart Failure  "),
		AbstractSegments: []Segment{{Text: "Plain abstract."}},
		Authors:          []Author{author("Kosiborod", "MN")},
		JournalTitle:     Str("The New England journal of medicine"),
		PubYear:          Str("2024"),
		PubMonth:         Str("9"),
		PubDay:           Str("12"),
		DOI:              Str("10.1056/NEJMoa2306963"),
		PublicationTypes: []string{"Journal Article", "Randomized Controlled Trial"},
	})

	assert.Equal(t, "39000001", article.ID)
	assert.Equal(t, "Semaglutide in Heart Failure", article.Title)
	assert.Equal(t, vocabulary.JournalNEJM, article.Journal)
	assert.Equal(t, []string{"Kosiborod MN"}, article.Authors)
	assert.Equal(t, "2024-09-12", article.PubDate)
	assert.Equal(t, "Plain abstract.", article.Abstract)
	assert.Equal(t, "https://doi.org/10.1056/NEJMoa2306963", article.DOILink)
	assert.True(t, article.IsTrial)
}

func TestArticlesUniqueIDs(t *testing.T) {
	t.Parallel()

	n := fixedNormalizer()
	articles := n.Articles([]Record{
		{PMID: Str("1"), JournalTitle: Str("Some Obscure Journal"), PublicationTypes: []string{"Case Report"}},
		{PMID: Str("1")},
		{},
	})

	require.Len(t, articles, 3)
	assert.Equal(t, "1", articles[0].ID)
	assert.Equal(t, "Some Obscure Journal", articles[0].Journal)
	assert.False(t, articles[0].IsTrial)

	ids := map[string]struct{}{}
	for _, a := range articles {
		ids[a.ID] = struct{}{}
	}
	assert.Len(t, ids, 3)
}

func TestArticlesEmpty(t *testing.T) {
	t.Parallel()

	articles := New().Articles(nil)
	assert.NotNil(t, articles)
	assert.Empty(t, articles)
}
