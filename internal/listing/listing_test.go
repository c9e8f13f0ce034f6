package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LiteratureScanner/internal/domain"
	"LiteratureScanner/internal/vocabulary"
)

func fixture() []domain.Article {
	return []domain.Article{
		{ID: "a", Title: "Semaglutide in obesity", Journal: vocabulary.JournalNEJM, PubDate: "2024-03-01", Abstract: "weight loss"},
		{ID: "b", Title: "Statins", Journal: vocabulary.JournalLancet, PubDate: "2024-05-10", Abstract: "LDL and semaglutide"},
		{ID: "c", Title: "Vaccines", Journal: vocabulary.JournalJAMA, PubDate: "2024-05-10", Abstract: "immunity"},
		{ID: "d", Title: "Unmapped", Journal: "Some Other Journal", PubDate: "2024-06-01", Abstract: "semaglutide"},
	}
}

func ids(articles []domain.Article) []string {
	out := make([]string, 0, len(articles))
	for _, a := range articles {
		out = append(out, a.ID)
	}
	return out
}

func TestDefaultViewShowsTrackedJournalsNewestFirst(t *testing.T) {
	t.Parallel()

	got := FilterAndSort(fixture(), DefaultView())
	assert.Equal(t, []string{"b", "c", "a"}, ids(got))
}

func TestOldestFirstIsStable(t *testing.T) {
	t.Parallel()

	v := DefaultView()
	v.Sort = domain.SortOldest
	got := FilterAndSort(fixture(), v)
	assert.Equal(t, []string{"a", "b", "c"}, ids(got))
}

func TestQueryMatchesTitleOrAbstract(t *testing.T) {
	t.Parallel()

	v := DefaultView()
	v.Query = "  SEMAGLUTIDE "
	got := FilterAndSort(fixture(), v)
	assert.Equal(t, []string{"b", "a"}, ids(got))

	v.Query = "   "
	assert.Len(t, FilterAndSort(fixture(), v), 3)
}

func TestJournalSelection(t *testing.T) {
	t.Parallel()

	got := FilterAndSort(fixture(), View{Journals: []string{vocabulary.JournalJAMA}})
	assert.Equal(t, []string{"c"}, ids(got))

	assert.Empty(t, FilterAndSort(fixture(), View{}))
}

func TestFilterAndSortIsIdempotentAndPure(t *testing.T) {
	t.Parallel()

	in := fixture()
	v := DefaultView()
	v.Query = "s"

	once := FilterAndSort(in, v)
	twice := FilterAndSort(once, v)
	require.Equal(t, once, twice)
	assert.Equal(t, fixture(), in)
}
