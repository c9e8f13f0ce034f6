package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LiteratureScanner/internal/config"
	"LiteratureScanner/internal/domain"
	"LiteratureScanner/internal/logging"
)

const articleSet = `<PubmedArticleSet>
  <PubmedArticle>
    <MedlineCitation>
      <PMID>40000001</PMID>
      <Article>
        <Journal>
          <JournalIssue><PubDate><Year>2025</Year><Month>02</Month><Day>14</Day></PubDate></JournalIssue>
          <Title>JAMA</Title>
        </Journal>
        <ArticleTitle>Aspirin for Primary Prevention.</ArticleTitle>
        <Abstract><AbstractText>Aspirin did not reduce events.</AbstractText></Abstract>
        <PublicationTypeList><PublicationType>Randomized Controlled Trial</PublicationType></PublicationTypeList>
      </Article>
    </MedlineCitation>
  </PubmedArticle>
</PubmedArticleSet>`

func fakeEutils(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/esearch.fcgi"):
			_, _ = w.Write([]byte(`{"esearchresult":{"idlist":["40000001"]}}`))
		case strings.HasSuffix(r.URL.Path, "/efetch.fcgi"):
			_, _ = w.Write([]byte(articleSet))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func fakeInference(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(domain.AISummary{
			ResearchDesign:  "RCT",
			StudyPopulation: "Older adults",
			Interventions:   "Aspirin 100 mg",
			Endpoints:       "Cardiovascular events",
			Results:         "No reduction",
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.LoadFrom("")
	cfg.PubMed.BaseURL = fakeEutils(t).URL
	cfg.PubMed.RateLimit = 1000
	cfg.Summarizer.Provider = config.ProviderHTTP
	cfg.Summarizer.Endpoint = fakeInference(t).URL
	cfg.Database.DSN = ""
	return cfg
}

func TestApplicationRefreshAndSummarize(t *testing.T) {
	ctx := context.Background()
	application, err := New(ctx, testConfig(t), logging.NewTo(&strings.Builder{}, "error"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.Close() })

	result, applied := application.Session().Refresh(ctx, application.DefaultFetchRequest())
	require.True(t, applied)
	require.True(t, result.OK())
	assert.Contains(t, result.Term, `"last 30 days"[dp]`)
	require.Len(t, result.Articles, 1)
	assert.Equal(t, "JAMA", result.Articles[0].Journal)
	assert.True(t, result.Articles[0].IsTrial)

	summary, err := application.Session().RequestSummary(ctx, "40000001")
	require.NoError(t, err)
	assert.Equal(t, "No reduction", summary.Results)

	_, err = application.Session().RequestSummary(ctx, "40000001")
	assert.ErrorIs(t, err, domain.ErrSummaryExists)
}

func TestApplicationWithoutSummarizer(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.Summarizer = config.SummarizerConfig{Provider: config.ProviderOpenAI}

	application, err := New(ctx, cfg, logging.NewTo(&strings.Builder{}, "error"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.Close() })

	application.Session().Refresh(ctx, application.DefaultFetchRequest())
	_, err = application.Session().RequestSummary(ctx, "40000001")
	assert.ErrorIs(t, err, domain.ErrSummarizerUnavailable)
}

func TestApplicationRepeatedScannerKeepsIDsUnique(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.Fetch.Scanners = []string{"pubmed", "pubmed"}

	application, err := New(ctx, cfg, logging.NewTo(&strings.Builder{}, "error"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.Close() })

	result, applied := application.Session().Refresh(ctx, application.DefaultFetchRequest())
	require.True(t, applied)
	require.True(t, result.OK(), "refresh error: %v", result.Err)
	require.Len(t, result.Articles, 1)

	articles, err := application.Session().Articles(ctx)
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "40000001", articles[0].ID)
}
