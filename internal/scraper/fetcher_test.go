package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/briefwright/orchestrator/internal/models"
)

const samplePage = `<!DOCTYPE html>
<html>
<head><title>Acme Capital - Private Markets</title>
<script>console.log("tracking")</script>
<style>body { color: red }</style>
</head>
<body>
<nav><a href="/">Home</a></nav>
<main>
<h1>Private Markets</h1>
<p>Acme Capital manages $3B across growth funds.</p>
<ul><li>Growth equity</li><li>Venture capital</li></ul>
</main>
<footer>Copyright Acme</footer>
</body>
</html>`

func TestFetchExtractsLineStructuredText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(samplePage))
	}))
	defer srv.Close()
	host := mustHost(t, srv.URL)

	f := NewFetcher(srv.Client())
	page, err := f.Fetch(context.Background(), srv.URL, models.ResearchBrief{
		AllowedDomains: []string{host},
	})
	require.NoError(t, err)

	assert.Equal(t, "Acme Capital - Private Markets", page.Title)
	assert.Equal(t, "Private Markets\nAcme Capital manages $3B across growth funds.\nGrowth equity\nVenture capital", page.Text)
	assert.NotContains(t, page.Text, "tracking")
	assert.NotContains(t, page.Text, "Copyright")
	assert.NotContains(t, page.Text, "Home")
}

func TestFetchAllowsSeedHostFromMinimalBrief(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	// A brief carrying only seed URLs gets its allowed domains derived, so
	// the seed URLs themselves are always fetchable.
	state := models.NewResearchState("run-1", models.ResearchBrief{
		CompanyName: "Acme Capital",
		SeedURLs:    []string{srv.URL},
	})
	f := NewFetcher(srv.Client())
	page, err := f.Fetch(context.Background(), srv.URL, state.Brief)
	require.NoError(t, err)
	assert.Equal(t, srv.URL, page.URL)
	assert.Equal(t, "Acme Capital - Private Markets", page.Title)
}

func TestFetchRejectsDisallowedDomain(t *testing.T) {
	f := NewFetcher(nil)
	_, err := f.Fetch(context.Background(), "https://evil.example/page", models.ResearchBrief{
		AllowedDomains: []string{"acme.example"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not in allowed domains")
}

func TestFetchNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()
	host := mustHost(t, srv.URL)

	f := NewFetcher(srv.Client())
	_, err := f.Fetch(context.Background(), srv.URL, models.ResearchBrief{
		AllowedDomains: []string{host},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestValidateURL(t *testing.T) {
	allowed := []string{"acme.example", "news.acme.example"}
	assert.NoError(t, ValidateURL("https://acme.example/team", allowed))
	assert.NoError(t, ValidateURL("https://news.acme.example/2025", allowed))
	assert.Error(t, ValidateURL("https://other.example/", allowed))
	assert.Error(t, ValidateURL("://bad url", allowed))
}

func mustHost(t *testing.T, rawURL string) string {
	t.Helper()
	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	return u.Host
}
