package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/briefwright/orchestrator/internal/models"
)

func TestKeywordsForQuestion(t *testing.T) {
	kws := KeywordsForQuestion("Identify the leadership team of the firm")
	assert.Contains(t, kws, "partner")
	assert.Contains(t, kws, "director")

	// A question spanning two categories merges keywords without duplicates.
	kws = KeywordsForQuestion("Summarize recent news about the portfolio")
	assert.Contains(t, kws, "announcement")
	assert.Contains(t, kws, "investment")
	seen := map[string]int{}
	for _, kw := range kws {
		seen[kw]++
		assert.Equal(t, 1, seen[kw], "keyword %q duplicated", kw)
	}

	assert.Empty(t, KeywordsForQuestion("completely unrelated question"))
}

func TestScoreTitleBonusDominatesBodyHits(t *testing.T) {
	keywords := []string{"portfolio"}
	titled := models.EvidencePage{
		Title: "Our Portfolio",
		Text:  "an overview page with no keyword density to speak of",
	}
	body := models.EvidencePage{
		Title: "About",
		Text: "portfolio mentioned exactly once inside a fairly long body of surrounding text " +
			"that goes on at some length about the history of the organization, its many " +
			"offices around the world, the awards it has collected over the decades, and " +
			"various other matters that have nothing to do with the question being asked " +
			"so the single occurrence carries very little weight after normalization",
	}
	assert.Greater(t, Score(titled, keywords), Score(body, keywords))
}

func TestScoreNormalizesByBodyLength(t *testing.T) {
	keywords := []string{"fund"}
	dense := models.EvidencePage{Text: "fund fund fund"}
	diluted := models.EvidencePage{
		Text: "fund fund fund padded with a large amount of unrelated text that dilutes the density of the term considerably",
	}
	assert.Greater(t, Score(dense, keywords), Score(diluted, keywords))
}

func TestRankPagesOrdersByRelevance(t *testing.T) {
	pages := []models.EvidencePage{
		{URL: "a", Title: "About us", Text: "general information"},
		{URL: "b", Title: "Portfolio companies", Text: "portfolio investment holding"},
		{URL: "c", Title: "Careers", Text: "join the team"},
	}
	ranked := RankPages("Summarize the portfolio of companies invested in", pages)
	require.Len(t, ranked, 3)
	assert.Equal(t, "b", ranked[0].URL)
}

func TestRankPagesTiesKeepInputOrder(t *testing.T) {
	pages := []models.EvidencePage{
		{URL: "first", Title: "Page", Text: "identical text"},
		{URL: "second", Title: "Page", Text: "identical text"},
	}
	ranked := RankPages("Summarize the portfolio", pages)
	require.Len(t, ranked, 2)
	assert.Equal(t, "first", ranked[0].URL)
	assert.Equal(t, "second", ranked[1].URL)
}

func TestRankPagesNoKeywordsIsNoOp(t *testing.T) {
	pages := []models.EvidencePage{
		{URL: "x"},
		{URL: "y"},
		{URL: "z"},
	}
	ranked := RankPages("an unclassifiable question", pages)
	require.Len(t, ranked, 3)
	assert.Equal(t, "x", ranked[0].URL)
	assert.Equal(t, "y", ranked[1].URL)
	assert.Equal(t, "z", ranked[2].URL)
}
