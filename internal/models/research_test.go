package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfidenceValid(t *testing.T) {
	assert.True(t, ConfidenceHigh.Valid())
	assert.True(t, ConfidenceMedium.Valid())
	assert.True(t, ConfidenceLow.Valid())
	assert.False(t, Confidence("").Valid())
	assert.False(t, Confidence("very sure").Valid())
}

func TestDeriveAllowedDomains(t *testing.T) {
	got := DeriveAllowedDomains([]string{
		"https://acme.example/team",
		"https://news.acme.example/2025",
		"https://acme.example/portfolio",
		"not a url",
	})
	assert.Equal(t, []string{"acme.example", "news.acme.example"}, got)
}

func TestNewResearchStateDerivesAllowedDomains(t *testing.T) {
	s := NewResearchState("run-1", ResearchBrief{
		CompanyName: "Acme Capital",
		SeedURLs:    []string{"https://acme.example/private-markets"},
	})
	assert.Equal(t, []string{"acme.example"}, s.Brief.AllowedDomains)
}

func TestNewResearchStateKeepsExplicitDomains(t *testing.T) {
	s := NewResearchState("run-1", ResearchBrief{
		SeedURLs:       []string{"https://acme.example/a"},
		AllowedDomains: []string{"other.example"},
	})
	assert.Equal(t, []string{"other.example"}, s.Brief.AllowedDomains)
}

func TestNewResearchStateStartsBeforeRefinement(t *testing.T) {
	s := NewResearchState("run-1", ResearchBrief{CompanyName: "Acme Capital"})
	assert.Equal(t, "run-1", s.RunID)
	assert.Equal(t, RefinementNotStarted, s.RefinementPhase)
	assert.NotNil(t, s.Pages)
	assert.NotNil(t, s.Notes)
	assert.NotNil(t, s.SubAgentResults)
}

func TestPageListFollowsSeedOrder(t *testing.T) {
	s := NewResearchState("run-1", ResearchBrief{
		SeedURLs: []string{"https://acme.example/b", "https://acme.example/a"},
	})
	s.Pages["https://acme.example/a"] = EvidencePage{URL: "https://acme.example/a"}
	s.Pages["https://acme.example/b"] = EvidencePage{URL: "https://acme.example/b"}
	s.Pages["https://acme.example/z"] = EvidencePage{URL: "https://acme.example/z"}
	s.Pages["https://acme.example/c"] = EvidencePage{URL: "https://acme.example/c"}

	got := s.PageList()
	require.Len(t, got, 4)
	// Seed order first, then remaining URLs sorted.
	assert.Equal(t, "https://acme.example/b", got[0].URL)
	assert.Equal(t, "https://acme.example/a", got[1].URL)
	assert.Equal(t, "https://acme.example/c", got[2].URL)
	assert.Equal(t, "https://acme.example/z", got[3].URL)
}

func TestPageListSkipsUnfetchedSeeds(t *testing.T) {
	s := NewResearchState("run-1", ResearchBrief{
		SeedURLs: []string{"https://acme.example/missing", "https://acme.example/a"},
	})
	s.Pages["https://acme.example/a"] = EvidencePage{URL: "https://acme.example/a"}

	got := s.PageList()
	require.Len(t, got, 1)
	assert.Equal(t, "https://acme.example/a", got[0].URL)
}
