package ranking

import (
	"sort"
	"strings"

	"github.com/briefwright/orchestrator/internal/models"
)

// titleMatchBonus is added to a page's score for each keyword found in its
// title; title hits are a much stronger relevance signal than body hits.
const titleMatchBonus = 5.0

// questionKeywords maps question-category trigger words to the keywords used
// for scoring. A question can activate several categories.
var questionKeywords = []struct {
	triggers []string
	keywords []string
}{
	{
		triggers: []string{"news", "announcement", "recent"},
		keywords: []string{"news", "announcement", "press", "2024", "2025", "launch"},
	},
	{
		triggers: []string{"decision maker", "leadership", "team", "people", "executive"},
		keywords: []string{"partner", "director", "managing", "head", "chief", "leadership", "team"},
	},
	{
		triggers: []string{"portfolio", "invested", "companies", "firms"},
		keywords: []string{"portfolio", "investment", "company", "holding", "exit"},
	},
	{
		triggers: []string{"aum", "assets", "metrics", "management"},
		keywords: []string{"aum", "assets", "billion", "million", "capital", "management"},
	},
	{
		triggers: []string{"strategy", "strategies", "fund", "program"},
		keywords: []string{"fund", "strategy", "program", "focus", "stage"},
	},
	{
		triggers: []string{"region", "sector", "geographic", "active"},
		keywords: []string{"region", "sector", "europe", "america", "asia", "global"},
	},
}

// KeywordsForQuestion derives scoring keywords from the question text. An
// empty result means the question fits no category and ranking is a no-op.
func KeywordsForQuestion(question string) []string {
	q := strings.ToLower(question)

	var out []string
	seen := make(map[string]bool)
	for _, cat := range questionKeywords {
		for _, trig := range cat.triggers {
			if strings.Contains(q, trig) {
				for _, kw := range cat.keywords {
					if !seen[kw] {
						seen[kw] = true
						out = append(out, kw)
					}
				}
				break
			}
		}
	}
	return out
}

// Score computes a page's relevance against the keyword set: a fixed bonus
// per keyword found in the title, plus the keyword's occurrence count in the
// body normalized by body length so long pages don't dominate.
func Score(page models.EvidencePage, keywords []string) float64 {
	if len(keywords) == 0 {
		return 0
	}
	title := strings.ToLower(page.Title)
	body := strings.ToLower(page.Text)
	bodyLen := float64(len(body))

	var score float64
	for _, kw := range keywords {
		if strings.Contains(title, kw) {
			score += titleMatchBonus
		}
		if bodyLen > 0 {
			score += float64(strings.Count(body, kw)) * 1000.0 / bodyLen
		}
	}
	return score
}

// RankPages orders pages by descending relevance to the question so limited
// context budget favors relevant material. Ties keep the original order; if
// the question fits no category the input order is preserved.
func RankPages(question string, pages []models.EvidencePage) []models.EvidencePage {
	keywords := KeywordsForQuestion(question)
	if len(keywords) == 0 {
		return pages
	}

	type scored struct {
		page  models.EvidencePage
		score float64
	}
	entries := make([]scored, len(pages))
	for i, p := range pages {
		entries[i] = scored{page: p, score: Score(p, keywords)}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].score > entries[j].score
	})

	ranked := make([]models.EvidencePage, len(entries))
	for i, e := range entries {
		ranked[i] = e.page
	}
	return ranked
}
