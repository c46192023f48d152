package extraction

import (
	"fmt"
	"strings"

	"github.com/briefwright/orchestrator/internal/models"
)

// DefaultMaxSnippetsPerPattern bounds the assembled output per pattern.
const DefaultMaxSnippetsPerPattern = 20

// SearchSnippet is one matched span with its surrounding context lines,
// tagged with the pattern that found it.
type SearchSnippet struct {
	Source        string
	MatchText     string
	ContextBefore string
	ContextAfter  string
	PatternName   string
}

// Engine scans stored evidence text with the pattern registry to build a
// focused context block for refinement tasks.
type Engine struct {
	maxSnippetsPerPattern int
}

// NewEngine returns an engine with the given per-pattern snippet budget;
// values <= 0 fall back to the default.
func NewEngine(maxSnippetsPerPattern int) *Engine {
	if maxSnippetsPerPattern <= 0 {
		maxSnippetsPerPattern = DefaultMaxSnippetsPerPattern
	}
	return &Engine{maxSnippetsPerPattern: maxSnippetsPerPattern}
}

// ClassifyGap maps the gap description and question text to gap categories
// using the keyword table. Order follows the table; a category appears at
// most once.
func ClassifyGap(gapDescription, question string) []GapCategory {
	gap := strings.ToLower(gapDescription)
	q := strings.ToLower(question)

	var cats []GapCategory
	for _, entry := range categoryKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(gap, kw) || (entry.matchQuestion && strings.Contains(q, kw)) {
				cats = append(cats, entry.category)
				break
			}
		}
	}
	return cats
}

// SelectPatterns resolves the patterns for a gap. Duplicates across matched
// categories are removed preserving first-seen order; an empty match falls
// back to the default set.
func SelectPatterns(gapDescription, question string) []SearchPattern {
	cats := ClassifyGap(gapDescription, question)

	var selected []SearchPattern
	for _, c := range cats {
		selected = append(selected, categoryPatterns[c]...)
	}
	if len(selected) == 0 {
		selected = append(selected, defaultPatterns...)
	}

	seen := make(map[string]bool, len(selected))
	unique := selected[:0]
	for _, p := range selected {
		if !seen[p.Name] {
			seen[p.Name] = true
			unique = append(unique, p)
		}
	}
	return unique
}

// ScanPage scans one evidence page line by line with a single pattern,
// capturing the pattern's context window around each matching line.
func ScanPage(page models.EvidencePage, pattern SearchPattern) []SearchSnippet {
	if page.Text == "" {
		return nil
	}
	lines := strings.Split(page.Text, "\n")

	var snippets []SearchSnippet
	for i, line := range lines {
		for _, match := range pattern.Regex.FindAllString(line, -1) {
			start := i - pattern.ContextLines
			if start < 0 {
				start = 0
			}
			end := i + pattern.ContextLines + 1
			if end > len(lines) {
				end = len(lines)
			}
			snippets = append(snippets, SearchSnippet{
				Source:        page.URL,
				MatchText:     match,
				ContextBefore: strings.Join(lines[start:i], "\n"),
				ContextAfter:  strings.Join(lines[i+1:end], "\n"),
				PatternName:   pattern.Name,
			})
		}
	}
	return snippets
}

// Search runs the selected patterns over every evidence page and assembles a
// size-bounded snippet block. It returns the assembled block and the names
// of the patterns that actually matched. An empty block means "no matches";
// callers fall back to full context.
func (e *Engine) Search(gapDescription, question string, pages []models.EvidencePage) (string, []string) {
	patterns := SelectPatterns(gapDescription, question)

	var b strings.Builder
	var patternsUsed []string

	for _, pattern := range patterns {
		var snippets []SearchSnippet
		for _, page := range pages {
			snippets = append(snippets, ScanPage(page, pattern)...)
		}
		if len(snippets) == 0 {
			continue
		}
		if len(snippets) > e.maxSnippetsPerPattern {
			snippets = snippets[:e.maxSnippetsPerPattern]
		}
		patternsUsed = append(patternsUsed, pattern.Name)

		fmt.Fprintf(&b, "=== PATTERN: %s (%d matches) ===\n", strings.ToUpper(pattern.Name), len(snippets))
		for i, s := range snippets {
			fmt.Fprintf(&b, "\n--- Match %d: %q ---\n", i+1, s.MatchText)
			if strings.TrimSpace(s.ContextBefore) != "" {
				fmt.Fprintf(&b, "Context before:\n%s\n", s.ContextBefore)
			}
			fmt.Fprintf(&b, "\n>>> MATCH: %s <<<\n\n", s.MatchText)
			if strings.TrimSpace(s.ContextAfter) != "" {
				fmt.Fprintf(&b, "Context after:\n%s\n", s.ContextAfter)
			}
		}
		b.WriteString("\n")
	}

	if len(patternsUsed) == 0 {
		return "", nil
	}
	return b.String(), patternsUsed
}
