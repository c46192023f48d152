package models

import (
	"net/url"
	"sort"
)

// Confidence is a sub-agent's self-assessed confidence in its findings.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Valid reports whether c is one of the three recognized levels.
func (c Confidence) Valid() bool {
	switch c {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return true
	}
	return false
}

// RefinementPhase makes the one-pass refinement cap explicit in the type:
// a run moves from NotStarted to Completed exactly once and never back.
type RefinementPhase string

const (
	RefinementNotStarted RefinementPhase = "not_started"
	RefinementCompleted  RefinementPhase = "completed"
)

// ResearchBrief is the scope and configuration of one research run.
// Sub-questions are filled by the planning stage; after that the brief is
// treated as immutable.
type ResearchBrief struct {
	CompanyName    string   `json:"company_name"`
	MainQuestion   string   `json:"main_question"`
	SubQuestions   []string `json:"sub_questions"`
	SeedURLs       []string `json:"seed_urls"`
	AllowedDomains []string `json:"allowed_domains"`
	Constraints    []string `json:"constraints"`
}

// EvidencePage is the extracted content of one fetched source URL.
// Pages are fetched once per run and shared read-only across tasks.
type EvidencePage struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Text    string `json:"text"`
	RawHTML string `json:"raw_html,omitempty"`
}

// Reflection is a sub-agent's structured self-critique of its own findings.
// A reflection is produced once per task execution and never mutated; merge
// replaces the whole record or leaves it untouched.
type Reflection struct {
	IsComplete     bool       `json:"is_complete"`
	MissingAspects []string   `json:"missing_aspects"`
	Confidence     Confidence `json:"confidence"`
	NextSteps      string     `json:"next_steps,omitempty"`
}

// SubAgentTask is one independently answerable research question handed to
// the scheduler. Refinement tasks additionally carry the gap being addressed
// and any pre-computed targeted snippets.
type SubAgentTask struct {
	TaskID      string   `json:"task_id"`
	Question    string   `json:"question"`
	ContextURLs []string `json:"context_urls"`

	IsRefinement       bool     `json:"is_refinement,omitempty"`
	PreviousFindings   string   `json:"previous_findings,omitempty"`
	GapToAddress       string   `json:"gap_to_address,omitempty"`
	TargetedSnippets   string   `json:"targeted_snippets,omitempty"`
	SearchPatternsUsed []string `json:"search_patterns_used,omitempty"`
}

// SubAgentResult is the outcome of one successful sub-agent execution.
// Failed tasks produce no result at all.
type SubAgentResult struct {
	TaskID     string     `json:"task_id"`
	Findings   string     `json:"findings"`
	Reflection Reflection `json:"reflection"`
	Sources    []string   `json:"sources"`
}

// Note is the writer-facing form of a sub-agent result, keyed by the same
// question identifier.
type Note struct {
	QuestionID string   `json:"question_id"`
	Content    string   `json:"content"`
	Sources    []string `json:"sources"`
}

// SupervisorReview is the supervisor's assessment of all sub-agent findings.
// Its RefinementNeeded flag, together with the refinement phase, gates the
// refinement stage.
type SupervisorReview struct {
	OverallCompleteness string   `json:"overall_completeness"`
	GapsIdentified      []string `json:"gaps_identified"`
	RefinementNeeded    bool     `json:"refinement_needed"`
	ReadyForWriting     bool     `json:"ready_for_writing"`
}

// ResearchState is the single mutable aggregate threaded through the
// pipeline. Stages never write it directly; they return deltas that the
// pipeline controller applies between stages.
type ResearchState struct {
	RunID string        `json:"run_id"`
	Brief ResearchBrief `json:"brief"`

	Pages map[string]EvidencePage `json:"pages"` // key = URL
	Notes map[string]Note         `json:"notes"` // key = question id

	SubAgentResults  map[string]SubAgentResult `json:"sub_agent_results"` // key = task id
	SupervisorReview *SupervisorReview         `json:"supervisor_review,omitempty"`
	RefinementPhase  RefinementPhase           `json:"refinement_phase"`

	ReportMarkdown string            `json:"report_markdown,omitempty"`
	ReportJSON     *StructuredReport `json:"report_json,omitempty"`
}

// DeriveAllowedDomains returns the sorted set of hosts appearing in the seed
// URLs. URLs that do not parse to a host contribute nothing.
func DeriveAllowedDomains(seedURLs []string) []string {
	set := make(map[string]bool, len(seedURLs))
	for _, raw := range seedURLs {
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" {
			continue
		}
		set[u.Host] = true
	}
	domains := make([]string, 0, len(set))
	for h := range set {
		domains = append(domains, h)
	}
	sort.Strings(domains)
	return domains
}

// NewResearchState returns a state ready for the planning stage. A brief that
// carries no explicit allowed domains gets the set derived from its seed
// URLs, so company name, question, and seed URLs are enough to start a run.
func NewResearchState(runID string, brief ResearchBrief) *ResearchState {
	if len(brief.AllowedDomains) == 0 {
		brief.AllowedDomains = DeriveAllowedDomains(brief.SeedURLs)
	}
	return &ResearchState{
		RunID:           runID,
		Brief:           brief,
		Pages:           make(map[string]EvidencePage),
		Notes:           make(map[string]Note),
		SubAgentResults: make(map[string]SubAgentResult),
		RefinementPhase: RefinementNotStarted,
	}
}

// PageList returns the evidence pages in deterministic order: seed-URL order
// first, then any remaining pages sorted by URL. Workflow code must not
// iterate the map directly.
func (s *ResearchState) PageList() []EvidencePage {
	pages := make([]EvidencePage, 0, len(s.Pages))
	seen := make(map[string]bool, len(s.Pages))
	for _, u := range s.Brief.SeedURLs {
		if p, ok := s.Pages[u]; ok && !seen[u] {
			pages = append(pages, p)
			seen[u] = true
		}
	}
	rest := make([]string, 0, len(s.Pages))
	for u := range s.Pages {
		if !seen[u] {
			rest = append(rest, u)
		}
	}
	sort.Strings(rest)
	for _, u := range rest {
		pages = append(pages, s.Pages[u])
	}
	return pages
}
