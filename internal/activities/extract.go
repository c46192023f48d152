package activities

import (
	"context"

	"go.uber.org/zap"

	"github.com/briefwright/orchestrator/internal/extraction"
	"github.com/briefwright/orchestrator/internal/models"
)

// BuildTargetedContextInput describes one gap to search the stored evidence
// for.
type BuildTargetedContextInput struct {
	GapDescription string                `json:"gap_description"`
	Question       string                `json:"question"`
	Pages          []models.EvidencePage `json:"pages"`
	SnippetBudget  int                   `json:"snippet_budget,omitempty"`
}

// BuildTargetedContextResult is the assembled snippet block. An empty
// TargetedContext means no patterns matched; the caller falls back to full
// context.
type BuildTargetedContextResult struct {
	TargetedContext string   `json:"targeted_context"`
	PatternsUsed    []string `json:"patterns_used,omitempty"`
}

// BuildTargetedContext selects content patterns for the gap and scans every
// evidence page, assembling a size-bounded snippet block for the refinement
// task. A request without an explicit budget uses the configured one.
func (a *Activities) BuildTargetedContext(ctx context.Context, in BuildTargetedContextInput) (*BuildTargetedContextResult, error) {
	budget := in.SnippetBudget
	if budget == 0 {
		budget = a.snippetBudget
	}
	engine := extraction.NewEngine(budget)
	targeted, patternsUsed := engine.Search(in.GapDescription, in.Question, in.Pages)

	if targeted == "" {
		a.logger.Debug("No targeted snippets found, refinement will use full context",
			zap.String("gap", in.GapDescription),
		)
	} else {
		a.logger.Debug("Targeted context built",
			zap.Int("size", len(targeted)),
			zap.Strings("patterns", patternsUsed),
		)
	}
	return &BuildTargetedContextResult{TargetedContext: targeted, PatternsUsed: patternsUsed}, nil
}
