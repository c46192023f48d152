package activities

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/briefwright/orchestrator/internal/llm"
	"github.com/briefwright/orchestrator/internal/models"
)

// findingsSummaryLimit bounds how much of each finding the supervisor sees.
const findingsSummaryLimit = 500

// ReviewFindingsInput carries every sub-agent result into the supervisor
// review.
type ReviewFindingsInput struct {
	CompanyName  string                           `json:"company_name"`
	MainQuestion string                           `json:"main_question"`
	Results      map[string]models.SubAgentResult `json:"results"`
}

// ReviewFindings asks the supervisor to assess the research as a whole and
// decide whether a refinement pass is needed.
func (a *Activities) ReviewFindings(ctx context.Context, in ReviewFindingsInput) (*models.SupervisorReview, error) {
	taskIDs := make([]string, 0, len(in.Results))
	for id := range in.Results {
		taskIDs = append(taskIDs, id)
	}
	sort.Strings(taskIDs)

	var findings, reflections strings.Builder
	for _, id := range taskIDs {
		r := in.Results[id]
		preview := r.Findings
		if len(preview) > findingsSummaryLimit {
			preview = preview[:findingsSummaryLimit] + "..."
		}
		fmt.Fprintf(&findings, "\n### %s\n%s\n", id, preview)
		fmt.Fprintf(&reflections, "\n### %s\nComplete: %t, Confidence: %s\n",
			id, r.Reflection.IsComplete, r.Reflection.Confidence)
		if len(r.Reflection.MissingAspects) > 0 {
			fmt.Fprintf(&reflections, "Missing: %s\n", strings.Join(r.Reflection.MissingAspects, ", "))
		}
	}

	var review models.SupervisorReview
	if _, err := a.generator.CompleteStructured(ctx, llm.CompletionRequest{
		Query: fmt.Sprintf(supervisorReviewPrompt,
			in.CompanyName, in.MainQuestion, findings.String(), reflections.String()),
		Role: "research_supervisor",
	}, &review); err != nil {
		return nil, fmt.Errorf("supervisor review failed: %w", err)
	}

	a.logger.Info("Supervisor review completed",
		zap.String("completeness", review.OverallCompleteness),
		zap.Bool("refinement_needed", review.RefinementNeeded),
		zap.Bool("ready_for_writing", review.ReadyForWriting),
		zap.Int("gaps", len(review.GapsIdentified)),
	)
	return &review, nil
}
