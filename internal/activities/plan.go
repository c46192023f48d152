package activities

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/briefwright/orchestrator/internal/llm"
	"github.com/briefwright/orchestrator/internal/models"
)

// PlanResearchInput carries the initial brief into the planning stage.
type PlanResearchInput struct {
	Brief models.ResearchBrief `json:"brief"`
}

// PlanResearchResult returns the brief with the main question sharpened and
// the sub-questions filled in.
type PlanResearchResult struct {
	Brief models.ResearchBrief `json:"brief"`
}

type clarifyDecision struct {
	NeedClarification bool   `json:"need_clarification"`
	Question          string `json:"question"`
	Verification      string `json:"verification"`
}

type researchQuestion struct {
	ResearchBrief string `json:"research_brief"`
}

// PlanResearch runs the planning stage: a (non-interactive) clarification
// check, research-brief generation, and the fixed sub-question set.
func (a *Activities) PlanResearch(ctx context.Context, in PlanResearchInput) (*PlanResearchResult, error) {
	brief := in.Brief

	var clarify clarifyDecision
	if _, err := a.generator.CompleteStructured(ctx, llm.CompletionRequest{
		Query: fmt.Sprintf(clarifyPrompt, brief.MainQuestion),
		Role:  "research_clarifier",
	}, &clarify); err != nil {
		// Clarification is advisory; a failure here never blocks planning.
		a.logger.Warn("Clarification check failed, continuing", zap.Error(err))
	} else if clarify.NeedClarification {
		a.logger.Info("Clarification suggested but running non-interactively",
			zap.String("question", clarify.Question),
		)
	}

	var rq researchQuestion
	if _, err := a.generator.CompleteStructured(ctx, llm.CompletionRequest{
		Query: fmt.Sprintf(briefPrompt, brief.CompanyName, brief.MainQuestion),
		Role:  "research_strategist",
	}, &rq); err != nil {
		return nil, fmt.Errorf("research brief generation failed: %w", err)
	}
	if rq.ResearchBrief != "" {
		brief.MainQuestion = rq.ResearchBrief
	}

	brief.SubQuestions = SubQuestionsFor(brief.CompanyName)

	a.logger.Info("Planning completed",
		zap.String("company", brief.CompanyName),
		zap.Int("sub_questions", len(brief.SubQuestions)),
	)
	return &PlanResearchResult{Brief: brief}, nil
}

// SubQuestionsFor returns the fixed private-markets question set for a
// company. One sub-agent task is created per entry.
func SubQuestionsFor(companyName string) []string {
	return []string{
		fmt.Sprintf("Identify all key decision makers and leadership roles in %s's private investing / private markets activities.", companyName),
		fmt.Sprintf("Describe the regions and sectors in which %s is active in private markets.", companyName),
		fmt.Sprintf("Summarize any disclosed assets under management (AUM) or platform-level metrics for %s's private markets business.", companyName),
		"List the private investing strategies, funds, and programs and explain their focus.",
		fmt.Sprintf("Summarize the portfolio / current firms %s is invested in, as disclosed in the scoped URLs.", companyName),
		fmt.Sprintf("Summarize recent news and announcements related to %s's private markets activities.", companyName),
	}
}
