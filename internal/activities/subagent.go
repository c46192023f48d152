package activities

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/briefwright/orchestrator/internal/llm"
	ometrics "github.com/briefwright/orchestrator/internal/metrics"
	"github.com/briefwright/orchestrator/internal/models"
	"github.com/briefwright/orchestrator/internal/ranking"
)

// reflectionSampleSize is how much of the answer context the reflection step
// sees; reflection judges completeness, it does not need the full material.
const reflectionSampleSize = 2000

// SubAgentExecutionInput is one task plus the shared evidence it runs
// against. Evidence is read-only for the duration of the call.
type SubAgentExecutionInput struct {
	Task        models.SubAgentTask   `json:"task"`
	Pages       []models.EvidencePage `json:"pages"`
	CompanyName string                `json:"company_name"`
}

// ExecuteSubAgent answers one research question from the evidence and then
// critiques its own answer. Both generation calls are scoped to this task;
// a failure in either fails only this task.
func (a *Activities) ExecuteSubAgent(ctx context.Context, in SubAgentExecutionInput) (*models.SubAgentResult, error) {
	task := in.Task
	kind := "research"
	if task.IsRefinement {
		kind = "refinement"
	}

	// Rank evidence so limited context budget favors relevant pages.
	pages := ranking.RankPages(task.Question, in.Pages)
	fullContext := BuildContext(pages)

	var query, role string
	if task.IsRefinement {
		role = "refinement_agent"
		snippets := task.TargetedSnippets
		if snippets == "" {
			snippets = "(no targeted snippets were found; use the full context)"
		}
		query = fmt.Sprintf(refinementAgentPrompt,
			task.Question, in.CompanyName, task.PreviousFindings, task.GapToAddress, snippets, fullContext)
	} else {
		role = "sub_agent"
		query = fmt.Sprintf(subAgentPrompt, task.Question, in.CompanyName, fullContext)
	}

	answer, err := a.generator.Complete(ctx, llm.CompletionRequest{Query: query, Role: role})
	if err != nil {
		ometrics.SubAgentTasksExecuted.WithLabelValues(kind, "error").Inc()
		return nil, fmt.Errorf("answer step failed for task %s: %w", task.TaskID, err)
	}
	findings := answer.Response

	sample := fullContext
	if len(sample) > reflectionSampleSize {
		sample = sample[:reflectionSampleSize]
	}
	var reflection models.Reflection
	if _, err := a.generator.CompleteStructured(ctx, llm.CompletionRequest{
		Query: fmt.Sprintf(reflectionPrompt, task.Question, findings, sample),
		Role:  "reflection_reviewer",
	}, &reflection); err != nil {
		ometrics.SubAgentTasksExecuted.WithLabelValues(kind, "error").Inc()
		return nil, fmt.Errorf("reflection step failed for task %s: %w", task.TaskID, err)
	}
	if !reflection.Confidence.Valid() {
		reflection.Confidence = models.ConfidenceLow
	}

	sources := make([]string, 0, len(pages))
	for _, p := range pages {
		sources = append(sources, p.URL)
	}

	ometrics.SubAgentTasksExecuted.WithLabelValues(kind, "ok").Inc()
	ometrics.SubAgentConfidence.WithLabelValues(string(reflection.Confidence)).Inc()
	a.logger.Info("Sub-agent task completed",
		zap.String("task_id", task.TaskID),
		zap.String("kind", kind),
		zap.String("confidence", string(reflection.Confidence)),
		zap.Bool("complete", reflection.IsComplete),
	)

	return &models.SubAgentResult{
		TaskID:     task.TaskID,
		Findings:   findings,
		Reflection: reflection,
		Sources:    sources,
	}, nil
}

// BuildContext renders evidence pages as one delimited block, each source
// numbered so inline citations can reference it.
func BuildContext(pages []models.EvidencePage) string {
	var b strings.Builder
	for i, p := range pages {
		fmt.Fprintf(&b, "=== SOURCE [%d] ===\nURL: %s\nTitle: %s\n\n%s\n\n", i+1, p.URL, p.Title, p.Text)
	}
	return b.String()
}
