package workflows

import (
	"fmt"
	"sort"
	"strings"

	"go.temporal.io/sdk/workflow"

	"github.com/briefwright/orchestrator/internal/activities"
	ometrics "github.com/briefwright/orchestrator/internal/metrics"
	"github.com/briefwright/orchestrator/internal/models"
)

// addendumMarker delimits refined findings appended to the original text.
// Merge is concatenation; nothing from the first pass is discarded.
const addendumMarker = "\n\n---\n**REFINEMENT ADDENDUM:**\n\n"

// ShouldRefineTask reports whether a result's reflection flags it for a
// second pass: incomplete findings, low or medium confidence, or any listed
// missing aspects. An incomplete flag dominates regardless of confidence.
func ShouldRefineTask(result models.SubAgentResult) bool {
	r := result.Reflection
	if !r.IsComplete {
		return true
	}
	if r.Confidence == models.ConfidenceLow || r.Confidence == models.ConfidenceMedium {
		return true
	}
	return len(r.MissingAspects) > 0
}

// BuildGapDescription summarizes what a reflection flagged as missing, using
// at most the first few aspects and a bounded slice of the next-steps text.
func BuildGapDescription(r models.Reflection) string {
	var parts []string
	if len(r.MissingAspects) > 0 {
		aspects := r.MissingAspects
		if len(aspects) > maxMissingAspects {
			aspects = aspects[:maxMissingAspects]
		}
		parts = append(parts, "Missing aspects: "+strings.Join(aspects, ", "))
	}
	if r.NextSteps != "" {
		steps := r.NextSteps
		if len(steps) > nextStepsLimit {
			steps = steps[:nextStepsLimit]
		}
		parts = append(parts, "Suggested next steps: "+steps)
	}
	return strings.Join(parts, "\n")
}

// MergeFindings appends refined findings to the originals under the addendum
// marker. Calling it again with the same refined text appends again; merge
// has no natural dedup.
func MergeFindings(original, refined string) string {
	return original + addendumMarker + refined
}

// RefinementTaskID derives the follow-up task id for an original task.
func RefinementTaskID(originalID string) string {
	return originalID + refinementSuffix
}

// OriginalTaskID recovers the original task id from a refinement task id.
func OriginalTaskID(refinementID string) string {
	return strings.TrimSuffix(refinementID, refinementSuffix)
}

// runRefinement executes the single structural refinement pass: select
// low-quality results, build targeted follow-up tasks, execute them with the
// smaller pool, and merge outcomes back. It always returns a delta with the
// phase marked completed, so the controller's refinement predicate can never
// fire twice in one run.
func runRefinement(ctx workflow.Context, state *models.ResearchState) (refinementDelta, error) {
	logger := workflow.GetLogger(ctx)
	delta := refinementDelta{
		Results: make(map[string]models.SubAgentResult),
		Notes:   make(map[string]models.Note),
		Phase:   models.RefinementCompleted,
	}

	// Select. Deterministic order: sorted task ids.
	taskIDs := make([]string, 0, len(state.SubAgentResults))
	for id := range state.SubAgentResults {
		taskIDs = append(taskIDs, id)
	}
	sort.Strings(taskIDs)

	var selected []string
	for _, id := range taskIDs {
		if ShouldRefineTask(state.SubAgentResults[id]) {
			selected = append(selected, id)
		}
	}
	if len(selected) == 0 {
		logger.Info("All sub-agents report high confidence, skipping refinement")
		ometrics.RefinementTasksSelected.Observe(0)
		return delta, nil
	}
	logger.Info("Selected tasks for refinement", "count", len(selected))
	ometrics.RefinementRounds.Inc()
	ometrics.RefinementTasksSelected.Observe(float64(len(selected)))

	// Build one targeted follow-up task per selected result.
	pages := state.PageList()
	questionByID := questionIndex(state.Brief)

	var refinementTasks []models.SubAgentTask
	for _, id := range selected {
		original := state.SubAgentResults[id]
		question := questionByID[id]
		if question == "" {
			question = original.TaskID
		}
		gap := BuildGapDescription(original.Reflection)

		var targeted activities.BuildTargetedContextResult
		if err := workflow.ExecuteActivity(ctx, "BuildTargetedContext",
			activities.BuildTargetedContextInput{
				GapDescription: gap,
				Question:       question,
				Pages:          pages,
			}).Get(ctx, &targeted); err != nil {
			// Extraction is an optimization; the refinement task still runs
			// on full context.
			logger.Warn("Targeted context build failed, using full context",
				"task_id", id,
				"error", err,
			)
		}

		preview := original.Findings
		if len(preview) > findingsPreviewLimit {
			preview = preview[:findingsPreviewLimit] + "..."
		}
		contextURLs := make([]string, 0, len(pages))
		for _, p := range pages {
			contextURLs = append(contextURLs, p.URL)
		}

		refinementTasks = append(refinementTasks, models.SubAgentTask{
			TaskID:             RefinementTaskID(id),
			Question:           question,
			ContextURLs:        contextURLs,
			IsRefinement:       true,
			PreviousFindings:   preview,
			GapToAddress:       gap,
			TargetedSnippets:   targeted.TargetedContext,
			SearchPatternsUsed: targeted.PatternsUsed,
		})
	}

	// Execute with the smaller pool.
	refined := ExecuteSubAgents(ctx, refinementTasks, pages, state.Brief.CompanyName, RefinementWorkers)

	// Merge. A failed refinement task leaves its original result untouched.
	refinedIDs := make([]string, 0, len(refined))
	for id := range refined {
		refinedIDs = append(refinedIDs, id)
	}
	sort.Strings(refinedIDs)

	for _, refID := range refinedIDs {
		refResult := refined[refID]
		origID := OriginalTaskID(refID)
		original, ok := state.SubAgentResults[origID]
		if !ok {
			logger.Warn("Refinement result has no matching original, dropping", "task_id", refID)
			continue
		}

		merged := original
		merged.Findings = MergeFindings(original.Findings, refResult.Findings)
		// Adopt the refined reflection only when it reports the highest
		// confidence; otherwise the original self-assessment stands.
		if refResult.Reflection.Confidence == models.ConfidenceHigh {
			merged.Reflection = refResult.Reflection
		}
		delta.Results[origID] = merged

		note, ok := state.Notes[origID]
		if !ok {
			note = models.Note{QuestionID: origID, Sources: merged.Sources}
		}
		note.Content = merged.Findings
		delta.Notes[origID] = note

		logger.Info("Merged refinement result", "task_id", origID)
	}

	return delta, nil
}

// questionIndex maps task ids (q_0, q_1, ...) back to their sub-questions.
func questionIndex(brief models.ResearchBrief) map[string]string {
	idx := make(map[string]string, len(brief.SubQuestions))
	for i, q := range brief.SubQuestions {
		idx[fmt.Sprintf("q_%d", i)] = q
	}
	return idx
}
