package workflows

import (
	"fmt"
	"sort"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/briefwright/orchestrator/internal/activities"
	ometrics "github.com/briefwright/orchestrator/internal/metrics"
	"github.com/briefwright/orchestrator/internal/models"
)

// CompanyResearchWorkflow is the pipeline controller. It sequences
// Plan → Fetch → Research → conditional Refinement → Write, threading a
// single research state through the stages. Stages return deltas; only the
// controller writes the state. Any stage error aborts the run with no
// report produced; per-task failures are handled below this level and never
// reach here.
func CompanyResearchWorkflow(ctx workflow.Context, input ResearchWorkflowInput) (*models.ResearchState, error) {
	logger := workflow.GetLogger(ctx)

	if input.Brief.CompanyName == "" {
		return nil, fmt.Errorf("brief is missing a company name")
	}
	if len(input.Brief.SeedURLs) == 0 {
		return nil, fmt.Errorf("brief has no seed URLs")
	}
	runID := input.RunID
	if runID == "" {
		runID = workflow.GetInfo(ctx).WorkflowExecution.ID
	}

	logger.Info("Starting research run",
		"run_id", runID,
		"company", input.Brief.CompanyName,
		"seed_urls", len(input.Brief.SeedURLs),
	)
	ometrics.RunsStarted.Inc()
	startedAt := workflow.Now(ctx)

	// No automatic retries anywhere in the pipeline: a failed task is not
	// resubmitted, and refinement is the only designed second chance.
	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: generationTimeout,
		RetryPolicy:         &temporal.RetryPolicy{MaximumAttempts: 1},
	})

	state := models.NewResearchState(runID, input.Brief)

	// Plan.
	planOut, err := runPlan(ctx, state)
	if err != nil {
		ometrics.RunsCompleted.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("planning stage failed: %w", err)
	}
	state.Brief = planOut.Brief

	// Research: fetch evidence, fan out sub-agents, review.
	researchOut, err := runResearch(ctx, state)
	if err != nil {
		ometrics.RunsCompleted.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("research stage failed: %w", err)
	}
	for url, page := range researchOut.Pages {
		state.Pages[url] = page
	}
	for id, r := range researchOut.Results {
		state.SubAgentResults[id] = r
	}
	for id, n := range researchOut.Notes {
		state.Notes[id] = n
	}
	state.SupervisorReview = researchOut.Review

	// Refinement runs at most once per run: only when the supervisor asked
	// for it and the phase says it has not happened yet.
	if needsRefinement(state) {
		refineOut, err := runRefinement(ctx, state)
		if err != nil {
			ometrics.RunsCompleted.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("refinement stage failed: %w", err)
		}
		for id, r := range refineOut.Results {
			state.SubAgentResults[id] = r
		}
		noteIDs := make([]string, 0, len(refineOut.Notes))
		for id := range refineOut.Notes {
			noteIDs = append(noteIDs, id)
		}
		sort.Strings(noteIDs)
		for _, id := range noteIDs {
			state.Notes[id] = refineOut.Notes[id]
			persistNote(ctx, runID, refineOut.Notes[id])
		}
		state.RefinementPhase = refineOut.Phase
	} else {
		state.RefinementPhase = models.RefinementCompleted
	}

	// Write.
	writeOut, err := runWrite(ctx, state)
	if err != nil {
		ometrics.RunsCompleted.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("writing stage failed: %w", err)
	}
	state.ReportMarkdown = writeOut.Markdown
	state.ReportJSON = writeOut.Structured

	persistFinalState(ctx, state)

	ometrics.RunsCompleted.WithLabelValues("ok").Inc()
	ometrics.RunDuration.Observe(workflow.Now(ctx).Sub(startedAt).Seconds())
	logger.Info("Research run completed",
		"run_id", runID,
		"notes", len(state.Notes),
		"report_size", len(state.ReportMarkdown),
	)
	return state, nil
}

// needsRefinement is the refinement predicate: a supervisor review exists,
// it asks for refinement, and the single structural pass has not run yet.
func needsRefinement(state *models.ResearchState) bool {
	return state.SupervisorReview != nil &&
		state.SupervisorReview.RefinementNeeded &&
		state.RefinementPhase == models.RefinementNotStarted
}

func runPlan(ctx workflow.Context, state *models.ResearchState) (planDelta, error) {
	var out activities.PlanResearchResult
	err := workflow.ExecuteActivity(ctx, "PlanResearch",
		activities.PlanResearchInput{Brief: state.Brief}).Get(ctx, &out)
	if err != nil {
		return planDelta{}, err
	}
	return planDelta{Brief: out.Brief}, nil
}

func runResearch(ctx workflow.Context, state *models.ResearchState) (researchDelta, error) {
	logger := workflow.GetLogger(ctx)
	delta := researchDelta{
		Pages:   make(map[string]models.EvidencePage),
		Results: make(map[string]models.SubAgentResult),
		Notes:   make(map[string]models.Note),
	}

	// Resolve every seed URL before any task runs; failed URLs are warnings.
	fetchCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: fetchTimeout,
		RetryPolicy:         &temporal.RetryPolicy{MaximumAttempts: 1},
	})
	var fetched activities.FetchEvidenceResult
	if err := workflow.ExecuteActivity(fetchCtx, "FetchEvidence",
		activities.FetchEvidenceInput{RunID: state.RunID, Brief: state.Brief}).Get(ctx, &fetched); err != nil {
		return delta, err
	}
	for _, w := range fetched.Warnings {
		logger.Warn("Evidence fetch warning", "warning", w)
	}
	if len(fetched.Pages) == 0 {
		return delta, fmt.Errorf("no seed URLs could be fetched")
	}
	pages := fetched.Pages
	contextURLs := make([]string, 0, len(pages))
	for _, p := range pages {
		delta.Pages[p.URL] = p
		contextURLs = append(contextURLs, p.URL)
	}

	// One task per sub-question; tasks are independent and share only the
	// read-only evidence set.
	tasks := make([]models.SubAgentTask, 0, len(state.Brief.SubQuestions))
	for i, q := range state.Brief.SubQuestions {
		tasks = append(tasks, models.SubAgentTask{
			TaskID:      fmt.Sprintf("q_%d", i),
			Question:    q,
			ContextURLs: contextURLs,
		})
	}

	results := ExecuteSubAgents(ctx, tasks, pages, state.Brief.CompanyName, ResearchWorkers)
	delta.Results = results

	if len(results) > 0 {
		var review models.SupervisorReview
		if err := workflow.ExecuteActivity(ctx, "ReviewFindings",
			activities.ReviewFindingsInput{
				CompanyName:  state.Brief.CompanyName,
				MainQuestion: state.Brief.MainQuestion,
				Results:      results,
			}).Get(ctx, &review); err != nil {
			return delta, err
		}
		delta.Review = &review
	}

	// Notes mirror the results one-to-one for the writer. Sorted ids so the
	// persistence activities are scheduled in a deterministic order.
	ids := make([]string, 0, len(results))
	for id := range results {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		r := results[id]
		note := models.Note{QuestionID: id, Content: r.Findings, Sources: r.Sources}
		delta.Notes[id] = note
		persistNote(ctx, state.RunID, note)
	}

	return delta, nil
}

func runWrite(ctx workflow.Context, state *models.ResearchState) (writeDelta, error) {
	var out activities.WriteReportResult
	err := workflow.ExecuteActivity(ctx, "WriteReport",
		activities.WriteReportInput{
			CompanyName:  state.Brief.CompanyName,
			MainQuestion: state.Brief.MainQuestion,
			Notes:        state.Notes,
		}).Get(ctx, &out)
	if err != nil {
		return writeDelta{}, err
	}

	persistCtx := persistOptions(ctx)
	workflow.ExecuteActivity(persistCtx, "PersistReport", activities.PersistReportInput{
		RunID:       state.RunID,
		CompanyName: state.Brief.CompanyName,
		Markdown:    out.Markdown,
		Structured:  out.Structured,
	})

	return writeDelta{Markdown: out.Markdown, Structured: out.Structured}, nil
}

// persistNote schedules a fire-and-forget note write.
func persistNote(ctx workflow.Context, runID string, note models.Note) {
	workflow.ExecuteActivity(persistOptions(ctx), "PersistNote",
		activities.PersistNoteInput{RunID: runID, Note: note})
}

// persistFinalState schedules a fire-and-forget state snapshot write.
func persistFinalState(ctx workflow.Context, state *models.ResearchState) {
	workflow.ExecuteActivity(persistOptions(ctx), "PersistState",
		activities.PersistStateInput{State: *state})
}

// persistOptions returns a disconnected context for persistence side
// effects so they neither block nor fail the pipeline.
func persistOptions(ctx workflow.Context) workflow.Context {
	detached, _ := workflow.NewDisconnectedContext(ctx)
	return workflow.WithActivityOptions(detached, workflow.ActivityOptions{
		StartToCloseTimeout: persistTimeout,
		RetryPolicy:         &temporal.RetryPolicy{MaximumAttempts: 3},
	})
}
