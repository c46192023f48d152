package workflows

import (
	"time"

	"github.com/briefwright/orchestrator/internal/models"
)

// Worker pool sizes for sub-agent execution. The initial research pass gets
// the larger pool; refinement re-runs a subset of tasks and is deliberately
// narrower.
const (
	ResearchWorkers   = 3
	RefinementWorkers = 2
)

const (
	// generationTimeout bounds one LLM-backed activity (a sub-agent task
	// makes two generation calls within a single activity).
	generationTimeout = 10 * time.Minute
	// fetchTimeout bounds resolving all seed URLs.
	fetchTimeout = 5 * time.Minute
	// persistTimeout bounds one fire-and-forget persistence write.
	persistTimeout = 30 * time.Second

	// findingsPreviewLimit truncates original findings carried into a
	// refinement task.
	findingsPreviewLimit = 1000
	// nextStepsLimit truncates reflection next-steps in a gap description.
	nextStepsLimit = 200
	// maxMissingAspects caps how many missing aspects feed a gap description.
	maxMissingAspects = 3
)

// refinementSuffix marks refinement task identifiers derived from an
// original task id.
const refinementSuffix = "_refinement"

// ResearchWorkflowInput starts one research run.
type ResearchWorkflowInput struct {
	RunID string               `json:"run_id"`
	Brief models.ResearchBrief `json:"brief"`
}

// subAgentOutcome is the tagged success/failure result of one scheduled
// task. Failures are collected, logged, and dropped; they never propagate to
// the scheduler's caller.
type subAgentOutcome struct {
	TaskID string
	Result *models.SubAgentResult
	Err    error
}

// Stage deltas. Each stage is a function of the current state returning only
// the fields it produces; the controller applies them between stages so all
// state mutation happens in one place.

type planDelta struct {
	Brief models.ResearchBrief
}

type researchDelta struct {
	Pages   map[string]models.EvidencePage
	Results map[string]models.SubAgentResult
	Notes   map[string]models.Note
	Review  *models.SupervisorReview
}

type refinementDelta struct {
	Results map[string]models.SubAgentResult
	Notes   map[string]models.Note
	Phase   models.RefinementPhase
}

type writeDelta struct {
	Markdown   string
	Structured *models.StructuredReport
}
