package workflows

import (
	"go.temporal.io/sdk/workflow"

	"github.com/briefwright/orchestrator/internal/activities"
	"github.com/briefwright/orchestrator/internal/models"
)

// ExecuteSubAgents runs independent research tasks against a shared evidence
// set with bounded parallelism. Results are collected in completion order; a
// task whose execution fails is logged and omitted from the returned map, so
// callers must tolerate a map smaller than the task list.
func ExecuteSubAgents(
	ctx workflow.Context,
	tasks []models.SubAgentTask,
	pages []models.EvidencePage,
	companyName string,
	maxConcurrency int,
) map[string]models.SubAgentResult {
	logger := workflow.GetLogger(ctx)
	if len(tasks) == 0 {
		return map[string]models.SubAgentResult{}
	}
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}

	logger.Info("Dispatching sub-agent tasks",
		"task_count", len(tasks),
		"max_concurrency", maxConcurrency,
	)

	sem := workflow.NewSemaphore(ctx, int64(maxConcurrency))
	outcomes := workflow.NewChannel(ctx)

	for _, task := range tasks {
		task := task // capture for closure

		workflow.Go(ctx, func(gCtx workflow.Context) {
			if err := sem.Acquire(gCtx, 1); err != nil {
				outcomes.Send(gCtx, subAgentOutcome{TaskID: task.TaskID, Err: err})
				return
			}
			defer sem.Release(1)

			var result models.SubAgentResult
			err := workflow.ExecuteActivity(gCtx, "ExecuteSubAgent",
				activities.SubAgentExecutionInput{
					Task:        task,
					Pages:       pages,
					CompanyName: companyName,
				}).Get(gCtx, &result)
			if err != nil {
				outcomes.Send(gCtx, subAgentOutcome{TaskID: task.TaskID, Err: err})
				return
			}
			outcomes.Send(gCtx, subAgentOutcome{TaskID: task.TaskID, Result: &result})
		})
	}

	results := make(map[string]models.SubAgentResult, len(tasks))
	for range tasks {
		var out subAgentOutcome
		outcomes.Receive(ctx, &out)
		if out.Err != nil {
			logger.Warn("Sub-agent task failed, omitting from results",
				"task_id", out.TaskID,
				"error", out.Err,
			)
			continue
		}
		results[out.Result.TaskID] = *out.Result
	}

	logger.Info("Sub-agent execution completed",
		"submitted", len(tasks),
		"succeeded", len(results),
		"failed", len(tasks)-len(results),
	)
	return results
}
