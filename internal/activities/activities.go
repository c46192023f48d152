package activities

import (
	"context"

	"go.uber.org/zap"

	"github.com/briefwright/orchestrator/internal/llm"
	"github.com/briefwright/orchestrator/internal/models"
)

// Generator is the text-generation/structured-extraction capability. The
// pipeline treats it as an opaque remote call.
type Generator interface {
	Complete(ctx context.Context, req llm.CompletionRequest) (*llm.Completion, error)
	CompleteStructured(ctx context.Context, req llm.CompletionRequest, v any) (*llm.Completion, error)
}

// PageFetcher resolves a URL to an evidence page.
type PageFetcher interface {
	Fetch(ctx context.Context, url string, brief models.ResearchBrief) (*models.EvidencePage, error)
}

// PageCache is the fetch-once cache keyed by URL.
type PageCache interface {
	Get(ctx context.Context, url string) (*models.EvidencePage, error)
	Put(ctx context.Context, page models.EvidencePage) error
}

// Store is the durable persistence collaborator. Calls are fire-and-forget
// side effects; nothing is read back within a run.
type Store interface {
	SavePage(ctx context.Context, runID string, page models.EvidencePage) error
	SaveNote(ctx context.Context, runID string, note models.Note) error
	SaveReport(ctx context.Context, runID, companyName, markdown string, structured *models.StructuredReport) error
	SaveState(ctx context.Context, state *models.ResearchState) error
}

// Activities holds the collaborators shared by all activity implementations.
type Activities struct {
	generator     Generator
	fetcher       PageFetcher
	cache         PageCache
	store         Store
	snippetBudget int
	logger        *zap.Logger
}

// NewActivities wires the activity dependencies. Cache and store may be nil
// when the deployment runs without Redis or Postgres; the activities degrade
// to direct fetches and skipped persistence. A snippetBudget of zero falls
// back to the extraction engine's default.
func NewActivities(generator Generator, fetcher PageFetcher, cache PageCache, store Store, snippetBudget int, logger *zap.Logger) *Activities {
	return &Activities{
		generator:     generator,
		fetcher:       fetcher,
		cache:         cache,
		store:         store,
		snippetBudget: snippetBudget,
		logger:        logger,
	}
}
