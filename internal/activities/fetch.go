package activities

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	ometrics "github.com/briefwright/orchestrator/internal/metrics"
	"github.com/briefwright/orchestrator/internal/models"
)

// FetchEvidenceInput asks for every seed URL in the brief to be resolved to
// an evidence page before research begins.
type FetchEvidenceInput struct {
	RunID string               `json:"run_id"`
	Brief models.ResearchBrief `json:"brief"`
}

// FetchEvidenceResult returns the pages that could be fetched. URLs that
// failed are reported as warnings, not errors; the run continues with
// whatever evidence exists.
type FetchEvidenceResult struct {
	Pages    []models.EvidencePage `json:"pages"`
	Warnings []string              `json:"warnings,omitempty"`
}

// FetchEvidence resolves the brief's seed URLs, consulting the page cache
// first so each URL is fetched at most once.
func (a *Activities) FetchEvidence(ctx context.Context, in FetchEvidenceInput) (*FetchEvidenceResult, error) {
	out := &FetchEvidenceResult{}

	for _, url := range in.Brief.SeedURLs {
		page, err := a.resolvePage(ctx, url, in.Brief)
		if err != nil {
			ometrics.PagesFetched.WithLabelValues("error").Inc()
			a.logger.Warn("Failed to fetch seed URL, skipping",
				zap.String("url", url),
				zap.Error(err),
			)
			out.Warnings = append(out.Warnings, fmt.Sprintf("failed to fetch %s: %v", url, err))
			continue
		}
		ometrics.PagesFetched.WithLabelValues("ok").Inc()
		out.Pages = append(out.Pages, *page)

		if a.store != nil {
			if err := a.store.SavePage(ctx, in.RunID, *page); err != nil {
				a.logger.Warn("Failed to persist page", zap.String("url", url), zap.Error(err))
			}
		}
	}

	a.logger.Info("Evidence fetch completed",
		zap.Int("fetched", len(out.Pages)),
		zap.Int("failed", len(out.Warnings)),
	)
	return out, nil
}

func (a *Activities) resolvePage(ctx context.Context, url string, brief models.ResearchBrief) (*models.EvidencePage, error) {
	if a.cache != nil {
		cached, err := a.cache.Get(ctx, url)
		if err != nil {
			a.logger.Warn("Evidence cache lookup failed", zap.String("url", url), zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	page, err := a.fetcher.Fetch(ctx, url, brief)
	if err != nil {
		return nil, err
	}

	if a.cache != nil {
		if err := a.cache.Put(ctx, *page); err != nil {
			a.logger.Warn("Evidence cache write failed", zap.String("url", url), zap.Error(err))
		}
	}
	return page, nil
}
