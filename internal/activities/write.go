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

// WriteReportInput carries the final notes into the writing stage.
type WriteReportInput struct {
	CompanyName  string                 `json:"company_name"`
	MainQuestion string                 `json:"main_question"`
	Notes        map[string]models.Note `json:"notes"`
}

// WriteReportResult is the finished report. Structured may be nil when JSON
// extraction fails; the markdown report alone is still a valid outcome.
type WriteReportResult struct {
	Markdown   string                   `json:"markdown"`
	Structured *models.StructuredReport `json:"structured,omitempty"`
}

// WriteReport renders the markdown report from the notes and then extracts
// the structured JSON form from the markdown.
func (a *Activities) WriteReport(ctx context.Context, in WriteReportInput) (*WriteReportResult, error) {
	if len(in.Notes) == 0 {
		return nil, fmt.Errorf("no research notes to write a report from")
	}

	ids := make([]string, 0, len(in.Notes))
	for id := range in.Notes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var notesBlock strings.Builder
	for _, id := range ids {
		n := in.Notes[id]
		fmt.Fprintf(&notesBlock, "\n## Note: %s\n%s\n\nSources:\n", id, n.Content)
		for _, s := range n.Sources {
			fmt.Fprintf(&notesBlock, "- %s\n", s)
		}
	}

	report, err := a.generator.Complete(ctx, llm.CompletionRequest{
		Query: fmt.Sprintf(reportPrompt, in.CompanyName, in.MainQuestion, notesBlock.String()),
		Role:  "report_writer",
	})
	if err != nil {
		return nil, fmt.Errorf("report writing failed: %w", err)
	}

	out := &WriteReportResult{Markdown: report.Response}

	var structured models.StructuredReport
	if _, err := a.generator.CompleteStructured(ctx, llm.CompletionRequest{
		Query: fmt.Sprintf(structuredReportPrompt, report.Response),
		Role:  "report_extractor",
	}, &structured); err != nil {
		// The markdown report stands on its own; structured extraction is
		// best effort.
		a.logger.Warn("Structured report extraction failed", zap.Error(err))
	} else {
		out.Structured = &structured
	}

	a.logger.Info("Report written",
		zap.String("company", in.CompanyName),
		zap.Int("markdown_size", len(out.Markdown)),
		zap.Bool("structured", out.Structured != nil),
	)
	return out, nil
}
