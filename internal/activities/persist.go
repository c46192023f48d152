package activities

import (
	"context"

	"go.uber.org/zap"

	"github.com/briefwright/orchestrator/internal/models"
)

// Persistence activities. All of them are invoked fire-and-forget from the
// workflow; a missing store turns them into no-ops.

// PersistNoteInput stores one note for a run.
type PersistNoteInput struct {
	RunID string      `json:"run_id"`
	Note  models.Note `json:"note"`
}

// PersistNote writes one note.
func (a *Activities) PersistNote(ctx context.Context, in PersistNoteInput) error {
	if a.store == nil {
		return nil
	}
	if err := a.store.SaveNote(ctx, in.RunID, in.Note); err != nil {
		a.logger.Warn("Failed to persist note",
			zap.String("question_id", in.Note.QuestionID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// PersistReportInput stores the final report.
type PersistReportInput struct {
	RunID       string                   `json:"run_id"`
	CompanyName string                   `json:"company_name"`
	Markdown    string                   `json:"markdown"`
	Structured  *models.StructuredReport `json:"structured,omitempty"`
}

// PersistReport writes the final report.
func (a *Activities) PersistReport(ctx context.Context, in PersistReportInput) error {
	if a.store == nil {
		return nil
	}
	if err := a.store.SaveReport(ctx, in.RunID, in.CompanyName, in.Markdown, in.Structured); err != nil {
		a.logger.Warn("Failed to persist report", zap.String("run_id", in.RunID), zap.Error(err))
		return err
	}
	return nil
}

// PersistStateInput stores a full state snapshot.
type PersistStateInput struct {
	State models.ResearchState `json:"state"`
}

// PersistState writes a state snapshot for auditing.
func (a *Activities) PersistState(ctx context.Context, in PersistStateInput) error {
	if a.store == nil {
		return nil
	}
	if err := a.store.SaveState(ctx, &in.State); err != nil {
		a.logger.Warn("Failed to persist state", zap.String("run_id", in.State.RunID), zap.Error(err))
		return err
	}
	return nil
}
