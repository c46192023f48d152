package db

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/briefwright/orchestrator/internal/models"
)

func newMockClient(t *testing.T) (*Client, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return NewClientFromDB(sqlx.NewDb(mockDB, "sqlmock"), zap.NewNop()), mock
}

func TestSavePageUpserts(t *testing.T) {
	c, mock := newMockClient(t)
	mock.ExpectExec("INSERT INTO evidence_pages").
		WithArgs("run-1", "https://acme.example/a", "A", "alpha").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := c.SavePage(context.Background(), "run-1", models.EvidencePage{
		URL:   "https://acme.example/a",
		Title: "A",
		Text:  "alpha",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveNoteMarshalsSources(t *testing.T) {
	c, mock := newMockClient(t)
	mock.ExpectExec("INSERT INTO notes").
		WithArgs("run-1", "q_0", "findings", []byte(`["https://acme.example/a"]`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := c.SaveNote(context.Background(), "run-1", models.Note{
		QuestionID: "q_0",
		Content:    "findings",
		Sources:    []string{"https://acme.example/a"},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveReportWithoutStructuredForm(t *testing.T) {
	c, mock := newMockClient(t)
	mock.ExpectExec("INSERT INTO reports").
		WithArgs("run-1", "Acme Capital", "# Report", []byte(nil)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := c.SaveReport(context.Background(), "run-1", "Acme Capital", "# Report", nil)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveStateSnapshots(t *testing.T) {
	c, mock := newMockClient(t)
	mock.ExpectExec("INSERT INTO research_states").
		WithArgs("run-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	state := models.NewResearchState("run-1", models.ResearchBrief{CompanyName: "Acme Capital"})
	err := c.SaveState(context.Background(), state)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveNoteDatabaseError(t *testing.T) {
	c, mock := newMockClient(t)
	mock.ExpectExec("INSERT INTO notes").
		WillReturnError(assert.AnError)

	err := c.SaveNote(context.Background(), "run-1", models.Note{QuestionID: "q_0"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save note")
}
