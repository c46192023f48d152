package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/briefwright/orchestrator/internal/models"
)

// Config holds database connection settings.
type Config struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	SSLMode         string
	MaxConnections  int
	IdleConnections int
	MaxLifetime     time.Duration
}

// Client persists research artifacts: evidence pages, notes, reports, and
// full state snapshots. All writes are side effects with no read-back within
// a run.
type Client struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewClient opens a pooled Postgres connection.
func NewClient(cfg *Config, logger *zap.Logger) (*Client, error) {
	if cfg.MaxConnections == 0 {
		cfg.MaxConnections = 25
	}
	if cfg.IdleConnections == 0 {
		cfg.IdleConnections = 5
	}
	if cfg.MaxLifetime == 0 {
		cfg.MaxLifetime = 5 * time.Minute
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = "disable"
	}

	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.IdleConnections)
	db.SetConnMaxLifetime(cfg.MaxLifetime)

	return &Client{db: db, logger: logger}, nil
}

// NewClientFromDB wraps an existing connection; used by tests.
func NewClientFromDB(db *sqlx.DB, logger *zap.Logger) *Client {
	return &Client{db: db, logger: logger}
}

// Close releases the connection pool.
func (c *Client) Close() error {
	return c.db.Close()
}

// Ping verifies connectivity; used by the health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// SavePage upserts one fetched evidence page for a run.
func (c *Client) SavePage(ctx context.Context, runID string, page models.EvidencePage) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO evidence_pages (run_id, url, title, text, fetched_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (run_id, url) DO UPDATE SET title = $3, text = $4, fetched_at = NOW()`,
		runID, page.URL, page.Title, page.Text,
	)
	if err != nil {
		return fmt.Errorf("save page: %w", err)
	}
	return nil
}

// SaveNote upserts one research note. Merged refinement findings overwrite
// the note content wholesale.
func (c *Client) SaveNote(ctx context.Context, runID string, note models.Note) error {
	sources, err := json.Marshal(note.Sources)
	if err != nil {
		return fmt.Errorf("save note: %w", err)
	}
	_, err = c.db.ExecContext(ctx, `
		INSERT INTO notes (run_id, question_id, content, sources, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (run_id, question_id) DO UPDATE SET content = $3, sources = $4, updated_at = NOW()`,
		runID, note.QuestionID, note.Content, sources,
	)
	if err != nil {
		return fmt.Errorf("save note: %w", err)
	}
	return nil
}

// SaveReport stores the final report in both markdown and structured form.
func (c *Client) SaveReport(ctx context.Context, runID, companyName, markdown string, structured *models.StructuredReport) error {
	var structuredJSON []byte
	if structured != nil {
		var err error
		structuredJSON, err = json.Marshal(structured)
		if err != nil {
			return fmt.Errorf("save report: %w", err)
		}
	}
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO reports (run_id, company_name, markdown, structured, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (run_id) DO UPDATE SET markdown = $3, structured = $4`,
		runID, companyName, markdown, structuredJSON,
	)
	if err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

// SaveState stores a full state snapshot for auditing.
func (c *Client) SaveState(ctx context.Context, state *models.ResearchState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	_, err = c.db.ExecContext(ctx, `
		INSERT INTO research_states (run_id, state, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (run_id) DO UPDATE SET state = $2, updated_at = NOW()`,
		state.RunID, raw,
	)
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}
