package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aitutor/orchestrator/pkg/models"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store on a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (creating if needed) the interaction-log database.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// WAL mode for concurrent readers while the writer appends.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS agent_interactions (
		id TEXT PRIMARY KEY,
		agent TEXT NOT NULL,
		user_query TEXT NOT NULL,
		agent_response TEXT NOT NULL,
		selected_tool TEXT,
		model_used TEXT,
		classification TEXT,
		confidence TEXT,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_interactions_created ON agent_interactions(created_at);
	CREATE INDEX IF NOT EXISTS idx_interactions_agent ON agent_interactions(agent);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// SaveInteraction appends one row. A missing id or timestamp is filled in.
func (s *SQLiteStore) SaveInteraction(ctx context.Context, in *models.Interaction) error {
	if in.ID == "" {
		in.ID = uuid.New().String()
	}
	if in.CreatedAt.IsZero() {
		in.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO agent_interactions
			(id, agent, user_query, agent_response, selected_tool, model_used, classification, confidence, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		in.ID, in.Agent, in.UserQuery, in.AgentResponse,
		in.SelectedTool, in.ModelUsed, in.Classification, in.Confidence,
		in.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert interaction: %w", err)
	}
	return nil
}

// ListRecent returns up to limit interactions, newest first.
func (s *SQLiteStore) ListRecent(ctx context.Context, limit int) ([]models.Interaction, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT id, agent, user_query, agent_response, selected_tool, model_used, classification, confidence, created_at
		FROM agent_interactions
		ORDER BY created_at DESC, id
		LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query interactions: %w", err)
	}
	defer rows.Close()

	var out []models.Interaction
	for rows.Next() {
		var in models.Interaction
		var selectedTool, modelUsed, classification, confidence sql.NullString
		var createdAt int64

		if err := rows.Scan(
			&in.ID, &in.Agent, &in.UserQuery, &in.AgentResponse,
			&selectedTool, &modelUsed, &classification, &confidence,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan interaction row: %w", err)
		}

		in.SelectedTool = selectedTool.String
		in.ModelUsed = modelUsed.String
		in.Classification = classification.String
		in.Confidence = confidence.String
		in.CreatedAt = time.Unix(createdAt, 0).UTC()
		out = append(out, in)
	}
	return out, rows.Err()
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the connection pool.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
