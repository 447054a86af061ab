package ponder

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/zoobzio/astql/postgres"
	"github.com/zoobzio/soy"
)

// Table names used by SoyArchive.
const (
	SessionsTable = "thought_sessions"
	ThoughtsTable = "archived_thoughts"
)

// SoyArchive implements Archive using soy for PostgreSQL persistence.
type SoyArchive struct {
	sessions *soy.Soy[ArchivedSession]
	thoughts *soy.Soy[ArchivedThought]
	db       *sqlx.DB
}

// NewSoyArchive creates a new soy-backed Archive implementation.
func NewSoyArchive(db *sqlx.DB) (*SoyArchive, error) {
	renderer := postgres.New()

	sessions, err := soy.New[ArchivedSession](db, SessionsTable, renderer)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sessions table: %w", err)
	}

	thoughts, err := soy.New[ArchivedThought](db, ThoughtsTable, renderer)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize thoughts table: %w", err)
	}

	return &SoyArchive{
		sessions: sessions,
		thoughts: thoughts,
		db:       db,
	}, nil
}

// SaveSession writes a session header and returns it as stored.
func (a *SoyArchive) SaveSession(ctx context.Context, session *ArchivedSession) (*ArchivedSession, error) {
	inserted, err := a.sessions.Insert().Exec(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("failed to insert session: %w", err)
	}
	return inserted, nil
}

// SaveThought writes one thought of a session and returns it with ID populated.
func (a *SoyArchive) SaveThought(ctx context.Context, thought *ArchivedThought) (*ArchivedThought, error) {
	inserted, err := a.thoughts.Insert().Exec(ctx, thought)
	if err != nil {
		return nil, fmt.Errorf("failed to insert thought: %w", err)
	}
	return inserted, nil
}

// GetSession loads a session header by ID.
func (a *SoyArchive) GetSession(ctx context.Context, id string) (*ArchivedSession, error) {
	session, err := a.sessions.Select().
		Where("id", "=", "id").
		Exec(ctx, map[string]any{"id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

// ListSessions returns the most recently cleared sessions first.
func (a *SoyArchive) ListSessions(ctx context.Context, limit int) ([]*ArchivedSession, error) {
	if limit <= 0 {
		limit = DefaultSummaryWindow
	}
	sessions, err := a.sessions.Query().
		OrderBy("cleared_at", "desc").
		Limit(limit).
		Exec(ctx, map[string]any{})
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

// GetThoughts loads a session's thoughts in sequence order.
func (a *SoyArchive) GetThoughts(ctx context.Context, sessionID string) ([]ArchivedThought, error) {
	rows, err := a.thoughts.Query().
		Where("session_id", "=", "session_id").
		OrderBy("sequence_position", "asc").
		Exec(ctx, map[string]any{"session_id": sessionID})
	if err != nil {
		return nil, fmt.Errorf("failed to get thoughts: %w", err)
	}

	thoughts := make([]ArchivedThought, len(rows))
	for i, r := range rows {
		thoughts[i] = *r
	}
	return thoughts, nil
}

// DeleteSession removes a session and all its thoughts.
func (a *SoyArchive) DeleteSession(ctx context.Context, id string) error {
	// Thoughts first (foreign key constraint)
	_, err := a.thoughts.Remove().
		Where("session_id", "=", "session_id").
		Exec(ctx, map[string]any{"session_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete thoughts: %w", err)
	}

	_, err = a.sessions.Remove().
		Where("id", "=", "id").
		Exec(ctx, map[string]any{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

// Close closes the underlying database connection.
func (a *SoyArchive) Close() error {
	return a.db.Close()
}

var _ Archive = (*SoyArchive)(nil)
