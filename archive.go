package ponder

import (
	"context"
	"time"
)

// ArchivedSession is the header row for one cleared run of thoughts.
type ArchivedSession struct {
	ID           string    `db:"id" type:"uuid" constraints:"primarykey"`
	ThoughtCount int       `db:"thought_count" type:"integer" constraints:"notnull"`
	BranchCount  int       `db:"branch_count" type:"integer" constraints:"notnull"`
	ClearedAt    time.Time `db:"cleared_at" type:"timestamp" constraints:"notnull"`
}

// ArchivedThought is a thought as written to the archive.
type ArchivedThought struct {
	ID                 string    `db:"id" type:"uuid" constraints:"primarykey" default:"gen_random_uuid()"`
	SessionID          string    `db:"session_id" type:"uuid" constraints:"notnull" references:"thought_sessions(id)"`
	Position           int       `db:"sequence_position" type:"integer" constraints:"notnull"`
	Number             int       `db:"thought_number" type:"integer" constraints:"notnull"`
	Text               string    `db:"thought" type:"text" constraints:"notnull"`
	TotalEstimate      int       `db:"total_thoughts" type:"integer" constraints:"notnull"`
	ContinuationNeeded bool      `db:"next_thought_needed" type:"boolean" constraints:"notnull"`
	NeedsMoreThoughts  bool      `db:"needs_more_thoughts" type:"boolean" constraints:"notnull"`
	IsRevision         bool      `db:"is_revision" type:"boolean" constraints:"notnull"`
	RevisesNumber      *int      `db:"revises_thought" type:"integer"`
	BranchFromNumber   *int      `db:"branch_from_thought" type:"integer"`
	BranchID           string    `db:"branch_id" type:"text" default:"''"`
	RecordedAt         time.Time `db:"recorded_at" type:"timestamp" constraints:"notnull"`
}

// Archive stores cleared sessions for later inspection.
// The live Store never reads from it.
type Archive interface {
	// SaveSession writes a session header and returns it as stored.
	SaveSession(ctx context.Context, session *ArchivedSession) (*ArchivedSession, error)

	// SaveThought writes one thought of a session and returns it with ID populated.
	SaveThought(ctx context.Context, thought *ArchivedThought) (*ArchivedThought, error)

	// GetSession loads a session header by ID.
	GetSession(ctx context.Context, id string) (*ArchivedSession, error)

	// ListSessions returns the most recently cleared sessions first.
	ListSessions(ctx context.Context, limit int) ([]*ArchivedSession, error)

	// GetThoughts loads a session's thoughts in sequence order.
	GetThoughts(ctx context.Context, sessionID string) ([]ArchivedThought, error)

	// DeleteSession removes a session and all its thoughts.
	DeleteSession(ctx context.Context, id string) error
}

// ToArchived converts a recorded thought into its archive row.
func ToArchived(sessionID string, t Thought) ArchivedThought {
	return ArchivedThought{
		SessionID:          sessionID,
		Position:           t.Position,
		Number:             t.Number,
		Text:               t.Text,
		TotalEstimate:      t.TotalEstimate,
		ContinuationNeeded: t.ContinuationNeeded,
		NeedsMoreThoughts:  t.NeedsMoreThoughts,
		IsRevision:         t.IsRevision,
		RevisesNumber:      cloneInt(t.RevisesNumber),
		BranchFromNumber:   cloneInt(t.BranchFromNumber),
		BranchID:           t.BranchID,
		RecordedAt:         t.RecordedAt,
	}
}

// Thought converts an archive row back into a Thought.
func (a ArchivedThought) Thought() Thought {
	return Thought{
		Number:             a.Number,
		Text:               a.Text,
		TotalEstimate:      a.TotalEstimate,
		ContinuationNeeded: a.ContinuationNeeded,
		NeedsMoreThoughts:  a.NeedsMoreThoughts,
		IsRevision:         a.IsRevision,
		RevisesNumber:      cloneInt(a.RevisesNumber),
		BranchFromNumber:   cloneInt(a.BranchFromNumber),
		BranchID:           a.BranchID,
		Position:           a.Position,
		RecordedAt:         a.RecordedAt,
	}
}
