// Package pondertest provides test utilities for ponder.
package pondertest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/zoobzio/ponder"
)

// ErrInjected is returned by MockArchive when a failure is scheduled.
var ErrInjected = errors.New("injected archive failure")

// MockArchive implements ponder.Archive in memory for testing without a database.
type MockArchive struct {
	sessions map[string]*ponder.ArchivedSession
	thoughts map[string][]ponder.ArchivedThought
	failures int
	calls    int
	mu       sync.RWMutex
}

// NewMockArchive creates a new in-memory mock for ponder.Archive.
func NewMockArchive() *MockArchive {
	return &MockArchive{
		sessions: make(map[string]*ponder.ArchivedSession),
		thoughts: make(map[string][]ponder.ArchivedThought),
	}
}

// FailNext makes the next n write calls return ErrInjected.
func (m *MockArchive) FailNext(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures = n
}

// Calls returns the number of write calls made, failed ones included.
func (m *MockArchive) Calls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls
}

func (m *MockArchive) injected() error {
	m.calls++
	if m.failures > 0 {
		m.failures--
		return ErrInjected
	}
	return nil
}

// SaveSession writes a session header and returns it as stored.
func (m *MockArchive) SaveSession(_ context.Context, session *ponder.ArchivedSession) (*ponder.ArchivedSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.injected(); err != nil {
		return nil, err
	}
	if _, ok := m.sessions[session.ID]; ok {
		return nil, fmt.Errorf("session already archived: %s", session.ID)
	}
	stored := *session
	m.sessions[session.ID] = &stored
	return &stored, nil
}

// SaveThought writes one thought of a session and returns it with ID populated.
func (m *MockArchive) SaveThought(_ context.Context, thought *ponder.ArchivedThought) (*ponder.ArchivedThought, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.injected(); err != nil {
		return nil, err
	}
	if _, ok := m.sessions[thought.SessionID]; !ok {
		return nil, fmt.Errorf("session not found: %s", thought.SessionID)
	}
	thought.ID = uuid.New().String()
	m.thoughts[thought.SessionID] = append(m.thoughts[thought.SessionID], *thought)
	return thought, nil
}

// GetSession loads a session header by ID.
func (m *MockArchive) GetSession(_ context.Context, id string) (*ponder.ArchivedSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session not found: %s", id)
	}
	return session, nil
}

// ListSessions returns the most recently cleared sessions first.
func (m *MockArchive) ListSessions(_ context.Context, limit int) ([]*ponder.ArchivedSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sessions := make([]*ponder.ArchivedSession, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].ClearedAt.After(sessions[j].ClearedAt)
	})
	if limit > 0 && len(sessions) > limit {
		sessions = sessions[:limit]
	}
	return sessions, nil
}

// GetThoughts loads a session's thoughts in sequence order.
func (m *MockArchive) GetThoughts(_ context.Context, sessionID string) ([]ponder.ArchivedThought, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows := append([]ponder.ArchivedThought(nil), m.thoughts[sessionID]...)
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Position < rows[j].Position
	})
	return rows, nil
}

// DeleteSession removes a session and all its thoughts.
func (m *MockArchive) DeleteSession(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, id)
	delete(m.thoughts, id)
	return nil
}

// Verify MockArchive implements ponder.Archive.
var _ ponder.Archive = (*MockArchive)(nil)

// Step builds a plain main-line thought input.
func Step(number, total int, text string) ponder.ThoughtInput {
	return ponder.ThoughtInput{
		Number:             number,
		Text:               text,
		TotalEstimate:      total,
		ContinuationNeeded: number < total,
	}
}

// Revision builds an input that revises an earlier step.
func Revision(number, total, revises int, text string) ponder.ThoughtInput {
	in := Step(number, total, text)
	in.IsRevision = true
	in.RevisesNumber = ponder.Int(revises)
	return in
}

// BranchStep builds an input that diverges from an earlier step.
func BranchStep(number, total, from int, branchID, text string) ponder.ThoughtInput {
	in := Step(number, total, text)
	in.BranchFromNumber = ponder.Int(from)
	in.BranchID = branchID
	return in
}

// MustRecord records in and fails the test on error.
func MustRecord(t *testing.T, store *ponder.Store, in ponder.ThoughtInput) ponder.RecordResult {
	t.Helper()
	result, err := store.Record(context.Background(), in)
	if err != nil {
		t.Fatalf("failed to record thought %d: %v", in.Number, err)
	}
	return result
}

// RequireCount asserts the number of recorded thoughts.
func RequireCount(t *testing.T, store *ponder.Store, expected int) {
	t.Helper()
	if got := store.Len(); got != expected {
		t.Fatalf("expected %d thoughts, got %d", expected, got)
	}
}

// RequireBranch asserts that a branch holds thoughts with the given texts, in order.
func RequireBranch(t *testing.T, store *ponder.Store, branchID string, texts ...string) {
	t.Helper()
	thoughts, ok := store.Branch(context.Background(), branchID)
	if !ok {
		t.Fatalf("expected branch %q to exist", branchID)
	}
	if len(thoughts) != len(texts) {
		t.Fatalf("expected %d thoughts in branch %q, got %d", len(texts), branchID, len(thoughts))
	}
	for i, text := range texts {
		if thoughts[i].Text != text {
			t.Fatalf("branch %q[%d]: expected %q, got %q", branchID, i, text, thoughts[i].Text)
		}
	}
}

// RequireInvalid asserts that err is an invalid-argument error for field.
func RequireInvalid(t *testing.T, err error, field string) {
	t.Helper()
	if !errors.Is(err, ponder.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	var iae *ponder.InvalidArgumentError
	if !errors.As(err, &iae) {
		t.Fatalf("expected *InvalidArgumentError, got %T", err)
	}
	if iae.Field != field {
		t.Fatalf("expected invalid field %q, got %q", field, iae.Field)
	}
}
