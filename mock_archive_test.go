package ponder

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

var errMockWrite = errors.New("mock archive write failed")

// mockArchive implements Archive for testing without a database.
type mockArchive struct {
	sessions map[string]*ArchivedSession
	thoughts map[string][]ArchivedThought
	failAt   map[int]bool
	writes   int
	mu       sync.RWMutex
}

func newMockArchive() *mockArchive {
	return &mockArchive{
		sessions: make(map[string]*ArchivedSession),
		thoughts: make(map[string][]ArchivedThought),
		failAt:   make(map[int]bool),
	}
}

// failOn makes the given write calls (1-based) fail.
func (m *mockArchive) failOn(calls ...int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range calls {
		m.failAt[c] = true
	}
}

func (m *mockArchive) write() error {
	m.writes++
	if m.failAt[m.writes] {
		return errMockWrite
	}
	return nil
}

func (m *mockArchive) SaveSession(_ context.Context, session *ArchivedSession) (*ArchivedSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.write(); err != nil {
		return nil, err
	}
	if _, ok := m.sessions[session.ID]; ok {
		return nil, fmt.Errorf("duplicate session: %s", session.ID)
	}
	stored := *session
	m.sessions[session.ID] = &stored
	return &stored, nil
}

func (m *mockArchive) SaveThought(_ context.Context, thought *ArchivedThought) (*ArchivedThought, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.write(); err != nil {
		return nil, err
	}
	if _, ok := m.sessions[thought.SessionID]; !ok {
		return nil, fmt.Errorf("session not found: %s", thought.SessionID)
	}
	thought.ID = uuid.New().String()
	m.thoughts[thought.SessionID] = append(m.thoughts[thought.SessionID], *thought)
	return thought, nil
}

func (m *mockArchive) GetSession(_ context.Context, id string) (*ArchivedSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session not found: %s", id)
	}
	return session, nil
}

func (m *mockArchive) ListSessions(_ context.Context, limit int) ([]*ArchivedSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sessions := make([]*ArchivedSession, 0, len(m.sessions))
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

func (m *mockArchive) GetThoughts(_ context.Context, sessionID string) ([]ArchivedThought, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]ArchivedThought(nil), m.thoughts[sessionID]...), nil
}

func (m *mockArchive) DeleteSession(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, id)
	delete(m.thoughts, id)
	return nil
}
