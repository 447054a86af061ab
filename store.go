package ponder

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zoobzio/capitan"
)

// Store is the thought history: an append-only log of thoughts plus an index
// of named branches over that log.
//
// # Concurrency
//
// Store is safe for concurrent use. Record and Clear hold the write lock for
// the whole read-modify-write of the log and the branch index, so no reader
// can observe a thought that is in the log but missing from its branch, or a
// half-cleared history. Readers receive deep copies.
//
// # Failure Behavior
//
// Record validates its input before taking the lock. A rejected submission
// leaves the store untouched.
type Store struct {
	mu sync.RWMutex

	// Append-only thought log
	thoughts []Thought

	// Secondary index: branch id -> positions in thoughts
	branches    map[string][]int
	branchOrder []string

	// Identifies the run of thoughts since the last clear
	sessionID string

	now func() time.Time
}

// RecordResult summarizes the state after a successful Record.
type RecordResult struct {
	Number             int      `json:"thought_number"`
	TotalEstimate      int      `json:"total_thoughts"`
	ContinuationNeeded bool     `json:"next_thought_needed"`
	Count              int      `json:"thought_history_length"`
	Branches           []string `json:"branches"`
	SessionID          string   `json:"session_id"`
	Formatted          string   `json:"formatted_thought"`
}

// HistorySnapshot is an immutable copy of the full history.
type HistorySnapshot struct {
	Count     int                  `json:"thought_count"`
	Thoughts  []Thought            `json:"history"`
	Branches  map[string][]Thought `json:"branches"`
	SessionID string               `json:"session_id"`
}

// Summary is a bounded view of the most recent thoughts.
type Summary struct {
	Count     int       `json:"thought_count"`
	Branches  []string  `json:"branches"`
	Recent    []Thought `json:"history"`
	SessionID string    `json:"session_id"`
}

// ClearResult describes a Clear. Thoughts holds the detached log; the store
// keeps no reference to it, so the caller may hand it to an Archiver.
type ClearResult struct {
	Removed       int       `json:"removed"`
	SessionID     string    `json:"session_id"`
	NextSessionID string    `json:"next_session_id"`
	Branches      []string  `json:"branches"`
	Thoughts      []Thought `json:"-"`
	ClearedAt     time.Time `json:"cleared_at"`
}

// NewStore creates an empty thought history.
func NewStore() *Store {
	return &Store{
		thoughts:    make([]Thought, 0),
		branches:    make(map[string][]int),
		branchOrder: make([]string, 0),
		sessionID:   uuid.New().String(),
		now:         time.Now,
	}
}

// WithClock sets the time source used to stamp recorded thoughts.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
	return s
}

// Record validates and appends a thought. A thought with a non-empty branch
// id is also indexed under that branch, creating the branch on first use.
//
// Duplicate and out-of-order numbers are accepted; ordering is by insertion.
// The reported total estimate is raised to the thought number when the
// number exceeds it, while the stored thought keeps the submitted estimate.
func (s *Store) Record(ctx context.Context, in ThoughtInput) (RecordResult, error) {
	if err := in.Validate(); err != nil {
		s.emitRejected(ctx, in, err)
		return RecordResult{}, err
	}

	total := in.EffectiveTotal()

	s.mu.Lock()
	t := newThought(in, len(s.thoughts), s.now())
	s.thoughts = append(s.thoughts, t)

	newBranch := false
	if t.BranchID != "" {
		if _, ok := s.branches[t.BranchID]; !ok {
			s.branchOrder = append(s.branchOrder, t.BranchID)
			newBranch = true
		}
		s.branches[t.BranchID] = append(s.branches[t.BranchID], t.Position)
	}

	result := RecordResult{
		Number:             t.Number,
		TotalEstimate:      total,
		ContinuationNeeded: t.ContinuationNeeded,
		Count:              len(s.thoughts),
		Branches:           append(make([]string, 0, len(s.branchOrder)), s.branchOrder...),
		SessionID:          s.sessionID,
		Formatted:          Format(t, total),
	}
	s.mu.Unlock()

	if newBranch {
		capitan.Emit(ctx, BranchCreated,
			FieldSessionID.Field(result.SessionID),
			FieldBranchID.Field(t.BranchID),
			FieldThoughtNumber.Field(t.Number),
			FieldBranchCount.Field(len(result.Branches)),
		)
	}

	capitan.Emit(ctx, ThoughtRecorded,
		FieldSessionID.Field(result.SessionID),
		FieldThoughtNumber.Field(t.Number),
		FieldTotalThoughts.Field(total),
		FieldPosition.Field(t.Position),
		FieldBranchID.Field(t.BranchID),
		FieldIsRevision.Field(t.IsRevision),
		FieldThoughtCount.Field(result.Count),
		FieldContentSize.Field(len(t.Text)),
	)

	return result, nil
}

// History returns a deep copy of the full log and the branch mapping.
// An empty store yields a zero count, an empty slice and an empty map.
func (s *Store) History(_ context.Context) HistorySnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	branches := make(map[string][]Thought, len(s.branches))
	for id, positions := range s.branches {
		list := make([]Thought, len(positions))
		for i, p := range positions {
			list[i] = s.thoughts[p].Clone()
		}
		branches[id] = list
	}

	return HistorySnapshot{
		Count:     len(s.thoughts),
		Thoughts:  cloneThoughts(s.thoughts),
		Branches:  branches,
		SessionID: s.sessionID,
	}
}

// Summarize returns the count, the branch ids and the last limit thoughts.
// A non-positive limit uses DefaultSummaryWindow.
func (s *Store) Summarize(_ context.Context, limit int) Summary {
	if limit <= 0 {
		limit = DefaultSummaryWindow
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	start := len(s.thoughts) - limit
	if start < 0 {
		start = 0
	}

	return Summary{
		Count:     len(s.thoughts),
		Branches:  append(make([]string, 0, len(s.branchOrder)), s.branchOrder...),
		Recent:    cloneThoughts(s.thoughts[start:]),
		SessionID: s.sessionID,
	}
}

// Branch returns the thoughts recorded under id, in insertion order.
func (s *Store) Branch(_ context.Context, id string) ([]Thought, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	positions, ok := s.branches[id]
	if !ok {
		return nil, false
	}
	list := make([]Thought, len(positions))
	for i, p := range positions {
		list[i] = s.thoughts[p].Clone()
	}
	return list, true
}

// Len returns the number of recorded thoughts.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.thoughts)
}

// SessionID returns the identifier of the current run of thoughts.
func (s *Store) SessionID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessionID
}

// Clear empties the log and the branch index in one step and starts a new
// session. Clearing an empty store succeeds and reports zero removed.
func (s *Store) Clear(ctx context.Context) ClearResult {
	s.mu.Lock()
	result := ClearResult{
		Removed:   len(s.thoughts),
		SessionID: s.sessionID,
		Branches:  s.branchOrder,
		Thoughts:  s.thoughts,
		ClearedAt: s.now(),
	}

	s.thoughts = make([]Thought, 0)
	s.branches = make(map[string][]int)
	s.branchOrder = make([]string, 0)
	s.sessionID = uuid.New().String()
	result.NextSessionID = s.sessionID
	s.mu.Unlock()

	capitan.Emit(ctx, HistoryCleared,
		FieldSessionID.Field(result.SessionID),
		FieldNextSessionID.Field(result.NextSessionID),
		FieldRemovedCount.Field(result.Removed),
		FieldBranchCount.Field(len(result.Branches)),
	)

	return result
}

func (s *Store) emitRejected(ctx context.Context, in ThoughtInput, err error) {
	field := ""
	var iae *InvalidArgumentError
	if errors.As(err, &iae) {
		field = iae.Field
	}
	capitan.Error(ctx, ThoughtRejected,
		FieldSessionID.Field(s.SessionID()),
		FieldThoughtNumber.Field(in.Number),
		FieldInvalidField.Field(field),
		FieldError.Field(err),
	)
}
