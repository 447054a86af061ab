package ponder

import "time"

// Thought is one recorded reasoning step.
//
// Numbers are caller-supplied and carry no identity: revisions and branches
// reuse them freely, and each submission produces a new Thought. Ordering
// comes from Position, which the store assigns on insertion.
type Thought struct {
	Number             int       `json:"thought_number"`
	Text               string    `json:"thought"`
	TotalEstimate      int       `json:"total_thoughts"`
	ContinuationNeeded bool      `json:"next_thought_needed"`
	NeedsMoreThoughts  bool      `json:"needs_more_thoughts"`
	IsRevision         bool      `json:"is_revision"`
	RevisesNumber      *int      `json:"revises_thought,omitempty"`
	BranchFromNumber   *int      `json:"branch_from_thought,omitempty"`
	BranchID           string    `json:"branch_id,omitempty"`
	Position           int       `json:"sequence_position"`
	RecordedAt         time.Time `json:"recorded_at"`
}

// ThoughtInput is a caller's submission to Store.Record.
type ThoughtInput struct {
	Number             int
	Text               string
	TotalEstimate      int
	ContinuationNeeded bool
	NeedsMoreThoughts  bool
	IsRevision         bool
	RevisesNumber      *int
	BranchFromNumber   *int
	BranchID           string
}

// Validate reports the first malformed field, if any.
// Unknown revision or branch targets are accepted; only shape is checked.
func (in ThoughtInput) Validate() error {
	if in.Text == "" {
		return invalid("thought", "must be a non-empty string")
	}
	if in.Number < 1 {
		return invalid("thought_number", "must be >= 1")
	}
	if in.TotalEstimate < 1 {
		return invalid("total_thoughts", "must be >= 1")
	}
	if in.IsRevision && in.RevisesNumber == nil {
		return invalid("revises_thought", "required when is_revision is true")
	}
	if in.RevisesNumber != nil && *in.RevisesNumber < 1 {
		return invalid("revises_thought", "must be >= 1")
	}
	if in.BranchFromNumber != nil && *in.BranchFromNumber < 1 {
		return invalid("branch_from_thought", "must be >= 1")
	}
	return nil
}

// EffectiveTotal is the total estimate reported back to the caller.
// It never falls below the step number being submitted.
func (in ThoughtInput) EffectiveTotal() int {
	if in.Number > in.TotalEstimate {
		return in.Number
	}
	return in.TotalEstimate
}

// IsBranch reports whether the thought diverges from an earlier step.
func (t Thought) IsBranch() bool {
	return t.BranchFromNumber != nil
}

// Clone returns a deep copy. Optional numbers are reallocated so the copy
// shares no memory with the original.
func (t Thought) Clone() Thought {
	t.RevisesNumber = cloneInt(t.RevisesNumber)
	t.BranchFromNumber = cloneInt(t.BranchFromNumber)
	return t
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneThoughts(src []Thought) []Thought {
	out := make([]Thought, len(src))
	for i, t := range src {
		out[i] = t.Clone()
	}
	return out
}

// newThought builds the stored record for a validated input.
func newThought(in ThoughtInput, position int, now time.Time) Thought {
	return Thought{
		Number:             in.Number,
		Text:               in.Text,
		TotalEstimate:      in.TotalEstimate,
		ContinuationNeeded: in.ContinuationNeeded,
		NeedsMoreThoughts:  in.NeedsMoreThoughts,
		IsRevision:         in.IsRevision,
		RevisesNumber:      cloneInt(in.RevisesNumber),
		BranchFromNumber:   cloneInt(in.BranchFromNumber),
		BranchID:           in.BranchID,
		Position:           position,
		RecordedAt:         now,
	}
}
