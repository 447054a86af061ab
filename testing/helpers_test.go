package pondertest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/zoobzio/ponder"
)

func TestMockArchive(t *testing.T) {
	ctx := context.Background()
	archive := NewMockArchive()
	clearedAt := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("SaveSession", func(t *testing.T) {
		session, err := archive.SaveSession(ctx, &ponder.ArchivedSession{ID: "s1", ThoughtCount: 2, ClearedAt: clearedAt})
		if err != nil {
			t.Fatalf("SaveSession failed: %v", err)
		}
		if session.ID != "s1" {
			t.Errorf("expected id s1, got %q", session.ID)
		}

		if _, err := archive.SaveSession(ctx, &ponder.ArchivedSession{ID: "s1"}); err == nil {
			t.Error("expected duplicate session to be rejected")
		}
	})

	t.Run("SaveThought", func(t *testing.T) {
		for _, pos := range []int{1, 0} {
			row := ponder.ArchivedThought{SessionID: "s1", Position: pos, Number: pos + 1, Text: "x"}
			saved, err := archive.SaveThought(ctx, &row)
			if err != nil {
				t.Fatalf("SaveThought failed: %v", err)
			}
			if saved.ID == "" {
				t.Error("expected thought to have ID")
			}
		}

		if _, err := archive.SaveThought(ctx, &ponder.ArchivedThought{SessionID: "missing"}); err == nil {
			t.Error("expected thought for unknown session to be rejected")
		}
	})

	t.Run("GetThoughts", func(t *testing.T) {
		rows, err := archive.GetThoughts(ctx, "s1")
		if err != nil {
			t.Fatalf("GetThoughts failed: %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("expected 2 thoughts, got %d", len(rows))
		}
		if rows[0].Position != 0 || rows[1].Position != 1 {
			t.Errorf("expected thoughts in sequence order, got %d, %d", rows[0].Position, rows[1].Position)
		}
	})

	t.Run("ListSessions", func(t *testing.T) {
		_, _ = archive.SaveSession(ctx, &ponder.ArchivedSession{ID: "s2", ClearedAt: clearedAt.Add(time.Hour)})

		sessions, err := archive.ListSessions(ctx, 1)
		if err != nil {
			t.Fatalf("ListSessions failed: %v", err)
		}
		if len(sessions) != 1 || sessions[0].ID != "s2" {
			t.Errorf("expected most recent session s2, got %v", sessions)
		}
	})

	t.Run("DeleteSession", func(t *testing.T) {
		if err := archive.DeleteSession(ctx, "s1"); err != nil {
			t.Fatalf("DeleteSession failed: %v", err)
		}
		if _, err := archive.GetSession(ctx, "s1"); err == nil {
			t.Error("expected deleted session to be gone")
		}
		rows, _ := archive.GetThoughts(ctx, "s1")
		if len(rows) != 0 {
			t.Errorf("expected thoughts to be deleted, got %d", len(rows))
		}
	})

	t.Run("FailNext", func(t *testing.T) {
		archive.FailNext(1)
		before := archive.Calls()

		_, err := archive.SaveSession(ctx, &ponder.ArchivedSession{ID: "s3"})
		if !errors.Is(err, ErrInjected) {
			t.Fatalf("expected ErrInjected, got %v", err)
		}
		if _, err := archive.SaveSession(ctx, &ponder.ArchivedSession{ID: "s3"}); err != nil {
			t.Fatalf("expected second call to succeed, got %v", err)
		}
		if archive.Calls()-before != 2 {
			t.Errorf("expected 2 calls counted, got %d", archive.Calls()-before)
		}
	})
}

func TestBuilders(t *testing.T) {
	step := Step(2, 3, "plain")
	if !step.ContinuationNeeded {
		t.Error("expected continuation before the last step")
	}
	if Step(3, 3, "last").ContinuationNeeded {
		t.Error("expected no continuation on the last step")
	}

	rev := Revision(3, 3, 1, "again")
	if !rev.IsRevision || rev.RevisesNumber == nil || *rev.RevisesNumber != 1 {
		t.Errorf("unexpected revision input %+v", rev)
	}

	br := BranchStep(2, 3, 1, "alt", "fork")
	if br.BranchID != "alt" || br.BranchFromNumber == nil || *br.BranchFromNumber != 1 {
		t.Errorf("unexpected branch input %+v", br)
	}
}

func TestAssertions(t *testing.T) {
	store := ponder.NewStore()

	MustRecord(t, store, Step(1, 3, "main"))
	MustRecord(t, store, BranchStep(2, 3, 1, "alt", "fork"))
	MustRecord(t, store, Revision(3, 3, 1, "again"))

	RequireCount(t, store, 3)
	RequireBranch(t, store, "alt", "fork")

	_, err := store.Record(context.Background(), Step(0, 3, "bad"))
	RequireInvalid(t, err, "thought_number")
}
