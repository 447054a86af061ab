//go:build integration

package integration_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/zoobzio/ponder"
	pondertest "github.com/zoobzio/ponder/testing"
)

func getTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}

	return db
}

func newArchive(t *testing.T) *ponder.SoyArchive {
	t.Helper()

	archive, err := ponder.NewSoyArchive(getTestDB(t))
	if err != nil {
		t.Fatalf("failed to create archive: %v", err)
	}
	t.Cleanup(func() { _ = archive.Close() })
	return archive
}

func TestSoyArchive_SessionRoundTrip(t *testing.T) {
	archive := newArchive(t)
	ctx := context.Background()

	store := ponder.NewStore()
	pondertest.MustRecord(t, store, pondertest.Step(1, 3, "start"))
	pondertest.MustRecord(t, store, pondertest.Revision(2, 3, 1, "refine"))
	pondertest.MustRecord(t, store, pondertest.BranchStep(1, 3, 1, "b1", "branch-a"))
	cleared := store.Clear(ctx)

	session, err := ponder.NewArchiver(archive).Archive(ctx, cleared)
	if err != nil {
		t.Fatalf("failed to archive session: %v", err)
	}
	defer func() { _ = archive.DeleteSession(ctx, session.ID) }()

	loaded, err := archive.GetSession(ctx, cleared.SessionID)
	if err != nil {
		t.Fatalf("failed to get session: %v", err)
	}
	if loaded.ThoughtCount != 3 || loaded.BranchCount != 1 {
		t.Errorf("expected 3 thoughts and 1 branch, got %d and %d", loaded.ThoughtCount, loaded.BranchCount)
	}

	rows, err := archive.GetThoughts(ctx, cleared.SessionID)
	if err != nil {
		t.Fatalf("failed to get thoughts: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 thoughts, got %d", len(rows))
	}
	for i, row := range rows {
		if row.Position != i {
			t.Errorf("row %d: expected position %d, got %d", i, i, row.Position)
		}
	}
	if rows[1].RevisesNumber == nil || *rows[1].RevisesNumber != 1 {
		t.Errorf("expected revises_thought 1, got %v", rows[1].RevisesNumber)
	}
	if rows[2].BranchID != "b1" {
		t.Errorf("expected branch b1, got %q", rows[2].BranchID)
	}
}

func TestSoyArchive_ListSessions(t *testing.T) {
	archive := newArchive(t)
	ctx := context.Background()

	older := &ponder.ArchivedSession{ID: "00000000-0000-4000-8000-000000000001", ThoughtCount: 1, ClearedAt: time.Now().Add(-time.Hour)}
	newer := &ponder.ArchivedSession{ID: "00000000-0000-4000-8000-000000000002", ThoughtCount: 2, ClearedAt: time.Now()}
	for _, s := range []*ponder.ArchivedSession{older, newer} {
		if _, err := archive.SaveSession(ctx, s); err != nil {
			t.Fatalf("failed to save session: %v", err)
		}
		defer func(id string) { _ = archive.DeleteSession(ctx, id) }(s.ID)
	}

	sessions, err := archive.ListSessions(ctx, 1)
	if err != nil {
		t.Fatalf("failed to list sessions: %v", err)
	}
	if len(sessions) != 1 || sessions[0].ID != newer.ID {
		t.Errorf("expected newest session first, got %v", sessions)
	}
}

func TestSoyArchive_DeleteSession(t *testing.T) {
	archive := newArchive(t)
	ctx := context.Background()

	store := ponder.NewStore()
	pondertest.MustRecord(t, store, pondertest.Step(1, 1, "only"))
	cleared := store.Clear(ctx)

	if _, err := ponder.NewArchiver(archive).Archive(ctx, cleared); err != nil {
		t.Fatalf("failed to archive session: %v", err)
	}
	if err := archive.DeleteSession(ctx, cleared.SessionID); err != nil {
		t.Fatalf("failed to delete session: %v", err)
	}

	if _, err := archive.GetSession(ctx, cleared.SessionID); err == nil {
		t.Error("expected deleted session to be gone")
	}
	rows, err := archive.GetThoughts(ctx, cleared.SessionID)
	if err != nil {
		t.Fatalf("failed to get thoughts: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("expected no thoughts, got %d", len(rows))
	}
}
