package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/zoobzio/ponder"
)

func TestNewLoggerRejectsUnknownLevel(t *testing.T) {
	if _, err := newLogger(&bytes.Buffer{}, "loud"); err == nil {
		t.Error("expected unknown level to be rejected")
	}
}

func TestHookSignalsLogsEvents(t *testing.T) {
	var out lockedBuffer
	log, err := newLogger(&out, "debug")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	unhook := hookSignals(log)
	defer unhook()

	store := ponder.NewStore()
	if _, err := store.Record(context.Background(), ponder.ThoughtInput{Number: 1, Text: "x", TotalEstimate: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, _ = store.Record(context.Background(), ponder.ThoughtInput{Number: 0, Text: "x", TotalEstimate: 1})

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		logged := out.String()
		if strings.Contains(logged, ponder.ThoughtRejected.Name()) && strings.Contains(logged, ponder.ThoughtRecorded.Name()) {
			break
		}
		time.Sleep(time.Millisecond)
	}

	var recorded, rejected map[string]any
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("log line is not JSON: %q", line)
		}
		switch entry["message"] {
		case ponder.ThoughtRecorded.Name():
			recorded = entry
		case ponder.ThoughtRejected.Name():
			rejected = entry
		}
	}

	if recorded == nil {
		t.Fatal("expected recorded event to be logged")
	}
	if recorded["level"] != "info" {
		t.Errorf("expected info level, got %v", recorded["level"])
	}
	if recorded["session_id"] != store.SessionID() {
		t.Errorf("expected session_id field, got %v", recorded["session_id"])
	}

	if rejected == nil {
		t.Fatal("expected rejected event to be logged")
	}
	if rejected["level"] != "error" {
		t.Errorf("expected error level, got %v", rejected["level"])
	}
	if rejected["invalid_field"] != "thought_number" {
		t.Errorf("expected invalid_field thought_number, got %v", rejected["invalid_field"])
	}
}

// lockedBuffer is a bytes.Buffer safe for the concurrent writes of signal listeners.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
