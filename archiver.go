package ponder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/pipz"
)

// archiveJob carries a cleared session through the archive pipeline.
// written tracks progress so a retried attempt resumes instead of
// duplicating rows.
type archiveJob struct {
	cleared ClearResult
	session *ArchivedSession
	written int
}

// Archiver writes cleared sessions to an Archive.
//
// Writes go through a pipz pipeline: the write is retried with exponential
// backoff, and the whole operation is bounded by a timeout.
//
// Example:
//
//	archiver := ponder.NewArchiver(archive).WithAttempts(5)
//	cleared := store.Clear(ctx)
//	session, err := archiver.Archive(ctx, cleared)
type Archiver struct {
	archive Archive

	// Configuration
	attempts  int
	baseDelay time.Duration
	timeout   time.Duration

	// Built pipeline (lazy initialization)
	pipeline pipz.Chainable[*archiveJob]
	once     sync.Once
}

// NewArchiver creates an archiver with the package defaults.
func NewArchiver(archive Archive) *Archiver {
	return &Archiver{
		archive:   archive,
		attempts:  DefaultArchiveAttempts,
		baseDelay: DefaultArchiveBaseDelay,
		timeout:   DefaultArchiveTimeout,
	}
}

// Archive writes the session and its thoughts. An empty clear has nothing
// to write and returns (nil, nil).
func (a *Archiver) Archive(ctx context.Context, cleared ClearResult) (*ArchivedSession, error) {
	if cleared.Removed == 0 {
		return nil, nil
	}

	a.once.Do(a.build)

	start := time.Now()
	job, err := a.pipeline.Process(ctx, &archiveJob{cleared: cleared})
	duration := time.Since(start)

	if err != nil {
		capitan.Error(ctx, ArchiveFailed,
			FieldSessionID.Field(cleared.SessionID),
			FieldThoughtCount.Field(cleared.Removed),
			FieldArchiveDuration.Field(duration),
			FieldError.Field(err),
		)
		return nil, fmt.Errorf("archive session %s: %w", cleared.SessionID, err)
	}

	capitan.Emit(ctx, ArchiveCompleted,
		FieldSessionID.Field(cleared.SessionID),
		FieldThoughtCount.Field(job.written),
		FieldBranchCount.Field(len(cleared.Branches)),
		FieldArchiveDuration.Field(duration),
	)

	return job.session, nil
}

func (a *Archiver) build() {
	write := pipz.Apply(
		pipz.NewIdentity("archive-write", "Writes a cleared session and its thoughts"),
		a.write,
	)
	retried := pipz.NewBackoff(
		pipz.NewIdentity("archive-backoff", "Retries archive writes with exponential backoff"),
		write, a.attempts, a.baseDelay,
	)
	a.pipeline = pipz.NewTimeout(
		pipz.NewIdentity("archive-timeout", "Bounds the archive operation"),
		retried, a.timeout,
	)
}

func (a *Archiver) write(ctx context.Context, job *archiveJob) (*archiveJob, error) {
	if job.session == nil {
		session, err := a.archive.SaveSession(ctx, &ArchivedSession{
			ID:           job.cleared.SessionID,
			ThoughtCount: job.cleared.Removed,
			BranchCount:  len(job.cleared.Branches),
			ClearedAt:    job.cleared.ClearedAt,
		})
		if err != nil {
			return job, err
		}
		job.session = session
	}

	for job.written < len(job.cleared.Thoughts) {
		row := ToArchived(job.cleared.SessionID, job.cleared.Thoughts[job.written])
		if _, err := a.archive.SaveThought(ctx, &row); err != nil {
			return job, err
		}
		job.written++
	}

	return job, nil
}

// Builder methods

// WithAttempts sets the maximum number of write attempts.
func (a *Archiver) WithAttempts(n int) *Archiver {
	if n < 1 {
		n = 1
	}
	a.attempts = n
	return a
}

// WithBaseDelay sets the first backoff interval.
func (a *Archiver) WithBaseDelay(d time.Duration) *Archiver {
	a.baseDelay = d
	return a
}

// WithTimeout sets the overall time limit, retries included.
func (a *Archiver) WithTimeout(d time.Duration) *Archiver {
	a.timeout = d
	return a
}
