// Package ponder records sequential thinking: an ordered history of reasoning
// steps that supports linear progress, revision of earlier steps, and
// branching into alternate paths.
//
// # Core Types
//
//   - [Store] - The thought history: an append-only log plus a branch index
//   - [Thought] - One recorded step with its sequence metadata
//   - [ThoughtInput] - A caller's submission, validated before any mutation
//
// # Recording Thoughts
//
// Construct one Store per process and pass it to whatever serves requests:
//
//	store := ponder.NewStore()
//	result, err := store.Record(ctx, ponder.ThoughtInput{
//	    Number:             1,
//	    Text:               "Break the problem down",
//	    TotalEstimate:      3,
//	    ContinuationNeeded: true,
//	})
//
// Revisions and branches are metadata on the submission:
//
//	store.Record(ctx, ponder.ThoughtInput{
//	    Number: 2, Text: "Reconsider step 1", TotalEstimate: 3,
//	    IsRevision: true, RevisesNumber: ponder.Int(1),
//	})
//	store.Record(ctx, ponder.ThoughtInput{
//	    Number: 2, Text: "Try the other approach", TotalEstimate: 4,
//	    BranchFromNumber: ponder.Int(1), BranchID: "alt",
//	})
//
// Malformed input fails with an error matching [ErrInvalidArgument].
//
// # Reading and Clearing
//
//   - [Store.History] - Full deep-copied snapshot with the branch mapping
//   - [Store.Summarize] - Count, branch ids and the most recent thoughts
//   - [Store.Branch] - Thoughts of one branch
//   - [Store.Clear] - Empty the history and start a new session
//
// # Archive
//
// A cleared session can be handed to an [Archiver], which writes it to an
// [Archive] with retries and a timeout. [SoyArchive] stores sessions in
// PostgreSQL via soy:
//
//	archive, err := ponder.NewSoyArchive(db)
//	archiver := ponder.NewArchiver(archive)
//	session, err := archiver.Archive(ctx, store.Clear(ctx))
//
// # Observability
//
// Ponder emits capitan signals for every state change. See [signals.go] for
// the complete list of events including ThoughtRecorded, ThoughtRejected,
// BranchCreated, HistoryCleared, ArchiveCompleted and ArchiveFailed.
package ponder

// Int returns a pointer to v, for the optional fields of ThoughtInput.
func Int(v int) *int {
	return &v
}
