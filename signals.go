package ponder

import "github.com/zoobzio/capitan"

// Signal definitions for thought history events.
// Signals follow the pattern: ponder.<entity>.<event>.
var (
	// Thought lifecycle signals.
	ThoughtRecorded = capitan.NewSignal(
		"ponder.thought.recorded",
		"Thought appended to the history log",
	)
	ThoughtRejected = capitan.NewSignal(
		"ponder.thought.rejected",
		"Thought submission failed validation and was not recorded",
	)

	// Branch signals.
	BranchCreated = capitan.NewSignal(
		"ponder.branch.created",
		"First thought recorded under a new branch identifier",
	)

	// History signals.
	HistoryCleared = capitan.NewSignal(
		"ponder.history.cleared",
		"History log and branch index emptied",
	)

	// Archive signals.
	ArchiveCompleted = capitan.NewSignal(
		"ponder.archive.completed",
		"Cleared session written to the archive",
	)
	ArchiveFailed = capitan.NewSignal(
		"ponder.archive.failed",
		"Cleared session could not be written to the archive",
	)
)

// Field keys for ponder event data.
var (
	// Session metadata.
	FieldSessionID     = capitan.NewStringKey("session_id")
	FieldNextSessionID = capitan.NewStringKey("next_session_id")
	FieldThoughtCount  = capitan.NewIntKey("thought_count")
	FieldBranchCount   = capitan.NewIntKey("branch_count")
	FieldRemovedCount  = capitan.NewIntKey("removed_count")

	// Thought metadata.
	FieldThoughtNumber = capitan.NewIntKey("thought_number")
	FieldTotalThoughts = capitan.NewIntKey("total_thoughts")
	FieldPosition      = capitan.NewIntKey("sequence_position")
	FieldBranchID      = capitan.NewStringKey("branch_id")
	FieldIsRevision    = capitan.NewBoolKey("is_revision")
	FieldContentSize   = capitan.NewIntKey("content_size") // character count

	// Validation.
	FieldInvalidField = capitan.NewStringKey("invalid_field")

	// Timing.
	FieldArchiveDuration = capitan.NewDurationKey("archive_duration")

	// Error information.
	FieldError = capitan.NewErrorKey("error")
)
