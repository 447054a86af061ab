package server

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/zoobzio/ponder"
)

// Tool names.
const (
	ThinkToolName   = "sequentialthinking"
	HistoryToolName = "get_thinking_history"
	ClearToolName   = "clear_thinking_history"
)

// ThinkTool records one thinking step.
type ThinkTool struct {
	store *ponder.Store
}

// NewThinkTool creates the sequentialthinking tool.
func NewThinkTool(store *ponder.Store) *ThinkTool {
	return &ThinkTool{store: store}
}

// Definition returns the MCP tool schema.
func (t *ThinkTool) Definition() mcp.Tool {
	return mcp.NewTool(ThinkToolName,
		mcp.WithDescription(thinkDescription),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(false),
		mcp.WithString("thought",
			mcp.Required(),
			mcp.MinLength(1),
			mcp.Description("Your current thinking step"),
		),
		mcp.WithBoolean("next_thought_needed",
			mcp.Required(),
			mcp.Description("Whether another thought step is needed"),
		),
		mcp.WithNumber("thought_number",
			mcp.Required(),
			mcp.Min(1),
			mcp.Description("Current thought number (starts at 1)"),
		),
		mcp.WithNumber("total_thoughts",
			mcp.Required(),
			mcp.Min(1),
			mcp.Description("Estimated total thoughts needed (can be adjusted)"),
		),
		mcp.WithBoolean("is_revision",
			mcp.Description("Whether this thought revises previous thinking"),
		),
		mcp.WithNumber("revises_thought",
			mcp.Min(1),
			mcp.Description("Which thought number is being reconsidered (required when is_revision is true)"),
		),
		mcp.WithNumber("branch_from_thought",
			mcp.Min(1),
			mcp.Description("Branching point thought number"),
		),
		mcp.WithString("branch_id",
			mcp.Description("Identifier for the current branch"),
		),
		mcp.WithBoolean("needs_more_thoughts",
			mcp.Description("Reached the planned end but more thoughts are needed"),
		),
	)
}

// Handle maps the request onto Store.Record.
func (t *ThinkTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in, err := decodeThought(req)
	if err != nil {
		return failure(err)
	}

	result, err := t.store.Record(ctx, in)
	if err != nil {
		return failure(err)
	}
	return success(result)
}

func decodeThought(req mcp.CallToolRequest) (ponder.ThoughtInput, error) {
	args := req.GetArguments()

	text, err := req.RequireString("thought")
	if err != nil {
		return ponder.ThoughtInput{}, argError("thought", err)
	}
	next, err := req.RequireBool("next_thought_needed")
	if err != nil {
		return ponder.ThoughtInput{}, argError("next_thought_needed", err)
	}
	number, err := requireInt(args, "thought_number")
	if err != nil {
		return ponder.ThoughtInput{}, err
	}
	total, err := requireInt(args, "total_thoughts")
	if err != nil {
		return ponder.ThoughtInput{}, err
	}
	revises, err := optionalInt(args, "revises_thought")
	if err != nil {
		return ponder.ThoughtInput{}, err
	}
	branchFrom, err := optionalInt(args, "branch_from_thought")
	if err != nil {
		return ponder.ThoughtInput{}, err
	}

	return ponder.ThoughtInput{
		Number:             number,
		Text:               text,
		TotalEstimate:      total,
		ContinuationNeeded: next,
		NeedsMoreThoughts:  req.GetBool("needs_more_thoughts", false),
		IsRevision:         req.GetBool("is_revision", false),
		RevisesNumber:      revises,
		BranchFromNumber:   branchFrom,
		BranchID:           req.GetString("branch_id", ""),
	}, nil
}

// HistoryTool reports the recorded thoughts.
type HistoryTool struct {
	store *ponder.Store
}

// NewHistoryTool creates the get_thinking_history tool.
func NewHistoryTool(store *ponder.Store) *HistoryTool {
	return &HistoryTool{store: store}
}

// Definition returns the MCP tool schema.
func (t *HistoryTool) Definition() mcp.Tool {
	return mcp.NewTool(HistoryToolName,
		mcp.WithDescription("Get the current thought history and branch information for the sequential thinking session."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
		mcp.WithNumber("limit",
			mcp.Min(1),
			mcp.Description("Number of most recent thoughts to return (default: 10)"),
		),
		mcp.WithBoolean("full",
			mcp.Description("Return every thought and the thoughts of each branch (default: false)"),
		),
	)
}

// Handle returns a Summary, or the full HistorySnapshot when full is set.
func (t *HistoryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if req.GetBool("full", false) {
		return success(t.store.History(ctx))
	}

	limit, err := optionalInt(req.GetArguments(), "limit")
	if err != nil {
		return failure(err)
	}
	n := 0
	if limit != nil {
		n = *limit
	}
	return success(t.store.Summarize(ctx, n))
}

// ClearTool empties the history, optionally archiving what was removed.
type ClearTool struct {
	store    *ponder.Store
	archiver *ponder.Archiver
}

// NewClearTool creates the clear_thinking_history tool.
func NewClearTool(store *ponder.Store) *ClearTool {
	return &ClearTool{store: store}
}

// SetArchiver enables archiving of cleared sessions.
func (t *ClearTool) SetArchiver(a *ponder.Archiver) {
	t.archiver = a
}

// Definition returns the MCP tool schema.
func (t *ClearTool) Definition() mcp.Tool {
	return mcp.NewTool(ClearToolName,
		mcp.WithDescription("Clear the thought history and start a fresh sequential thinking session."),
		mcp.WithDestructiveHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)
}

type clearData struct {
	Message       string `json:"message"`
	Removed       int    `json:"removed"`
	SessionID     string `json:"session_id"`
	NextSessionID string `json:"next_session_id"`
	Archived      bool   `json:"archived"`
	ArchiveError  string `json:"archive_error,omitempty"`
}

// Handle clears the store. Archive failures are reported in the data and do
// not fail the call: the history is already cleared by then.
func (t *ClearTool) Handle(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cleared := t.store.Clear(ctx)

	data := clearData{
		Message:       "Thought history cleared.",
		Removed:       cleared.Removed,
		SessionID:     cleared.SessionID,
		NextSessionID: cleared.NextSessionID,
	}

	if t.archiver != nil && cleared.Removed > 0 {
		if _, err := t.archiver.Archive(ctx, cleared); err != nil {
			data.ArchiveError = err.Error()
		} else {
			data.Archived = true
		}
	}

	return success(data)
}

const thinkDescription = `A detailed tool for dynamic and reflective problem-solving through thoughts.
Each thought can build on, question, or revise previous insights as understanding deepens.

When to use this tool:
- Breaking down complex problems into steps
- Planning and design with room for revision
- Analysis that might need course correction
- Problems where the full scope might not be clear initially
- Tasks that need to maintain context over multiple steps

Key features:
- You can adjust total_thoughts up or down as you progress
- You can question or revise previous thoughts
- You can add more thoughts even after reaching what seemed like the end
- Not every thought needs to build linearly - you can branch or backtrack

Parameters explained:
- thought: Your current thinking step
- next_thought_needed: True if you need more thinking
- thought_number: Current number in sequence
- total_thoughts: Current estimate of thoughts needed (can be adjusted)
- is_revision: Whether this thought revises previous thinking
- revises_thought: If is_revision is true, which thought number is being reconsidered
- branch_from_thought: If branching, which thought number is the branching point
- branch_id: Identifier for the current branch (if any)
- needs_more_thoughts: If reaching end but realizing more thoughts needed`
