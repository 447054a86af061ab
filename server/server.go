// Package server exposes a ponder.Store as MCP tools.
//
// This is the composition root for the tool surface: it builds the tools
// around a shared store and registers them on an mcp-go server. No history
// logic lives here.
package server

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/zoobzio/ponder"
)

// Name is the MCP server name reported to clients.
const Name = "sequential-thinking-mcp"

// Version is set at build time via ldflags.
var Version = "dev"

// New creates the MCP server with the thinking tools registered.
// archiver may be nil, in which case cleared sessions are discarded.
func New(store *ponder.Store, archiver *ponder.Archiver) *server.MCPServer {
	s := server.NewMCPServer(
		Name,
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	thinkTool := NewThinkTool(store)
	s.AddTool(thinkTool.Definition(), thinkTool.Handle)

	historyTool := NewHistoryTool(store)
	s.AddTool(historyTool.Definition(), historyTool.Handle)

	clearTool := NewClearTool(store)
	if archiver != nil {
		clearTool.SetArchiver(archiver)
	}
	s.AddTool(clearTool.Definition(), clearTool.Handle)

	return s
}

const instructions = `Record reasoning one step at a time with sequentialthinking.
Revise earlier steps with is_revision/revises_thought and explore alternatives
with branch_from_thought/branch_id. Use get_thinking_history to review and
clear_thinking_history to start over.`
