package reminder

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/notexe/assistant/internal/errors"
)

const (
	serverName    = "reminder"
	serverVersion = "1.0.0"
)

// Server exposes a Manager as MCP tools.
type Server struct {
	mcpServer *server.MCPServer
	manager   *Manager
}

// NewServer creates a new Reminder MCP server backed by the given manager.
func NewServer(manager *Manager) *Server {
	s := &Server{
		manager: manager,
	}

	s.mcpServer = server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(false),
	)

	s.registerTools()
	return s
}

// MCPServer returns the underlying MCP server for serving.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("add_reminder",
			mcp.WithDescription("Add a one-shot reminder. time accepts '3 PM', '7:45 pm', '15:30', 'in 10 minutes' or 'in 2 hours'"),
			mcp.WithString("label", mcp.Required(), mcp.Description("What to remind about")),
			mcp.WithString("time", mcp.Required(), mcp.Description("When to fire, e.g. 'in 5 minutes' or '7:45 pm'")),
		),
		s.handleAddReminder,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("remind_from_text",
			mcp.WithDescription("Create a reminder from a natural-language command such as 'remind me to call John at 7 pm'"),
			mcp.WithString("command", mcp.Required(), mcp.Description("The raw command text")),
		),
		s.handleRemindFromText,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("list_reminders",
			mcp.WithDescription("List reminders in creation order; fired reminders are hidden unless include_triggered is true"),
			mcp.WithBoolean("include_triggered", mcp.Description("Include reminders that already fired")),
		),
		s.handleListReminders,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("delete_reminder",
			mcp.WithDescription("Delete a reminder by ID; deleting an unknown ID is not an error"),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Reminder ID")),
		),
		s.handleDeleteReminder,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("clear_reminders",
			mcp.WithDescription("Delete all reminders"),
		),
		s.handleClearReminders,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("poll_popup",
			mcp.WithDescription("Claim the next fired reminder that has not been shown yet"),
		),
		s.handlePollPopup,
	)
}

func (s *Server) handleAddReminder(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	label := req.GetString("label", "")
	timeSpec := req.GetString("time", "")

	if timeSpec == "" {
		return mcp.NewToolResultError("time is required"), nil
	}

	result, err := s.manager.Add(label, timeSpec)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(result)
}

func (s *Server) handleRemindFromText(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	command := req.GetString("command", "")
	if command == "" {
		return mcp.NewToolResultError("command is required"), nil
	}

	result, err := s.manager.AddFromText(command)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(result)
}

func (s *Server) handleListReminders(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reminders := s.manager.List(req.GetBool("include_triggered", false))
	if len(reminders) == 0 {
		return mcp.NewToolResultText("No reminders found."), nil
	}
	return jsonResult(reminders)
}

func (s *Server) handleDeleteReminder(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idFloat := req.GetFloat("id", -1)
	if idFloat < 0 {
		return mcp.NewToolResultError("id is required and must be a positive number"), nil
	}
	id := int64(idFloat)

	s.manager.Delete(id)
	return mcp.NewToolResultText(fmt.Sprintf("Reminder %d deleted.", id)), nil
}

func (s *Server) handleClearReminders(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.manager.Clear()
	return mcp.NewToolResultText("All reminders cleared."), nil
}

func (s *Server) handlePollPopup(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	r, ok := s.manager.PollPopup()
	if !ok {
		return mcp.NewToolResultText("No pending popups."), nil
	}
	return jsonResult(r)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return mcp.NewToolResultText(string(output)), nil
}

func errorResult(err error) *mcp.CallToolResult {
	if aErr, ok := errors.As(err); ok {
		return mcp.NewToolResultError(fmt.Sprintf("%s: %s", aErr.Code, aErr.Message))
	}
	return mcp.NewToolResultError(err.Error())
}
