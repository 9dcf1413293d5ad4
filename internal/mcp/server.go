// Package mcp exposes the running bar daemon to MCP clients over stdio.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/limbo/internal/compositor"
	"github.com/1broseidon/limbo/internal/ipc"
)

const (
	ServerName    = "limbo"
	ServerVersion = "0.1.0"
)

// Daemon is the part of the IPC client the tools use.
type Daemon interface {
	GetStatus() (*ipc.StatusData, error)
	GetWorkspaces() ([]compositor.WorkspaceInfo, error)
	FocusWorkspace(id compositor.WorkspaceID) error
	CycleWorkspace(forward bool) error
}

var _ Daemon = (*ipc.Client)(nil)

// Server is the MCP server for workspace inspection and switching.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    Daemon
}

// NewServer creates an MCP server that forwards to daemon.
func NewServer(daemon Daemon) *Server {
	s := &Server{daemon: daemon}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Report the bar daemon's backend, outputs and uptime, plus the latest CPU usage, CPU temperature and memory use sample.",
	}, s.handleGetStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_workspaces",
		Description: "List the workspaces the bar currently shows, in display order, with their active and occupied state. Optionally filter by output name.",
	}, s.handleListWorkspaces)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "focus_workspace",
		Description: "Switch the compositor to the workspace with the given id. Ids come from list_workspaces.",
	}, s.handleFocusWorkspace)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "cycle_workspace",
		Description: "Move to the next or previous workspace on the focused output.",
	}, s.handleCycleWorkspace)
}
