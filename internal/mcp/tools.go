package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/limbo/internal/compositor"
)

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetStatusInput) (*mcpsdk.CallToolResult, GetStatusOutput, error) {
	status, err := s.daemon.GetStatus()
	if err != nil {
		return nil, GetStatusOutput{}, err
	}
	return nil, toStatusOutput(status), nil
}

func (s *Server) handleListWorkspaces(_ context.Context, _ *mcpsdk.CallToolRequest, args ListWorkspacesInput) (*mcpsdk.CallToolResult, ListWorkspacesOutput, error) {
	status, err := s.daemon.GetStatus()
	if err != nil {
		return nil, ListWorkspacesOutput{}, err
	}
	infos, err := s.daemon.GetWorkspaces()
	if err != nil {
		return nil, ListWorkspacesOutput{}, err
	}

	out := ListWorkspacesOutput{
		Backend:    status.Backend,
		Workspaces: make([]WorkspaceInfo, 0, len(infos)),
	}
	for _, info := range infos {
		if args.Output != "" && info.Output != args.Output {
			continue
		}
		out.Workspaces = append(out.Workspaces, toWorkspaceInfo(info))
	}
	return nil, out, nil
}

func (s *Server) handleFocusWorkspace(_ context.Context, _ *mcpsdk.CallToolRequest, args FocusWorkspaceInput) (*mcpsdk.CallToolResult, FocusWorkspaceOutput, error) {
	if err := s.daemon.FocusWorkspace(compositor.WorkspaceID(args.ID)); err != nil {
		return nil, FocusWorkspaceOutput{}, err
	}
	return nil, FocusWorkspaceOutput{ID: args.ID, Focused: true}, nil
}

func (s *Server) handleCycleWorkspace(_ context.Context, _ *mcpsdk.CallToolRequest, args CycleWorkspaceInput) (*mcpsdk.CallToolResult, CycleWorkspaceOutput, error) {
	forward, err := parseDirection(args.Direction)
	if err != nil {
		return nil, CycleWorkspaceOutput{}, err
	}
	if err := s.daemon.CycleWorkspace(forward); err != nil {
		return nil, CycleWorkspaceOutput{}, err
	}
	dir := "prev"
	if forward {
		dir = "next"
	}
	return nil, CycleWorkspaceOutput{Direction: dir}, nil
}

// parseDirection maps a cycle direction name to forward. Empty means next.
func parseDirection(dir string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(dir)) {
	case "", "next", "forward", "down":
		return true, nil
	case "prev", "previous", "back", "up":
		return false, nil
	default:
		return false, fmt.Errorf("unknown direction %q: want next or prev", dir)
	}
}
