package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/limbo/internal/compositor"
	"github.com/1broseidon/limbo/internal/sysmon"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload         CommandType = "RELOAD"
	CommandGetStatus      CommandType = "GET_STATUS"
	CommandGetWorkspaces  CommandType = "GET_WORKSPACES"
	CommandFocusWorkspace CommandType = "FOCUS_WORKSPACE"
	CommandCycleWorkspace CommandType = "CYCLE_WORKSPACE"
	// CommandSubscribe keeps the connection open; every render is then
	// written to it as one JSON line.
	CommandSubscribe CommandType = "SUBSCRIBE"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	Backend        string   `json:"backend"`
	Outputs        []string `json:"outputs"`
	WorkspaceCount int      `json:"workspace_count"`
	Animating      bool     `json:"animating"`
	UptimeSeconds  int64    `json:"uptime_seconds"`
	DaemonRunning  bool     `json:"daemon_running"`

	// System is the latest system load sample, nil before the first one or
	// when sampling is disabled.
	System *sysmon.Reading `json:"system,omitempty"`
}

// WorkspacesData represents the data returned by GET_WORKSPACES
type WorkspacesData struct {
	Workspaces []compositor.WorkspaceInfo `json:"workspaces"`
}

// FocusWorkspacePayload represents the payload for FOCUS_WORKSPACE
type FocusWorkspacePayload struct {
	ID compositor.WorkspaceID `json:"id"`
}

// CycleWorkspacePayload represents the payload for CYCLE_WORKSPACE
type CycleWorkspacePayload struct {
	Forward bool `json:"forward"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	if req.Command == "" {
		return nil, fmt.Errorf("failed to parse request: missing command")
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
