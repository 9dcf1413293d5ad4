package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/1broseidon/limbo/internal/compositor"
	"github.com/1broseidon/limbo/internal/ipc"
	"github.com/1broseidon/limbo/internal/sysmon"
)

type fakeDaemon struct {
	status   ipc.StatusData
	infos    []compositor.WorkspaceInfo
	focused  []compositor.WorkspaceID
	cycled   []bool
	focusErr error
}

func (d *fakeDaemon) GetStatus() (*ipc.StatusData, error) {
	status := d.status
	status.Backend, status.DaemonRunning = "niri", true
	return &status, nil
}

func (d *fakeDaemon) GetWorkspaces() ([]compositor.WorkspaceInfo, error) {
	return d.infos, nil
}

func (d *fakeDaemon) FocusWorkspace(id compositor.WorkspaceID) error {
	d.focused = append(d.focused, id)
	return d.focusErr
}

func (d *fakeDaemon) CycleWorkspace(forward bool) error {
	d.cycled = append(d.cycled, forward)
	return nil
}

func TestNewServer(t *testing.T) {
	if s := NewServer(&fakeDaemon{}); s.mcpServer == nil {
		t.Fatal("NewServer did not create the MCP server")
	}
}

func TestListWorkspaces(t *testing.T) {
	d := &fakeDaemon{infos: []compositor.WorkspaceInfo{
		{Output: "DP-1", ID: 1, Idx: 1, IsActive: true},
		{Output: "DP-1", ID: 2, Idx: 2, HasWindows: true},
		{Output: "HDMI-A-1", ID: 3, Idx: 1, IsActive: true, TransparentBar: true},
	}}
	s := NewServer(d)

	tests := []struct {
		name   string
		output string
		want   []int64
	}{
		{"all outputs", "", []int64{1, 2, 3}},
		{"one output", "DP-1", []int64{1, 2}},
		{"unknown output", "eDP-1", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out, err := s.handleListWorkspaces(context.Background(), nil, ListWorkspacesInput{Output: tt.output})
			if err != nil {
				t.Fatalf("handleListWorkspaces: %v", err)
			}
			if out.Backend != "niri" {
				t.Errorf("backend = %q, want niri", out.Backend)
			}
			if len(out.Workspaces) != len(tt.want) {
				t.Fatalf("got %d workspaces, want %d", len(out.Workspaces), len(tt.want))
			}
			for i, id := range tt.want {
				if out.Workspaces[i].ID != id {
					t.Errorf("workspace %d id = %d, want %d", i, out.Workspaces[i].ID, id)
				}
			}
		})
	}

	_, out, _ := s.handleListWorkspaces(context.Background(), nil, ListWorkspacesInput{Output: "HDMI-A-1"})
	if !out.Workspaces[0].TransparentBar || !out.Workspaces[0].IsActive {
		t.Errorf("workspace flags lost: %+v", out.Workspaces[0])
	}
}

func TestFocusWorkspace(t *testing.T) {
	d := &fakeDaemon{}
	s := NewServer(d)

	_, out, err := s.handleFocusWorkspace(context.Background(), nil, FocusWorkspaceInput{ID: 4})
	if err != nil {
		t.Fatalf("handleFocusWorkspace: %v", err)
	}
	if !out.Focused || out.ID != 4 {
		t.Errorf("output = %+v", out)
	}
	if len(d.focused) != 1 || d.focused[0] != 4 {
		t.Errorf("focused = %v, want [4]", d.focused)
	}

	d.focusErr = errors.New("daemon error: no such workspace")
	if _, _, err := s.handleFocusWorkspace(context.Background(), nil, FocusWorkspaceInput{ID: 99}); err == nil {
		t.Fatal("expected error to propagate")
	}
}

func TestCycleWorkspace(t *testing.T) {
	tests := []struct {
		direction   string
		wantForward bool
		wantOut     string
		wantErr     bool
	}{
		{"", true, "next", false},
		{"next", true, "next", false},
		{"Prev", false, "prev", false},
		{"up", false, "prev", false},
		{"sideways", false, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.direction, func(t *testing.T) {
			d := &fakeDaemon{}
			s := NewServer(d)
			_, out, err := s.handleCycleWorkspace(context.Background(), nil, CycleWorkspaceInput{Direction: tt.direction})
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if len(d.cycled) != 0 {
					t.Errorf("daemon called on invalid direction")
				}
				return
			}
			if err != nil {
				t.Fatalf("handleCycleWorkspace: %v", err)
			}
			if out.Direction != tt.wantOut {
				t.Errorf("direction = %q, want %q", out.Direction, tt.wantOut)
			}
			if len(d.cycled) != 1 || d.cycled[0] != tt.wantForward {
				t.Errorf("cycled = %v, want [%v]", d.cycled, tt.wantForward)
			}
		})
	}
}

func TestGetStatus(t *testing.T) {
	tests := []struct {
		name   string
		status ipc.StatusData
		want   SystemLoad
	}{
		{"before first sample", ipc.StatusData{WorkspaceCount: 4}, SystemLoad{}},
		{
			"sampled",
			ipc.StatusData{WorkspaceCount: 4, System: &sysmon.Reading{CPUUsage: 23.5, CPUTemp: 51, RAMUsedGB: 6.2}},
			SystemLoad{Sampled: true, CPUUsage: 23.5, CPUTemp: 51, RAMUsedGB: 6.2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewServer(&fakeDaemon{status: tt.status})
			_, out, err := s.handleGetStatus(context.Background(), nil, GetStatusInput{})
			if err != nil {
				t.Fatalf("handleGetStatus: %v", err)
			}
			if out.Backend != "niri" || out.WorkspaceCount != 4 {
				t.Errorf("status = %+v", out)
			}
			if out.System != tt.want {
				t.Errorf("system = %+v, want %+v", out.System, tt.want)
			}
		})
	}
}
