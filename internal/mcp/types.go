package mcp

import (
	"github.com/1broseidon/limbo/internal/compositor"
	"github.com/1broseidon/limbo/internal/ipc"
)

// GetStatusInput is the input for the get_status tool.
type GetStatusInput struct{}

// SystemLoad is the latest system load sample.
type SystemLoad struct {
	Sampled   bool    `json:"sampled"`
	CPUUsage  float64 `json:"cpu_usage"`
	CPUTemp   float64 `json:"cpu_temp"`
	RAMUsedGB float64 `json:"ram_used_gb"`
}

// GetStatusOutput is the output for the get_status tool.
type GetStatusOutput struct {
	Backend        string     `json:"backend"`
	Outputs        []string   `json:"outputs"`
	WorkspaceCount int        `json:"workspace_count"`
	Animating      bool       `json:"animating"`
	UptimeSeconds  int64      `json:"uptime_seconds"`
	System         SystemLoad `json:"system"`
}

// ListWorkspacesInput is the input for the list_workspaces tool.
type ListWorkspacesInput struct {
	Output string `json:"output,omitempty" jsonschema:"Only list workspaces on this output (e.g. DP-1). Default: all outputs."`
}

// WorkspaceInfo describes a single workspace as seen by the bar.
type WorkspaceInfo struct {
	ID             int64  `json:"id"`
	Idx            int    `json:"idx"`
	Output         string `json:"output,omitempty"`
	IsActive       bool   `json:"is_active"`
	HasWindows     bool   `json:"has_windows"`
	TransparentBar bool   `json:"transparent_bar"`
}

// ListWorkspacesOutput is the output for the list_workspaces tool.
type ListWorkspacesOutput struct {
	Backend    string          `json:"backend"`
	Workspaces []WorkspaceInfo `json:"workspaces"`
}

// FocusWorkspaceInput is the input for the focus_workspace tool.
type FocusWorkspaceInput struct {
	ID int64 `json:"id" jsonschema:"required,Compositor workspace id as reported by list_workspaces"`
}

// FocusWorkspaceOutput is the output for the focus_workspace tool.
type FocusWorkspaceOutput struct {
	ID      int64 `json:"id"`
	Focused bool  `json:"focused"`
}

// CycleWorkspaceInput is the input for the cycle_workspace tool.
type CycleWorkspaceInput struct {
	Direction string `json:"direction,omitempty" jsonschema:"next or prev (default: next)"`
}

// CycleWorkspaceOutput is the output for the cycle_workspace tool.
type CycleWorkspaceOutput struct {
	Direction string `json:"direction"`
}

func toWorkspaceInfo(info compositor.WorkspaceInfo) WorkspaceInfo {
	return WorkspaceInfo{
		ID:             int64(info.ID),
		Idx:            info.Idx,
		Output:         info.Output,
		IsActive:       info.IsActive,
		HasWindows:     info.HasWindows,
		TransparentBar: info.TransparentBar,
	}
}

func toStatusOutput(status *ipc.StatusData) GetStatusOutput {
	out := GetStatusOutput{
		Backend:        status.Backend,
		Outputs:        status.Outputs,
		WorkspaceCount: status.WorkspaceCount,
		Animating:      status.Animating,
		UptimeSeconds:  status.UptimeSeconds,
	}
	if sys := status.System; sys != nil {
		out.System = SystemLoad{
			Sampled:   true,
			CPUUsage:  sys.CPUUsage,
			CPUTemp:   sys.CPUTemp,
			RAMUsedGB: sys.RAMUsedGB,
		}
	}
	return out
}
