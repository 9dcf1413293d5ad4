// Package compositor defines the normalized workspace model shared by every
// compositor backend.
package compositor

import (
	"slices"
	"sort"
)

// WorkspaceID is the backend-stable identity of a workspace.
type WorkspaceID int64

// WorkspaceInfo describes one workspace as last reported by the compositor.
// Values are rebuilt on every recomputation and never mutated afterwards.
type WorkspaceInfo struct {
	// Output is the monitor the workspace lives on; empty when unknown.
	Output     string      `json:"output,omitempty"`
	ID         WorkspaceID `json:"id"`
	Idx        int         `json:"idx"`
	IsActive   bool        `json:"is_active"`
	HasWindows bool        `json:"has_windows"`
	// TransparentBar hints that the bar should not paint an opaque
	// background over this workspace.
	TransparentBar bool `json:"transparent_bar"`
}

// Event is a change notification from a backend. The set of variants is
// closed; switch on the concrete type.
type Event interface {
	Kind() string
	isEvent()
}

// WorkspacesChanged carries the complete, consistent workspace list.
type WorkspacesChanged struct {
	Workspaces []WorkspaceInfo
}

func (WorkspacesChanged) Kind() string { return "workspaces_changed" }
func (WorkspacesChanged) isEvent()     {}

// TransparentBar reports whether a workspace should get a transparent bar:
// it has no windows, the overview is open, or every window on it floats.
func TransparentBar(overviewOpen bool, floating []bool) bool {
	if len(floating) == 0 || overviewOpen {
		return true
	}
	for _, f := range floating {
		if !f {
			return false
		}
	}
	return true
}

// SortByIdx orders workspaces by display index, then id.
func SortByIdx(infos []WorkspaceInfo) {
	sort.SliceStable(infos, func(i, j int) bool {
		if infos[i].Idx != infos[j].Idx {
			return infos[i].Idx < infos[j].Idx
		}
		return infos[i].ID < infos[j].ID
	})
}

// Equal reports whether two workspace lists are identical, element by element.
func Equal(a, b []WorkspaceInfo) bool {
	return slices.Equal(a, b)
}

// Outputs returns the distinct non-empty outputs in first-seen order.
func Outputs(infos []WorkspaceInfo) []string {
	var out []string
	seen := make(map[string]bool)
	for _, info := range infos {
		if info.Output == "" || seen[info.Output] {
			continue
		}
		seen[info.Output] = true
		out = append(out, info.Output)
	}
	return out
}
