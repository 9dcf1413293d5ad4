package niri

import (
	"github.com/1broseidon/limbo/internal/compositor"
)

// State is a local mirror of the compositor state, kept current by applying
// events in stream order.
type State struct {
	Workspaces   map[uint64]Workspace
	Windows      map[uint64]Window
	OverviewOpen bool

	haveWorkspaces bool
	haveWindows    bool
}

// NewState returns an empty mirror.
func NewState() *State {
	return &State{
		Workspaces: make(map[uint64]Workspace),
		Windows:    make(map[uint64]Window),
	}
}

// Ready reports whether both the workspace and window lists have been
// received at least once. Lists computed before that would be missing
// windows.
func (s *State) Ready() bool {
	return s.haveWorkspaces && s.haveWindows
}

// Apply folds one event into the mirror.
func (s *State) Apply(ev event) {
	ev.apply(s)
}

func (e *workspacesChanged) apply(s *State) {
	s.Workspaces = make(map[uint64]Workspace, len(e.Workspaces))
	for _, ws := range e.Workspaces {
		s.Workspaces[ws.ID] = ws
	}
	s.haveWorkspaces = true
}

func (e *workspaceActivated) apply(s *State) {
	target, ok := s.Workspaces[e.ID]
	if !ok {
		return
	}
	for id, ws := range s.Workspaces {
		if sameOutput(ws.Output, target.Output) {
			ws.IsActive = id == e.ID
		}
		if e.Focused {
			ws.IsFocused = id == e.ID
		}
		s.Workspaces[id] = ws
	}
}

func (e *workspaceActiveWindowChanged) apply(s *State) {
	ws, ok := s.Workspaces[e.WorkspaceID]
	if !ok {
		return
	}
	ws.ActiveWindowID = e.ActiveWindowID
	s.Workspaces[e.WorkspaceID] = ws
}

func (e *windowsChanged) apply(s *State) {
	s.Windows = make(map[uint64]Window, len(e.Windows))
	for _, w := range e.Windows {
		s.Windows[w.ID] = w
	}
	s.haveWindows = true
}

func (e *windowOpenedOrChanged) apply(s *State) {
	if e.Window.IsFocused {
		for id, w := range s.Windows {
			w.IsFocused = false
			s.Windows[id] = w
		}
	}
	s.Windows[e.Window.ID] = e.Window
}

func (e *windowClosed) apply(s *State) {
	delete(s.Windows, e.ID)
}

func (e *windowFocusChanged) apply(s *State) {
	for id, w := range s.Windows {
		w.IsFocused = e.ID != nil && *e.ID == id
		s.Windows[id] = w
	}
}

func (e *overviewOpenedOrClosed) apply(s *State) {
	s.OverviewOpen = e.IsOpen
}

func sameOutput(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// WorkspaceInfos derives the normalized workspace list, sorted by display
// index.
func (s *State) WorkspaceInfos() []compositor.WorkspaceInfo {
	floating := make(map[uint64][]bool, len(s.Workspaces))
	for _, w := range s.Windows {
		if w.WorkspaceID != nil {
			floating[*w.WorkspaceID] = append(floating[*w.WorkspaceID], w.IsFloating)
		}
	}

	infos := make([]compositor.WorkspaceInfo, 0, len(s.Workspaces))
	for _, ws := range s.Workspaces {
		info := compositor.WorkspaceInfo{
			ID:             compositor.WorkspaceID(ws.ID),
			Idx:            int(ws.Idx),
			IsActive:       ws.IsActive,
			HasWindows:     len(floating[ws.ID]) > 0,
			TransparentBar: compositor.TransparentBar(s.OverviewOpen, floating[ws.ID]),
		}
		if ws.Output != nil {
			info.Output = *ws.Output
		}
		infos = append(infos, info)
	}

	compositor.SortByIdx(infos)
	return infos
}
