package workspaces

import (
	"testing"

	"github.com/1broseidon/limbo/internal/colors"
	"github.com/1broseidon/limbo/internal/compositor"
)

func ws(id compositor.WorkspaceID, active, windows bool) compositor.WorkspaceInfo {
	return compositor.WorkspaceInfo{
		Output:         "DP-1",
		ID:             id,
		Idx:            int(id),
		IsActive:       active,
		HasWindows:     windows,
		TransparentBar: !windows,
	}
}

func TestTargets(t *testing.T) {
	tests := []struct {
		name      string
		info      compositor.WorkspaceInfo
		wantWidth int
		wantColor int
	}{
		{"idle", ws(1, false, false), WidthInactive, ColorNormal},
		{"occupied", ws(1, false, true), WidthInactive, ColorHasWindows},
		{"active empty", ws(1, true, false), WidthActive, ColorActive},
		{"active occupied", ws(1, true, true), WidthActive, ColorActive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WidthTarget(tt.info); got != tt.wantWidth {
				t.Errorf("WidthTarget = %d, want %d", got, tt.wantWidth)
			}
			if got := ColorTarget(tt.info); got != tt.wantColor {
				t.Errorf("ColorTarget = %d, want %d", got, tt.wantColor)
			}
		})
	}
}

func ticksToSettle(s *State, limit int) int {
	for i := 1; i <= limit; i++ {
		s.Update()
		if !s.Running() {
			return i
		}
	}
	return -1
}

func TestScenario_ActivityLifecycle(t *testing.T) {
	style := DefaultStyle()

	info := compositor.WorkspaceInfo{Output: "DP-1", ID: 1, Idx: 0, IsActive: true, TransparentBar: true}
	states := Reconcile("DP-1", []compositor.WorkspaceInfo{info}, nil, style)
	if len(states) != 1 {
		t.Fatalf("got %d states, want 1", len(states))
	}
	s := states[0]
	if s.Running() {
		t.Fatal("new state is animating")
	}
	if s.Width() != style.Widths[WidthActive] {
		t.Fatalf("width = %v, want active %v", s.Width(), style.Widths[WidthActive])
	}
	if s.Color() != style.Colors[ColorActive] {
		t.Fatalf("color = %v, want active", s.Color())
	}
	if !s.Info.TransparentBar {
		t.Fatal("empty workspace should have a transparent bar")
	}

	// Windows appear; still active, so nothing animates.
	info.HasWindows = true
	info.TransparentBar = false
	states = Reconcile("DP-1", []compositor.WorkspaceInfo{info}, states, style)
	s = states[0]
	if s.Running() {
		t.Fatal("target changed although workspace is still active")
	}
	if w, c := s.Targets(); w != WidthActive || c != ColorActive {
		t.Fatalf("targets = (%d, %d), want active", w, c)
	}
	if s.Info.TransparentBar {
		t.Fatal("transparent flag not refreshed")
	}

	// Workspace loses focus.
	info.IsActive = false
	states = Reconcile("DP-1", []compositor.WorkspaceInfo{info}, states, style)
	s = states[0]
	if w, c := s.Targets(); w != WidthInactive || c != ColorHasWindows {
		t.Fatalf("targets = (%d, %d), want (inactive, has windows)", w, c)
	}
	if !s.Running() {
		t.Fatal("expected animation after losing activity")
	}
	if n := ticksToSettle(s, 20); n != 7 {
		t.Fatalf("settled after %d ticks, want 7", n)
	}
	if s.Width() != style.Widths[WidthInactive] {
		t.Fatalf("settled width = %v, want %v", s.Width(), style.Widths[WidthInactive])
	}
}

func TestFromExisting_RedirectMidTransition(t *testing.T) {
	style := DefaultStyle()
	old := []*State{New(ws(7, false, false), style)}

	states := Reconcile("DP-1", []compositor.WorkspaceInfo{ws(7, true, false)}, old, style)
	for i := 0; i < 3; i++ {
		states[0].Update()
	}
	midWidth := states[0].Width()
	midColor := states[0].Color()
	if midWidth <= style.Widths[WidthInactive] || midWidth >= style.Widths[WidthActive] {
		t.Fatalf("width %v not mid-transition", midWidth)
	}

	states = Reconcile("DP-1", []compositor.WorkspaceInfo{ws(7, false, false)}, states, style)
	s := states[0]
	if got := s.Width(); got != midWidth {
		t.Fatalf("width jumped from %v to %v on redirect", midWidth, got)
	}
	if got := s.Color(); got != midColor {
		t.Fatalf("color jumped from %v to %v on redirect", midColor, got)
	}
	if !s.Running() {
		t.Fatal("redirected state not animating")
	}
}

func TestFromExisting_NewWorkspaceStartsSettled(t *testing.T) {
	style := DefaultStyle()
	old := []*State{New(ws(7, true, false), style)}

	states := Reconcile("DP-1", []compositor.WorkspaceInfo{ws(7, true, false), ws(12, false, true)}, old, style)
	if len(states) != 2 {
		t.Fatalf("got %d states, want 2", len(states))
	}
	added := states[1]
	if added.Info.ID != 12 {
		t.Fatalf("second state id = %d, want 12", added.Info.ID)
	}
	if added.Running() {
		t.Fatal("new workspace animates in")
	}
	if added.Color() != style.Colors[ColorHasWindows] {
		t.Fatalf("color = %v, want has-windows", added.Color())
	}
}

func TestReconcile_FiltersByOutput(t *testing.T) {
	infos := []compositor.WorkspaceInfo{
		ws(1, true, false),
		{Output: "HDMI-A-1", ID: 2, Idx: 1, IsActive: true},
		{ID: 3, Idx: 3},
		ws(4, false, true),
	}

	states := Reconcile("DP-1", infos, nil, DefaultStyle())
	if len(states) != 2 || states[0].Info.ID != 1 || states[1].Info.ID != 4 {
		t.Fatalf("unexpected states for DP-1: %+v", states)
	}

	if got := Reconcile("", infos, nil, DefaultStyle()); len(got) != 0 {
		t.Fatalf("workspaces without output matched empty output name: %d", len(got))
	}
}

func TestReconcile_DropsVanishedWorkspaces(t *testing.T) {
	style := DefaultStyle()
	states := Reconcile("DP-1", []compositor.WorkspaceInfo{ws(1, true, false), ws(2, false, false)}, nil, style)
	states = Reconcile("DP-1", []compositor.WorkspaceInfo{ws(2, true, false)}, states, style)
	if len(states) != 1 || states[0].Info.ID != 2 {
		t.Fatalf("unexpected states: %+v", states)
	}
}

func TestNew_ZeroStyleUsesDefaults(t *testing.T) {
	s := New(ws(1, true, false), Style{})
	def := DefaultStyle()
	if s.Width() != def.Widths[WidthActive] || s.Color() != def.Colors[ColorActive] {
		t.Fatalf("zero style not defaulted: width %v color %v", s.Width(), s.Color())
	}

	custom := Style{Colors: [3]colors.Color{colors.Black, colors.Black, colors.White}}
	s = New(ws(1, true, false), custom)
	if s.Color() != colors.White {
		t.Fatalf("custom colors ignored: %v", s.Color())
	}
	if s.Width() != def.Widths[WidthActive] {
		t.Fatalf("zero widths not defaulted: %v", s.Width())
	}
}

func TestFromExisting_UnchangedTargetKeepsProgress(t *testing.T) {
	style := DefaultStyle()
	old := []*State{New(ws(7, false, false), style)}

	states := Reconcile("DP-1", []compositor.WorkspaceInfo{ws(7, true, false)}, old, style)
	for i := 0; i < 3; i++ {
		states[0].Update()
	}
	width, color := states[0].Width(), states[0].Color()

	// Same policy output, e.g. an event about another workspace.
	states = Reconcile("DP-1", []compositor.WorkspaceInfo{ws(7, true, false)}, states, style)
	if got := states[0].Width(); got != width {
		t.Fatalf("width jumped from %v to %v", width, got)
	}
	if got := states[0].Color(); got != color {
		t.Fatalf("color jumped from %v to %v", color, got)
	}
	if !states[0].Running() {
		t.Fatal("transition stopped by an unchanged target")
	}

	ticks := 0
	for states[0].Running() {
		states[0].Update()
		ticks++
	}
	if ticks > 4 {
		t.Fatalf("transition stretched: %d more ticks after 3 of 7", ticks)
	}
}
