package bar

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/1broseidon/limbo/internal/compositor"
	"github.com/1broseidon/limbo/internal/workspaces"
)

func info(output string, id compositor.WorkspaceID, active, windows bool) compositor.WorkspaceInfo {
	return compositor.WorkspaceInfo{
		Output:         output,
		ID:             id,
		Idx:            int(id),
		IsActive:       active,
		HasWindows:     windows,
		TransparentBar: !windows,
	}
}

func TestIsTransparent(t *testing.T) {
	tests := []struct {
		name  string
		infos []compositor.WorkspaceInfo
		want  bool
	}{
		{"active empty", []compositor.WorkspaceInfo{info("DP-1", 1, true, false)}, true},
		{"active occupied", []compositor.WorkspaceInfo{info("DP-1", 1, true, true)}, false},
		{"no active", []compositor.WorkspaceInfo{info("DP-1", 1, false, false)}, false},
		{"other output", []compositor.WorkspaceInfo{info("HDMI-A-1", 1, true, false)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isTransparent("DP-1", tt.infos); got != tt.want {
				t.Fatalf("isTransparent = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestManager_ApplyTracksOutputs(t *testing.T) {
	m := NewManager(workspaces.DefaultStyle())

	m.Apply([]compositor.WorkspaceInfo{
		info("DP-1", 1, true, true),
		info("HDMI-A-1", 2, true, false),
		info("DP-1", 3, false, false),
	})
	if got := m.Outputs(); len(got) != 2 || got[0] != "DP-1" || got[1] != "HDMI-A-1" {
		t.Fatalf("Outputs() = %v", got)
	}
	dp, ok := m.Bar("DP-1")
	if !ok || len(dp.Workspaces) != 2 || dp.Transparent {
		t.Fatalf("DP-1 bar = %+v", dp)
	}
	hdmi, _ := m.Bar("HDMI-A-1")
	if !hdmi.Transparent {
		t.Fatal("HDMI-A-1 should be transparent")
	}

	m.Apply([]compositor.WorkspaceInfo{info("DP-1", 1, true, true)})
	if _, ok := m.Bar("HDMI-A-1"); ok {
		t.Fatal("bar for removed output still present")
	}
	if again, _ := m.Bar("DP-1"); again != dp {
		t.Fatal("bar for surviving output was recreated")
	}
}

func TestManager_TickUntilSettled(t *testing.T) {
	m := NewManager(workspaces.DefaultStyle())
	m.Apply([]compositor.WorkspaceInfo{info("DP-1", 1, true, false), info("DP-1", 2, false, false)})
	if m.Running() {
		t.Fatal("fresh manager is animating")
	}

	m.Apply([]compositor.WorkspaceInfo{info("DP-1", 1, false, false), info("DP-1", 2, true, false)})
	if !m.Running() {
		t.Fatal("focus change did not start an animation")
	}
	ticks := 0
	for m.Running() && ticks < 50 {
		m.Tick()
		ticks++
	}
	if m.Running() {
		t.Fatal("animation never settled")
	}

	frames := m.Frames()
	if len(frames) != 1 || len(frames[0].Pills) != 2 {
		t.Fatalf("frames = %+v", frames)
	}
	style := workspaces.DefaultStyle()
	p1, p2 := frames[0].Pills[0], frames[0].Pills[1]
	if p1.Width != style.Widths[workspaces.WidthInactive] || p2.Width != style.Widths[workspaces.WidthActive] {
		t.Fatalf("settled widths = %v, %v", p1.Width, p2.Width)
	}
	if p2.Color != style.Colors[workspaces.ColorActive].Hex() {
		t.Fatalf("active color = %s", p2.Color)
	}
}

func TestManager_SetStyleRebuildsSettled(t *testing.T) {
	m := NewManager(workspaces.DefaultStyle())
	infos := []compositor.WorkspaceInfo{info("DP-1", 1, false, false)}
	m.Apply(infos)
	infos = []compositor.WorkspaceInfo{info("DP-1", 1, true, false)}
	m.Apply(infos)

	style := workspaces.DefaultStyle()
	style.Widths = [2]float32{2, 20}
	m.SetStyle(style, infos)
	if m.Running() {
		t.Fatal("restyled bars should start settled")
	}
	if got := m.Frames()[0].Pills[0].Width; got != 20 {
		t.Fatalf("width = %v, want 20", got)
	}
}

func TestJSONRenderer(t *testing.T) {
	var buf bytes.Buffer
	r := NewJSONRenderer(&buf)

	m := NewManager(workspaces.DefaultStyle())
	m.Apply([]compositor.WorkspaceInfo{info("DP-1", 1, true, false)})
	if err := r.Render(m.Frames()); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if err := r.Render(m.Frames()); err != nil {
		t.Fatalf("Render: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	var frames []Frame
	if err := json.Unmarshal([]byte(lines[0]), &frames); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(frames) != 1 || frames[0].Output != "DP-1" || !frames[0].Transparent {
		t.Fatalf("decoded frames = %+v", frames)
	}
	if frames[0].Pills[0].Color != "#89b4fa" {
		t.Fatalf("pill color = %s", frames[0].Pills[0].Color)
	}
}
