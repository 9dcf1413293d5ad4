package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/1broseidon/limbo/internal/bar"
	"github.com/1broseidon/limbo/internal/compositor"
	"github.com/1broseidon/limbo/internal/sysmon"
)

type fakeDaemon struct {
	focused  []compositor.WorkspaceID
	cycled   []bool
	cycleErr error
}

func (d *fakeDaemon) Subscribe(ctx context.Context, fn func([]bar.Frame) error) error {
	<-ctx.Done()
	return nil
}

func (d *fakeDaemon) FocusWorkspace(id compositor.WorkspaceID) error {
	d.focused = append(d.focused, id)
	return nil
}

func (d *fakeDaemon) CycleWorkspace(forward bool) error {
	d.cycled = append(d.cycled, forward)
	return d.cycleErr
}

func testFrames() []bar.Frame {
	return []bar.Frame{
		{Output: "DP-1", Pills: []bar.Pill{
			{ID: 11, Idx: 1, Active: true, Width: 12, Color: "#89b4fa"},
			{ID: 12, Idx: 2, Width: 5, Color: "#585b70"},
		}},
		{Output: "HDMI-A-1", Transparent: true, Pills: []bar.Pill{
			{ID: 21, Idx: 1, Active: true, Width: 12, Color: "#89b4fa"},
		}},
	}
}

func TestCellsFor(t *testing.T) {
	tests := []struct {
		width float32
		want  int
	}{
		{0, 1},
		{1, 1},
		{5, 3},
		{8.4, 4},
		{12, 6},
	}
	for _, tt := range tests {
		if got := cellsFor(tt.width); got != tt.want {
			t.Errorf("cellsFor(%v) = %d, want %d", tt.width, got, tt.want)
		}
	}
}

func TestView(t *testing.T) {
	tu := New(&fakeDaemon{}, "")
	if got := tu.view(); !strings.Contains(got, "waiting for workspaces") {
		t.Errorf("empty view = %q", got)
	}

	tu.setFrames(testFrames())
	got := tu.view()
	for _, want := range []string{"DP-1", "HDMI-A-1 ~", "q quit"} {
		if !strings.Contains(got, want) {
			t.Errorf("view missing %q:\n%s", want, got)
		}
	}

	filtered := New(&fakeDaemon{}, "HDMI-A-1")
	filtered.setFrames(testFrames())
	if got := filtered.view(); strings.Contains(got, "DP-1") {
		t.Errorf("filtered view shows other outputs:\n%s", got)
	}

	if strings.Contains(got, "system") {
		t.Errorf("system line shown before the first sample:\n%s", got)
	}
	sampled := testFrames()
	for i := range sampled {
		sampled[i].System = []sysmon.Item{
			{Segment: sysmon.SegmentCPU, Text: "9.0%"},
			{Segment: sysmon.SegmentRAM, Text: "4.2 GB"},
		}
	}
	tu.setFrames(sampled)
	if got := tu.view(); !strings.Contains(got, "9.0%  4.2 GB") {
		t.Errorf("view missing system segments:\n%s", got)
	}

	missing := New(&fakeDaemon{}, "eDP-1")
	missing.setFrames(testFrames())
	if got := missing.view(); !strings.Contains(got, "waiting for output eDP-1") {
		t.Errorf("missing output view = %q", got)
	}
}

func TestHandleInput(t *testing.T) {
	d := &fakeDaemon{}
	tu := New(d, "")
	tu.setFrames(testFrames())

	for _, key := range []string{"l", "\x1b[C", "h", "\x1b[D", "2"} {
		if tu.handleInput([]byte(key)) {
			t.Fatalf("key %q quit", key)
		}
	}
	if want := []bool{true, true, false, false}; len(d.cycled) != len(want) {
		t.Fatalf("cycled = %v, want %v", d.cycled, want)
	} else {
		for i := range want {
			if d.cycled[i] != want[i] {
				t.Fatalf("cycled = %v, want %v", d.cycled, want)
			}
		}
	}
	if len(d.focused) != 1 || d.focused[0] != 12 {
		t.Fatalf("focused = %v, want [12]", d.focused)
	}

	tu.handleInput([]byte("7"))
	if !strings.Contains(tu.lastError, "no workspace 7 on DP-1") {
		t.Errorf("lastError = %q", tu.lastError)
	}

	d.cycleErr = errors.New("daemon error: boom")
	tu.handleInput([]byte("l"))
	if tu.lastError != "daemon error: boom" {
		t.Errorf("lastError = %q", tu.lastError)
	}
	tu.handleInput([]byte("l"))
	d.cycleErr = nil
	tu.handleInput([]byte("l"))
	if tu.lastError != "" {
		t.Errorf("lastError not cleared: %q", tu.lastError)
	}

	for _, key := range []string{"q", "\x03", "\x1b"} {
		if !tu.handleInput([]byte(key)) {
			t.Errorf("key %q did not quit", key)
		}
	}
}

func TestRawLines(t *testing.T) {
	if got := rawLines("a\nb\n"); got != "a\r\nb\r\n" {
		t.Errorf("rawLines = %q", got)
	}
}
