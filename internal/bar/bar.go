// Package bar keeps one animated workspace strip per output and turns it
// into frames for renderers.
package bar

import (
	"github.com/1broseidon/limbo/internal/compositor"
	"github.com/1broseidon/limbo/internal/workspaces"
)

// Bar is the model behind the bar on one output.
type Bar struct {
	Output      string
	Workspaces  []*workspaces.State
	Transparent bool
}

func newBar(output string) *Bar {
	return &Bar{Output: output}
}

func (b *Bar) apply(infos []compositor.WorkspaceInfo, style workspaces.Style) {
	b.Workspaces = workspaces.Reconcile(b.Output, infos, b.Workspaces, style)
	b.Transparent = isTransparent(b.Output, infos)
}

// isTransparent reports whether the active workspace on output asks for a
// transparent bar. An output with no active workspace keeps an opaque bar.
func isTransparent(output string, infos []compositor.WorkspaceInfo) bool {
	for _, info := range infos {
		if info.Output == output && info.IsActive {
			return info.TransparentBar
		}
	}
	return false
}

func (b *Bar) tick() {
	for _, s := range b.Workspaces {
		s.Update()
	}
}

// Running reports whether any pill on the bar is animating.
func (b *Bar) Running() bool {
	for _, s := range b.Workspaces {
		if s.Running() {
			return true
		}
	}
	return false
}

// Frame snapshots the bar's current appearance.
func (b *Bar) Frame() Frame {
	f := Frame{
		Output:      b.Output,
		Transparent: b.Transparent,
		Pills:       make([]Pill, 0, len(b.Workspaces)),
	}
	for _, s := range b.Workspaces {
		f.Pills = append(f.Pills, Pill{
			ID:         s.Info.ID,
			Idx:        s.Info.Idx,
			Active:     s.Info.IsActive,
			HasWindows: s.Info.HasWindows,
			Width:      s.Width(),
			Color:      s.Color().Hex(),
		})
	}
	return f
}
