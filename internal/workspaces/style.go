package workspaces

import (
	"time"

	"github.com/1broseidon/limbo/internal/animation"
	"github.com/1broseidon/limbo/internal/colors"
	"github.com/1broseidon/limbo/internal/compositor"
)

// Color target indices.
const (
	ColorNormal = iota
	ColorHasWindows
	ColorActive
)

// Width target indices.
const (
	WidthInactive = iota
	WidthActive
)

// Style configures how workspace pills look and move.
type Style struct {
	// Colors indexed by ColorNormal, ColorHasWindows and ColorActive.
	Colors [3]colors.Color
	// Widths indexed by WidthInactive and WidthActive, in padding units.
	Widths [2]float32

	WidthDuration time.Duration
	WidthEasing   animation.Easing
	ColorDuration time.Duration
	ColorEasing   animation.Easing
}

// DefaultStyle returns the built-in look: surface2 idle pills that widen
// and turn blue when active.
func DefaultStyle() Style {
	blue := colors.MustParse("#89b4fa")
	return Style{
		Colors: [3]colors.Color{
			ColorNormal:     colors.MustParse("#585b70"),
			ColorHasWindows: blue,
			ColorActive:     blue,
		},
		Widths: [2]float32{
			WidthInactive: 5,
			WidthActive:   12,
		},
		WidthDuration: 100 * time.Millisecond,
		WidthEasing:   animation.Linear,
		ColorDuration: 100 * time.Millisecond,
		ColorEasing:   animation.Smoothstep,
	}
}

// withDefaults replaces a zero Style, or zero color and width tables, with
// the defaults.
func (s Style) withDefaults() Style {
	def := DefaultStyle()
	if s == (Style{}) {
		return def
	}
	if s.Colors == ([3]colors.Color{}) {
		s.Colors = def.Colors
	}
	if s.Widths == ([2]float32{}) {
		s.Widths = def.Widths
	}
	return s
}

// WidthTarget picks the width index for a workspace.
func WidthTarget(info compositor.WorkspaceInfo) int {
	if info.IsActive {
		return WidthActive
	}
	return WidthInactive
}

// ColorTarget picks the color index for a workspace.
func ColorTarget(info compositor.WorkspaceInfo) int {
	switch {
	case info.IsActive:
		return ColorActive
	case info.HasWindows:
		return ColorHasWindows
	default:
		return ColorNormal
	}
}
