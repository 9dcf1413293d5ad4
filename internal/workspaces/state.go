// Package workspaces pairs each compositor workspace with the animated
// values a bar draws for it.
package workspaces

import (
	"github.com/1broseidon/limbo/internal/animation"
	"github.com/1broseidon/limbo/internal/colors"
	"github.com/1broseidon/limbo/internal/compositor"
)

// State is the animated view of one workspace. Info is replaced on every
// reconciliation; the animated values survive as long as the id does.
type State struct {
	Info compositor.WorkspaceInfo

	width *animation.Value[animation.Scalar]
	color *animation.Value[colors.Color]
}

// New returns a state settled at the targets for info.
func New(info compositor.WorkspaceInfo, style Style) *State {
	style = style.withDefaults()
	return &State{
		Info: info,
		width: animation.New(WidthTarget(info), style.WidthEasing, style.WidthDuration,
			animation.Scalar(style.Widths[WidthInactive]),
			animation.Scalar(style.Widths[WidthActive]),
		),
		color: animation.New(ColorTarget(info), style.ColorEasing, style.ColorDuration,
			style.Colors[:]...,
		),
	}
}

// FromExisting carries over the animation of the state in old with the same
// id and re-aims it for info. A value is only re-aimed when its target
// changed, so unrelated events leave running transitions alone. Workspaces
// not present in old start settled.
func FromExisting(old []*State, info compositor.WorkspaceInfo, style Style) *State {
	for _, prev := range old {
		if prev.Info.ID != info.ID {
			continue
		}
		s := &State{Info: info, width: prev.width, color: prev.color}
		if target := WidthTarget(info); s.width.Target() != target {
			s.width.SetTarget(target)
		}
		if target := ColorTarget(info); s.color.Target() != target {
			s.color.SetTarget(target)
		}
		return s
	}
	return New(info, style)
}

// Reconcile builds the states for one output from the latest workspace
// list, preserving order.
func Reconcile(output string, infos []compositor.WorkspaceInfo, old []*State, style Style) []*State {
	states := make([]*State, 0, len(infos))
	for _, info := range infos {
		if info.Output == "" || info.Output != output {
			continue
		}
		states = append(states, FromExisting(old, info, style))
	}
	return states
}

// Width is the current pill width in padding units.
func (s *State) Width() float32 {
	return float32(s.width.Get())
}

// Color is the current pill color.
func (s *State) Color() colors.Color {
	return s.color.Get()
}

// Running reports whether either value is mid-transition.
func (s *State) Running() bool {
	return s.width.Running() || s.color.Running()
}

// Update advances both values by one tick.
func (s *State) Update() {
	s.width.Update()
	s.color.Update()
}

// Targets returns the current width and color target indices.
func (s *State) Targets() (width, color int) {
	return s.width.Target(), s.color.Target()
}
