package animation

import (
	"fmt"
	"time"
)

// Value animates between a fixed set of targets. Changing the target while a
// transition is in flight restarts from the currently displayed value, so the
// output never jumps.
//
// A Value is not safe for concurrent use; it belongs to the goroutine that
// ticks it.
type Value[V Lerper[V]] struct {
	easing   Easing
	speed    float32
	target   int
	progress float32
	start    V
	end      V
	targets  []V
}

// New returns a Value settled at targets[initial]. A full transition takes
// roughly duration, advanced in TickInterval steps. New panics if targets is
// empty or initial is out of range.
func New[V Lerper[V]](initial int, easing Easing, duration time.Duration, targets ...V) *Value[V] {
	if len(targets) == 0 {
		panic("animation: New called without targets")
	}
	if initial < 0 || initial >= len(targets) {
		panic(fmt.Sprintf("animation: initial target %d out of range [0,%d)", initial, len(targets)))
	}

	speed := float32(1)
	if duration > 0 {
		speed = float32(TickInterval) / float32(duration)
	}

	ts := make([]V, len(targets))
	copy(ts, targets)

	return &Value[V]{
		easing:   easing,
		speed:    speed,
		target:   initial,
		progress: 1,
		start:    ts[initial],
		end:      ts[initial],
		targets:  ts,
	}
}

// SetTarget aims the value at targets[idx]. It is a no-op when idx is already
// the target and the value is settled. SetTarget panics if idx is out of
// range.
func (v *Value[V]) SetTarget(idx int) {
	if idx < 0 || idx >= len(v.targets) {
		panic(fmt.Sprintf("animation: target %d out of range [0,%d)", idx, len(v.targets)))
	}
	if idx == v.target && !v.Running() {
		return
	}

	v.start = v.Get()
	v.end = v.targets[idx]
	v.progress = 0
	v.target = idx
}

// Update advances the transition by one tick.
func (v *Value[V]) Update() {
	if v.progress < 1 {
		v.progress = min(1, v.progress+v.speed)
	}
}

// Get returns the currently displayed value.
func (v *Value[V]) Get() V {
	if v.progress >= 1 {
		return v.end
	}
	return v.start.Lerp(v.end, v.easing.Ease(v.progress))
}

// Running reports whether a transition is in progress.
func (v *Value[V]) Running() bool {
	return v.progress < 1
}

// Target returns the index of the current target.
func (v *Value[V]) Target() int {
	return v.target
}
