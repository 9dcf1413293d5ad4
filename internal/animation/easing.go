// Package animation drives visual transitions between discrete targets.
//
// It knows nothing about rendering: a Value is advanced once per TickInterval
// by whoever owns it, and read back with Get.
package animation

import (
	"fmt"
	"time"
)

// TickInterval is the period between animation ticks (~60 Hz).
const TickInterval = time.Second / 60 / time.Millisecond * time.Millisecond

// Easing maps linear progress in [0,1] onto an eased factor in [0,1].
type Easing int

const (
	Linear Easing = iota
	Smoothstep
)

func (e Easing) String() string {
	switch e {
	case Linear:
		return "linear"
	case Smoothstep:
		return "smoothstep"
	default:
		return "unknown"
	}
}

// ParseEasing resolves an easing by name.
func ParseEasing(name string) (Easing, error) {
	switch name {
	case "linear":
		return Linear, nil
	case "smoothstep":
		return Smoothstep, nil
	default:
		return 0, fmt.Errorf("unknown easing %q (want linear or smoothstep)", name)
	}
}

// Ease returns f(x). f(0) = 0, f(1) = 1 and f is non-decreasing on [0,1].
func (e Easing) Ease(x float32) float32 {
	switch e {
	case Smoothstep:
		return x * x * (3 - 2*x)
	default:
		return x
	}
}
