// Package colors holds the RGBA color type used by the bar and its
// perceptual blending.
package colors

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a straight-alpha sRGB color with channels in [0,1].
type Color struct {
	R float32 `json:"r"`
	G float32 `json:"g"`
	B float32 `json:"b"`
	A float32 `json:"a"`
}

var (
	Black = Color{A: 1}
	White = Color{R: 1, G: 1, B: 1, A: 1}
)

// RGB returns an opaque color from 8-bit channels.
func RGB(r, g, b uint8) Color {
	return Color{R: float32(r) / 255, G: float32(g) / 255, B: float32(b) / 255, A: 1}
}

// Parse reads "#rgb", "#rrggbb" or "#rrggbbaa". The leading '#' is optional.
func Parse(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")

	alpha := float32(1)
	switch len(hex) {
	case 3, 6:
	case 8:
		a, err := strconv.ParseUint(hex[6:], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
		alpha = float32(a) / 255
		hex = hex[:6]
	default:
		return Color{}, fmt.Errorf("invalid color %q: want #rgb, #rrggbb or #rrggbbaa", s)
	}

	c, err := colorful.Hex("#" + hex)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return fromColorful(c, alpha), nil
}

// MustParse is Parse for compile-time constants.
func MustParse(s string) Color {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats the color as #rrggbb, or #rrggbbaa when it is not opaque.
func (c Color) Hex() string {
	s := fmt.Sprintf("#%02x%02x%02x", to8(c.R), to8(c.G), to8(c.B))
	if c.A < 1 {
		s += fmt.Sprintf("%02x", to8(c.A))
	}
	return s
}

func (c Color) String() string {
	return c.Hex()
}

// Lerp blends toward end in CIE L*a*b*, which keeps intermediate colors
// perceptually between the endpoints instead of passing through the grey
// midpoints channel-wise sRGB averaging produces. Alpha blends linearly.
func (c Color) Lerp(end Color, factor float32) Color {
	switch {
	case factor <= 0:
		return c
	case factor >= 1:
		return end
	}
	l1, a1, b1 := c.colorful().Lab()
	l2, a2, b2 := end.colorful().Lab()
	t := float64(factor)

	out := colorful.Lab(
		l1+t*(l2-l1),
		a1+t*(a2-a1),
		b1+t*(b2-b1),
	).Clamped()
	return fromColorful(out, c.A+factor*(end.A-c.A))
}

func (c Color) colorful() colorful.Color {
	return colorful.Color{R: float64(c.R), G: float64(c.G), B: float64(c.B)}
}

func fromColorful(c colorful.Color, alpha float32) Color {
	return Color{R: float32(c.R), G: float32(c.G), B: float32(c.B), A: alpha}
}

func to8(v float32) uint8 {
	return uint8(math.Round(float64(min(max(v, 0), 1)) * 255))
}
