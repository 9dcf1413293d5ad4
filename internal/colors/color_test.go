package colors

import (
	"math"
	"testing"
)

func near(a, b Color, tol float64) bool {
	return math.Abs(float64(a.R-b.R)) <= tol &&
		math.Abs(float64(a.G-b.G)) <= tol &&
		math.Abs(float64(a.B-b.B)) <= tol &&
		math.Abs(float64(a.A-b.A)) <= tol
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"#ffffff", White},
		{"000", Black},
		{"#f00", RGB(255, 0, 0)},
		{"#89b4fa", RGB(0x89, 0xb4, 0xfa)},
		{"#00000000", Color{}},
		{"  #1e1e2e ", RGB(0x1e, 0x1e, 0x2e)},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", tt.in, err)
		}
		if !near(got, tt.want, 1e-6) {
			t.Errorf("Parse(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, in := range []string{"", "#12", "#12345", "#gggggg", "#1234567g", "blue"} {
		if _, err := Parse(in); err == nil {
			t.Errorf("Parse(%q) expected error", in)
		}
	}
}

func TestHex(t *testing.T) {
	if got := RGB(0x58, 0x5b, 0x70).Hex(); got != "#585b70" {
		t.Fatalf("Hex() = %q, want #585b70", got)
	}
	c := MustParse("#11223380")
	if got := c.Hex(); got != "#11223380" {
		t.Fatalf("Hex() = %q, want #11223380", got)
	}
}

func TestLerp_Endpoints(t *testing.T) {
	pairs := [][2]Color{
		{MustParse("#585b70"), MustParse("#89b4fa")},
		{MustParse("#f38ba8"), MustParse("#a6e3a1")},
		{Black, White},
		{MustParse("#ff000080"), MustParse("#0000ff")},
	}
	for _, p := range pairs {
		if got := p[0].Lerp(p[1], 0); !near(got, p[0], 1e-3) {
			t.Errorf("Lerp(%s, %s, 0) = %s", p[0], p[1], got)
		}
		if got := p[0].Lerp(p[1], 1); !near(got, p[1], 1e-3) {
			t.Errorf("Lerp(%s, %s, 1) = %s", p[0], p[1], got)
		}
	}
}

func TestLerp_AlphaLinear(t *testing.T) {
	got := MustParse("#ffffff00").Lerp(White, 0.25)
	if math.Abs(float64(got.A)-0.25) > 1e-6 {
		t.Fatalf("alpha = %v, want 0.25", got.A)
	}
}

func TestLerp_BlackWhiteMidpointIsMidLightness(t *testing.T) {
	// L* = 50 is roughly #777777.
	mid := Black.Lerp(White, 0.5)
	for _, ch := range []float32{mid.R, mid.G, mid.B} {
		if ch < 0.43 || ch > 0.5 {
			t.Fatalf("Lab midpoint = %s, want mid-lightness grey", mid)
		}
	}
}
