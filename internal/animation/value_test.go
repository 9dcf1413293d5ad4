package animation

import (
	"math"
	"testing"
	"time"
)

func approx(a, b Scalar) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

func ticksToSettle(v *Value[Scalar]) int {
	n := 0
	for v.Running() {
		v.Update()
		n++
		if n > 10000 {
			panic("value never settled")
		}
	}
	return n
}

func TestNew_StartsSettled(t *testing.T) {
	targets := []Scalar{1, 2.5, -4}
	for _, easing := range []Easing{Linear, Smoothstep} {
		for idx := range targets {
			v := New(idx, easing, 100*time.Millisecond, targets...)
			if v.Running() {
				t.Fatalf("New(%d, %s) is running", idx, easing)
			}
			if got := v.Get(); got != targets[idx] {
				t.Fatalf("New(%d, %s).Get() = %v, want %v", idx, easing, got, targets[idx])
			}
		}
	}
}

func TestNew_PanicsOnBadInput(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{"no targets", func() { New[Scalar](0, Linear, time.Second) }},
		{"negative index", func() { New(-1, Linear, time.Second, Scalar(1)) }},
		{"index too large", func() { New(2, Linear, time.Second, Scalar(1), Scalar(2)) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatal("expected panic")
				}
			}()
			tt.fn()
		})
	}
}

func TestSetTarget_PanicsOutOfRange(t *testing.T) {
	v := New(0, Linear, time.Second, Scalar(0), Scalar(1))
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	v.SetTarget(2)
}

func TestUpdate_IdempotentOnceSettled(t *testing.T) {
	v := New(0, Smoothstep, 100*time.Millisecond, Scalar(0), Scalar(10))
	v.SetTarget(1)
	ticksToSettle(v)

	want := v.Get()
	for i := 0; i < 20; i++ {
		v.Update()
		if v.Running() {
			t.Fatal("value restarted after settling")
		}
		if got := v.Get(); got != want {
			t.Fatalf("Get() changed after settling: %v -> %v", want, got)
		}
	}
	if want != 10 {
		t.Fatalf("settled value = %v, want exactly 10", want)
	}
}

func TestSetTarget_SameTargetWhileSettledIsNoop(t *testing.T) {
	v := New(1, Linear, 100*time.Millisecond, Scalar(0), Scalar(5))
	v.SetTarget(1)
	if v.Running() {
		t.Fatal("setting the current target started an animation")
	}
	if got := v.Get(); got != 5 {
		t.Fatalf("Get() = %v, want 5", got)
	}
}

func TestSetTarget_DurationInTicks(t *testing.T) {
	v := New(0, Linear, 100*time.Millisecond, Scalar(0), Scalar(1))
	v.SetTarget(1)
	if !v.Running() {
		t.Fatal("expected running right after SetTarget")
	}
	// 100ms / 16ms per tick -> 7 ticks.
	if n := ticksToSettle(v); n != 7 {
		t.Fatalf("settled after %d ticks, want 7", n)
	}
}

func TestSetTarget_RedirectIsContinuous(t *testing.T) {
	v := New(0, Smoothstep, 160*time.Millisecond, Scalar(0), Scalar(10), Scalar(-10))
	v.SetTarget(1)
	for i := 0; i < 4; i++ {
		v.Update()
	}
	before := v.Get()
	if before <= 0 || before >= 10 {
		t.Fatalf("expected mid-flight value, got %v", before)
	}

	v.SetTarget(2)
	if got := v.Get(); !approx(got, before) {
		t.Fatalf("redirect jumped: %v -> %v", before, got)
	}
	if v.Target() != 2 || v.progress != 0 {
		t.Fatalf("target/progress = %d/%v, want 2/0", v.Target(), v.progress)
	}

	// The first tick after the redirect moves by less than a full step of
	// the whole range.
	v.Update()
	step := math.Abs(float64(v.Get() - before))
	if step > 20*0.1+1e-5 {
		t.Fatalf("first tick after redirect moved %v", step)
	}

	ticksToSettle(v)
	if got := v.Get(); got != -10 {
		t.Fatalf("settled at %v, want -10", got)
	}
}

func TestSetTarget_BackToCurrentTargetMidFlight(t *testing.T) {
	v := New(0, Linear, 160*time.Millisecond, Scalar(0), Scalar(10))
	v.SetTarget(1)
	v.Update()
	v.Update()
	mid := v.Get()

	// Re-issuing the in-flight target restarts from the displayed value.
	v.SetTarget(1)
	if got := v.Get(); !approx(got, mid) {
		t.Fatalf("Get() = %v, want %v", got, mid)
	}
	if !v.Running() {
		t.Fatal("expected still running")
	}
}

func TestNew_NonPositiveDurationSettlesInOneTick(t *testing.T) {
	v := New(0, Linear, 0, Scalar(0), Scalar(3))
	v.SetTarget(1)
	v.Update()
	if v.Running() {
		t.Fatal("expected settled after one tick")
	}
	if got := v.Get(); got != 3 {
		t.Fatalf("Get() = %v, want 3", got)
	}
}

func TestNew_CopiesTargets(t *testing.T) {
	targets := []Scalar{1, 2}
	v := New(0, Linear, time.Second, targets...)
	targets[0] = 99
	if got := v.Get(); got != 1 {
		t.Fatalf("Get() = %v, want 1 after caller mutated its slice", got)
	}
}
