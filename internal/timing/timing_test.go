package timing

import (
	"math"
	"testing"
)

func TestFadeInClampedAndMonotonic(t *testing.T) {
	rates := []float64{0.1, 1, 2, 30}
	dts := []float64{0, 1.0 / 144, 1.0 / 60, 0.25, 3}

	for _, rate := range rates {
		for _, dt := range dts {
			frames := 1
			if dt > 0 {
				frames = int(math.Ceil(1/(rate*dt))) + 1
			}
			a := 0.0
			for frame := 0; frame < frames; frame++ {
				next := FadeIn(a, dt, rate, false)
				if next < 0 || next > 1 {
					t.Fatalf("FadeIn out of range: %f (rate %f dt %f)", next, rate, dt)
				}
				if next < a {
					t.Fatalf("FadeIn decreased %f -> %f", a, next)
				}
				a = next
			}
			if dt > 0 && a != 1 {
				t.Errorf("FadeIn did not reach 1 (rate %f dt %f): %f", rate, dt, a)
			}
		}
	}
}

func TestFadeOutClampedAndMonotonic(t *testing.T) {
	a := 1.0
	for frame := 0; frame < 200; frame++ {
		next := FadeOut(a, 1.0/60, 2, false)
		if next < 0 || next > 1 {
			t.Fatalf("FadeOut out of range: %f", next)
		}
		if next > a {
			t.Fatalf("FadeOut increased %f -> %f", a, next)
		}
		a = next
	}
	if a != 0 {
		t.Errorf("FadeOut did not reach 0: %f", a)
	}
}

func TestInstantCompletesInOneFrame(t *testing.T) {
	if got := FadeIn(0, 1.0/240, 0.5, true); got != 1 {
		t.Errorf("instant FadeIn = %f, want 1", got)
	}
	if got := FadeOut(1, 1.0/240, 0.5, true); got != 0 {
		t.Errorf("instant FadeOut = %f, want 0", got)
	}
	if got := AdvanceReveal(0, 1.0/240, 10, true, 5000); got != 1 {
		t.Errorf("instant reveal = %f, want 1", got)
	}
	if got := AdvanceReveal(0.2, 1.0/2000, 40, true, 100_000); got != 1 {
		t.Errorf("instant reveal of long text = %f, want 1", got)
	}
}

func TestZeroDeltaIsNoOp(t *testing.T) {
	if got := FadeIn(0.3, 0, 2, false); got != 0.3 {
		t.Errorf("FadeIn with dt=0 = %f", got)
	}
	if got := FadeOut(0.3, 0, 2, false); got != 0.3 {
		t.Errorf("FadeOut with dt=0 = %f", got)
	}
	if got := AdvanceReveal(0.3, 0, 40, false, 12); got != 0.3 {
		t.Errorf("AdvanceReveal with dt=0 = %f", got)
	}
}

func TestRevealReachesOneAfterNOverRate(t *testing.T) {
	const rate = 40.0
	const dt = 1.0 / 60

	for _, n := range []int{1, 7, 40, 123} {
		r := Reveal{Glyphs: n}
		elapsed := 0.0
		for !r.Done() {
			r.Advance(dt, rate, false)
			elapsed += dt
			if elapsed > 1000 {
				t.Fatalf("reveal never finished for %d glyphs", n)
			}
		}
		want := float64(n) / rate
		if math.Abs(elapsed-want) > dt+1e-9 {
			t.Errorf("%d glyphs: finished after %.4fs, want %.4fs within one frame", n, elapsed, want)
		}
	}
}

func TestRevealWithoutGlyphsCompletes(t *testing.T) {
	if got := AdvanceReveal(0, 0.01, 40, false, 0); got != 1 {
		t.Errorf("AdvanceReveal with no glyphs = %f, want 1", got)
	}
}

func TestGlyphCount(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"Hi", 2},
		{"悠太翼", 3},
		{"café", 4},
		{"cafe\u0301", 4}, // decomposed
		{"こんにちは、世界", 8},
	}

	for _, tt := range tests {
		if got := GlyphCount(tt.in); got != tt.want {
			t.Errorf("GlyphCount(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestVisiblePrefix(t *testing.T) {
	tests := []struct {
		in    string
		ratio float64
		want  string
	}{
		{"Hello", 0, ""},
		{"Hello", 0.4, "He"},
		{"Hello", 0.99, "Hell"},
		{"Hello", 1, "Hello"},
		{"悠太翼", 0.67, "悠太"},
	}

	for _, tt := range tests {
		if got := VisiblePrefix(tt.in, tt.ratio); got != tt.want {
			t.Errorf("VisiblePrefix(%q, %.2f) = %q, want %q", tt.in, tt.ratio, got, tt.want)
		}
	}
}

func TestFadeHelpers(t *testing.T) {
	var f Fade
	if !f.Hidden() || f.Shown() {
		t.Fatal("zero Fade should be hidden")
	}
	f.In(1, 2, false)
	if !f.Shown() {
		t.Errorf("Fade after 1s at rate 2 should be shown, alpha %f", f.Alpha)
	}
	f.Out(0.25, 2, false)
	if f.Alpha != 0.5 {
		t.Errorf("alpha = %f, want 0.5", f.Alpha)
	}
}
