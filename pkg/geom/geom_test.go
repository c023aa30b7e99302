package geom

import "testing"

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 20, W: 100, H: 50}

	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"inside", Pt(50, 40), true},
		{"bottom-left corner", Pt(10, 20), true},
		{"right edge", Pt(110, 40), false},
		{"top edge", Pt(50, 70), false},
		{"left of rect", Pt(9.9, 40), false},
		{"below rect", Pt(50, 19), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.p); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestRectEmpty(t *testing.T) {
	if !(Rect{W: 0, H: 10}).Empty() {
		t.Error("zero-width rect should be empty")
	}
	if (Rect{W: 1, H: 1}).Empty() {
		t.Error("1x1 rect should not be empty")
	}
}

func TestColorWithAlpha(t *testing.T) {
	c := RGBA(255, 0, 0, 255).WithAlpha(0.5)
	if c.R != 1 || c.G != 0 || c.A != 0.5 {
		t.Errorf("WithAlpha = %+v", c)
	}
}

func TestCanvasProjectionCorners(t *testing.T) {
	m := CanvasProjection(1920, 1080)

	x, y, _ := m.TransformPoint(0, 0, 0)
	if abs(x+1) > 1e-5 || abs(y+1) > 1e-5 {
		t.Errorf("origin maps to (%f, %f), want (-1, -1)", x, y)
	}

	x, y, _ = m.TransformPoint(1920, 1080, 0)
	if abs(x-1) > 1e-5 || abs(y-1) > 1e-5 {
		t.Errorf("top-right maps to (%f, %f), want (1, 1)", x, y)
	}
}

func TestMulIdentity(t *testing.T) {
	m := Ortho(0, 10, 0, 5, -1, 1)
	got := m.Mul(Identity())
	for i := range m {
		if abs(got[i]-m[i]) > 1e-6 {
			t.Fatalf("element %d: got %f, want %f", i, got[i], m[i])
		}
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
