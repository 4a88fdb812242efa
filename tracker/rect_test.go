package tracker

import (
	"image"
	"math"
	"testing"
)

func TestRectObservationRoundTrip(t *testing.T) {

	rects := []Rect{
		{0, 0, 10, 10},
		{75, 175, 125, 225},
		{10.5, 20.25, 30.5, 60.25},
	}

	for _, r := range rects {
		got := RectFromObservation(r.Observation())

		if !floatsEqual(got[:], r[:], 1e-9) {
			t.Errorf("expected %v, got %v", r, got)
		}
	}
}

func TestRectObservation(t *testing.T) {

	r := NewRect(75, 175, 125, 225)
	z := r.Observation()

	expected := Observation{100, 200, 2500, 1}

	if !floatsEqual(z[:], expected[:], 1e-9) {
		t.Errorf("expected %v, got %v", expected, z)
	}

	// wide box
	z = RectFromXYWH(0, 0, 40, 10).Observation()

	if z[3] != 4 {
		t.Errorf("expected aspect ratio 4, got %v", z[3])
	}
}

func TestRectArea(t *testing.T) {

	if a := NewRect(0, 0, 10, 5).Area(); a != 50 {
		t.Errorf("expected area 50, got %v", a)
	}

	if a := NewRect(10, 0, 0, 5).Area(); a != 0 {
		t.Errorf("expected inverted rect to have area 0, got %v", a)
	}
}

func TestRectIsFinite(t *testing.T) {

	if !NewRect(0, 0, 1, 1).IsFinite() {
		t.Error("expected finite rect")
	}

	if NewRect(0, math.NaN(), 1, 1).IsFinite() {
		t.Error("expected NaN rect to be non-finite")
	}

	if NewRect(0, 0, math.Inf(1), 1).IsFinite() {
		t.Error("expected Inf rect to be non-finite")
	}
}

func TestRectImage(t *testing.T) {

	r := RectFromImage(image.Rect(1, 2, 30, 40))

	if r != (Rect{1, 2, 30, 40}) {
		t.Errorf("unexpected rect %v", r)
	}

	if img := r.Image(); img != image.Rect(1, 2, 30, 40) {
		t.Errorf("unexpected image rect %v", img)
	}
}

func TestIOU(t *testing.T) {

	tests := []struct {
		name     string
		a, b     Rect
		expected float64
	}{
		{"identical", Rect{0, 0, 10, 10}, Rect{0, 0, 10, 10}, 1},
		{"shifted", Rect{0, 0, 10, 10}, Rect{1, 1, 11, 11}, 81.0 / 119.0},
		{"half overlap", Rect{0, 0, 10, 10}, Rect{5, 0, 15, 10}, 50.0 / 150.0},
		{"disjoint", Rect{0, 0, 10, 10}, Rect{20, 20, 30, 30}, 0},
		{"touching edge", Rect{0, 0, 10, 10}, Rect{10, 0, 20, 10}, 0},
		{"contained", Rect{0, 0, 10, 10}, Rect{2, 2, 7, 7}, 25.0 / 100.0},
		{"zero area", Rect{0, 0, 0, 10}, Rect{0, 0, 10, 10}, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := IOU(tc.a, tc.b)

			if math.Abs(got-tc.expected) > 1e-12 {
				t.Errorf("expected %v, got %v", tc.expected, got)
			}

			if sym := IOU(tc.b, tc.a); math.Abs(sym-got) > 1e-12 {
				t.Errorf("IOU not symmetric: %v vs %v", got, sym)
			}
		})
	}
}

func TestIOUMatrix(t *testing.T) {

	if m := IOUMatrix(nil, []Rect{{0, 0, 1, 1}}); m != nil {
		t.Errorf("expected nil matrix, got %v", m)
	}

	a := []Rect{{0, 0, 10, 10}, {20, 20, 30, 30}}
	b := []Rect{{0, 0, 10, 10}, {5, 0, 15, 10}, {20, 20, 30, 30}}

	m := IOUMatrix(a, b)

	if len(m) != 2 || len(m[0]) != 3 {
		t.Fatalf("expected 2x3 matrix, got %v", m)
	}

	if m[0][0] != 1 || m[1][2] != 1 || m[1][0] != 0 {
		t.Errorf("unexpected matrix %v", m)
	}
}
