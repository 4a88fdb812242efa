package tracker

import (
	"testing"
)

func result(id int64, x1, y1, x2, y2 float64) Result {
	return Result{Rect: NewRect(x1, y1, x2, y2), TrackID: id}
}

func TestTrailAdd(t *testing.T) {

	trail := NewTrail(3)

	for i := 0; i < 5; i++ {
		x := float64(i * 10)
		trail.AddAll([]Result{result(1, x, 0, x+10, 10)})
	}

	points := trail.GetPoints(1)

	expected := []Point{{25, 5}, {35, 5}, {45, 5}}

	if len(points) != len(expected) {
		t.Fatalf("expected %d points, got %d", len(expected), len(points))
	}

	for i := range expected {
		if points[i] != expected[i] {
			t.Errorf("point %d: expected %v, got %v", i, expected[i], points[i])
		}
	}

	prev, ok := trail.Previous(1)

	if !ok || prev != (Point{35, 5}) {
		t.Errorf("expected previous point {35 5}, got %v %v", prev, ok)
	}

	if _, ok := trail.Previous(2); ok {
		t.Error("expected no previous point for unknown track")
	}
}

func TestTrailPointsCopy(t *testing.T) {

	trail := NewTrail(5)
	trail.AddAll([]Result{result(1, 0, 0, 10, 10)})

	points := trail.GetPoints(1)
	points[0] = Point{99, 99}

	if got := trail.GetPoints(1)[0]; got != (Point{5, 5}) {
		t.Errorf("history modified through returned slice: %v", got)
	}
}

func TestTrailPrune(t *testing.T) {

	trail := NewTrail(5)

	trail.AddAll([]Result{result(1, 0, 0, 10, 10), result(2, 50, 50, 60, 60)})

	for i := 0; i < 3; i++ {
		trail.AddAll([]Result{result(2, 50, 50, 60, 60)})
	}

	trail.Prune(2)

	if trail.Len() != 1 {
		t.Fatalf("expected 1 track after prune, got %d", trail.Len())
	}

	if trail.GetPoints(1) != nil {
		t.Error("expected track 1 to be pruned")
	}

	trail.Reset()

	if trail.Len() != 0 {
		t.Errorf("expected empty trail after reset, got %d", trail.Len())
	}
}
