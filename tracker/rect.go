package tracker

import (
	"image"
	"math"
)

// Rect represents an axis aligned bounding box in corner form
// [x1, y1, x2, y2] where (x1,y1) is the top-left and (x2,y2) the bottom-right
type Rect [4]float64

// Observation (center x, center y, scale/area, aspect ratio) represents the
// observable part of the motion state
type Observation [4]float64

// NewRect creates a new Rect from its top-left and bottom-right corners
func NewRect(x1, y1, x2, y2 float64) Rect {
	return Rect{x1, y1, x2, y2}
}

// RectFromXYWH creates a Rect from top-left coordinates and size
func RectFromXYWH(x, y, width, height float64) Rect {
	return Rect{x, y, x + width, y + height}
}

// RectFromImage converts an image.Rectangle into a Rect
func RectFromImage(r image.Rectangle) Rect {
	return Rect{float64(r.Min.X), float64(r.Min.Y), float64(r.Max.X), float64(r.Max.Y)}
}

// X1 returns the top-left x coordinate
func (r Rect) X1() float64 {
	return r[0]
}

// Y1 returns the top-left y coordinate
func (r Rect) Y1() float64 {
	return r[1]
}

// X2 returns the bottom-right x coordinate
func (r Rect) X2() float64 {
	return r[2]
}

// Y2 returns the bottom-right y coordinate
func (r Rect) Y2() float64 {
	return r[3]
}

// Width returns the width of the rectangle
func (r Rect) Width() float64 {
	return r[2] - r[0]
}

// Height returns the height of the rectangle
func (r Rect) Height() float64 {
	return r[3] - r[1]
}

// Area returns the area of the rectangle, or 0 if either side is not positive
func (r Rect) Area() float64 {
	w, h := r.Width(), r.Height()
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// Center returns the center point of the rectangle
func (r Rect) Center() (float64, float64) {
	return r[0] + r.Width()/2, r[1] + r.Height()/2
}

// IsFinite reports whether all four coordinates are finite numbers
func (r Rect) IsFinite() bool {
	for _, v := range r {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Image converts the rectangle to an image.Rectangle, truncating coordinates
// toward zero
func (r Rect) Image() image.Rectangle {
	return image.Rect(int(r[0]), int(r[1]), int(r[2]), int(r[3]))
}

// Observation converts the rectangle to the [cx, cy, s, r] form used as the
// Kalman filter measurement.  The caller must ensure width and height are
// positive.
func (r Rect) Observation() Observation {

	w := r.Width()
	h := r.Height()

	return Observation{
		r[0] + w/2,
		r[1] + h/2,
		w * h,
		w / h,
	}
}

// RectFromState converts a state vector whose first four elements are
// [cx, cy, s, r] back to corner form
func RectFromState(x []float64) Rect {

	w := math.Sqrt(x[2] * x[3])
	h := x[2] / w

	return Rect{
		x[0] - w/2,
		x[1] - h/2,
		x[0] + w/2,
		x[1] + h/2,
	}
}

// RectFromObservation converts an observation back to corner form
func RectFromObservation(z Observation) Rect {
	return RectFromState(z[:])
}
