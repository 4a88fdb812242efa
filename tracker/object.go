package tracker

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidDetection is returned by Detection.Validate for boxes the tracker
// can not use
var ErrInvalidDetection = errors.New("invalid detection")

// Detection represents an object detected in a single frame
type Detection struct {
	// X1, Y1 is the top-left corner of the bounding box
	X1, Y1 float64
	// X2, Y2 is the bottom-right corner of the bounding box
	X2, Y2 float64
	// Score is the confidence of the detection
	Score float64
	// Label is the class label of the object detected.  The tracker does not
	// interpret it, it is carried through to the track result
	Label int
	// ID is a unique ID to give this detection which can be used to match
	// the input detection and tracked object
	ID int64
}

// NewDetection is a constructor function for the Detection struct
func NewDetection(rect Rect, score float64, label int, id int64) Detection {
	return Detection{
		X1:    rect[0],
		Y1:    rect[1],
		X2:    rect[2],
		Y2:    rect[3],
		Score: score,
		Label: label,
		ID:    id,
	}
}

// Rect returns the detection bounding box
func (d Detection) Rect() Rect {
	return Rect{d.X1, d.Y1, d.X2, d.Y2}
}

// Validate checks the detection has finite coordinates, a positive width and
// height and a non-negative score
func (d Detection) Validate() error {

	r := d.Rect()

	if !r.IsFinite() {
		return fmt.Errorf("%w: non-finite coordinates %v", ErrInvalidDetection, r)
	}

	if r.Width() <= 0 || r.Height() <= 0 {
		return fmt.Errorf("%w: non-positive size %vx%v", ErrInvalidDetection,
			r.Width(), r.Height())
	}

	if math.IsNaN(d.Score) || d.Score < 0 {
		return fmt.Errorf("%w: score %v", ErrInvalidDetection, d.Score)
	}

	return nil
}

// Result is a track emitted by the tracker for a frame
type Result struct {
	// Rect is the bounding box implied by the track state
	Rect Rect
	// TrackID is the identity of the track
	TrackID int64
	// Score is the score of the last detection matched to the track
	Score float64
	// Label is the label of the last detection matched to the track
	Label int
	// DetectionID is the ID of the last detection matched to the track
	DetectionID int64
}

// Center returns the center point of the result bounding box
func (r Result) Center() (float64, float64) {
	return r.Rect.Center()
}
