package render

import (
	"image/color"

	"gocv.io/x/gocv"
)

// Alignment of a box label relative to its bounding box
type Alignment int

const (
	Left Alignment = iota + 1
	Center
	Right
)

// Font defines the parameters for rendering text on an image using GoCV
type Font struct {
	Face      gocv.HersheyFont
	Scale     float64
	Color     color.RGBA
	Thickness int
	LineType  gocv.LineType
	// Padding to place around text
	LeftPad   int
	RightPad  int
	TopPad    int
	BottomPad int
	// Alignment of box labels, not used for overlay text
	Alignment Alignment
}

// DefaultFont returns the font used for box labels
func DefaultFont() Font {
	return Font{
		Face:      gocv.FontHersheySimplex,
		Scale:     0.5,
		Color:     White,
		Thickness: 1,
		LineType:  gocv.LineAA,
		LeftPad:   4,
		RightPad:  4,
		TopPad:    4,
		BottomPad: 6,
		Alignment: Left,
	}
}

// OverlayFont returns a larger font for the counts and signal overlays
func OverlayFont() Font {
	f := DefaultFont()
	f.Scale = 0.7
	f.Thickness = 2
	f.TopPad = 6
	return f
}
