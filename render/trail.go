package render

import (
	"image"
	"image/color"

	"github.com/swdee/go-sortlite/tracker"
	"gocv.io/x/gocv"
)

// TrailStyle sets how track center histories are drawn
type TrailStyle struct {
	// TrackColor draws the trail in the track's box color instead of Color
	TrackColor bool
	Color      color.RGBA
	Thickness  int
	// Fade darkens older segments of the trail
	Fade bool
	// HeadRadius is the radius of the dot drawn at the latest center, zero
	// disables it
	HeadRadius int
}

// DefaultTrailStyle returns the trail style used by the examples
func DefaultTrailStyle() TrailStyle {
	return TrailStyle{
		TrackColor: true,
		Color:      Yellow,
		Thickness:  2,
		Fade:       true,
		HeadRadius: 3,
	}
}

func toImagePoint(p tracker.Point) image.Point {
	return image.Pt(int(p.X), int(p.Y))
}

// Trail draws the center point history of each tracker result
func Trail(img *gocv.Mat, results []tracker.Result, trail *tracker.Trail,
	style TrailStyle) {

	for _, res := range results {

		clr := style.Color
		if style.TrackColor {
			clr = trackColor(res.TrackID)
		}

		points := trail.GetPoints(res.TrackID)

		for i := 1; i < len(points); i++ {
			segClr := clr
			if style.Fade {
				segClr = fade(clr, 0.3+0.7*float64(i)/float64(len(points)-1))
			}
			gocv.Line(img, toImagePoint(points[i-1]), toImagePoint(points[i]),
				segClr, style.Thickness)
		}

		if len(points) > 0 && style.HeadRadius > 0 {
			gocv.Circle(img, toImagePoint(points[len(points)-1]),
				style.HeadRadius, clr, -1)
		}
	}
}
