package counter

import (
	"fmt"
	"image"

	clipper "github.com/ctessum/go.clipper"
	"github.com/swdee/go-sortlite/tracker"
)

// Lane is a region of the frame, usually a road lane, that crossings are
// attributed to
type Lane struct {
	// ID of the lane reported in crossings and counts
	ID int
	// Polygon outline of the lane in image coordinates
	Polygon []image.Point
}

// region is a lane whose outline has been grown by the counter margin.  The
// offset of a concave outline may split into several polygons.
type region struct {
	id       int
	polygons [][]tracker.Point
}

// growLane offsets the lane outline outward by margin pixels with round
// joins, so a center riding the edge of a lane still falls inside it
func growLane(lane Lane, margin float64) (region, error) {

	if len(lane.Polygon) < 3 {
		return region{}, fmt.Errorf("lane %d polygon needs at least 3 points, got %d",
			lane.ID, len(lane.Polygon))
	}

	reg := region{id: lane.ID}

	if margin <= 0 {
		reg.polygons = [][]tracker.Point{toPoints(lane.Polygon)}
		return reg, nil
	}

	var path clipper.Path

	for _, pt := range lane.Polygon {
		path = append(path, &clipper.IntPoint{X: clipper.CInt(pt.X), Y: clipper.CInt(pt.Y)})
	}

	co := clipper.NewClipperOffset()
	co.AddPath(path, clipper.JtRound, clipper.EtClosedPolygon)

	solution := co.Execute(margin)

	for _, sol := range solution {
		if len(sol) < 3 {
			continue
		}

		poly := make([]tracker.Point, 0, len(sol))

		for _, pt := range sol {
			poly = append(poly, tracker.Point{X: float64(pt.X), Y: float64(pt.Y)})
		}

		reg.polygons = append(reg.polygons, poly)
	}

	if len(reg.polygons) == 0 {
		return region{}, fmt.Errorf("lane %d polygon is degenerate", lane.ID)
	}

	return reg, nil
}

// contains reports whether p lies inside any of the region polygons
func (r region) contains(p tracker.Point) bool {
	for _, poly := range r.polygons {
		if pointInPolygon(p, poly) {
			return true
		}
	}
	return false
}

// pointInPolygon tests p against the polygon with the even-odd ray casting
// rule
func pointInPolygon(p tracker.Point, poly []tracker.Point) bool {

	inside := false
	n := len(poly)

	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := poly[i], poly[j]

		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y) + a.X

			if p.X < x {
				inside = !inside
			}
		}
	}

	return inside
}

func toPoints(pts []image.Point) []tracker.Point {
	out := make([]tracker.Point, len(pts))
	for i, pt := range pts {
		out[i] = tracker.Point{X: float64(pt.X), Y: float64(pt.Y)}
	}
	return out
}
