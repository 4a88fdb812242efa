package render

import (
	"fmt"
	"image"
	"image/color"
	"sort"

	"github.com/swdee/go-sortlite/counter"
	"github.com/swdee/go-sortlite/signal"
	"gocv.io/x/gocv"
)

// CountingLine draws the horizontal counting line across the full image
// width
func CountingLine(img *gocv.Mat, lineY int, clr color.RGBA, thickness int) {
	gocv.Line(img, image.Pt(0, lineY), image.Pt(img.Cols(), lineY), clr, thickness)
}

// LanePolygons outlines each lane, the lane drawn green when it holds the
// current green phase
func LanePolygons(img *gocv.Mat, lanes []counter.Lane, greenLane int,
	thickness int) {

	for _, lane := range lanes {
		if len(lane.Polygon) < 3 {
			continue
		}

		clr := Red
		if lane.ID == greenLane {
			clr = Green
		}

		pv := gocv.NewPointsVectorFromPoints([][]image.Point{lane.Polygon})
		gocv.Polylines(img, pv, true, clr, thickness)
		pv.Close()
	}
}

// LaneCounts writes a line per lane with its crossing count in the top left
// corner of the image, followed by the total
func LaneCounts(img *gocv.Mat, counts map[int]int, font Font) {

	ids := make([]int, 0, len(counts))
	total := 0

	for id, n := range counts {
		ids = append(ids, id)
		total += n
	}

	sort.Ints(ids)

	lines := make([]string, 0, len(ids)+1)

	for _, id := range ids {
		name := fmt.Sprintf("Lane %d", id)
		if id == counter.NoLane {
			name = "Other"
		}
		lines = append(lines, fmt.Sprintf("%s: %d", name, counts[id]))
	}

	lines = append(lines, fmt.Sprintf("Total: %d", total))

	textBlock(img, image.Pt(10, 10), lines, font)
}

// SignalState writes the signal decision in the top right corner of the
// image
func SignalState(img *gocv.Mat, d signal.Decision, font Font) {

	text := fmt.Sprintf("Green: lane %d %ds (%s)", d.Lane, d.GreenSeconds, d.Reason)
	size := gocv.GetTextSize(text, font.Face, font.Scale, font.Thickness)

	x := img.Cols() - size.X - font.LeftPad - font.RightPad - 10

	textBlock(img, image.Pt(x, 10), []string{text}, font)
}

// textBlock draws lines of text on a black background starting at the top
// left point given
func textBlock(img *gocv.Mat, at image.Point, lines []string, font Font) {

	y := at.Y

	for _, line := range lines {
		size := gocv.GetTextSize(line, font.Face, font.Scale, font.Thickness)

		bg := image.Rect(at.X, y,
			at.X+size.X+font.LeftPad+font.RightPad,
			y+size.Y+font.TopPad+font.BottomPad)
		gocv.Rectangle(img, bg, Black, -1)

		gocv.PutTextWithParams(img, line, image.Pt(at.X+font.LeftPad, y+font.TopPad+size.Y),
			font.Face, font.Scale, font.Color, font.Thickness, font.LineType, false)

		y = bg.Max.Y
	}
}
