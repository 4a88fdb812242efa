package tracker

import "math"

// IOU calculates the Intersection over Union between two rectangles.  It
// returns 0 when the rectangles do not overlap or when either of them has no
// area.
func IOU(a, b Rect) float64 {

	areaA := a.Area()
	areaB := b.Area()

	if areaA <= 0 || areaB <= 0 {
		return 0
	}

	iw := math.Min(a[2], b[2]) - math.Max(a[0], b[0])
	if iw <= 0 {
		return 0
	}

	ih := math.Min(a[3], b[3]) - math.Max(a[1], b[1])
	if ih <= 0 {
		return 0
	}

	inter := iw * ih
	union := areaA + areaB - inter

	if union <= 0 {
		return 0
	}

	return inter / union
}

// IOUMatrix calculates the IoU between every pair of rectangles from aRects
// (rows) and bRects (columns).  A nil matrix is returned if either set is
// empty.
func IOUMatrix(aRects, bRects []Rect) [][]float64 {

	if len(aRects)*len(bRects) == 0 {
		return nil
	}

	ious := make([][]float64, len(aRects))

	for ai := range aRects {
		ious[ai] = make([]float64, len(bRects))

		for bi := range bRects {
			ious[ai][bi] = IOU(aRects[ai], bRects[bi])
		}
	}

	return ious
}
