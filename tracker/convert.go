package tracker

import "image"

// RectsToDetections takes detector bounding boxes with their scores and
// labels and converts them into tracker detections.  scores and labels may
// be nil, in which case a score of 1 and label of 0 are used.  Detection IDs
// are assigned sequentially starting at firstID.
func RectsToDetections(boxes []image.Rectangle, scores []float64, labels []int,
	firstID int64) []Detection {

	dets := make([]Detection, 0, len(boxes))

	for i, box := range boxes {

		score := 1.0
		if i < len(scores) {
			score = scores[i]
		}

		label := 0
		if i < len(labels) {
			label = labels[i]
		}

		dets = append(dets, NewDetection(RectFromImage(box), score, label,
			firstID+int64(i)))
	}

	return dets
}

// ResultsToRects returns the bounding boxes of the results as image rectangles
func ResultsToRects(results []Result) []image.Rectangle {

	rects := make([]image.Rectangle, 0, len(results))

	for _, res := range results {
		rects = append(rects, res.Rect.Image())
	}

	return rects
}
