package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/swdee/go-sortlite/tracker"
	"gocv.io/x/gocv"
)

// boxLabel defines where the object label should be rendered on the source
// image
type boxLabel struct {
	rect    image.Rectangle
	clr     color.RGBA
	text    string
	textPos image.Point
}

// className returns the name for a label, or the label number if there is
// no name for it
func className(classNames []string, label int) string {
	if label >= 0 && label < len(classNames) {
		return classNames[label]
	}
	return fmt.Sprintf("%d", label)
}

// DetectionBoxes renders the bounding boxes of the raw detector output given
// to the tracker, colored by class label
func DetectionBoxes(img *gocv.Mat, dets []tracker.Detection,
	classNames []string, font Font, lineThickness int) {

	boxLabels := make([]boxLabel, 0, len(dets))

	for _, det := range dets {

		useClr := trackColor(int64(det.Label))

		rect := det.Rect().Image()
		gocv.Rectangle(img, rect, useClr, lineThickness)

		text := fmt.Sprintf("%s %.2f", className(classNames, det.Label), det.Score)
		boxLabels = append(boxLabels, placeLabel(rect, text, useClr, font, lineThickness))
	}

	drawLabels(img, boxLabels, font)
}

// TrackerBoxes renders the bounding boxes of tracker results labelled with
// their class name and track ID
func TrackerBoxes(img *gocv.Mat, results []tracker.Result,
	classNames []string, font Font, lineThickness int) {

	boxLabels := make([]boxLabel, 0, len(results))

	for _, res := range results {

		useClr := trackColor(res.TrackID)

		rect := res.Rect.Image()
		gocv.Rectangle(img, rect, useClr, lineThickness)

		text := fmt.Sprintf("%s %d", className(classNames, res.Label), res.TrackID)
		boxLabels = append(boxLabels, placeLabel(rect, text, useClr, font, lineThickness))
	}

	drawLabels(img, boxLabels, font)
}

// placeLabel calculates where the label for a box is drawn according to the
// font alignment
func placeLabel(rect image.Rectangle, text string, clr color.RGBA, font Font,
	lineThickness int) boxLabel {

	textSize := gocv.GetTextSize(text, font.Face, font.Scale, font.Thickness)

	var centerX int

	switch font.Alignment {
	case Center:
		centerX = (rect.Min.X + rect.Max.X) / 2

	case Right:
		centerX = rect.Max.X - (textSize.X / 2) - font.RightPad + (lineThickness / 2)

	case Left:
		fallthrough
	default:
		centerX = rect.Min.X + (textSize.X / 2) + font.LeftPad - (lineThickness / 2)
	}

	// Adjust the label position so the text is centered horizontally
	labelPosition := image.Pt(centerX-textSize.X/2, rect.Min.Y-font.BottomPad)

	// box the text gets written on
	bRect := image.Rect(centerX-textSize.X/2-font.LeftPad,
		rect.Min.Y-textSize.Y-font.TopPad-font.BottomPad,
		centerX+textSize.X/2+font.RightPad, rect.Min.Y)

	return boxLabel{
		rect:    bRect,
		clr:     clr,
		text:    text,
		textPos: labelPosition,
	}
}

// drawLabels draws the precalculated labels after all boxes so they are the
// top most layer on the image
func drawLabels(img *gocv.Mat, boxLabels []boxLabel, font Font) {
	for _, box := range boxLabels {
		gocv.Rectangle(img, box.rect, box.clr, -1)

		gocv.PutTextWithParams(img, box.text, box.textPos,
			font.Face, font.Scale, font.Color, font.Thickness,
			font.LineType, false)
	}
}
