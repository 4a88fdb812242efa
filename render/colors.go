package render

import "image/color"

var (
	// trackColors is cycled through by track ID so neighbouring IDs get
	// contrasting colors
	trackColors = []color.RGBA{
		{R: 255, G: 56, B: 56, A: 255},   // #FF3838
		{R: 0, G: 194, B: 255, A: 255},   // #00C2FF
		{R: 255, G: 178, B: 29, A: 255},  // #FFB21D
		{R: 132, G: 56, B: 255, A: 255},  // #8438FF
		{R: 72, G: 249, B: 10, A: 255},   // #48F90A
		{R: 255, G: 55, B: 199, A: 255},  // #FF37C7
		{R: 0, G: 212, B: 187, A: 255},   // #00D4BB
		{R: 255, G: 112, B: 31, A: 255},  // #FF701F
		{R: 100, G: 115, B: 255, A: 255}, // #6473FF
		{R: 207, G: 210, B: 49, A: 255},  // #CFD231
		{R: 203, G: 56, B: 255, A: 255},  // #CB38FF
		{R: 26, G: 147, B: 52, A: 255},   // #1A9334
	}

	Black  = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Yellow = color.RGBA{R: 255, G: 255, B: 50, A: 255}
	Red    = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	Green  = color.RGBA{R: 0, G: 255, B: 0, A: 255}
)

// trackColor returns the color used for a track ID
func trackColor(id int64) color.RGBA {
	if id < 0 {
		id = -id
	}
	return trackColors[id%int64(len(trackColors))]
}

// fade blends c towards black, keep is the fraction of c retained
func fade(c color.RGBA, keep float64) color.RGBA {
	if keep < 0 {
		keep = 0
	} else if keep > 1 {
		keep = 1
	}
	return color.RGBA{
		R: uint8(float64(c.R) * keep),
		G: uint8(float64(c.G) * keep),
		B: uint8(float64(c.B) * keep),
		A: c.A,
	}
}
