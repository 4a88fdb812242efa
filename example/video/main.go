// Command video replays detections from a MOT file over a traffic video,
// tracks them, counts vehicles crossing a line per lane, decides the signal
// phase from the lane counts and writes an annotated video.
package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/swdee/go-sortlite"
	"github.com/swdee/go-sortlite/counter"
	"github.com/swdee/go-sortlite/mot"
	"github.com/swdee/go-sortlite/render"
	"github.com/swdee/go-sortlite/signal"
	"github.com/swdee/go-sortlite/tracker"
	"gocv.io/x/gocv"
)

// Demo holds the per video state of the pipeline
type Demo struct {
	log     logrus.FieldLogger
	sort    *tracker.SORT
	trail   *tracker.Trail
	counter *counter.LineCounter
	lanes   []counter.Lane
	// signal phase state
	lights   []signal.Lane
	green    int
	decision signal.Decision
	labels   []string
	filter   *sortlite.LabelFilter
	fps      float64
	// cycle is the number of frames between signal decisions
	cycle int
	// emergency is the class label of emergency vehicles, -1 for none
	emergency int
	// showDets draws the raw detections under the tracker boxes
	showDets bool
}

// splitLanes divides the frame into n vertical lanes of equal width
func splitLanes(width, height, n int) []counter.Lane {

	lanes := make([]counter.Lane, 0, n)
	step := width / n

	for i := 0; i < n; i++ {
		x1 := i * step
		x2 := x1 + step

		if i == n-1 {
			x2 = width
		}

		lanes = append(lanes, counter.Lane{
			ID: i,
			Polygon: []image.Point{
				{X: x1, Y: 0}, {X: x2, Y: 0}, {X: x2, Y: height}, {X: x1, Y: height},
			},
		})
	}

	return lanes
}

// splitList splits a comma delimited list, dropping empty entries
func splitList(s string) []string {

	var out []string

	for _, word := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(word); trimmed != "" {
			out = append(out, trimmed)
		}
	}

	return out
}

// laneOf returns the lane index holding the center of the result
func (d *Demo) laneOf(res tracker.Result) int {

	cx, _ := res.Center()

	for i, lane := range d.lanes {
		if float64(lane.Polygon[0].X) <= cx && cx < float64(lane.Polygon[1].X) {
			return i
		}
	}

	return -1
}

// ProcessFrame tracks the detections of a frame, updates counts and signal
// state and annotates the image
func (d *Demo) ProcessFrame(img *gocv.Mat, frameNum int, dets []tracker.Detection) error {

	kept := make([]tracker.Detection, 0, len(dets))

	for _, det := range dets {
		if d.filter.Keep(det.Label) {
			kept = append(kept, det)
		}
	}

	results, err := d.sort.Update(kept)

	if err != nil {
		return fmt.Errorf("error tracking frame %d: %w", frameNum, err)
	}

	d.trail.AddAll(results)

	for _, c := range d.counter.Observe(results, d.trail) {
		d.log.WithFields(logrus.Fields{
			"frame": frameNum,
			"track": c.TrackID,
			"lane":  c.Lane,
			"label": c.Label,
		}).Info("vehicle counted")

		if c.Lane >= 0 && c.Lane < len(d.lights) {
			d.lights[c.Lane].Count++
		}
	}

	// emergency vehicles currently in view flag their lane
	for i := range d.lights {
		d.lights[i].Emergency = false
	}

	if d.emergency >= 0 {
		for _, res := range results {
			if res.Label != d.emergency {
				continue
			}

			if lane := d.laneOf(res); lane >= 0 {
				d.lights[lane].Emergency = true
			}
		}
	}

	// waiting time accrues on every lane not holding the green
	for i := range d.lights {
		if i != d.green {
			d.lights[i].WaitTime += 1 / d.fps
		}
	}

	if frameNum%d.cycle == 0 {
		decision, err := signal.Decide(d.lights, d.green, signal.Options{
			Beta:       signal.Beta,
			Hysteresis: signal.Hysteresis,
			Log:        d.log.WithField("frame", frameNum),
		})

		if err != nil {
			return fmt.Errorf("error deciding signal: %w", err)
		}

		d.decision = decision
		d.green = decision.Lane

		// the green lane discharges its queue and stops waiting
		d.lights[d.green].Count = 0
		d.lights[d.green].WaitTime = 0
	}

	d.trail.Prune(d.sort.Config().MaxAge + 1)

	d.annotate(img, kept, results)

	return nil
}

// annotate draws the overlays on the frame
func (d *Demo) annotate(img *gocv.Mat, dets []tracker.Detection,
	results []tracker.Result) {

	render.LanePolygons(img, d.lanes, d.green, 1)

	if d.showDets {
		render.DetectionBoxes(img, dets, d.labels, render.DefaultFont(), 1)
	}

	render.CountingLine(img, d.counter.LineY(), render.Red, 2)
	render.TrackerBoxes(img, results, d.labels, render.DefaultFont(), 1)
	render.Trail(img, results, d.trail, render.DefaultTrailStyle())
	render.LaneCounts(img, d.counter.Counts(), render.OverlayFont())
	render.SignalState(img, d.decision, render.OverlayFont())
}

func main() {

	vidFile := flag.String("v", "../data/traffic.mp4", "Video file to annotate")
	detFile := flag.String("d", "../data/det.txt", "MOT detection file for the video")
	outFile := flag.String("o", "out.mp4", "Output video file")
	labelFile := flag.String("l", "", "Text file containing detector labels")
	limitLabels := flag.String("x", "", "Comma delimited list of labels to restrict tracking to")
	cfgFile := flag.String("c", "", "JSON tracker config file")
	lineRatio := flag.Float64("line", 0.6, "Counting line position as a fraction of frame height")
	numLanes := flag.Int("lanes", 2, "Number of equal width lanes")
	margin := flag.Float64("margin", 5, "Pixels to grow lane outlines by")
	cycle := flag.Float64("cycle", 10, "Seconds between signal decisions")
	emergency := flag.Int("emergency", -1, "Class label of emergency vehicles")
	showDets := flag.Bool("dets", false, "Draw raw detections as well as tracks")
	debug := flag.Bool("debug", false, "Enable debug logging")

	flag.Parse()

	log := logrus.New()

	if *debug {
		log.SetLevel(logrus.DebugLevel)
	}

	if *numLanes < 1 {
		log.Fatal("Need at least one lane")
	}

	cfg := tracker.DefaultConfig()

	if *cfgFile != "" {
		var err error
		cfg, err = tracker.LoadConfig(*cfgFile)

		if err != nil {
			log.Fatalf("Error loading config: %v", err)
		}
	}

	var labels []string
	var err error

	if *labelFile != "" {
		labels, err = sortlite.LoadLabels(*labelFile)

		if err != nil {
			log.Fatalf("Error loading labels: %v", err)
		}
	}

	filter, err := sortlite.NewLabelFilter(labels, splitList(*limitLabels)...)

	if err != nil {
		log.Fatalf("Error creating label filter: %v", err)
	}

	f, err := os.Open(*detFile)

	if err != nil {
		log.Fatalf("Error opening detections: %v", err)
	}

	frames, err := mot.Read(f)
	f.Close()

	if err != nil {
		log.Fatalf("Error reading detections: %v", err)
	}

	byFrame := make(map[int][]tracker.Detection, len(frames))

	for _, fr := range frames {
		byFrame[fr.Number] = fr.Detections
	}

	video, err := gocv.VideoCaptureFile(*vidFile)

	if err != nil {
		log.Fatalf("Error opening video: %v", err)
	}

	defer video.Close()

	width := int(video.Get(gocv.VideoCaptureFrameWidth))
	height := int(video.Get(gocv.VideoCaptureFrameHeight))
	fps := video.Get(gocv.VideoCaptureFPS)

	if fps <= 0 {
		fps = 30
	}

	writer, err := gocv.VideoWriterFile(*outFile, "mp4v", fps, width, height, true)

	if err != nil {
		log.Fatalf("Error creating output video: %v", err)
	}

	defer writer.Close()

	sort, err := tracker.NewSORT(cfg, tracker.WithLogger(log))

	if err != nil {
		log.Fatalf("Error creating tracker: %v", err)
	}

	lanes := splitLanes(width, height, *numLanes)

	lc, err := counter.NewLineCounter(int(float64(height)*(*lineRatio)), lanes, *margin)

	if err != nil {
		log.Fatalf("Error creating line counter: %v", err)
	}

	lights := make([]signal.Lane, len(lanes))

	for i := range lights {
		lights[i].SatRate = signal.StraightSatRate
	}

	cycleFrames := int(*cycle * fps)
	if cycleFrames < 1 {
		cycleFrames = 1
	}

	demo := &Demo{
		log:       log,
		sort:      sort,
		trail:     tracker.NewTrail(int(fps * 2)),
		counter:   lc,
		lanes:     lanes,
		lights:    lights,
		labels:    labels,
		filter:    filter,
		fps:       fps,
		cycle:     cycleFrames,
		emergency: *emergency,
		showDets:  *showDets,
		decision:  signal.Decision{GreenSeconds: signal.MinGreen, Reason: signal.ReasonHold},
	}

	img := gocv.NewMat()
	defer img.Close()

	frameNum := 0

	for {
		if ok := video.Read(&img); !ok {
			break
		}

		if img.Empty() {
			continue
		}

		frameNum++

		if err := demo.ProcessFrame(&img, frameNum, byFrame[frameNum]); err != nil {
			log.Fatalf("Error processing frame: %v", err)
		}

		if err := writer.Write(img); err != nil {
			log.Fatalf("Error writing frame %d: %v", frameNum, err)
		}
	}

	log.WithFields(logrus.Fields{
		"frames": frameNum,
		"total":  lc.Total(),
		"lanes":  lc.Counts(),
		"labels": lc.LabelCounts(),
	}).Info("video complete")
}
