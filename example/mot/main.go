// Command mot runs the SORT tracker over a MOT Challenge detection file and
// writes the tracks in MOT tracking output format.
package main

import (
	"flag"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/swdee/go-sortlite/mot"
	"github.com/swdee/go-sortlite/tracker"
)

func main() {

	inFile := flag.String("i", "../data/det.txt", "MOT detection file to read")
	outFile := flag.String("o", "", "File to write tracks to, defaults to stdout")
	cfgFile := flag.String("c", "", "JSON tracker config file, flags below override it")
	maxAge := flag.Int("max-age", -1, "Frames a track may go unmatched before deletion")
	minHits := flag.Int("min-hits", -1, "Consecutive matches before a track is reported")
	iou := flag.Float64("iou", -1, "Minimum IoU to accept a match")
	solver := flag.String("solver", "", "Assignment solver [lapjv|munkres]")
	debug := flag.Bool("debug", false, "Enable debug logging")

	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	if *debug {
		log.SetLevel(logrus.DebugLevel)
	}

	cfg := tracker.DefaultConfig()

	if *cfgFile != "" {
		var err error
		cfg, err = tracker.LoadConfig(*cfgFile)

		if err != nil {
			log.Fatalf("Error loading config: %v", err)
		}
	}

	if *maxAge >= 0 {
		cfg.MaxAge = *maxAge
	}

	if *minHits >= 0 {
		cfg.MinHits = *minHits
	}

	if *iou >= 0 {
		cfg.IOUThreshold = *iou
	}

	if *solver != "" {
		cfg.Solver = *solver
	}

	sort, err := tracker.NewSORT(cfg, tracker.WithLogger(log))

	if err != nil {
		log.Fatalf("Error creating tracker: %v", err)
	}

	f, err := os.Open(*inFile)

	if err != nil {
		log.Fatalf("Error opening detections: %v", err)
	}

	frames, err := mot.Read(f)
	f.Close()

	if err != nil {
		log.Fatalf("Error reading detections: %v", err)
	}

	var out io.Writer = os.Stdout

	if *outFile != "" {
		of, err := os.Create(*outFile)

		if err != nil {
			log.Fatalf("Error creating output file: %v", err)
		}

		defer of.Close()
		out = of
	}

	w := mot.NewWriter(out)

	start := time.Now()
	seq := mot.Sequence(frames)
	tracks := 0

	for _, frame := range seq {
		results, err := sort.Update(frame.Detections)

		if err != nil {
			log.Fatalf("Error tracking frame %d: %v", frame.Number, err)
		}

		tracks += len(results)

		if err := w.WriteFrame(frame.Number, results); err != nil {
			log.Fatalf("Error writing frame %d: %v", frame.Number, err)
		}
	}

	if err := w.Flush(); err != nil {
		log.Fatalf("Error writing output: %v", err)
	}

	elapsed := time.Since(start)

	log.WithFields(logrus.Fields{
		"frames":  len(seq),
		"results": tracks,
		"solver":  sort.SolverName(),
		"elapsed": elapsed.String(),
	}).Info("tracking complete")
}
