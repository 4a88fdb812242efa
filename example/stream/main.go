// Command stream tracks objects from JSON lines on stdin, one line per
// camera frame, and writes each line back to stdout with track IDs added to
// the items.  A line looks like
//
//	{"camera":{"id":1},"items":[{"bbox":[x,y,w,h],"score":0.9,"class":2}]}
//
// Each camera is tracked independently.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/swdee/go-sortlite"
	"github.com/swdee/go-sortlite/tracker"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// maxLine is the longest input line accepted
const maxLine = 10 << 20

// processLine tracks the items of one frame and returns the line with the
// track ID set on every item belonging to a reported track.  Items without a
// reported track are dropped unless keepAll is set.
func processLine(pool *sortlite.Pool, line []byte, keepAll bool) (string, error) {

	if !gjson.ValidBytes(line) {
		return "", fmt.Errorf("invalid JSON")
	}

	doc := gjson.ParseBytes(line)

	camID := doc.Get("camera.id").String()

	if camID == "" {
		return "", fmt.Errorf("missing camera.id")
	}

	items := doc.Get("items").Array()
	dets := make([]tracker.Detection, 0, len(items))

	for i, item := range items {
		bbox := item.Get("bbox").Array()

		if len(bbox) != 4 {
			return "", fmt.Errorf("item %d: bbox needs 4 values, got %d", i, len(bbox))
		}

		score := 1.0
		if s := item.Get("score"); s.Exists() {
			score = s.Float()
		}

		rect := tracker.RectFromXYWH(bbox[0].Float(), bbox[1].Float(),
			bbox[2].Float(), bbox[3].Float())

		// detection ID is the item index so results map back to items
		dets = append(dets, tracker.NewDetection(rect, score,
			int(item.Get("class").Int()), int64(i)))
	}

	results, err := pool.Update(camID, dets)
	if err != nil {
		return "", err
	}

	trackOf := make(map[int64]int64, len(results))

	for _, res := range results {
		trackOf[res.DetectionID] = res.TrackID
	}

	out := make([]string, 0, len(items))

	for i, item := range items {
		raw := item.Raw

		if id, ok := trackOf[int64(i)]; ok {
			raw, err = sjson.Set(raw, "id", id)
			if err != nil {
				return "", fmt.Errorf("item %d: %w", i, err)
			}
		} else if !keepAll {
			continue
		}

		out = append(out, raw)
	}

	return sjson.SetRaw(string(line), "items", "["+strings.Join(out, ",")+"]")
}

func main() {

	cfgFile := flag.String("c", "", "JSON tracker config file")
	keepAll := flag.Bool("all", false, "Keep items that are not part of a reported track")
	debug := flag.Bool("debug", false, "Enable debug logging")

	flag.Parse()

	log := logrus.New()
	log.SetOutput(os.Stderr)

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

	pool, err := sortlite.NewPool(cfg, log)

	if err != nil {
		log.Fatalf("Error creating tracker pool: %v", err)
	}

	defer pool.Close()

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 64*1024), maxLine)

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	lineNum := 0

	for scanner.Scan() {
		lineNum++

		res, err := processLine(pool, scanner.Bytes(), *keepAll)

		if err != nil {
			log.WithField("line", lineNum).Warnf("Skipping line: %v", err)
			continue
		}

		fmt.Fprintln(out, res)
		out.Flush()
	}

	if err := scanner.Err(); err != nil {
		log.Fatalf("Error reading input: %v", err)
	}

	log.WithField("cameras", len(pool.Streams())).Info("input finished")
}
