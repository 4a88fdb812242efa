// Package mot reads detections from and writes tracks to the text format of
// the MOT Challenge benchmark, one comma separated record per line:
//
//	frame, id, bb_left, bb_top, bb_width, bb_height, conf, x, y, z
//
// Detection files carry an id of -1, tracking output carries the track ID.
package mot

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/swdee/go-sortlite/tracker"
)

// ErrRecord is returned for a line that can not be parsed
var ErrRecord = errors.New("invalid MOT record")

// minFields is the number of leading fields used, frame to conf
const minFields = 7

// Frame holds the detections of one frame
type Frame struct {
	// Number is the frame number, starting at 1 in MOT files
	Number int
	// Detections in the order they appear in the file
	Detections []tracker.Detection
}

// Read parses a MOT detection file into frames sorted by frame number.
// Detection IDs are assigned sequentially in file order starting at 1.
func Read(r io.Reader) ([]Frame, error) {

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	byFrame := make(map[int][]tracker.Detection)
	var detID int64
	record := 0

	for {
		rec, err := cr.Read()

		if err == io.EOF {
			break
		}

		record++

		if err != nil {
			return nil, fmt.Errorf("record %d: %w", record, err)
		}

		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}

		frame, det, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", record, err)
		}

		detID++
		det.ID = detID
		byFrame[frame] = append(byFrame[frame], det)
	}

	frames := make([]Frame, 0, len(byFrame))

	for n, dets := range byFrame {
		frames = append(frames, Frame{Number: n, Detections: dets})
	}

	sort.Slice(frames, func(i, j int) bool {
		return frames[i].Number < frames[j].Number
	})

	return frames, nil
}

// parseRecord converts the fields of one line to a frame number and a
// detection
func parseRecord(rec []string) (int, tracker.Detection, error) {

	if len(rec) < minFields {
		return 0, tracker.Detection{}, fmt.Errorf("%w: need %d fields, got %d",
			ErrRecord, minFields, len(rec))
	}

	vals := make([]float64, minFields)

	for i := 0; i < minFields; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[i]), 64)

		if err != nil {
			return 0, tracker.Detection{}, fmt.Errorf("%w: field %d: %v", ErrRecord, i+1, err)
		}

		vals[i] = v
	}

	frame := int(vals[0])

	if frame < 1 {
		return 0, tracker.Detection{}, fmt.Errorf("%w: frame number %d", ErrRecord, frame)
	}

	rect := tracker.RectFromXYWH(vals[2], vals[3], vals[4], vals[5])

	return frame, tracker.NewDetection(rect, vals[6], 0, 0), nil
}

// Writer writes tracker results as MOT tracking output
type Writer struct {
	w *bufio.Writer
}

// NewWriter returns a Writer to w, Flush must be called when done
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// WriteFrame writes the results of a frame, one line per result
func (mw *Writer) WriteFrame(frame int, results []tracker.Result) error {

	for _, res := range results {
		r := res.Rect

		_, err := fmt.Fprintf(mw.w, "%d,%d,%.2f,%.2f,%.2f,%.2f,1,-1,-1,-1\n",
			frame, res.TrackID, r.X1(), r.Y1(), r.Width(), r.Height())

		if err != nil {
			return err
		}
	}

	return nil
}

// Flush writes any buffered output
func (mw *Writer) Flush() error {
	return mw.w.Flush()
}

// Sequence expands frames, sorted as returned by Read, to a dense sequence
// from frame 1 to the last frame number, inserting empty frames where the
// file has no detections.  The tracker must see every frame for its motion
// model to stay in step.
func Sequence(frames []Frame) []Frame {

	if len(frames) == 0 {
		return nil
	}

	last := frames[len(frames)-1].Number
	out := make([]Frame, last)

	for i := range out {
		out[i].Number = i + 1
	}

	for _, f := range frames {
		if f.Number < 1 || f.Number > last {
			continue
		}
		out[f.Number-1].Detections = f.Detections
	}

	return out
}
