// Package counter counts tracked objects as their center crosses a
// horizontal line, attributing each crossing to a lane and a class label.
package counter

import (
	"fmt"
	"sort"
	"sync"

	"github.com/swdee/go-sortlite/tracker"
)

// NoLane is the lane ID given to crossings outside every lane
const NoLane = -1

// Crossing records a track crossing the counting line
type Crossing struct {
	// Frame is the number of Observe calls made when the crossing happened
	Frame int
	// TrackID of the object that crossed
	TrackID int64
	// Lane the crossing is attributed to, NoLane if it is outside all lanes
	Lane int
	// Label of the tracked object
	Label int
	// Score of the detection last matched to the track
	Score float64
	// Rect is the tracked box at the time of crossing
	Rect tracker.Rect
}

// LineCounter counts each track at most once, when its center moves from
// above the line to on or below it
type LineCounter struct {
	lineY   float64
	regions []region
	frame   int
	// counted holds the track IDs already counted
	counted     map[int64]bool
	laneCounts  map[int]int
	labelCounts map[int]int
	total       int
	sync.Mutex
}

// NewLineCounter returns a counter for the horizontal line at lineY.  Lane
// polygons are grown by margin pixels before testing if a crossing falls
// inside them, a margin of zero uses the polygons as given.
func NewLineCounter(lineY int, lanes []Lane, margin float64) (*LineCounter, error) {

	lc := &LineCounter{
		lineY:       float64(lineY),
		counted:     make(map[int64]bool),
		laneCounts:  make(map[int]int),
		labelCounts: make(map[int]int),
	}

	seen := make(map[int]bool)

	for _, lane := range lanes {
		if lane.ID == NoLane {
			return nil, fmt.Errorf("lane ID %d is reserved", NoLane)
		}

		if seen[lane.ID] {
			return nil, fmt.Errorf("duplicate lane ID %d", lane.ID)
		}
		seen[lane.ID] = true

		reg, err := growLane(lane, margin)
		if err != nil {
			return nil, err
		}

		lc.regions = append(lc.regions, reg)
	}

	return lc, nil
}

// LineY returns the y coordinate of the counting line
func (lc *LineCounter) LineY() int {
	return int(lc.lineY)
}

// Observe checks the results of one frame for line crossings.  The trail
// must already hold the center points of this frame's results, as the point
// before the latest is used as the previous position.
func (lc *LineCounter) Observe(results []tracker.Result, trail *tracker.Trail) []Crossing {
	lc.Lock()
	defer lc.Unlock()

	lc.frame++

	var crossings []Crossing

	for _, res := range results {

		if lc.counted[res.TrackID] {
			continue
		}

		prev, ok := trail.Previous(res.TrackID)

		if !ok {
			continue
		}

		cx, cy := res.Center()

		if !(prev.Y < lc.lineY && cy >= lc.lineY) {
			continue
		}

		lane := lc.laneOf(tracker.Point{X: cx, Y: cy})

		lc.counted[res.TrackID] = true
		lc.laneCounts[lane]++
		lc.labelCounts[res.Label]++
		lc.total++

		crossings = append(crossings, Crossing{
			Frame:   lc.frame,
			TrackID: res.TrackID,
			Lane:    lane,
			Label:   res.Label,
			Score:   res.Score,
			Rect:    res.Rect,
		})
	}

	return crossings
}

// laneOf returns the ID of the first lane containing p
func (lc *LineCounter) laneOf(p tracker.Point) int {
	for _, reg := range lc.regions {
		if reg.contains(p) {
			return reg.id
		}
	}
	return NoLane
}

// Counts returns the number of crossings per lane ID
func (lc *LineCounter) Counts() map[int]int {
	lc.Lock()
	defer lc.Unlock()
	return copyCounts(lc.laneCounts)
}

// LabelCounts returns the number of crossings per class label
func (lc *LineCounter) LabelCounts() map[int]int {
	lc.Lock()
	defer lc.Unlock()
	return copyCounts(lc.labelCounts)
}

// Total returns the number of crossings counted
func (lc *LineCounter) Total() int {
	lc.Lock()
	defer lc.Unlock()
	return lc.total
}

// LaneIDs returns the configured lane IDs in ascending order
func (lc *LineCounter) LaneIDs() []int {
	ids := make([]int, 0, len(lc.regions))
	for _, reg := range lc.regions {
		ids = append(ids, reg.id)
	}
	sort.Ints(ids)
	return ids
}

// Reset clears all counts and the record of counted tracks
func (lc *LineCounter) Reset() {
	lc.Lock()
	defer lc.Unlock()

	lc.frame = 0
	lc.total = 0
	lc.counted = make(map[int64]bool)
	lc.laneCounts = make(map[int]int)
	lc.labelCounts = make(map[int]int)
}

func copyCounts(m map[int]int) map[int]int {
	out := make(map[int]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
