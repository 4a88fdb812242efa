package tracker

import "sync"

// Point represents the x,y coordinates of the center of a tracked bounding
// box
type Point struct {
	X, Y float64
}

// path is the center point history of one track
type path struct {
	points []Point
	// frame is the Trail frame the track was last seen on
	frame int
}

// Trail keeps a history of the center points of tracking results, used for
// drawing trails and detecting line crossings
type Trail struct {
	// size is the maximum number of most recent points to keep per track
	size int
	// frame is the current frame, advanced by Next
	frame int
	// history of tracked points keyed by track ID
	history map[int64]*path
	sync.Mutex
}

// NewTrail returns a new trail history instance.  Size is the number of most
// recent points kept for each track
func NewTrail(size int) *Trail {

	if size < 1 {
		size = 1
	}

	return &Trail{
		size:    size,
		history: make(map[int64]*path),
	}
}

// Reset clears all history
func (t *Trail) Reset() {
	t.Lock()
	defer t.Unlock()

	t.frame = 0
	t.history = make(map[int64]*path)
}

// Add appends the center point of a result to its track's history
func (t *Trail) Add(res Result) {
	t.Lock()
	defer t.Unlock()

	p, exists := t.history[res.TrackID]

	if !exists {
		p = &path{}
		t.history[res.TrackID] = p
	}

	x, y := res.Center()
	p.points = append(p.points, Point{X: x, Y: y})
	p.frame = t.frame

	// drop oldest point once the history is full
	if len(p.points) > t.size {
		p.points = p.points[1:]
	}
}

// AddAll starts a new frame and adds every result emitted for it
func (t *Trail) AddAll(results []Result) {
	t.Next()
	for _, res := range results {
		t.Add(res)
	}
}

// Next starts a new frame, points added afterwards are stamped with it
func (t *Trail) Next() {
	t.Lock()
	defer t.Unlock()
	t.frame++
}

// GetPoints returns a copy of the point history for a track ID
func (t *Trail) GetPoints(id int64) []Point {
	t.Lock()
	defer t.Unlock()

	p, exists := t.history[id]

	if !exists {
		return nil
	}

	out := make([]Point, len(p.points))
	copy(out, p.points)

	return out
}

// Previous returns the point recorded for a track before its latest one
func (t *Trail) Previous(id int64) (Point, bool) {
	t.Lock()
	defer t.Unlock()

	p, exists := t.history[id]

	if !exists || len(p.points) < 2 {
		return Point{}, false
	}

	return p.points[len(p.points)-2], true
}

// Prune removes the history of tracks not seen in the last maxIdle frames
func (t *Trail) Prune(maxIdle int) {
	t.Lock()
	defer t.Unlock()

	for id, p := range t.history {
		if t.frame-p.frame > maxIdle {
			delete(t.history, id)
		}
	}
}

// Len returns the number of tracks with history
func (t *Trail) Len() int {
	t.Lock()
	defer t.Unlock()
	return len(t.history)
}
