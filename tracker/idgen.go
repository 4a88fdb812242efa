package tracker

import "sync"

// IDGenerator hands out incremental track IDs starting at 1.  Each tracker
// owns one unless a generator is explicitly shared between trackers with
// WithIDGenerator, so it is safe for concurrent use.
type IDGenerator struct {
	id int64
	sync.Mutex
}

// NewIDGenerator returns a generator whose first ID is 1
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{}
}

// Next returns the next incremental ID
func (g *IDGenerator) Next() int64 {
	g.Lock()
	defer g.Unlock()
	g.id++
	return g.id
}

// Last returns the most recently issued ID, or 0 if none has been issued
func (g *IDGenerator) Last() int64 {
	g.Lock()
	defer g.Unlock()
	return g.id
}
