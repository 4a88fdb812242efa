package sortlite

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/swdee/go-sortlite/tracker"
)

// ErrPoolClosed is returned when a closed Pool is used
var ErrPoolClosed = errors.New("pool closed")

// stream is the tracker of a single video stream
type stream struct {
	sort *tracker.SORT
	sync.Mutex
}

// Pool keeps one SORT tracker per video stream.  Trackers are created on the
// first frame of a stream from a shared Config, each with its own track ID
// sequence.  Frames of the same stream are serialised while different
// streams may be updated concurrently.
type Pool struct {
	cfg     tracker.Config
	log     logrus.FieldLogger
	streams map[string]*stream
	closed  bool
	mu      sync.Mutex
}

// NewPool creates a new tracker pool.  A nil logger disables logging.
func NewPool(cfg tracker.Config, log logrus.FieldLogger) (*Pool, error) {

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if log == nil {
		silent := logrus.New()
		silent.SetOutput(io.Discard)
		log = silent
	}

	return &Pool{
		cfg:     cfg,
		log:     log,
		streams: make(map[string]*stream),
	}, nil
}

// get returns the stream for the ID, creating its tracker if needed
func (p *Pool) get(streamID string) (*stream, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrPoolClosed
	}

	if s, ok := p.streams[streamID]; ok {
		return s, nil
	}

	slog := p.log.WithField("stream", streamID)

	st, err := tracker.NewSORT(p.cfg, tracker.WithLogger(slog))
	if err != nil {
		return nil, fmt.Errorf("error creating tracker for stream %q: %w", streamID, err)
	}

	s := &stream{sort: st}
	p.streams[streamID] = s

	slog.WithField("instance", st.InstanceID().String()).Debug("new stream tracker")

	return s, nil
}

// Update runs one frame of the stream's tracker
func (p *Pool) Update(streamID string, dets []tracker.Detection) ([]tracker.Result, error) {

	s, err := p.get(streamID)
	if err != nil {
		return nil, err
	}

	s.Lock()
	defer s.Unlock()

	return s.sort.Update(dets)
}

// UpdateAll runs one frame for each stream in frames concurrently and
// returns the results keyed by stream ID.  Results are returned for every
// stream that succeeded along with the joined errors of those that failed.
func (p *Pool) UpdateAll(frames map[string][]tracker.Detection) (map[string][]tracker.Result, error) {

	type outcome struct {
		id      string
		results []tracker.Result
		err     error
	}

	outcomes := make(chan outcome, len(frames))
	var wg sync.WaitGroup

	for id, dets := range frames {
		wg.Add(1)

		go func(id string, dets []tracker.Detection) {
			defer wg.Done()

			res, err := p.Update(id, dets)
			outcomes <- outcome{id: id, results: res, err: err}
		}(id, dets)
	}

	wg.Wait()
	close(outcomes)

	results := make(map[string][]tracker.Result, len(frames))
	var errs []error

	for o := range outcomes {
		if o.err != nil {
			errs = append(errs, fmt.Errorf("stream %q: %w", o.id, o.err))
			continue
		}

		results[o.id] = o.results
	}

	return results, errors.Join(errs...)
}

// Remove drops the tracker of a stream, returning false if it did not exist.
// A later frame for the same stream ID starts a new tracker.
func (p *Pool) Remove(streamID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.streams[streamID]; !ok {
		return false
	}

	delete(p.streams, streamID)
	p.log.WithField("stream", streamID).Debug("removed stream tracker")

	return true
}

// Streams returns the IDs of streams with a tracker in sorted order
func (p *Pool) Streams() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	ids := make([]string, 0, len(p.streams))

	for id := range p.streams {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return ids
}

// Tracker returns the tracker of a stream for inspection.  It must not be
// updated directly while the pool is in use.
func (p *Pool) Tracker(streamID string) (*tracker.SORT, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	s, ok := p.streams[streamID]
	if !ok {
		return nil, false
	}

	return s.sort, true
}

// Close drops all trackers, any further use of the pool returns
// ErrPoolClosed
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	p.streams = make(map[string]*stream)
}
