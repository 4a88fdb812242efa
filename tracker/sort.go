package tracker

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SORT represents the Simple Online and Realtime Tracker.  A SORT instance
// keeps state between frames so every video stream needs its own instance,
// and Update must not be called concurrently on the same instance.
type SORT struct {
	// tracker parameters
	cfg Config
	// Kalman filter shared by all tracks, it holds no per track state
	kalmanFilter *KalmanFilter
	// assignment solver used when the IoU matrix is ambiguous
	solver Solver
	// generator for assigning unique track IDs
	ids *IDGenerator
	// Current frame number, the first frame is 1
	frameCount int
	// List of live tracks in creation order
	tracks []*KTrack
	// instanceID identifies this tracker in logs
	instanceID uuid.UUID
	log        logrus.FieldLogger
}

// Option configures optional parts of a SORT tracker
type Option func(*SORT)

// WithIDGenerator makes the tracker take track IDs from g.  Sharing one
// generator between trackers keeps IDs unique across all of them.
func WithIDGenerator(g *IDGenerator) Option {
	return func(s *SORT) {
		if g != nil {
			s.ids = g
		}
	}
}

// WithSolver overrides the solver named in the Config
func WithSolver(solver Solver) Option {
	return func(s *SORT) {
		if solver != nil {
			s.solver = solver
		}
	}
}

// WithLogger sets the logger used for debug output.  By default the tracker
// does not log.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *SORT) {
		if log != nil {
			s.log = log
		}
	}
}

// NewSORT initializes and returns a new SORT tracker
func NewSORT(cfg Config, opts ...Option) (*SORT, error) {

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	solver, err := SolverByName(cfg.Solver)
	if err != nil {
		return nil, err
	}

	silent := logrus.New()
	silent.SetOutput(io.Discard)

	s := &SORT{
		cfg:          cfg,
		kalmanFilter: NewKalmanFilter(cfg.kalmanConfig()),
		solver:       solver,
		ids:          NewIDGenerator(),
		tracks:       make([]*KTrack, 0),
		instanceID:   uuid.New(),
		log:          silent,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.log = s.log.WithField("instance", s.instanceID.String())

	return s, nil
}

// Update runs one frame of tracking.  It must be called once per frame even
// when there are no detections.  The returned results are the confirmed
// tracks matched or created this frame, in track creation order.
func (s *SORT) Update(dets []Detection) ([]Result, error) {

	if s == nil || s.kalmanFilter == nil {
		return nil, fmt.Errorf("tracker not initialized, use NewSORT")
	}

	s.frameCount++
	flog := s.log.WithField("frame", s.frameCount)

	dets = s.validDetections(dets, flog)

	// Step 1: predict current position of each track, dropping any whose
	// state has become non-finite
	predicted := make([]Rect, 0, len(s.tracks))
	live := make([]*KTrack, 0, len(s.tracks))

	for _, track := range s.tracks {
		rect := track.Predict()

		if !rect.IsFinite() {
			flog.WithField("track", track.trackID).Debug("dropping track with non-finite prediction")
			continue
		}

		predicted = append(predicted, rect)
		live = append(live, track)
	}

	// Step 2: associate predictions with detections
	detRects := make([]Rect, len(dets))

	for i, det := range dets {
		detRects[i] = det.Rect()
	}

	assign, err := Associate(predicted, detRects, s.cfg.IOUThreshold, s.solver)

	if err != nil {
		flog.WithError(err).Warn("association failed, treating all detections as unmatched")
	}

	// Step 3: update matched tracks
	failed := make(map[int]bool)

	for _, m := range assign.Matches {
		track := live[m[0]]

		if err := track.Update(dets[m[1]]); err != nil {
			flog.WithError(err).WithField("track", track.trackID).Debug("dropping track after failed update")
			failed[m[0]] = true
		}
	}

	// Step 4: start new tracks for unmatched detections
	for _, di := range assign.UnmatchedDetections {
		track := NewKTrack(s.kalmanFilter, dets[di], s.ids.Next())
		live = append(live, track)
		flog.WithField("track", track.trackID).Debug("new track")
	}

	// Step 5: emit confirmed tracks and carry survivors into the next frame
	results := make([]Result, 0, len(live))
	next := make([]*KTrack, 0, len(live))

	for i, track := range live {
		if failed[i] {
			continue
		}

		rect := track.Rect()

		if !rect.IsFinite() {
			flog.WithField("track", track.trackID).Debug("dropping track with non-finite state")
			continue
		}

		if s.isReportable(track) {
			results = append(results, track.Result())
		}

		if track.timeSinceUpdate > s.cfg.MaxAge {
			flog.WithField("track", track.trackID).Debug("track expired")
			continue
		}

		next = append(next, track)
	}

	s.tracks = next

	return results, nil
}

// isReportable decides if a track is emitted this frame.  Tracks are reported
// on frames they were matched or created, once they have enough consecutive
// hits or while the tracker is still within its first MinHits frames.
func (s *SORT) isReportable(track *KTrack) bool {
	return track.timeSinceUpdate < 1 &&
		(track.hitStreak >= s.cfg.MinHits || s.frameCount <= s.cfg.MinHits)
}

// validDetections filters out detections the tracker can not use
func (s *SORT) validDetections(dets []Detection, flog logrus.FieldLogger) []Detection {

	valid := make([]Detection, 0, len(dets))

	for _, det := range dets {
		if err := det.Validate(); err != nil {
			flog.WithError(err).Debug("skipping detection")
			continue
		}

		valid = append(valid, det)
	}

	return valid
}

// Reset clears all tracks and the frame counter.  Track IDs keep increasing
// so an ID is never reused.
func (s *SORT) Reset() {
	s.frameCount = 0
	s.tracks = make([]*KTrack, 0)
}

// Tracks returns a snapshot of all live tracks, including tentative and
// unmatched ones, in creation order
func (s *SORT) Tracks() []Result {

	res := make([]Result, 0, len(s.tracks))

	for _, track := range s.tracks {
		res = append(res, track.Result())
	}

	return res
}

// LiveTracks returns the live tracks.  The tracks are owned by the tracker
// and must only be read between calls to Update.
func (s *SORT) LiveTracks() []*KTrack {
	out := make([]*KTrack, len(s.tracks))
	copy(out, s.tracks)
	return out
}

// FrameCount returns the number of frames processed since creation or the
// last Reset
func (s *SORT) FrameCount() int {
	return s.frameCount
}

// Config returns the tracker configuration
func (s *SORT) Config() Config {
	return s.cfg
}

// SolverName returns the name of the assignment solver in use
func (s *SORT) SolverName() string {
	return s.solver.Name()
}

// InstanceID returns the unique ID of this tracker instance
func (s *SORT) InstanceID() uuid.UUID {
	return s.instanceID
}
