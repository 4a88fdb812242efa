package tracker

import "gonum.org/v1/gonum/mat"

// KTrack represents a single tracked object whose motion is estimated by its
// own Kalman filter
type KTrack struct {
	// Kalman filter used for tracking
	kalmanFilter *KalmanFilter
	// Mean state vector
	mean StateMean
	// Covariance matrix
	covariance StateCov
	// Unique ID for the track
	trackID int64
	// number of frames since the last matched detection
	timeSinceUpdate int
	// number of consecutive frames matched without interruption
	hitStreak int
	// total number of matched detections
	hits int
	// number of predict steps since creation
	age int
	// predicted boxes since the last matched detection
	history []Rect
	// score of the last matched detection
	score float64
	// label of the last matched detection
	label int
	// ID of the last matched detection
	detectionID int64
}

// NewKTrack creates a new KTrack seeded from the detection's bounding box
// with zero velocities
func NewKTrack(kf *KalmanFilter, det Detection, trackID int64) *KTrack {

	t := &KTrack{
		kalmanFilter: kf,
		mean:         make(StateMean, stateDim),
		covariance:   StateCov{mat.NewDense(stateDim, stateDim, nil)},
		trackID:      trackID,
		score:        det.Score,
		label:        det.Label,
		detectionID:  det.ID,
	}

	kf.Initiate(t.mean, &t.covariance, det.Rect().Observation())

	return t
}

// Predict advances the state estimate by one frame and returns the predicted
// bounding box
func (t *KTrack) Predict() Rect {

	// stop the area shrinking through zero
	if t.mean[2]+t.mean[6] <= 0 {
		t.mean[6] = 0
	}

	t.kalmanFilter.Predict(t.mean, &t.covariance)

	t.age++

	if t.timeSinceUpdate > 0 {
		t.hitStreak = 0
	}

	t.timeSinceUpdate++

	rect := RectFromState(t.mean)
	t.history = append(t.history, rect)

	return rect
}

// Update corrects the state estimate with a matched detection
func (t *KTrack) Update(det Detection) error {

	t.timeSinceUpdate = 0
	t.history = t.history[:0]
	t.hits++
	t.hitStreak++

	t.score = det.Score
	t.label = det.Label
	t.detectionID = det.ID

	return t.kalmanFilter.Update(t.mean, &t.covariance, det.Rect().Observation())
}

// Rect returns the bounding box implied by the current state
func (t *KTrack) Rect() Rect {
	return RectFromState(t.mean)
}

// Result returns a snapshot of the track for output
func (t *KTrack) Result() Result {
	return Result{
		Rect:        t.Rect(),
		TrackID:     t.trackID,
		Score:       t.score,
		Label:       t.label,
		DetectionID: t.detectionID,
	}
}

// GetTrackID returns the unique ID for the track
func (t *KTrack) GetTrackID() int64 {
	return t.trackID
}

// GetAge returns the number of predict steps since creation
func (t *KTrack) GetAge() int {
	return t.age
}

// GetHits returns the total number of matched detections
func (t *KTrack) GetHits() int {
	return t.hits
}

// GetHitStreak returns the number of consecutive matched frames
func (t *KTrack) GetHitStreak() int {
	return t.hitStreak
}

// GetTimeSinceUpdate returns the number of frames since the last match
func (t *KTrack) GetTimeSinceUpdate() int {
	return t.timeSinceUpdate
}

// GetHistory returns a copy of the boxes predicted since the last match
func (t *KTrack) GetHistory() []Rect {
	out := make([]Rect, len(t.history))
	copy(out, t.history)
	return out
}

// GetMean returns a copy of the state vector
func (t *KTrack) GetMean() StateMean {
	out := make(StateMean, len(t.mean))
	copy(out, t.mean)
	return out
}
