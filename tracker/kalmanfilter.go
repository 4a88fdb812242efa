package tracker

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

const (
	// stateDim is the size of the state vector [cx, cy, s, r, vcx, vcy, vs]
	stateDim = 7
	// measureDim is the size of the observation vector [cx, cy, s, r]
	measureDim = 4
)

// ErrCovariance is returned when the innovation covariance can not be
// factorised, meaning the filter has become ill-conditioned
var ErrCovariance = errors.New("failed to factorize projected covariance")

// StateMean represents the 1x7 state vector [cx, cy, s, r, vcx, vcy, vs]
type StateMean []float64

// StateCov represents the 7x7 state covariance matrix
type StateCov struct {
	*mat.Dense
}

// KalmanConfig holds the diagonal noise terms of the filter.  Each slice
// holds the diagonal of the respective matrix.
type KalmanConfig struct {
	// InitialCov is the diagonal of the covariance given to a new track (7)
	InitialCov []float64 `json:"initial_cov,omitempty"`
	// ProcessNoise is the diagonal of Q (7).  The defaults follow the
	// reference SORT filter, with the lowest noise on scale velocity.
	ProcessNoise []float64 `json:"process_noise,omitempty"`
	// MeasurementNoise is the diagonal of R (4)
	MeasurementNoise []float64 `json:"measurement_noise,omitempty"`
}

// DefaultKalmanConfig returns the noise parameters of the SORT constant
// velocity model.  Velocities start with a large uncertainty as they are
// unobserved, scale and aspect ratio measurements are given ten times the
// noise of the box center.
func DefaultKalmanConfig() KalmanConfig {
	return KalmanConfig{
		InitialCov:       []float64{10, 10, 10, 10, 1e4, 1e4, 1e4},
		ProcessNoise:     []float64{1, 1, 1, 1, 1e-2, 1e-2, 1e-4},
		MeasurementNoise: []float64{1, 1, 10, 10},
	}
}

// Validate checks the dimensions and signs of the noise terms
func (kc KalmanConfig) Validate() error {

	check := func(name string, v []float64, n int) error {
		if len(v) != n {
			return fmt.Errorf("%s must have %d values, got %d", name, n, len(v))
		}
		for i, x := range v {
			if !(x > 0) {
				return fmt.Errorf("%s[%d] must be positive, got %v", name, i, x)
			}
		}
		return nil
	}

	if err := check("initial_cov", kc.InitialCov, stateDim); err != nil {
		return err
	}

	if err := check("process_noise", kc.ProcessNoise, stateDim); err != nil {
		return err
	}

	return check("measurement_noise", kc.MeasurementNoise, measureDim)
}

// KalmanFilter represents a constant velocity Kalman filter over bounding
// box center, area and aspect ratio with a unit time step per frame
type KalmanFilter struct {
	cfg        KalmanConfig
	motionMat  *mat.Dense
	updateMat  *mat.Dense
	processCov *mat.Dense
	innovNoise *mat.SymDense
}

// NewKalmanFilter initializes and returns a new KalmanFilter
func NewKalmanFilter(cfg KalmanConfig) *KalmanFilter {

	dt := 1.0

	// identity with velocity integrated into cx, cy and s.  The aspect ratio
	// has no velocity term
	motionMat := mat.NewDense(stateDim, stateDim, nil)

	for i := 0; i < stateDim; i++ {
		motionMat.Set(i, i, 1.0)
	}

	for i := 0; i < 3; i++ {
		motionMat.Set(i, measureDim+i, dt)
	}

	// updateMat is 4x7 and extracts [cx, cy, s, r]
	updateMat := mat.NewDense(measureDim, stateDim, nil)

	for i := 0; i < measureDim; i++ {
		updateMat.Set(i, i, 1.0)
	}

	processCov := mat.NewDense(stateDim, stateDim, nil)

	for i, v := range cfg.ProcessNoise {
		processCov.Set(i, i, v)
	}

	innovNoise := mat.NewSymDense(measureDim, nil)

	for i, v := range cfg.MeasurementNoise {
		innovNoise.SetSym(i, i, v)
	}

	return &KalmanFilter{
		cfg:        cfg,
		motionMat:  motionMat,
		updateMat:  updateMat,
		processCov: processCov,
		innovNoise: innovNoise,
	}
}

// Initiate seeds the state mean from a measurement with zero velocities and
// sets the initial covariance
func (kf *KalmanFilter) Initiate(mean StateMean, covariance *StateCov,
	measurement Observation) {

	copy(mean[:measureDim], measurement[:])

	for i := measureDim; i < stateDim; i++ {
		mean[i] = 0.0
	}

	covariance.Zero()

	for i, v := range kf.cfg.InitialCov {
		covariance.Set(i, i, v)
	}
}

// Predict propagates the state mean and covariance one frame forward
func (kf *KalmanFilter) Predict(mean StateMean, covariance *StateCov) {

	meanVec := mat.NewVecDense(stateDim, nil)
	meanVec.MulVec(kf.motionMat, mat.NewVecDense(stateDim, []float64(mean)))

	for i := 0; i < stateDim; i++ {
		mean[i] = meanVec.AtVec(i)
	}

	// P = F P F^T + Q
	fp := mat.NewDense(stateDim, stateDim, nil)
	fp.Mul(kf.motionMat, covariance.Dense)

	cov := mat.NewDense(stateDim, stateDim, nil)
	cov.Mul(fp, kf.motionMat.T())
	cov.Add(cov, kf.processCov)

	covariance.Dense = cov
}

// Update corrects the state mean and covariance with a measurement
func (kf *KalmanFilter) Update(mean StateMean, covariance *StateCov,
	measurement Observation) error {

	projectedMean, projectedCov := kf.project(mean, covariance)

	chol := mat.Cholesky{}

	if ok := chol.Factorize(projectedCov); !ok {
		return ErrCovariance
	}

	// B = P H^T, the gain K = B S^-1 is solved as K^T = S^-1 B^T
	B := mat.NewDense(stateDim, measureDim, nil)
	B.Mul(covariance.Dense, kf.updateMat.T())

	var gainT mat.Dense
	if err := chol.SolveTo(&gainT, B.T()); err != nil {
		return fmt.Errorf("failed to compute kalman gain: %w", err)
	}

	innovation := mat.NewVecDense(measureDim, nil)

	for i := 0; i < measureDim; i++ {
		innovation.SetVec(i, measurement[i]-projectedMean.AtVec(i))
	}

	correction := mat.NewVecDense(stateDim, nil)
	correction.MulVec(gainT.T(), innovation)

	for i := 0; i < stateDim; i++ {
		mean[i] += correction.AtVec(i)
	}

	// P = P - K S K^T
	temp := mat.NewDense(stateDim, measureDim, nil)
	temp.Mul(gainT.T(), projectedCov)

	temp2 := mat.NewDense(stateDim, stateDim, nil)
	temp2.Mul(temp, &gainT)

	newCov := mat.NewDense(stateDim, stateDim, nil)
	newCov.Sub(covariance.Dense, temp2)

	covariance.Dense = newCov

	return nil
}

// project maps the state mean and covariance into measurement space, adding
// the measurement noise to the covariance
func (kf *KalmanFilter) project(mean StateMean,
	covariance *StateCov) (*mat.VecDense, *mat.SymDense) {

	projectedMean := mat.NewVecDense(measureDim, nil)
	projectedMean.MulVec(kf.updateMat, mat.NewVecDense(stateDim, []float64(mean)))

	temp := mat.NewDense(measureDim, stateDim, nil)
	temp.Mul(kf.updateMat, covariance.Dense)
	temp2 := mat.NewDense(measureDim, measureDim, nil)
	temp2.Mul(temp, kf.updateMat.T())

	// symmetrise to absorb rounding in the products above
	projectedCov := mat.NewSymDense(measureDim, nil)

	for i := 0; i < measureDim; i++ {
		for j := i; j < measureDim; j++ {
			projectedCov.SetSym(i, j, (temp2.At(i, j)+temp2.At(j, i))/2)
		}
	}

	projectedCov.AddSym(projectedCov, kf.innovNoise)

	return projectedMean, projectedCov
}
