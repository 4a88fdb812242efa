package tracker

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// floatsEqual compares slices of float64
func floatsEqual(a, b []float64, epsilon float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if diff := a[i] - b[i]; diff > epsilon || diff < -epsilon {
			return false
		}
	}
	return true
}

// matricesEqual compare matrices
func matricesEqual(a, b mat.Matrix, epsilon float64) bool {
	r1, c1 := a.Dims()
	r2, c2 := b.Dims()

	if r1 != r2 || c1 != c2 {
		return false
	}

	for i := 0; i < r1; i++ {
		for j := 0; j < c1; j++ {
			if diff := a.At(i, j) - b.At(i, j); diff > epsilon || diff < -epsilon {
				return false
			}
		}
	}

	return true
}

// TestKalmanFilter tests the filter through initiate, predict and update
// against values computed independently from the model matrices
func TestKalmanFilter(t *testing.T) {
	kf := NewKalmanFilter(DefaultKalmanConfig())

	mean := make(StateMean, stateDim)
	covariance := &StateCov{mat.NewDense(stateDim, stateDim, nil)}

	// box 75,175 -> 125,225
	measurement := Observation{100.0, 200.0, 2500.0, 1.0}

	kf.Initiate(mean, covariance, measurement)

	expectedMeanInit := StateMean{100.0, 200.0, 2500.0, 1.0, 0.0, 0.0, 0.0}
	expectedCovarianceInit := mat.NewDense(7, 7, []float64{
		10, 0, 0, 0, 0, 0, 0,
		0, 10, 0, 0, 0, 0, 0,
		0, 0, 10, 0, 0, 0, 0,
		0, 0, 0, 10, 0, 0, 0,
		0, 0, 0, 0, 10000, 0, 0,
		0, 0, 0, 0, 0, 10000, 0,
		0, 0, 0, 0, 0, 0, 10000,
	})

	if !floatsEqual(mean, expectedMeanInit, 1e-9) {
		t.Errorf("expected mean %v, got %v", expectedMeanInit, mean)
	}

	if !matricesEqual(covariance, expectedCovarianceInit, 1e-9) {
		t.Errorf("expected covariance %v, got %v",
			mat.Formatted(expectedCovarianceInit, mat.Prefix(""), mat.Excerpt(0)),
			mat.Formatted(covariance, mat.Prefix(""), mat.Excerpt(0)),
		)
	}

	// Predict the next state
	kf.Predict(mean, covariance)

	expectedCovariancePredict := mat.NewDense(7, 7, []float64{
		10011, 0, 0, 0, 10000, 0, 0,
		0, 10011, 0, 0, 0, 10000, 0,
		0, 0, 10011, 0, 0, 0, 10000,
		0, 0, 0, 11, 0, 0, 0,
		10000, 0, 0, 0, 10000.01, 0, 0,
		0, 10000, 0, 0, 0, 10000.01, 0,
		0, 0, 10000, 0, 0, 0, 10000.0001,
	})

	if !floatsEqual(mean, expectedMeanInit, 1e-9) {
		t.Errorf("expected mean unchanged with zero velocity %v, got %v", expectedMeanInit, mean)
	}

	if !matricesEqual(covariance, expectedCovariancePredict, 1e-6) {
		t.Errorf("expected covariance %v, got %v",
			mat.Formatted(expectedCovariancePredict, mat.Prefix(""), mat.Excerpt(0)),
			mat.Formatted(covariance, mat.Prefix(""), mat.Excerpt(0)),
		)
	}

	// New measurement
	measurement = Observation{105.0, 205.0, 2550.0, 1.2}

	if err := kf.Update(mean, covariance, measurement); err != nil {
		t.Fatalf("failed to update: %v", err)
	}

	expectedMeanUpdate := StateMean{104.99950059928086, 204.99950059928085,
		2549.950104779962, 1.1047619047619048, 4.994007191370356,
		4.994007191370356, 49.89522003792037}

	expectedCovarianceUpdate := mat.NewDense(7, 7, []float64{
		0.999900119855738, 0, 0, 0, 0.9988014382743131, 0, 0,
		0, 0.999900119855738, 0, 0, 0, 0.9988014382743131, 0,
		0, 0, 9.990020955992804, 0, 0, 0, 9.97904400758307,
		0, 0, 0, 5.23809523809524, 0, 0, 0,
		0.9988014382743131, 0, 0, 0, 11.995617259290157, 0, 0,
		0, 0.9988014382743131, 0, 0, 0, 11.995617259290157, 0,
		0, 0, 9.97904400758489, 0, 0, 0, 20.956092415925013,
	})

	if !floatsEqual(mean, expectedMeanUpdate, 1e-6) {
		t.Errorf("expected mean %v, got %v", expectedMeanUpdate, mean)
	}

	if !matricesEqual(covariance, expectedCovarianceUpdate, 1e-6) {
		t.Errorf("expected covariance %v, got %v",
			mat.Formatted(expectedCovarianceUpdate, mat.Prefix(""), mat.Excerpt(0)),
			mat.Formatted(covariance, mat.Prefix(""), mat.Excerpt(0)),
		)
	}

	// velocity now carries the state forward
	kf.Predict(mean, covariance)

	expectedMeanPredict2 := StateMean{109.99350779065122, 209.9935077906512,
		2599.8453248178826, 1.1047619047619048, 4.994007191370356,
		4.994007191370356, 49.89522003792037}

	if !floatsEqual(mean, expectedMeanPredict2, 1e-6) {
		t.Errorf("expected mean %v, got %v", expectedMeanPredict2, mean)
	}
}

// TestKalmanFilterNoiseAsymmetry checks that a larger measurement noise on
// scale makes the filter trust a scale measurement less than a center one
func TestKalmanFilterNoiseAsymmetry(t *testing.T) {
	kf := NewKalmanFilter(DefaultKalmanConfig())

	mean := make(StateMean, stateDim)
	covariance := &StateCov{mat.NewDense(stateDim, stateDim, nil)}

	kf.Initiate(mean, covariance, Observation{0, 0, 100, 1})

	// same covariance on cx and s, move both by the same amount
	if err := kf.Update(mean, covariance, Observation{10, 0, 110, 1}); err != nil {
		t.Fatalf("failed to update: %v", err)
	}

	cxGain := mean[0] / 10
	sGain := (mean[2] - 100) / 10

	if !(cxGain > sGain) {
		t.Errorf("expected center gain %v to exceed scale gain %v", cxGain, sGain)
	}
}

// TestKalmanFilterBadCovariance checks an update on a broken covariance
// returns an error instead of corrupting state
func TestKalmanFilterBadCovariance(t *testing.T) {
	kf := NewKalmanFilter(DefaultKalmanConfig())

	mean := make(StateMean, stateDim)
	covariance := &StateCov{mat.NewDense(stateDim, stateDim, nil)}

	kf.Initiate(mean, covariance, Observation{0, 0, 100, 1})
	covariance.Set(0, 0, math.NaN())

	err := kf.Update(mean, covariance, Observation{1, 1, 100, 1})

	if !errors.Is(err, ErrCovariance) {
		t.Errorf("expected ErrCovariance, got %v", err)
	}
}

// TestKalmanConfigValidate checks dimension and sign validation
func TestKalmanConfigValidate(t *testing.T) {

	if err := DefaultKalmanConfig().Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}

	bad := DefaultKalmanConfig()
	bad.ProcessNoise = bad.ProcessNoise[:6]

	if err := bad.Validate(); err == nil {
		t.Error("expected error for short process noise")
	}

	bad = DefaultKalmanConfig()
	bad.MeasurementNoise = []float64{1, 1, 0, 10}

	if err := bad.Validate(); err == nil {
		t.Error("expected error for zero measurement noise")
	}
}
