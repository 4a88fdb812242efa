package tracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrInvalidConfig is returned when a Config fails validation
var ErrInvalidConfig = errors.New("invalid tracker config")

// maxConfigSize is the largest config file LoadConfig will read
const maxConfigSize = 1 << 20

// Config holds the tracker parameters fixed at construction
type Config struct {
	// MaxAge is the number of frames a track may go unmatched before it is
	// deleted
	MaxAge int `json:"max_age"`
	// MinHits is the number of consecutive matches needed before a track is
	// reported.  Tracks are also reported during the first MinHits frames
	MinHits int `json:"min_hits"`
	// IOUThreshold is the minimum overlap to accept a match
	IOUThreshold float64 `json:"iou_threshold"`
	// Solver is the name of the assignment solver, see SolverByName
	Solver string `json:"solver,omitempty"`
	// Kalman overrides the filter noise terms, nil uses DefaultKalmanConfig
	Kalman *KalmanConfig `json:"kalman,omitempty"`
}

// DefaultConfig returns the SORT defaults
func DefaultConfig() Config {
	return Config{
		MaxAge:       1,
		MinHits:      3,
		IOUThreshold: 0.3,
		Solver:       SolverLAPJV,
	}
}

// Validate checks the config values are usable
func (c Config) Validate() error {

	if c.MaxAge < 0 {
		return fmt.Errorf("%w: max_age must be >= 0, got %d", ErrInvalidConfig, c.MaxAge)
	}

	if c.MinHits < 0 {
		return fmt.Errorf("%w: min_hits must be >= 0, got %d", ErrInvalidConfig, c.MinHits)
	}

	if !(c.IOUThreshold >= 0 && c.IOUThreshold <= 1) {
		return fmt.Errorf("%w: iou_threshold must be in [0,1], got %v",
			ErrInvalidConfig, c.IOUThreshold)
	}

	if _, err := SolverByName(c.Solver); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if c.Kalman != nil {
		if err := c.Kalman.Validate(); err != nil {
			return fmt.Errorf("%w: kalman: %v", ErrInvalidConfig, err)
		}
	}

	return nil
}

// kalmanConfig returns the filter config to use
func (c Config) kalmanConfig() KalmanConfig {
	if c.Kalman != nil {
		return *c.Kalman
	}
	return DefaultKalmanConfig()
}

// LoadConfig reads a Config from a JSON file.  Fields omitted from the file
// keep their DefaultConfig values.
func LoadConfig(path string) (Config, error) {

	cleanPath := filepath.Clean(path)

	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return Config{}, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return Config{}, fmt.Errorf("failed to stat config file: %w", err)
	}

	if fileInfo.Size() > maxConfigSize {
		return Config{}, fmt.Errorf("config file too large: %d bytes (max %d)",
			fileInfo.Size(), maxConfigSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()

	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
