// Package signal decides which approach of an intersection gets the next
// green light from the vehicle counts and waiting times of each lane.
package signal

import (
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

const (
	// StraightSatRate is the saturation flow of a straight lane in vehicles
	// per hour
	StraightSatRate = 1800.0
	// TurnSatRate is the saturation flow of a turning lane in vehicles per
	// hour
	TurnSatRate = 1200.0
	// Beta weights the waiting time penalty
	Beta = 0.05
	// Hysteresis is the factor a challenger must beat the current green
	// lane's score by to take over
	Hysteresis = 1.2
	// MaxCount caps the vehicle count contribution to score and duration
	MaxCount = 20
	// MinGreen is the shortest green phase in seconds
	MinGreen = 5
	// MaxGreen is the longest green phase in seconds
	MaxGreen = 30
)

// Decision reasons
const (
	ReasonEmergency = "emergency"
	ReasonSwitch    = "switch"
	ReasonHold      = "hold"
)

// ErrInvalidLane is returned when Decide is given lanes it can not score
var ErrInvalidLane = errors.New("invalid lane")

// Lane is the traffic state of one approach
type Lane struct {
	// Count is the number of vehicles queued
	Count int
	// WaitTime is the accumulated waiting time in seconds
	WaitTime float64
	// SatRate is the saturation flow in vehicles per hour
	SatRate float64
	// Emergency is set when an emergency vehicle is present
	Emergency bool
}

// Decision is the lane chosen for the next green phase
type Decision struct {
	// Lane is the index of the chosen lane
	Lane int
	// GreenSeconds is the length of the green phase
	GreenSeconds int
	// Reason is one of ReasonEmergency, ReasonSwitch or ReasonHold
	Reason string
}

// Options tune the decision
type Options struct {
	// Beta weights the waiting time penalty
	Beta float64
	// Hysteresis is the factor a challenger must beat the current lane by
	Hysteresis float64
	// Log receives a line per decision, nil disables logging
	Log logrus.FieldLogger
}

// DefaultOptions returns the standard weights without logging
func DefaultOptions() Options {
	return Options{
		Beta:       Beta,
		Hysteresis: Hysteresis,
	}
}

// clearTime is the time in seconds to discharge count vehicles, with the
// count capped at MaxCount
func clearTime(count int, satRate float64) float64 {

	if count > MaxCount {
		count = MaxCount
	}

	return float64(count) / (satRate / 3600)
}

// PriorityScore returns the priority of a lane, the time needed to clear its
// queue plus a penalty growing with the waiting time to the power 1.5
func PriorityScore(count int, waitTime, satRate, beta float64) float64 {
	return clearTime(count, satRate) + math.Pow(waitTime, 1.5)*beta
}

// GreenDuration returns the green phase length in seconds needed to clear
// count vehicles, bounded to [MinGreen, MaxGreen]
func GreenDuration(count int, satRate float64) int {

	t := clearTime(count, satRate)
	t = math.Max(MinGreen, math.Min(MaxGreen, t))

	return int(math.Round(t))
}

// Decide chooses the lane for the next green phase given the lane currently
// green.  The first lane flagged with an emergency wins outright.  Otherwise
// the highest scoring other lane, preferring the longer wait on equal
// scores, takes over only if it beats the current lane's score by the
// hysteresis factor.
func Decide(lanes []Lane, current int, opts Options) (Decision, error) {

	if len(lanes) == 0 {
		return Decision{}, fmt.Errorf("%w: no lanes", ErrInvalidLane)
	}

	if current < 0 || current >= len(lanes) {
		return Decision{}, fmt.Errorf("%w: current lane %d out of range [0,%d)",
			ErrInvalidLane, current, len(lanes))
	}

	for i, lane := range lanes {
		if err := lane.validate(); err != nil {
			return Decision{}, fmt.Errorf("lane %d: %w", i, err)
		}
	}

	log := opts.Log

	for i, lane := range lanes {
		if lane.Emergency {
			d := Decision{
				Lane:         i,
				GreenSeconds: GreenDuration(lane.Count, lane.SatRate),
				Reason:       ReasonEmergency,
			}

			if log != nil {
				log.WithField("lane", i).Info("emergency override")
			}

			return d, nil
		}
	}

	scores := make([]float64, len(lanes))

	for i, lane := range lanes {
		scores[i] = PriorityScore(lane.Count, lane.WaitTime, lane.SatRate, opts.Beta)
	}

	challenger := current
	challengerScore := -1.0

	for i := range scores {
		if i == current {
			continue
		}

		if scores[i] > challengerScore {
			challengerScore = scores[i]
			challenger = i
		} else if scores[i] == challengerScore &&
			lanes[i].WaitTime > lanes[challenger].WaitTime {
			challenger = i
		}
	}

	chosen, reason := current, ReasonHold

	if challengerScore > scores[current]*opts.Hysteresis {
		chosen, reason = challenger, ReasonSwitch
	}

	if log != nil {
		log.WithFields(logrus.Fields{
			"current":          current,
			"current_score":    scores[current],
			"challenger":       challenger,
			"challenger_score": challengerScore,
		}).Infof("%s lane %d", reason, chosen)
	}

	return Decision{
		Lane:         chosen,
		GreenSeconds: GreenDuration(lanes[chosen].Count, lanes[chosen].SatRate),
		Reason:       reason,
	}, nil
}

func (l Lane) validate() error {

	if l.Count < 0 {
		return fmt.Errorf("%w: negative count %d", ErrInvalidLane, l.Count)
	}

	if !(l.SatRate > 0) || math.IsInf(l.SatRate, 0) {
		return fmt.Errorf("%w: saturation rate must be positive, got %v",
			ErrInvalidLane, l.SatRate)
	}

	if !(l.WaitTime >= 0) || math.IsInf(l.WaitTime, 0) {
		return fmt.Errorf("%w: wait time must be non-negative, got %v",
			ErrInvalidLane, l.WaitTime)
	}

	return nil
}
