package curves

import (
	"time"

	"github.com/vulnx/pankha/internal/sensors"
	"github.com/vulnx/pankha/internal/util"
)

// HysteresisState remembers the last accepted target of a fan
type HysteresisState struct {
	LastTemp   sensors.Temperature `json:"lastTemp"`
	LastSpeed  int                 `json:"lastSpeed"`
	LastChange time.Time           `json:"lastChange"`

	// Valid is false until the first reading has been accepted
	Valid bool `json:"valid"`
}

// Evaluator turns temperature readings into target speeds.
// It is not safe for concurrent use, each fan controller owns one.
type Evaluator struct {
	curve  *SpeedCurve
	margin int
	dwell  time.Duration

	state HysteresisState
}

func NewEvaluator(curve *SpeedCurve, margin int, dwell time.Duration) *Evaluator {
	return &Evaluator{
		curve:  curve,
		margin: margin,
		dwell:  dwell,
	}
}

// Evaluate returns the target speed for the given reading.
// ok is false as long as no target has ever been accepted.
func (e *Evaluator) Evaluate(reading sensors.Temperature, now time.Time) (target int, ok bool) {
	if !reading.Available() {
		return e.state.LastSpeed, e.state.Valid
	}

	candidate := e.curve.Lookup(int(reading))

	if !e.state.Valid {
		e.accept(reading, candidate, now)
		return candidate, true
	}

	if candidate == e.state.LastSpeed {
		return e.state.LastSpeed, true
	}

	diff := util.Abs(candidate - e.state.LastSpeed)
	if diff > e.margin || now.Sub(e.state.LastChange) > e.dwell {
		e.accept(reading, candidate, now)
		return candidate, true
	}

	return e.state.LastSpeed, true
}

func (e *Evaluator) accept(reading sensors.Temperature, speed int, now time.Time) {
	e.state = HysteresisState{
		LastTemp:   reading,
		LastSpeed:  speed,
		LastChange: now,
		Valid:      true,
	}
}

// State returns a copy of the current hysteresis state
func (e *Evaluator) State() HysteresisState {
	return e.state
}

func (e *Evaluator) Curve() *SpeedCurve {
	return e.curve
}
