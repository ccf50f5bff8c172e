package notify

import (
	"github.com/vulnx/pankha/internal/fans"
	"github.com/vulnx/pankha/internal/sensors"
)

// Sink receives the events of the control loop. Implementations must not block.
type Sink interface {
	// TemperatureUpdated is called for every sensor sample of a fan
	TemperatureUpdated(fanId string, temp sensors.Temperature)
	// SpeedUpdated is called for every speed observed on, or commanded to, a fan
	SpeedUpdated(fanId string, speed int)
	// RampStarted is called when a new target has been accepted by the ramp
	RampStarted(fanId string, from int, target int)
	RampCompleted(fanId string, speed int)
	RampFailed(fanId string, target int, err error)
	ControlModeUpdated(fanId string, mode fans.ControlMode)
}

// Multi forwards all events to each of the given sinks
type Multi []Sink

func (m Multi) TemperatureUpdated(fanId string, temp sensors.Temperature) {
	for _, s := range m {
		s.TemperatureUpdated(fanId, temp)
	}
}

func (m Multi) SpeedUpdated(fanId string, speed int) {
	for _, s := range m {
		s.SpeedUpdated(fanId, speed)
	}
}

func (m Multi) RampStarted(fanId string, from int, target int) {
	for _, s := range m {
		s.RampStarted(fanId, from, target)
	}
}

func (m Multi) RampCompleted(fanId string, speed int) {
	for _, s := range m {
		s.RampCompleted(fanId, speed)
	}
}

func (m Multi) RampFailed(fanId string, target int, err error) {
	for _, s := range m {
		s.RampFailed(fanId, target, err)
	}
}

func (m Multi) ControlModeUpdated(fanId string, mode fans.ControlMode) {
	for _, s := range m {
		s.ControlModeUpdated(fanId, mode)
	}
}

// Discard drops all events
type Discard struct{}

func (Discard) TemperatureUpdated(string, sensors.Temperature) {}
func (Discard) SpeedUpdated(string, int) {}
func (Discard) RampStarted(string, int, int) {}
func (Discard) RampCompleted(string, int) {}
func (Discard) RampFailed(string, int, error) {}
func (Discard) ControlModeUpdated(string, fans.ControlMode) {}
