package testingutils

import (
	"fmt"
	"sync"

	"github.com/vulnx/pankha/internal/fans"
	"github.com/vulnx/pankha/internal/sensors"
)

// Event is a single call received by a RecordingSink
type Event struct {
	Name   string
	FanId  string
	Value  int
	Target int
	Err    error
}

const (
	EventTemperatureUpdated = "TemperatureUpdated"
	EventSpeedUpdated       = "SpeedUpdated"
	EventRampStarted        = "RampStarted"
	EventRampCompleted      = "RampCompleted"
	EventRampFailed         = "RampFailed"
	EventControlModeUpdated = "ControlModeUpdated"
)

// RecordingSink records all events and publishes the names of ramp results on Done
type RecordingSink struct {
	mu     sync.Mutex
	events []Event

	// Done receives RampCompleted and RampFailed events
	Done chan Event
}

func NewRecordingSink() *RecordingSink {
	return &RecordingSink{
		Done: make(chan Event, 100),
	}
}

func (s *RecordingSink) record(e Event) {
	s.mu.Lock()
	s.events = append(s.events, e)
	s.mu.Unlock()
}

func (s *RecordingSink) TemperatureUpdated(fanId string, temp sensors.Temperature) {
	s.record(Event{Name: EventTemperatureUpdated, FanId: fanId, Value: int(temp)})
}

func (s *RecordingSink) SpeedUpdated(fanId string, speed int) {
	s.record(Event{Name: EventSpeedUpdated, FanId: fanId, Value: speed})
}

func (s *RecordingSink) RampStarted(fanId string, from int, target int) {
	s.record(Event{Name: EventRampStarted, FanId: fanId, Value: from, Target: target})
}

func (s *RecordingSink) RampCompleted(fanId string, speed int) {
	e := Event{Name: EventRampCompleted, FanId: fanId, Value: speed, Target: speed}
	s.record(e)
	s.Done <- e
}

func (s *RecordingSink) RampFailed(fanId string, target int, err error) {
	e := Event{Name: EventRampFailed, FanId: fanId, Target: target, Err: err}
	s.record(e)
	s.Done <- e
}

func (s *RecordingSink) ControlModeUpdated(fanId string, mode fans.ControlMode) {
	s.record(Event{Name: EventControlModeUpdated, FanId: fanId, Value: int(mode)})
}

// Events returns all events with the given name, or all events if name is empty
func (s *RecordingSink) Events(name string) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []Event
	for _, e := range s.events {
		if len(name) <= 0 || e.Name == name {
			result = append(result, e)
		}
	}
	return result
}

func (e Event) String() string {
	return fmt.Sprintf("%s(%s, %d, %d)", e.Name, e.FanId, e.Value, e.Target)
}
