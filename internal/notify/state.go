package notify

import (
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/vulnx/pankha/internal/fans"
	"github.com/vulnx/pankha/internal/sensors"
)

// FanState is the last known state of a controlled fan
type FanState struct {
	Id          string              `json:"id"`
	Temperature sensors.Temperature `json:"temperature"`
	Speed       int                 `json:"speed"`
	TargetSpeed int                 `json:"targetSpeed"`
	Mode        fans.ControlMode    `json:"mode"`
	Ramping     bool                `json:"ramping"`
	LastError   string              `json:"lastError,omitempty"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// RampResult counts finished ramps, see StateSink.RampResults
type RampResult string

const (
	RampResultCompleted RampResult = "completed"
	RampResultFailed    RampResult = "failed"
)

// StateSink records the latest state of each fan for the api and the metrics exporter
type StateSink struct {
	states  cmap.ConcurrentMap[string, FanState]
	results cmap.ConcurrentMap[string, int]

	nowFn func() time.Time
}

func NewStateSink() *StateSink {
	return &StateSink{
		states:  cmap.New[FanState](),
		results: cmap.New[int](),
		nowFn:   time.Now,
	}
}

func (s *StateSink) update(fanId string, f func(state FanState) FanState) {
	now := s.nowFn()
	s.states.Upsert(fanId, FanState{}, func(exist bool, valueInMap FanState, _ FanState) FanState {
		state := valueInMap
		if !exist {
			state = FanState{Id: fanId, Temperature: sensors.Unavailable}
		}
		state = f(state)
		state.UpdatedAt = now
		return state
	})
}

func (s *StateSink) TemperatureUpdated(fanId string, temp sensors.Temperature) {
	s.update(fanId, func(state FanState) FanState {
		state.Temperature = temp
		return state
	})
}

func (s *StateSink) SpeedUpdated(fanId string, speed int) {
	s.update(fanId, func(state FanState) FanState {
		state.Speed = speed
		return state
	})
}

func (s *StateSink) RampStarted(fanId string, from int, target int) {
	s.update(fanId, func(state FanState) FanState {
		state.Speed = from
		state.TargetSpeed = target
		state.Ramping = true
		return state
	})
}

func (s *StateSink) RampCompleted(fanId string, speed int) {
	s.update(fanId, func(state FanState) FanState {
		state.Speed = speed
		state.TargetSpeed = speed
		state.Ramping = false
		state.LastError = ""
		return state
	})
	s.countResult(fanId, RampResultCompleted)
}

func (s *StateSink) RampFailed(fanId string, target int, err error) {
	s.update(fanId, func(state FanState) FanState {
		state.TargetSpeed = target
		state.Ramping = false
		state.LastError = err.Error()
		return state
	})
	s.countResult(fanId, RampResultFailed)
}

func (s *StateSink) ControlModeUpdated(fanId string, mode fans.ControlMode) {
	s.update(fanId, func(state FanState) FanState {
		state.Mode = mode
		return state
	})
}

func (s *StateSink) countResult(fanId string, result RampResult) {
	s.results.Upsert(resultKey(fanId, result), 1, func(exist bool, valueInMap int, newValue int) int {
		if exist {
			return valueInMap + newValue
		}
		return newValue
	})
}

func resultKey(fanId string, result RampResult) string {
	return fanId + "/" + string(result)
}

// Get returns the state of the given fan
func (s *StateSink) Get(fanId string) (FanState, bool) {
	return s.states.Get(fanId)
}

// GetAll returns the state of all fans that reported at least one event
func (s *StateSink) GetAll() map[string]FanState {
	return s.states.Items()
}

// RampResults returns the number of finished ramps of a fan with the given result
func (s *StateSink) RampResults(fanId string, result RampResult) int {
	count, _ := s.results.Get(resultKey(fanId, result))
	return count
}
