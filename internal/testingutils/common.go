package testingutils

import (
	"fmt"
	"sync"

	"github.com/vulnx/pankha/internal/configuration"
	"github.com/vulnx/pankha/internal/fans"
	"github.com/vulnx/pankha/internal/sensors"
)

// Command is a device command received by a MockFan
type Command struct {
	Name  string
	Value int
}

func (c Command) String() string {
	return fmt.Sprintf("%s(%d)", c.Name, c.Value)
}

const (
	CommandSetSpeed = "SetSpeed"
	CommandSetMode  = "SetControlMode"
)

// MockFan is an in-memory fan that records every state changing command
type MockFan struct {
	Config configuration.FanConfig

	mu       sync.Mutex
	speed    int
	mode     fans.ControlMode
	commands []Command

	// GetSpeedErr is returned by GetSpeed if set
	GetSpeedErr error
	// SetSpeedErr is returned by SetSpeed for the given speed
	SetSpeedErr map[int]error
	// OnSetSpeed is called after each successful SetSpeed, outside the lock
	OnSetSpeed func(speed int)
}

func NewMockFan(config configuration.FanConfig, speed int, mode fans.ControlMode) *MockFan {
	return &MockFan{
		Config:      config,
		speed:       speed,
		mode:        mode,
		SetSpeedErr: map[int]error{},
	}
}

// CreateFanConfig returns a config with the values of the HP OMEN embedded controller
func CreateFanConfig(id string) configuration.FanConfig {
	return configuration.FanConfig{
		ID:        id,
		Curve:     "cpu_curve",
		MaxSpeed:  configuration.DefaultMaxSpeed,
		Step:      configuration.DefaultSpeedStep,
		StepDelay: configuration.DefaultStepDelay,
		Pankha:    &configuration.PankhaFanConfig{Path: configuration.DefaultPankhaDevicePath},
	}
}

func (fan *MockFan) GetId() string {
	return fan.Config.ID
}

func (fan *MockFan) GetConfig() configuration.FanConfig {
	return fan.Config
}

func (fan *MockFan) GetSpeed() (int, error) {
	fan.mu.Lock()
	defer fan.mu.Unlock()
	if fan.GetSpeedErr != nil {
		return 0, fmt.Errorf("%w: %w", fans.ErrDevice, fan.GetSpeedErr)
	}
	return fan.speed, nil
}

func (fan *MockFan) SetSpeed(speed int) error {
	fan.mu.Lock()
	fan.commands = append(fan.commands, Command{Name: CommandSetSpeed, Value: speed})
	if err, ok := fan.SetSpeedErr[speed]; ok {
		fan.mu.Unlock()
		return fmt.Errorf("%w: %w", fans.ErrDevice, err)
	}
	fan.speed = speed
	hook := fan.OnSetSpeed
	fan.mu.Unlock()

	if hook != nil {
		hook(speed)
	}
	return nil
}

func (fan *MockFan) GetControlMode() (fans.ControlMode, error) {
	fan.mu.Lock()
	defer fan.mu.Unlock()
	return fan.mode, nil
}

func (fan *MockFan) SetControlMode(mode fans.ControlMode) error {
	fan.mu.Lock()
	defer fan.mu.Unlock()
	fan.commands = append(fan.commands, Command{Name: CommandSetMode, Value: int(mode)})
	fan.mode = mode
	return nil
}

// Commands returns all commands received so far
func (fan *MockFan) Commands() []Command {
	fan.mu.Lock()
	defer fan.mu.Unlock()
	result := make([]Command, len(fan.commands))
	copy(result, fan.commands)
	return result
}

// SpeedCommands returns the values of all SetSpeed commands received so far
func (fan *MockFan) SpeedCommands() []int {
	var result []int
	for _, c := range fan.Commands() {
		if c.Name == CommandSetSpeed {
			result = append(result, c.Value)
		}
	}
	return result
}

// MockSensor always returns Value, or Err if set
type MockSensor struct {
	ID    string
	Value sensors.Temperature
	Err   error
}

func (sensor *MockSensor) GetId() string {
	return sensor.ID
}

func (sensor *MockSensor) GetConfig() configuration.SensorConfig {
	return configuration.SensorConfig{ID: sensor.ID}
}

func (sensor *MockSensor) GetValue() (sensors.Temperature, error) {
	if sensor.Err != nil {
		return sensors.Unavailable, sensor.Err
	}
	return sensor.Value, nil
}
