package configuration

import "time"

const (
	DefaultPankhaDevicePath = "/dev/pankha"

	// values of the HP OMEN 16-wf1xxx embedded controller
	DefaultMaxSpeed  = 5500
	DefaultSpeedStep = 500
	DefaultStepDelay = 1 * time.Second
)

type FanConfig struct {
	ID    string `json:"id"`
	Curve string `json:"curve"`

	// MinSpeed is the lowest speed a curve of this fan may request
	MinSpeed int `json:"minSpeed"`
	// MaxSpeed is the highest speed the device supports
	MaxSpeed int `json:"maxSpeed"`
	// Step is the maximum speed change per ramp step, all targets must be a multiple of it
	Step int `json:"step"`
	// StepDelay is the time to wait before each ramp step
	StepDelay time.Duration `json:"stepDelay"`

	Hysteresis HysteresisConfig `json:"hysteresis"`

	Pankha *PankhaFanConfig `json:"pankha,omitempty"`
	File   *FileFanConfig   `json:"file,omitempty"`
	Cmd    *CmdFanConfig    `json:"cmd,omitempty"`
}

type HysteresisConfig struct {
	// Margin a new target has to exceed (compared to the last one) to be accepted immediately
	Margin int `json:"margin"`
	// Dwell is the time after which any new target is accepted, defaults to the step delay
	Dwell *time.Duration `json:"dwell,omitempty"`
}

type PankhaFanConfig struct {
	Path string `json:"path"`
}

type FileFanConfig struct {
	// Path of the file holding the fan speed
	Path string `json:"path"`
	// ModePath of the file holding the controller mode (0 = auto, 1 = manual)
	ModePath string `json:"modePath"`
}

type CmdFanConfig struct {
	GetSpeed *ExecConfig `json:"getSpeed"`
	SetSpeed *ExecConfig `json:"setSpeed"`
	GetMode  *ExecConfig `json:"getMode,omitempty"`
	SetMode  *ExecConfig `json:"setMode,omitempty"`
}

type ExecConfig struct {
	Exec string   `json:"exec"`
	Args []string `json:"args"`
}

// GetDwell returns the configured dwell time, or the step delay if none is configured
func (c FanConfig) GetDwell() time.Duration {
	if c.Hysteresis.Dwell == nil {
		return c.StepDelay
	}
	return *c.Hysteresis.Dwell
}

func setFanDefaults(config *FanConfig) {
	if config.MaxSpeed == 0 {
		config.MaxSpeed = DefaultMaxSpeed
	}
	if config.Step == 0 {
		config.Step = DefaultSpeedStep
	}
	if config.StepDelay == 0 {
		config.StepDelay = DefaultStepDelay
	}
	if config.Pankha != nil && len(config.Pankha.Path) <= 0 {
		config.Pankha.Path = DefaultPankhaDevicePath
	}
}
