//go:build !linux

package fans

import (
	"errors"

	"github.com/vulnx/pankha/internal/configuration"
)

var errPankhaUnsupported = errors.New("the pankha device is only available on linux")

type PankhaFan struct {
	Config configuration.FanConfig `json:"config"`
}

func (fan *PankhaFan) GetId() string {
	return fan.Config.ID
}

func (fan *PankhaFan) GetConfig() configuration.FanConfig {
	return fan.Config
}

func (fan *PankhaFan) GetSpeed() (int, error) {
	return 0, deviceError(fan, "get speed", errPankhaUnsupported)
}

func (fan *PankhaFan) SetSpeed(speed int) error {
	return deviceError(fan, "set speed", errPankhaUnsupported)
}

func (fan *PankhaFan) GetControlMode() (ControlMode, error) {
	return ControlModeAuto, deviceError(fan, "get controller", errPankhaUnsupported)
}

func (fan *PankhaFan) SetControlMode(mode ControlMode) error {
	return deviceError(fan, "set controller", errPankhaUnsupported)
}

func (fan *PankhaFan) Close() error {
	return nil
}
