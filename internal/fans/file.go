package fans

import (
	"github.com/vulnx/pankha/internal/configuration"
	"github.com/vulnx/pankha/internal/util"
)

// FileFan stores speed and controller mode as plain integers in files
type FileFan struct {
	Config configuration.FanConfig `json:"config"`
}

func (fan *FileFan) GetId() string {
	return fan.Config.ID
}

func (fan *FileFan) GetConfig() configuration.FanConfig {
	return fan.Config
}

func (fan *FileFan) GetSpeed() (int, error) {
	speed, err := util.ReadIntFromFile(fan.Config.File.Path)
	if err != nil {
		return 0, deviceError(fan, "get speed", err)
	}
	return speed, nil
}

func (fan *FileFan) SetSpeed(speed int) error {
	err := util.WriteIntToFileAtomic(speed, fan.Config.File.Path)
	if err != nil {
		return deviceError(fan, "set speed", err)
	}
	return nil
}

// GetControlMode reports ControlModeManual if no mode file is configured
func (fan *FileFan) GetControlMode() (ControlMode, error) {
	if len(fan.Config.File.ModePath) <= 0 {
		return ControlModeManual, nil
	}
	value, err := util.ReadIntFromFile(fan.Config.File.ModePath)
	if err != nil {
		return ControlModeAuto, deviceError(fan, "get controller", err)
	}
	return ControlMode(value), nil
}

func (fan *FileFan) SetControlMode(mode ControlMode) error {
	if len(fan.Config.File.ModePath) <= 0 {
		// nothing to do
		return nil
	}
	err := util.WriteIntToFileAtomic(int(mode), fan.Config.File.ModePath)
	if err != nil {
		return deviceError(fan, "set controller", err)
	}
	return nil
}
