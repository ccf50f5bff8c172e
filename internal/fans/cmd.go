package fans

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/vulnx/pankha/internal/configuration"
	"github.com/vulnx/pankha/internal/util"
)

const cmdFanTimeout = 2 * time.Second

// CmdFan delegates all device commands to external executables.
// Arguments of the setters may contain the placeholders %speed% and %mode%.
type CmdFan struct {
	Config configuration.FanConfig `json:"config"`
}

func (fan *CmdFan) GetId() string {
	return fan.Config.ID
}

func (fan *CmdFan) GetConfig() configuration.FanConfig {
	return fan.Config
}

func (fan *CmdFan) GetSpeed() (int, error) {
	value, err := fan.readInt(fan.Config.Cmd.GetSpeed)
	if err != nil {
		return 0, deviceError(fan, "get speed", err)
	}
	return value, nil
}

func (fan *CmdFan) SetSpeed(speed int) error {
	err := fan.run(fan.Config.Cmd.SetSpeed, "%speed%", speed)
	if err != nil {
		return deviceError(fan, "set speed", err)
	}
	return nil
}

// GetControlMode reports ControlModeManual if no getMode command is configured
func (fan *CmdFan) GetControlMode() (ControlMode, error) {
	conf := fan.Config.Cmd.GetMode
	if conf == nil {
		return ControlModeManual, nil
	}
	value, err := fan.readInt(conf)
	if err != nil {
		return ControlModeAuto, deviceError(fan, "get controller", err)
	}
	return ControlMode(value), nil
}

func (fan *CmdFan) SetControlMode(mode ControlMode) error {
	conf := fan.Config.Cmd.SetMode
	if conf == nil {
		// nothing to do
		return nil
	}
	err := fan.run(conf, "%mode%", int(mode))
	if err != nil {
		return deviceError(fan, "set controller", err)
	}
	return nil
}

func (fan *CmdFan) readInt(conf *configuration.ExecConfig) (int, error) {
	output, err := util.SafeCmdExecution(conf.Exec, conf.Args, cmdFanTimeout)
	if err != nil {
		return 0, err
	}
	value, err := strconv.ParseFloat(output, 64)
	if err != nil {
		return 0, err
	}
	return int(math.Round(value)), nil
}

func (fan *CmdFan) run(conf *configuration.ExecConfig, placeholder string, value int) error {
	_, err := util.SafeCmdExecution(conf.Exec, replacePlaceholder(conf.Args, placeholder, value), cmdFanTimeout)
	return err
}

func replacePlaceholder(args []string, placeholder string, value int) []string {
	var result = []string{}
	for _, arg := range args {
		result = append(result, strings.ReplaceAll(arg, placeholder, strconv.Itoa(value)))
	}
	return result
}
