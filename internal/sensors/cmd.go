package sensors

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/vulnx/pankha/internal/configuration"
	"github.com/vulnx/pankha/internal/util"
)

const cmdSensorTimeout = 2 * time.Second

type CmdSensor struct {
	Config configuration.SensorConfig `json:"configuration"`
}

func (sensor CmdSensor) GetId() string {
	return sensor.Config.ID
}

func (sensor CmdSensor) GetConfig() configuration.SensorConfig {
	return sensor.Config
}

func (sensor CmdSensor) GetValue() (Temperature, error) {
	exec := sensor.Config.Cmd.Exec
	args := sensor.Config.Cmd.Args
	result, err := util.SafeCmdExecution(exec, args, cmdSensorTimeout)
	if err != nil {
		return Unavailable, fmt.Errorf("sensor %s: %w", sensor.GetId(), err)
	}
	return parseDegrees(result)
}

// parseDegrees parses command output like "50.8" or "50.8 C" and rounds it to whole degrees
func parseDegrees(output string) (Temperature, error) {
	var value float64
	_, err := fmt.Sscanf(output, "%g", &value)
	if err != nil {
		return Unavailable, fmt.Errorf("unable to parse temperature from %s: %w", strconv.Quote(output), err)
	}
	return Temperature(math.Round(value)), nil
}
