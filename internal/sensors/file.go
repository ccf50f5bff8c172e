package sensors

import (
	"fmt"

	"github.com/vulnx/pankha/internal/configuration"
	"github.com/vulnx/pankha/internal/util"
)

// FileSensor reads a temperature in millidegrees from an arbitrary file
type FileSensor struct {
	Config configuration.SensorConfig `json:"configuration"`
}

func (sensor FileSensor) GetId() string {
	return sensor.Config.ID
}

func (sensor FileSensor) GetConfig() configuration.SensorConfig {
	return sensor.Config
}

func (sensor FileSensor) GetValue() (Temperature, error) {
	milliDegrees, err := util.ReadIntFromFile(sensor.Config.File.Path)
	if err != nil {
		return Unavailable, fmt.Errorf("sensor %s: %w", sensor.GetId(), err)
	}
	return Temperature(util.MilliDegreesToDegrees(milliDegrees)), nil
}
