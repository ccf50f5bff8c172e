package sensors

import (
	"errors"

	"github.com/vulnx/pankha/internal/configuration"
	"github.com/vulnx/pankha/internal/util"
)

// HwmonSensor reads an lm-sensors temperature feature through its sysfs input file
type HwmonSensor struct {
	Config configuration.SensorConfig `json:"configuration"`
}

func (sensor HwmonSensor) GetId() string {
	return sensor.Config.ID
}

func (sensor HwmonSensor) GetConfig() configuration.SensorConfig {
	return sensor.Config
}

func (sensor HwmonSensor) GetValue() (Temperature, error) {
	input := sensor.Config.HwMon.TempInput
	if len(input) <= 0 {
		return Unavailable, errors.New("temp input of sensor " + sensor.GetId() + " has not been resolved")
	}
	milliDegrees, err := util.ReadIntFromFile(input)
	if err != nil {
		return Unavailable, err
	}
	return Temperature(util.MilliDegreesToDegrees(milliDegrees)), nil
}
