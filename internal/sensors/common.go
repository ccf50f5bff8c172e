package sensors

import (
	"fmt"
	"math"
	"strconv"

	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/vulnx/pankha/internal/configuration"
)

// Temperature is a reading in whole degrees celsius
type Temperature int

// Unavailable marks a reading without a valid sensor value
const Unavailable Temperature = math.MinInt32

func (t Temperature) Available() bool {
	return t != Unavailable
}

func (t Temperature) String() string {
	if !t.Available() {
		return "N/A"
	}
	return strconv.Itoa(int(t)) + "°"
}

var (
	SensorMap = cmap.New[Sensor]()
)

type Sensor interface {
	GetId() string

	GetConfig() configuration.SensorConfig

	// GetValue returns the current temperature of this sensor
	GetValue() (Temperature, error)
}

func NewSensor(config configuration.SensorConfig) (Sensor, error) {
	if config.HwMon != nil {
		return &HwmonSensor{
			Config: config,
		}, nil
	}

	if config.File != nil {
		return &FileSensor{
			Config: config,
		}, nil
	}

	if config.Cmd != nil {
		return &CmdSensor{
			Config: config,
		}, nil
	}

	return nil, fmt.Errorf("no matching sensor type for sensor: %s", config.ID)
}

// GetSensor returns the registered sensor with the given id
func GetSensor(id string) (Sensor, error) {
	sensor, ok := SensorMap.Get(id)
	if !ok {
		return nil, fmt.Errorf("sensor with id '%s' not found", id)
	}
	return sensor, nil
}
