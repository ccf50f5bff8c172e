package configuration

type CurveConfig struct {
	ID string `json:"id"`
	// Sensor is the id of the sensor whose temperature drives this curve
	Sensor string      `json:"sensor"`
	Points CurvePoints `json:"points"`
}

// CurvePoint maps a temperature threshold (degrees) to a fan speed
type CurvePoint struct {
	Temp  int `json:"temp"`
	Speed int `json:"speed"`
}

type CurvePoints []CurvePoint
