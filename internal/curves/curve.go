package curves

import (
	"errors"
	"fmt"
	"sort"

	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/vulnx/pankha/internal/configuration"
)

var (
	SpeedCurveMap = cmap.New[*SpeedCurve]()
)

// SpeedCurve maps a temperature to a fan speed using a step function:
// the speed of the greatest point whose temperature is <= the input.
type SpeedCurve struct {
	ID       string
	SensorId string
	// Points sorted by temperature, ascending
	Points []configuration.CurvePoint
}

func NewSpeedCurve(config configuration.CurveConfig) (*SpeedCurve, error) {
	if len(config.Points) <= 0 {
		return nil, errors.New("no curve points defined for curve: " + config.ID)
	}

	points := make([]configuration.CurvePoint, len(config.Points))
	copy(points, config.Points)
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Temp < points[j].Temp
	})

	for i := 1; i < len(points); i++ {
		if points[i].Temp == points[i-1].Temp {
			return nil, fmt.Errorf("curve %s: duplicate point for %d°", config.ID, points[i].Temp)
		}
	}

	return &SpeedCurve{
		ID:       config.ID,
		SensorId: config.Sensor,
		Points:   points,
	}, nil
}

func (c *SpeedCurve) GetId() string {
	return c.ID
}

// Lookup returns the speed for the given temperature in degrees.
// Temperatures below the first point use the first point's speed.
func (c *SpeedCurve) Lookup(temp int) int {
	// index of the first point above temp
	i := sort.Search(len(c.Points), func(i int) bool {
		return c.Points[i].Temp > temp
	})
	if i == 0 {
		return c.Points[0].Speed
	}
	return c.Points[i-1].Speed
}

// MaxSpeed returns the highest speed of all points
func (c *SpeedCurve) MaxSpeed() int {
	result := 0
	for _, p := range c.Points {
		if p.Speed > result {
			result = p.Speed
		}
	}
	return result
}
