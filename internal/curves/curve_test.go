package curves

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vulnx/pankha/internal/configuration"
)

func createCurve(t *testing.T, points ...configuration.CurvePoint) *SpeedCurve {
	curve, err := NewSpeedCurve(configuration.CurveConfig{
		ID:     "cpu_curve",
		Sensor: "cpu",
		Points: points,
	})
	assert.NoError(t, err)
	return curve
}

func defaultPoints() []configuration.CurvePoint {
	return []configuration.CurvePoint{
		{Temp: 40, Speed: 0},
		{Temp: 60, Speed: 1000},
		{Temp: 80, Speed: 2000},
	}
}

func TestNewSpeedCurve_NoPoints(t *testing.T) {
	// WHEN
	_, err := NewSpeedCurve(configuration.CurveConfig{ID: "empty"})

	// THEN
	assert.EqualError(t, err, "no curve points defined for curve: empty")
}

func TestNewSpeedCurve_Sorts(t *testing.T) {
	// WHEN
	curve := createCurve(t,
		configuration.CurvePoint{Temp: 80, Speed: 2000},
		configuration.CurvePoint{Temp: 40, Speed: 0},
	)

	// THEN
	assert.Equal(t, 40, curve.Points[0].Temp)
	assert.Equal(t, 80, curve.Points[1].Temp)
}

func TestNewSpeedCurve_DuplicateTemp(t *testing.T) {
	// WHEN
	_, err := NewSpeedCurve(configuration.CurveConfig{
		ID: "dup",
		Points: []configuration.CurvePoint{
			{Temp: 40, Speed: 0},
			{Temp: 40, Speed: 500},
		},
	})

	// THEN
	assert.EqualError(t, err, "curve dup: duplicate point for 40°")
}

func TestSpeedCurve_Lookup(t *testing.T) {
	curve := createCurve(t, defaultPoints()...)

	tests := []struct {
		name     string
		temp     int
		expected int
	}{
		{name: "below first point", temp: 10, expected: 0},
		{name: "negative", temp: -20, expected: 0},
		{name: "first threshold", temp: 40, expected: 0},
		{name: "between points", temp: 59, expected: 0},
		{name: "middle threshold", temp: 60, expected: 1000},
		{name: "between upper points", temp: 70, expected: 1000},
		{name: "last threshold", temp: 80, expected: 2000},
		{name: "above last point", temp: 81, expected: 2000},
		{name: "far above last point", temp: 120, expected: 2000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, curve.Lookup(tt.temp))
		})
	}
}

func TestSpeedCurve_Lookup_SinglePoint(t *testing.T) {
	// GIVEN
	curve := createCurve(t, configuration.CurvePoint{Temp: 50, Speed: 1500})

	// THEN
	assert.Equal(t, 1500, curve.Lookup(0))
	assert.Equal(t, 1500, curve.Lookup(50))
	assert.Equal(t, 1500, curve.Lookup(100))
}

func TestSpeedCurve_Lookup_WithinBounds(t *testing.T) {
	// GIVEN
	curve := createCurve(t, defaultPoints()...)

	// THEN
	for temp := -50; temp <= 150; temp++ {
		speed := curve.Lookup(temp)
		assert.GreaterOrEqual(t, speed, 0)
		assert.LessOrEqual(t, speed, curve.MaxSpeed())
	}
}

func TestSpeedCurve_MaxSpeed(t *testing.T) {
	// GIVEN
	curve := createCurve(t,
		configuration.CurvePoint{Temp: 40, Speed: 3000},
		configuration.CurvePoint{Temp: 60, Speed: 1000},
	)

	// THEN
	assert.Equal(t, 3000, curve.MaxSpeed())
}
