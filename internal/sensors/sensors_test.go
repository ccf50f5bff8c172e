package sensors

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vulnx/pankha/internal/configuration"
)

func TestNewSensor_File(t *testing.T) {
	// GIVEN
	config := configuration.SensorConfig{
		ID:   "cpu",
		File: &configuration.FileSensorConfig{Path: "/tmp/temp"},
	}

	// WHEN
	sensor, err := NewSensor(config)

	// THEN
	assert.NoError(t, err)
	assert.IsType(t, &FileSensor{}, sensor)
	assert.Equal(t, "cpu", sensor.GetId())
}

func TestNewSensor_Missing(t *testing.T) {
	// GIVEN
	config := configuration.SensorConfig{ID: "cpu"}

	// WHEN
	_, err := NewSensor(config)

	// THEN
	assert.EqualError(t, err, "no matching sensor type for sensor: cpu")
}

func TestFileSensor_GetValue(t *testing.T) {
	// GIVEN
	path := filepath.Join(t.TempDir(), "temp1_input")
	err := os.WriteFile(path, []byte("50800\n"), 0644)
	assert.NoError(t, err)
	sensor, _ := NewSensor(configuration.SensorConfig{
		ID:   "cpu",
		File: &configuration.FileSensorConfig{Path: path},
	})

	// WHEN
	value, err := sensor.GetValue()

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, Temperature(51), value)
}

func TestFileSensor_GetValue_Missing(t *testing.T) {
	// GIVEN
	sensor, _ := NewSensor(configuration.SensorConfig{
		ID:   "cpu",
		File: &configuration.FileSensorConfig{Path: filepath.Join(t.TempDir(), "missing")},
	})

	// WHEN
	value, err := sensor.GetValue()

	// THEN
	assert.Error(t, err)
	assert.False(t, value.Available())
}

func TestHwmonSensor_GetValue_Unresolved(t *testing.T) {
	// GIVEN
	sensor, _ := NewSensor(configuration.SensorConfig{
		ID:    "cpu",
		HwMon: &configuration.HwMonSensorConfig{Chip: configuration.DefaultHwMonChip},
	})

	// WHEN
	value, err := sensor.GetValue()

	// THEN
	assert.Error(t, err)
	assert.Equal(t, Unavailable, value)
}

func TestParseDegrees(t *testing.T) {
	tests := []struct {
		output   string
		expected Temperature
	}{
		{output: "50", expected: 50},
		{output: "50.8", expected: 51},
		{output: "50.8 C", expected: 51},
		{output: "-3.2", expected: -3},
	}

	for _, tt := range tests {
		t.Run(tt.output, func(t *testing.T) {
			result, err := parseDegrees(tt.output)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseDegrees_Invalid(t *testing.T) {
	// WHEN
	_, err := parseDegrees("hot")

	// THEN
	assert.Error(t, err)
}

func TestTemperature_String(t *testing.T) {
	assert.Equal(t, "70°", Temperature(70).String())
	assert.Equal(t, "N/A", Unavailable.String())
}
