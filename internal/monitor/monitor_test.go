package monitor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vulnx/pankha/internal/configuration"
	"github.com/vulnx/pankha/internal/sensors"
)

type MockSensor struct {
	ID string

	mu     sync.Mutex
	values []sensors.Temperature
	errs   []error
}

func (sensor *MockSensor) GetId() string {
	return sensor.ID
}

func (sensor *MockSensor) GetConfig() configuration.SensorConfig {
	return configuration.SensorConfig{ID: sensor.ID}
}

func (sensor *MockSensor) GetValue() (sensors.Temperature, error) {
	sensor.mu.Lock()
	defer sensor.mu.Unlock()
	if len(sensor.values) <= 0 {
		return sensors.Unavailable, errors.New("no value")
	}
	value, err := sensor.values[0], sensor.errs[0]
	if len(sensor.values) > 1 {
		sensor.values = sensor.values[1:]
		sensor.errs = sensor.errs[1:]
	}
	if err != nil {
		return sensors.Unavailable, err
	}
	return value, nil
}

func newMockSensor(values ...sensors.Temperature) *MockSensor {
	return &MockSensor{
		ID:     "cpu",
		values: values,
		errs:   make([]error, len(values)),
	}
}

func TestSensorMonitor_Sample(t *testing.T) {
	// GIVEN
	monitor := NewSensorMonitor(newMockSensor(70), time.Second, 10)
	var received []Reading
	monitor.Subscribe(func(reading Reading) {
		received = append(received, reading)
	})

	// WHEN
	reading := monitor.Sample()

	// THEN
	assert.Equal(t, "cpu", reading.SensorId)
	assert.Equal(t, sensors.Temperature(70), reading.Value)
	assert.Len(t, received, 1)
	assert.Equal(t, reading, received[0])
	assert.Equal(t, reading, monitor.GetLast())
}

func TestSensorMonitor_Sample_Error(t *testing.T) {
	// GIVEN
	sensor := newMockSensor(70, 0)
	sensor.errs[1] = errors.New("read failed")
	monitor := NewSensorMonitor(sensor, time.Second, 10)
	var received []Reading
	monitor.Subscribe(func(reading Reading) {
		received = append(received, reading)
	})

	// WHEN
	monitor.Sample()
	reading := monitor.Sample()

	// THEN
	assert.False(t, reading.Value.Available())
	assert.Len(t, received, 2)
	avg, ok := monitor.GetAverage()
	assert.True(t, ok)
	assert.Equal(t, 70.0, avg)
}

func TestSensorMonitor_GetAverage_Empty(t *testing.T) {
	// GIVEN
	monitor := NewSensorMonitor(newMockSensor(), time.Second, 10)

	// WHEN
	monitor.Sample()
	_, ok := monitor.GetAverage()

	// THEN
	assert.False(t, ok)
	assert.False(t, monitor.GetLast().Value.Available())
}

func TestSensorMonitor_GetAverage_Window(t *testing.T) {
	// GIVEN
	monitor := NewSensorMonitor(newMockSensor(10, 20, 30, 40), time.Second, 2)

	// WHEN
	for i := 0; i < 4; i++ {
		monitor.Sample()
	}
	avg, ok := monitor.GetAverage()

	// THEN
	assert.True(t, ok)
	assert.Equal(t, 35.0, avg)
}

func TestSensorMonitor_Run(t *testing.T) {
	// GIVEN
	monitor := NewSensorMonitor(newMockSensor(70), 10*time.Millisecond, 10)
	readings := make(chan Reading, 100)
	monitor.Subscribe(func(reading Reading) {
		readings <- reading
	})
	ctx, cancel := context.WithCancel(context.Background())

	// WHEN
	done := make(chan error)
	go func() {
		done <- monitor.Run(ctx)
	}()
	first := <-readings
	<-readings
	cancel()

	// THEN
	assert.NoError(t, <-done)
	assert.Equal(t, sensors.Temperature(70), first.Value)
}
