package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/asecurityteam/rolling"
	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/vulnx/pankha/internal/sensors"
	"github.com/vulnx/pankha/internal/ui"
	"github.com/vulnx/pankha/internal/util"
)

var (
	// SensorMonitorMap holds the monitor of each sensor, keyed by sensor id
	SensorMonitorMap = cmap.New[*SensorMonitor]()

	nowFn = time.Now
)

// Reading is a single sample of a sensor
type Reading struct {
	SensorId string
	Value    sensors.Temperature
	Time     time.Time
}

type Consumer func(reading Reading)

// SensorMonitor polls a sensor at a fixed rate and passes every reading to its consumers.
// Failed reads are passed on as sensors.Unavailable.
type SensorMonitor struct {
	sensor      sensors.Sensor
	pollingRate time.Duration

	mu        sync.RWMutex
	consumers []Consumer
	window    *rolling.PointPolicy
	last      Reading
}

func NewSensorMonitor(sensor sensors.Sensor, pollingRate time.Duration, windowSize int) *SensorMonitor {
	if windowSize <= 0 {
		windowSize = 1
	}
	return &SensorMonitor{
		sensor:      sensor,
		pollingRate: pollingRate,
		window:      util.CreateRollingWindow(windowSize),
		last: Reading{
			SensorId: sensor.GetId(),
			Value:    sensors.Unavailable,
		},
	}
}

// Subscribe registers a consumer, must be called before Run
func (m *SensorMonitor) Subscribe(consumer Consumer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.consumers = append(m.consumers, consumer)
}

func (m *SensorMonitor) GetSensor() sensors.Sensor {
	return m.sensor
}

// Run samples the sensor until ctx is cancelled. The first sample is taken immediately.
func (m *SensorMonitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.pollingRate)
	defer ticker.Stop()

	m.Sample()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.Sample()
		}
	}
}

// Sample reads the sensor once and notifies all consumers
func (m *SensorMonitor) Sample() Reading {
	value, err := m.sensor.GetValue()
	if err != nil {
		ui.Debug("Unable to read sensor %s: %v", m.sensor.GetId(), err)
		value = sensors.Unavailable
	}

	reading := Reading{
		SensorId: m.sensor.GetId(),
		Value:    value,
		Time:     nowFn(),
	}

	m.mu.Lock()
	m.last = reading
	if value.Available() {
		m.window.Append(float64(value))
	}
	consumers := make([]Consumer, len(m.consumers))
	copy(consumers, m.consumers)
	m.mu.Unlock()

	for _, consumer := range consumers {
		consumer(reading)
	}
	return reading
}

// GetLast returns the most recent reading, which may be unavailable
func (m *SensorMonitor) GetLast() Reading {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.last
}

// GetAverage returns the average of the recent valid readings, false if there are none
func (m *SensorMonitor) GetAverage() (float64, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return util.GetWindowAvg(m.window)
}
