package statistics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/vulnx/pankha/internal/monitor"
)

const subsystemSensor = "sensor"

type SensorCollector struct {
	monitors []*monitor.SensorMonitor

	temperature    *prometheus.Desc
	temperatureAvg *prometheus.Desc
	available      *prometheus.Desc
}

func NewSensorCollector(monitors []*monitor.SensorMonitor) *SensorCollector {
	return &SensorCollector{
		monitors: monitors,
		temperature: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemSensor, "temperature"),
			"Last valid temperature of the sensor in degrees celsius",
			[]string{"id"}, nil,
		),
		temperatureAvg: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemSensor, "temperature_avg"),
			"Average of the recent valid temperatures of the sensor",
			[]string{"id"}, nil,
		),
		available: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemSensor, "available"),
			"Whether the last reading of the sensor was valid",
			[]string{"id"}, nil,
		),
	}
}

func (collector *SensorCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.temperature
	ch <- collector.temperatureAvg
	ch <- collector.available
}

// Collect implements required collect function for all prometheus collectors
func (collector *SensorCollector) Collect(ch chan<- prometheus.Metric) {
	for _, m := range collector.monitors {
		sensorId := m.GetSensor().GetId()
		last := m.GetLast()

		available := 0.0
		if last.Value.Available() {
			available = 1
			ch <- prometheus.MustNewConstMetric(collector.temperature, prometheus.GaugeValue, float64(last.Value), sensorId)
		}
		ch <- prometheus.MustNewConstMetric(collector.available, prometheus.GaugeValue, available, sensorId)

		if avg, ok := m.GetAverage(); ok {
			ch <- prometheus.MustNewConstMetric(collector.temperatureAvg, prometheus.GaugeValue, avg, sensorId)
		}
	}
}
