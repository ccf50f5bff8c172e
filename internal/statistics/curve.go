package statistics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/vulnx/pankha/internal/curves"
	"github.com/vulnx/pankha/internal/monitor"
)

const subsystemCurve = "curve"

// CurveCollector exposes the speed each curve yields for the last reading of its sensor
type CurveCollector struct {
	curves []*curves.SpeedCurve
	value  *prometheus.Desc
}

func NewCurveCollector(curves []*curves.SpeedCurve) *CurveCollector {
	return &CurveCollector{
		curves: curves,
		value: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemCurve, "value"),
			"Speed of the curve for the last reading of its sensor",
			[]string{"id"}, nil,
		),
	}
}

func (collector *CurveCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.value
}

// Collect implements required collect function for all prometheus collectors
func (collector *CurveCollector) Collect(ch chan<- prometheus.Metric) {
	for _, curve := range collector.curves {
		m, ok := monitor.SensorMonitorMap.Get(curve.SensorId)
		if !ok {
			continue
		}
		last := m.GetLast()
		if !last.Value.Available() {
			continue
		}
		value := curve.Lookup(int(last.Value))
		ch <- prometheus.MustNewConstMetric(collector.value, prometheus.GaugeValue, float64(value), curve.GetId())
	}
}
