package statistics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/vulnx/pankha/internal/notify"
)

const fanSubsystem = "fan"

type FanCollector struct {
	fanIds []string
	states *notify.StateSink

	speed       *prometheus.Desc
	targetSpeed *prometheus.Desc
	controlMode *prometheus.Desc
}

func NewFanCollector(fanIds []string, states *notify.StateSink) *FanCollector {
	return &FanCollector{
		fanIds: fanIds,
		states: states,
		speed: prometheus.NewDesc(prometheus.BuildFQName(namespace, fanSubsystem, "speed"),
			"Last known speed of the fan in RPM",
			[]string{"id"}, nil,
		),
		targetSpeed: prometheus.NewDesc(prometheus.BuildFQName(namespace, fanSubsystem, "target_speed"),
			"Target speed of the fan in RPM",
			[]string{"id"}, nil,
		),
		controlMode: prometheus.NewDesc(prometheus.BuildFQName(namespace, fanSubsystem, "control_mode"),
			"Controller mode of the fan (0 = auto, 1 = manual)",
			[]string{"id"}, nil,
		),
	}
}

func (collector *FanCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.speed
	ch <- collector.targetSpeed
	ch <- collector.controlMode
}

// Collect implements required collect function for all prometheus collectors
func (collector *FanCollector) Collect(ch chan<- prometheus.Metric) {
	for _, fanId := range collector.fanIds {
		state, ok := collector.states.Get(fanId)
		if !ok {
			continue
		}
		ch <- prometheus.MustNewConstMetric(collector.speed, prometheus.GaugeValue, float64(state.Speed), fanId)
		ch <- prometheus.MustNewConstMetric(collector.targetSpeed, prometheus.GaugeValue, float64(state.TargetSpeed), fanId)
		ch <- prometheus.MustNewConstMetric(collector.controlMode, prometheus.GaugeValue, float64(state.Mode), fanId)
	}
}
