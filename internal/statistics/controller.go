package statistics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/vulnx/pankha/internal/controller"
	"github.com/vulnx/pankha/internal/notify"
)

const controllerSubsystem = "controller"

type ControllerCollector struct {
	controllers []*controller.FanController
	states      *notify.StateSink

	rampsTotal *prometheus.Desc
	paused     *prometheus.Desc
}

func NewControllerCollector(controllers []*controller.FanController, states *notify.StateSink) *ControllerCollector {
	return &ControllerCollector{
		controllers: controllers,
		states:      states,
		rampsTotal: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "ramps_total"),
			"Number of finished ramps of the controller by result",
			[]string{"id", "result"}, nil,
		),
		paused: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "paused"),
			"Whether the controller has handed the fan to the BIOS on request",
			[]string{"id"}, nil,
		),
	}
}

func (collector *ControllerCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.rampsTotal
	ch <- collector.paused
}

// Collect implements required collect function for all prometheus collectors
func (collector *ControllerCollector) Collect(ch chan<- prometheus.Metric) {
	for _, contr := range collector.controllers {
		fanId := contr.GetFan().GetId()
		for _, result := range []notify.RampResult{notify.RampResultCompleted, notify.RampResultFailed} {
			count := collector.states.RampResults(fanId, result)
			ch <- prometheus.MustNewConstMetric(collector.rampsTotal, prometheus.CounterValue, float64(count), fanId, string(result))
		}
		paused := 0.0
		if contr.IsPaused() {
			paused = 1
		}
		ch <- prometheus.MustNewConstMetric(collector.paused, prometheus.GaugeValue, paused, fanId)
	}
}
