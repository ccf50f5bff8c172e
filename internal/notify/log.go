package notify

import (
	"fmt"

	"github.com/vulnx/pankha/internal/fans"
	"github.com/vulnx/pankha/internal/sensors"
	"github.com/vulnx/pankha/internal/ui"
)

// LogSink prints events to the console. Frequent events are only printed in debug mode.
type LogSink struct{}

func (LogSink) TemperatureUpdated(fanId string, temp sensors.Temperature) {
	ui.Debug("Fan %s: temperature %s", fanId, temp)
}

func (LogSink) SpeedUpdated(fanId string, speed int) {
	ui.Debug("Fan %s: speed %d RPM", fanId, speed)
}

func (LogSink) RampStarted(fanId string, from int, target int) {
	ui.Info("Fan %s: ramping from %d to %d RPM", fanId, from, target)
}

func (LogSink) RampCompleted(fanId string, speed int) {
	ui.Debug("Fan %s: reached %d RPM", fanId, speed)
}

func (LogSink) RampFailed(fanId string, target int, err error) {
	ui.Error("Fan %s: ramp to %d RPM failed: %v", fanId, target, err)
}

func (LogSink) ControlModeUpdated(fanId string, mode fans.ControlMode) {
	ui.Info("Fan %s: controller mode %s", fanId, mode)
}

// DesktopSink shows a desktop notification when a ramp fails
type DesktopSink struct {
	Discard
}

func (DesktopSink) RampFailed(fanId string, target int, err error) {
	ui.NotifyError("pankha", fmt.Sprintf("Fan %s could not reach %d RPM: %v", fanId, target, err))
}
