package controller

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/run"
	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/vulnx/pankha/internal/curves"
	"github.com/vulnx/pankha/internal/fans"
	"github.com/vulnx/pankha/internal/monitor"
	"github.com/vulnx/pankha/internal/notify"
	"github.com/vulnx/pankha/internal/persistence"
	"github.com/vulnx/pankha/internal/ui"
)

var (
	// FanControllerMap holds the controller of each fan, keyed by fan id
	FanControllerMap = cmap.New[*FanController]()

	nowFn = time.Now
)

// FanController drives a single fan: every sensor reading is evaluated against the fan's curve
// and accepted targets are handed to the ramp.
type FanController struct {
	persistence persistence.Persistence
	fan         fans.Fan
	// evaluatorMu guards evaluator, which is read by api handlers
	evaluatorMu sync.RWMutex
	evaluator   *curves.Evaluator
	ramp        *Ramp
	sink        notify.Sink

	speedPollingRate time.Duration

	readings chan monitor.Reading
	// last target computed from the curve, only accessed by the control loop
	curveTarget    int
	hasCurveTarget bool
	// paused is set while the fan has been handed back to the BIOS on request
	paused atomic.Bool
}

// NewFanController creates a controller and subscribes it to the given sensor monitor
func NewFanController(
	p persistence.Persistence,
	fan fans.Fan,
	curve *curves.SpeedCurve,
	sensorMonitor *monitor.SensorMonitor,
	sink notify.Sink,
	speedPollingRate time.Duration,
) *FanController {
	config := fan.GetConfig()
	f := &FanController{
		persistence:      p,
		fan:              fan,
		evaluator:        curves.NewEvaluator(curve, config.Hysteresis.Margin, config.GetDwell()),
		ramp:             NewRamp(fan, sink),
		sink:             sink,
		speedPollingRate: speedPollingRate,
		readings:         make(chan monitor.Reading, 1),
	}
	sensorMonitor.Subscribe(f.offer)
	return f
}

func (f *FanController) GetFan() fans.Fan {
	return f.fan
}

func (f *FanController) GetHysteresisState() curves.HysteresisState {
	f.evaluatorMu.RLock()
	defer f.evaluatorMu.RUnlock()
	return f.evaluator.State()
}

// offer passes a reading to the control loop, replacing a reading that has not been consumed yet
func (f *FanController) offer(reading monitor.Reading) {
	for {
		select {
		case f.readings <- reading:
			return
		default:
		}
		select {
		case <-f.readings:
		default:
		}
	}
}

func (f *FanController) Run(ctx context.Context) error {
	fan := f.fan

	err := f.storeOriginalState()
	if err != nil {
		ui.Warning("Unable to store original state of fan %s: %v", fan.GetId(), err)
	}

	ui.Info("Starting controller loop for fan '%s'", fan.GetId())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var g run.Group
	{
		g.Add(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case reading := <-f.readings:
					f.handleReading(reading)
				}
			}
		}, func(err error) {
			cancel()
		})
	}
	{
		// === speed monitoring
		g.Add(func() error {
			tick := time.NewTicker(f.speedPollingRate)
			defer tick.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-tick.C:
					f.pollSpeed()
				}
			}
		}, func(err error) {
			cancel()
		})
	}

	err = g.Run()

	f.ramp.Stop()
	f.ramp.Wait()
	f.restoreOriginalState()

	return err
}

func (f *FanController) handleReading(reading monitor.Reading) {
	id := f.fan.GetId()
	f.sink.TemperatureUpdated(id, reading.Value)

	if f.paused.Load() {
		return
	}

	f.evaluatorMu.Lock()
	target, ok := f.evaluator.Evaluate(reading.Value, reading.Time)
	f.evaluatorMu.Unlock()
	if !ok {
		return
	}
	// a target that failed to start is not requested again until the curve yields a different one
	if _, ramping := f.ramp.Target(); ramping && f.hasCurveTarget && f.curveTarget == target {
		return
	}
	f.curveTarget = target
	f.hasCurveTarget = true

	err := f.ramp.RampTo(target)
	if err != nil {
		if errors.Is(err, ErrInvalidTarget) {
			ui.Error("Fan %s: curve requested an invalid target: %v", id, err)
			return
		}
		f.sink.RampFailed(id, target, err)
	}
}

func (f *FanController) pollSpeed() {
	speed, err := f.fan.GetSpeed()
	if err != nil {
		ui.Debug("Unable to read speed of fan %s: %v", f.fan.GetId(), err)
		return
	}
	f.sink.SpeedUpdated(f.fan.GetId(), speed)
}

// RampTo requests a manual target speed, it is kept until the curve yields a different target
func (f *FanController) RampTo(target int) error {
	if err := f.ramp.Validate(target); err != nil {
		return err
	}
	f.paused.Store(false)
	return f.ramp.RampTo(target)
}

// SetControlMode hands the fan to the BIOS (and pauses the control loop) or takes it back
func (f *FanController) SetControlMode(mode fans.ControlMode) error {
	f.paused.Store(mode == fans.ControlModeAuto)
	return f.ramp.SetControlMode(mode)
}

func (f *FanController) IsPaused() bool {
	return f.paused.Load()
}

// storeOriginalState remembers the state of the fan before we take control.
// An existing entry is kept, it stems from a run that did not shut down cleanly.
func (f *FanController) storeOriginalState() error {
	id := f.fan.GetId()
	if _, err := f.persistence.LoadOriginalState(id); err == nil {
		ui.Warning("Found original state of fan %s from a previous run, keeping it", id)
		return nil
	}

	mode, err := f.fan.GetControlMode()
	if err != nil {
		return err
	}
	speed, err := f.fan.GetSpeed()
	if err != nil {
		return err
	}
	f.sink.ControlModeUpdated(id, mode)

	return f.persistence.SaveOriginalState(id, persistence.OriginalState{
		Mode:    mode,
		Speed:   speed,
		SavedAt: nowFn(),
	})
}

// restoreOriginalState switches the fan back to the mode it had before, defaulting to the BIOS
func (f *FanController) restoreOriginalState() {
	id := f.fan.GetId()
	mode := fans.ControlModeAuto

	state, err := f.persistence.LoadOriginalState(id)
	if err == nil {
		mode = state.Mode
	} else {
		ui.Warning("No original state stored for fan %s, handing it to the BIOS", id)
	}

	ui.Info("Restoring controller mode '%s' of fan %s", mode, id)
	err = f.fan.SetControlMode(mode)
	if err != nil {
		ui.ErrorAndNotify("Fan Restore Failed", "Unable to restore controller mode of fan %s: %v", id, err)
		return
	}
	f.sink.ControlModeUpdated(id, mode)

	err = f.persistence.DeleteOriginalState(id)
	if err != nil {
		ui.Warning("Unable to delete original state of fan %s: %v", id, err)
	}
}
