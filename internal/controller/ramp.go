package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vulnx/pankha/internal/fans"
	"github.com/vulnx/pankha/internal/notify"
)

// ErrInvalidTarget is returned for targets outside of [0, maxSpeed] or not a multiple of the step
var ErrInvalidTarget = errors.New("invalid target speed")

var afterFn = time.After

// Ramp moves a fan towards a target speed in bounded steps.
// Only the most recent RampTo call issues speed commands, older ramps stop before their next command.
type Ramp struct {
	fan  fans.Fan
	sink notify.Sink

	step      int
	maxSpeed  int
	stepDelay time.Duration

	generation atomic.Uint64
	// owner serializes all device commands of ramps
	owner sync.Mutex

	// cancelMu orders generation bumps together with the cancel func and target of the newest ramp
	cancelMu  sync.Mutex
	cancel    context.CancelFunc
	target    int
	hasTarget bool

	wg sync.WaitGroup
}

func NewRamp(fan fans.Fan, sink notify.Sink) *Ramp {
	config := fan.GetConfig()
	return &Ramp{
		fan:       fan,
		sink:      sink,
		step:      config.Step,
		maxSpeed:  config.MaxSpeed,
		stepDelay: config.StepDelay,
	}
}

// Validate checks whether the given speed can be used as a ramp target
func (r *Ramp) Validate(target int) error {
	if target < 0 || target > r.maxSpeed {
		return fmt.Errorf("%w: %d is out of range [0..%d]", ErrInvalidTarget, target, r.maxSpeed)
	}
	if target%r.step != 0 {
		return fmt.Errorf("%w: %d is not a multiple of %d", ErrInvalidTarget, target, r.step)
	}
	return nil
}

// RampTo starts a ramp towards target and returns once it is underway.
// Errors of the initial speed query and the switch to manual mode are returned,
// later device errors are reported via notify.Sink.RampFailed.
func (r *Ramp) RampTo(target int) error {
	if err := r.Validate(target); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	gen := r.supersede(cancel, target, true)

	r.owner.Lock()
	if r.generation.Load() != gen {
		// superseded while waiting for the device
		r.owner.Unlock()
		cancel()
		return nil
	}

	current, err := r.fan.GetSpeed()
	if err != nil {
		r.owner.Unlock()
		cancel()
		return err
	}

	if current == target {
		r.owner.Unlock()
		cancel()
		r.sink.RampCompleted(r.fan.GetId(), target)
		return nil
	}

	if err = r.ensureManualMode(); err != nil {
		r.owner.Unlock()
		cancel()
		return err
	}

	r.wg.Add(1)
	r.owner.Unlock()

	r.sink.RampStarted(r.fan.GetId(), current, target)
	go r.run(ctx, cancel, gen, current, target)
	return nil
}

// must be called with r.owner held
func (r *Ramp) ensureManualMode() error {
	mode, err := r.fan.GetControlMode()
	if err != nil {
		return err
	}
	if mode == fans.ControlModeManual {
		return nil
	}
	if err = r.fan.SetControlMode(fans.ControlModeManual); err != nil {
		return err
	}
	r.sink.ControlModeUpdated(r.fan.GetId(), fans.ControlModeManual)
	return nil
}

func (r *Ramp) run(ctx context.Context, cancel context.CancelFunc, gen uint64, current int, target int) {
	defer r.wg.Done()
	defer cancel()

	id := r.fan.GetId()
	for current != target {
		select {
		case <-ctx.Done():
			return
		case <-afterFn(r.stepDelay):
		}

		next := nextStep(current, target, r.step)

		r.owner.Lock()
		if r.generation.Load() != gen {
			r.owner.Unlock()
			return
		}
		err := r.fan.SetSpeed(next)
		r.owner.Unlock()

		if err != nil {
			r.sink.RampFailed(id, target, err)
			return
		}
		current = next
		r.sink.SpeedUpdated(id, current)
	}

	if r.generation.Load() == gen {
		r.sink.RampCompleted(id, target)
	}
}

// nextStep moves current towards target by at most step without overshooting it
func nextStep(current int, target int, step int) int {
	if current < target {
		return min(current+step, target)
	}
	return max(current-step, target)
}

// supersede invalidates the running ramp, registers cancel and target for the next one
// and returns the new generation
func (r *Ramp) supersede(cancel context.CancelFunc, target int, hasTarget bool) uint64 {
	r.cancelMu.Lock()
	defer r.cancelMu.Unlock()

	gen := r.generation.Add(1)
	if r.cancel != nil {
		r.cancel()
	}
	r.cancel = cancel
	r.target = target
	r.hasTarget = hasTarget
	return gen
}

// Stop cancels the running ramp without starting a new one
func (r *Ramp) Stop() {
	r.supersede(nil, 0, false)
}

// SetControlMode stops the running ramp and switches the controller mode of the fan
func (r *Ramp) SetControlMode(mode fans.ControlMode) error {
	r.Stop()

	r.owner.Lock()
	err := r.fan.SetControlMode(mode)
	r.owner.Unlock()
	if err != nil {
		return err
	}
	r.sink.ControlModeUpdated(r.fan.GetId(), mode)
	return nil
}

// Target returns the target of the most recent RampTo call
func (r *Ramp) Target() (int, bool) {
	r.cancelMu.Lock()
	defer r.cancelMu.Unlock()
	return r.target, r.hasTarget
}

// Wait blocks until no ramp is running
func (r *Ramp) Wait() {
	r.wg.Wait()
}
