package controller

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vulnx/pankha/internal/configuration"
	"github.com/vulnx/pankha/internal/curves"
	"github.com/vulnx/pankha/internal/fans"
	"github.com/vulnx/pankha/internal/monitor"
	"github.com/vulnx/pankha/internal/persistence"
	"github.com/vulnx/pankha/internal/sensors"
	"github.com/vulnx/pankha/internal/testingutils"
)

var start = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

type controllerFixture struct {
	controller  *FanController
	fan         *testingutils.MockFan
	sensor      *testingutils.MockSensor
	monitor     *monitor.SensorMonitor
	sink        *testingutils.RecordingSink
	persistence persistence.Persistence
}

func createController(t *testing.T, speed int, mode fans.ControlMode) controllerFixture {
	curve, err := curves.NewSpeedCurve(configuration.CurveConfig{
		ID:     "cpu_curve",
		Sensor: "cpu",
		Points: []configuration.CurvePoint{
			{Temp: 40, Speed: 0},
			{Temp: 60, Speed: 1000},
			{Temp: 80, Speed: 2000},
		},
	})
	assert.NoError(t, err)

	p := persistence.NewPersistence(filepath.Join(t.TempDir(), "pankha.db"))
	assert.NoError(t, p.Init())

	fan := testingutils.NewMockFan(testingutils.CreateFanConfig("omen"), speed, mode)
	sensor := &testingutils.MockSensor{ID: "cpu", Value: sensors.Unavailable}
	sensorMonitor := monitor.NewSensorMonitor(sensor, time.Hour, 10)
	sink := testingutils.NewRecordingSink()

	return controllerFixture{
		controller:  NewFanController(p, fan, curve, sensorMonitor, sink, time.Hour),
		fan:         fan,
		sensor:      sensor,
		monitor:     sensorMonitor,
		sink:        sink,
		persistence: p,
	}
}

func reading(value sensors.Temperature, offset time.Duration) monitor.Reading {
	return monitor.Reading{SensorId: "cpu", Value: value, Time: start.Add(offset)}
}

func TestFanController_Scenario(t *testing.T) {
	// GIVEN
	immediateSteps(t)
	f := createController(t, 1000, fans.ControlModeManual)

	// WHEN
	f.controller.handleReading(reading(70, 0))
	f.controller.ramp.Wait()
	f.controller.handleReading(reading(81, 5*time.Second))
	f.controller.ramp.Wait()

	// THEN
	assert.Equal(t, []int{1500, 2000}, f.fan.SpeedCommands())
	completed := f.sink.Events(testingutils.EventRampCompleted)
	assert.Len(t, completed, 2)
	assert.Equal(t, 1000, completed[0].Value)
	assert.Equal(t, 2000, completed[1].Value)
}

func TestFanController_UnavailableReadingKeepsTarget(t *testing.T) {
	// GIVEN
	immediateSteps(t)
	f := createController(t, 1000, fans.ControlModeManual)
	f.controller.handleReading(reading(70, 0))
	f.controller.ramp.Wait()

	// WHEN
	f.controller.handleReading(reading(sensors.Unavailable, time.Minute))
	f.controller.ramp.Wait()

	// THEN
	assert.Empty(t, f.fan.Commands())
	assert.Equal(t, 1000, f.controller.GetHysteresisState().LastSpeed)
	target, _ := f.controller.ramp.Target()
	assert.Equal(t, 1000, target)

	temps := f.sink.Events(testingutils.EventTemperatureUpdated)
	assert.Len(t, temps, 2)
	assert.Equal(t, int(sensors.Unavailable), temps[1].Value)
}

func TestFanController_UnchangedTargetIsNotRequestedAgain(t *testing.T) {
	// GIVEN
	immediateSteps(t)
	f := createController(t, 500, fans.ControlModeManual)
	f.controller.handleReading(reading(70, 0))
	f.controller.ramp.Wait()

	// WHEN
	f.controller.handleReading(reading(72, time.Minute))
	f.controller.ramp.Wait()

	// THEN
	assert.Equal(t, []int{1000}, f.fan.SpeedCommands())
	assert.Len(t, f.sink.Events(testingutils.EventRampCompleted), 1)
}

func TestFanController_ManualTargetIsKept(t *testing.T) {
	// GIVEN
	immediateSteps(t)
	f := createController(t, 1000, fans.ControlModeManual)
	f.controller.handleReading(reading(70, 0))
	f.controller.ramp.Wait()

	// WHEN
	err := f.controller.RampTo(2500)
	f.controller.ramp.Wait()
	f.controller.handleReading(reading(71, time.Minute))
	f.controller.ramp.Wait()

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, []int{1500, 2000, 2500}, f.fan.SpeedCommands())
}

func TestFanController_RampTo_Invalid(t *testing.T) {
	// GIVEN
	f := createController(t, 1000, fans.ControlModeManual)

	// WHEN
	err := f.controller.RampTo(1234)

	// THEN
	assert.ErrorIs(t, err, ErrInvalidTarget)
	assert.Empty(t, f.fan.Commands())
}

func TestFanController_SetControlMode_Auto_Pauses(t *testing.T) {
	// GIVEN
	immediateSteps(t)
	f := createController(t, 1000, fans.ControlModeManual)

	// WHEN
	err := f.controller.SetControlMode(fans.ControlModeAuto)
	f.controller.handleReading(reading(81, 0))
	f.controller.ramp.Wait()

	// THEN
	assert.NoError(t, err)
	assert.True(t, f.controller.IsPaused())
	assert.Equal(t, []testingutils.Command{
		{Name: testingutils.CommandSetMode, Value: int(fans.ControlModeAuto)},
	}, f.fan.Commands())
}

func TestFanController_SetControlMode_Manual_Resumes(t *testing.T) {
	// GIVEN
	immediateSteps(t)
	f := createController(t, 1000, fans.ControlModeManual)
	f.controller.handleReading(reading(81, 0))
	f.controller.ramp.Wait()
	assert.NoError(t, f.controller.SetControlMode(fans.ControlModeAuto))

	// WHEN
	err := f.controller.SetControlMode(fans.ControlModeManual)
	f.fan.SetSpeed(1500)
	f.controller.handleReading(reading(81, time.Second))
	f.controller.ramp.Wait()

	// THEN
	assert.NoError(t, err)
	assert.False(t, f.controller.IsPaused())
	assert.Equal(t, []int{1500, 2000, 1500, 2000}, f.fan.SpeedCommands())
}

func TestFanController_Run(t *testing.T) {
	// GIVEN
	immediateSteps(t)
	f := createController(t, 500, fans.ControlModeAuto)
	f.sensor.Value = 81
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error)
	go func() {
		done <- f.controller.Run(ctx)
	}()

	// WHEN
	f.monitor.Sample()
	event := <-f.sink.Done
	cancel()
	err := <-done

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, testingutils.EventRampCompleted, event.Name)
	assert.Equal(t, 2000, event.Value)
	assert.Equal(t, []testingutils.Command{
		{Name: testingutils.CommandSetMode, Value: int(fans.ControlModeManual)},
		{Name: testingutils.CommandSetSpeed, Value: 1000},
		{Name: testingutils.CommandSetSpeed, Value: 1500},
		{Name: testingutils.CommandSetSpeed, Value: 2000},
		{Name: testingutils.CommandSetMode, Value: int(fans.ControlModeAuto)},
	}, f.fan.Commands())

	_, err = f.persistence.LoadOriginalState("omen")
	assert.ErrorIs(t, err, persistence.ErrNotFound)
}

func TestFanController_StoreOriginalState_KeepsExisting(t *testing.T) {
	// GIVEN
	f := createController(t, 3000, fans.ControlModeManual)
	existing := persistence.OriginalState{Mode: fans.ControlModeAuto, Speed: 2300, SavedAt: start}
	assert.NoError(t, f.persistence.SaveOriginalState("omen", existing))

	// WHEN
	err := f.controller.storeOriginalState()
	f.controller.restoreOriginalState()

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, []testingutils.Command{
		{Name: testingutils.CommandSetMode, Value: int(fans.ControlModeAuto)},
	}, f.fan.Commands())
}

func TestFanController_RestoreOriginalState_DefaultsToAuto(t *testing.T) {
	// GIVEN
	f := createController(t, 3000, fans.ControlModeManual)

	// WHEN
	f.controller.restoreOriginalState()

	// THEN
	mode, _ := f.fan.GetControlMode()
	assert.Equal(t, fans.ControlModeAuto, mode)
}

func TestFanController_Offer_KeepsLatest(t *testing.T) {
	// GIVEN
	f := createController(t, 1000, fans.ControlModeManual)

	// WHEN
	f.controller.offer(reading(50, 0))
	f.controller.offer(reading(60, time.Second))

	// THEN
	assert.Len(t, f.controller.readings, 1)
	latest := <-f.controller.readings
	assert.Equal(t, sensors.Temperature(60), latest.Value)
}

func TestFanController_HysteresisStateReadDuringEvaluation(t *testing.T) {
	// GIVEN
	immediateSteps(t)
	f := createController(t, 1000, fans.ControlModeManual)

	// WHEN
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 40; i++ {
			temp := sensors.Temperature(50 + (i%2)*30)
			f.controller.handleReading(reading(temp, time.Duration(i)*time.Minute))
		}
	}()
	states := make([]curves.HysteresisState, 0, 40)
	go func() {
		defer wg.Done()
		for i := 0; i < 40; i++ {
			states = append(states, f.controller.GetHysteresisState())
		}
	}()
	wg.Wait()
	f.controller.ramp.Wait()

	// THEN
	for _, state := range states {
		if !state.Valid {
			continue
		}
		// temperature and speed of a state always belong to the same accepted reading
		if state.LastTemp == 50 {
			assert.Equal(t, 0, state.LastSpeed)
		} else {
			assert.Equal(t, sensors.Temperature(80), state.LastTemp)
			assert.Equal(t, 2000, state.LastSpeed)
		}
	}
	assert.Equal(t, 2000, f.controller.GetHysteresisState().LastSpeed)
}

func TestFanController_FailedStartIsNotRetriedForSameTarget(t *testing.T) {
	// GIVEN
	immediateSteps(t)
	f := createController(t, 500, fans.ControlModeManual)
	f.fan.GetSpeedErr = errors.New("ioctl failed")
	f.controller.handleReading(reading(70, 0))

	// WHEN
	f.controller.handleReading(reading(72, time.Minute))
	f.fan.GetSpeedErr = nil
	f.controller.handleReading(reading(85, 2*time.Minute))
	f.controller.ramp.Wait()

	// THEN
	failed := f.sink.Events(testingutils.EventRampFailed)
	assert.Len(t, failed, 1)
	assert.Equal(t, 1000, failed[0].Target)
	assert.Equal(t, []int{1000, 1500, 2000}, f.fan.SpeedCommands())
}
