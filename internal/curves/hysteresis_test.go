package curves

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vulnx/pankha/internal/sensors"
)

var start = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func TestEvaluator_FirstReadingAccepted(t *testing.T) {
	// GIVEN
	evaluator := NewEvaluator(createCurve(t, defaultPoints()...), 5000, time.Hour)

	// WHEN
	target, ok := evaluator.Evaluate(70, start)

	// THEN
	assert.True(t, ok)
	assert.Equal(t, 1000, target)
	state := evaluator.State()
	assert.True(t, state.Valid)
	assert.Equal(t, sensors.Temperature(70), state.LastTemp)
	assert.Equal(t, 1000, state.LastSpeed)
	assert.Equal(t, start, state.LastChange)
}

func TestEvaluator_UnavailableWithoutTarget(t *testing.T) {
	// GIVEN
	evaluator := NewEvaluator(createCurve(t, defaultPoints()...), 0, time.Second)

	// WHEN
	_, ok := evaluator.Evaluate(sensors.Unavailable, start)

	// THEN
	assert.False(t, ok)
	assert.False(t, evaluator.State().Valid)
}

func TestEvaluator_UnavailableKeepsPreviousTarget(t *testing.T) {
	// GIVEN
	evaluator := NewEvaluator(createCurve(t, defaultPoints()...), 0, time.Second)
	evaluator.Evaluate(70, start)
	before := evaluator.State()

	// WHEN
	target, ok := evaluator.Evaluate(sensors.Unavailable, start.Add(10*time.Second))

	// THEN
	assert.True(t, ok)
	assert.Equal(t, 1000, target)
	assert.Equal(t, before, evaluator.State())
}

func TestEvaluator_ScenarioRisingTemperature(t *testing.T) {
	// GIVEN
	evaluator := NewEvaluator(createCurve(t, defaultPoints()...), 0, time.Second)

	// WHEN
	first, _ := evaluator.Evaluate(70, start)
	second, _ := evaluator.Evaluate(81, start.Add(5*time.Second))

	// THEN
	assert.Equal(t, 1000, first)
	assert.Equal(t, 2000, second)
	assert.Equal(t, sensors.Temperature(81), evaluator.State().LastTemp)
}

func TestEvaluator_SameSpeedIsNoChange(t *testing.T) {
	// GIVEN
	evaluator := NewEvaluator(createCurve(t, defaultPoints()...), 0, time.Second)
	evaluator.Evaluate(70, start)

	// WHEN
	target, ok := evaluator.Evaluate(75, start.Add(time.Minute))

	// THEN
	assert.True(t, ok)
	assert.Equal(t, 1000, target)
	state := evaluator.State()
	assert.Equal(t, sensors.Temperature(70), state.LastTemp)
	assert.Equal(t, start, state.LastChange)
}

func TestEvaluator_RejectedWithinMarginAndDwell(t *testing.T) {
	// GIVEN
	evaluator := NewEvaluator(createCurve(t, defaultPoints()...), 1000, 10*time.Second)
	evaluator.Evaluate(70, start)
	before := evaluator.State()

	// WHEN
	target, ok := evaluator.Evaluate(81, start.Add(5*time.Second))

	// THEN
	assert.True(t, ok)
	assert.Equal(t, 1000, target)
	assert.Equal(t, before, evaluator.State())
}

func TestEvaluator_AcceptedAboveMargin(t *testing.T) {
	// GIVEN
	evaluator := NewEvaluator(createCurve(t, defaultPoints()...), 500, 10*time.Second)
	evaluator.Evaluate(70, start)

	// WHEN
	target, _ := evaluator.Evaluate(81, start.Add(time.Second))

	// THEN
	assert.Equal(t, 2000, target)
}

func TestEvaluator_AcceptedAfterDwell(t *testing.T) {
	// GIVEN
	evaluator := NewEvaluator(createCurve(t, defaultPoints()...), 1000, 10*time.Second)
	evaluator.Evaluate(70, start)

	// WHEN
	atDwell, _ := evaluator.Evaluate(81, start.Add(10*time.Second))
	afterDwell, _ := evaluator.Evaluate(81, start.Add(11*time.Second))

	// THEN
	assert.Equal(t, 1000, atDwell)
	assert.Equal(t, 2000, afterDwell)
	assert.Equal(t, start.Add(11*time.Second), evaluator.State().LastChange)
}

func TestEvaluator_Falling(t *testing.T) {
	// GIVEN
	evaluator := NewEvaluator(createCurve(t, defaultPoints()...), 0, time.Second)
	evaluator.Evaluate(85, start)

	// WHEN
	target, _ := evaluator.Evaluate(30, start.Add(time.Second))

	// THEN
	assert.Equal(t, 0, target)
}
