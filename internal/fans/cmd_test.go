package fans

import (
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vulnx/pankha/internal/configuration"
)

func getEchoPath() string {
	// unlikely to fail
	p, _ := exec.LookPath("echo")
	return p
}

func TestCmdFan_NewFan(t *testing.T) {
	// GIVEN
	config := configuration.FanConfig{
		Cmd: &configuration.CmdFanConfig{},
	}

	// WHEN
	fan, err := NewFan(config)

	// THEN
	assert.NoError(t, err)
	assert.IsType(t, &CmdFan{}, fan)
}

func TestCmdFan_GetId(t *testing.T) {
	// GIVEN
	id := "test"
	config := configuration.FanConfig{
		ID:  id,
		Cmd: &configuration.CmdFanConfig{},
	}
	fan, _ := NewFan(config)

	// WHEN
	result := fan.GetId()

	// THEN
	assert.Equal(t, id, result)
}

func TestCmdFan_GetSpeed(t *testing.T) {
	// GIVEN
	config := configuration.FanConfig{
		Cmd: &configuration.CmdFanConfig{
			GetSpeed: &configuration.ExecConfig{
				Exec: getEchoPath(),
				Args: []string{"2300"},
			},
		},
	}
	fan, _ := NewFan(config)

	// WHEN
	result, err := fan.GetSpeed()

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, 2300, result)
}

func TestCmdFan_GetSpeed_CommandError(t *testing.T) {
	// GIVEN
	config := configuration.FanConfig{
		Cmd: &configuration.CmdFanConfig{
			GetSpeed: &configuration.ExecConfig{
				Exec: "/usr/bin/does_not_exist",
			},
		},
	}
	fan, _ := NewFan(config)

	// WHEN
	result, err := fan.GetSpeed()

	// THEN
	assert.ErrorIs(t, err, ErrDevice)
	assert.Equal(t, 0, result)
}

func TestCmdFan_GetSpeed_ParseError(t *testing.T) {
	// GIVEN
	config := configuration.FanConfig{
		Cmd: &configuration.CmdFanConfig{
			GetSpeed: &configuration.ExecConfig{
				Exec: getEchoPath(),
				Args: []string{"not_a_number"},
			},
		},
	}
	fan, _ := NewFan(config)

	// WHEN
	result, err := fan.GetSpeed()

	// THEN
	assert.ErrorIs(t, err, ErrDevice)
	assert.Equal(t, 0, result)
}

func TestCmdFan_SetSpeed(t *testing.T) {
	// GIVEN
	config := configuration.FanConfig{
		Cmd: &configuration.CmdFanConfig{
			SetSpeed: &configuration.ExecConfig{
				Exec: getEchoPath(),
				Args: []string{"%speed%"},
			},
		},
	}
	fan, _ := NewFan(config)

	// WHEN
	err := fan.SetSpeed(1500)

	// THEN
	assert.NoError(t, err)
}

func TestCmdFan_SetSpeed_CommandError(t *testing.T) {
	// GIVEN
	config := configuration.FanConfig{
		Cmd: &configuration.CmdFanConfig{
			SetSpeed: &configuration.ExecConfig{
				Exec: "/usr/bin/does_not_exist",
			},
		},
	}
	fan, _ := NewFan(config)

	// WHEN
	err := fan.SetSpeed(1500)

	// THEN
	assert.ErrorIs(t, err, ErrDevice)
}

func TestCmdFan_GetControlMode_NotConfigured(t *testing.T) {
	// GIVEN
	config := configuration.FanConfig{
		Cmd: &configuration.CmdFanConfig{},
	}
	fan, _ := NewFan(config)

	// WHEN
	mode, err := fan.GetControlMode()

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, ControlModeManual, mode)
	assert.NoError(t, fan.SetControlMode(ControlModeAuto))
}

func TestCmdFan_GetControlMode(t *testing.T) {
	// GIVEN
	config := configuration.FanConfig{
		Cmd: &configuration.CmdFanConfig{
			GetMode: &configuration.ExecConfig{
				Exec: getEchoPath(),
				Args: []string{"0"},
			},
		},
	}
	fan, _ := NewFan(config)

	// WHEN
	mode, err := fan.GetControlMode()

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, ControlModeAuto, mode)
}

func TestReplacePlaceholder(t *testing.T) {
	// WHEN
	result := replacePlaceholder([]string{"--speed", "%speed%", "rpm=%speed%"}, "%speed%", 2000)

	// THEN
	assert.Equal(t, []string{"--speed", "2000", "rpm=2000"}, result)
}
