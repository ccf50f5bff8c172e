package fans

import (
	"errors"
	"fmt"
	"strings"

	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/vulnx/pankha/internal/configuration"
)

type ControlMode int

const (
	// ControlModeAuto leaves fan control to the BIOS / embedded controller
	ControlModeAuto ControlMode = 0
	// ControlModeManual enables fixed speed control by the user
	ControlModeManual ControlMode = 1
)

func (m ControlMode) String() string {
	switch m {
	case ControlModeAuto:
		return "auto"
	case ControlModeManual:
		return "manual"
	}
	return fmt.Sprintf("unknown(%d)", int(m))
}

func ParseControlMode(value string) (ControlMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "auto", "bios", "0":
		return ControlModeAuto, nil
	case "manual", "user", "1":
		return ControlModeManual, nil
	}
	return ControlModeAuto, fmt.Errorf("unknown control mode: %s", value)
}

// ErrDevice is wrapped by every error caused by a failed device command
var ErrDevice = errors.New("device command failed")

var (
	FanMap = cmap.New[Fan]()
)

type Fan interface {
	GetId() string

	GetConfig() configuration.FanConfig

	// GetSpeed returns the current speed of this fan in RPM
	GetSpeed() (int, error)
	// SetSpeed sets the target speed of this fan in RPM, requires ControlModeManual
	SetSpeed(speed int) error

	// GetControlMode returns which controller currently drives the fan
	GetControlMode() (ControlMode, error)
	SetControlMode(mode ControlMode) error
}

func NewFan(config configuration.FanConfig) (Fan, error) {
	if config.Pankha != nil {
		return &PankhaFan{
			Config: config,
		}, nil
	}

	if config.File != nil {
		return &FileFan{
			Config: config,
		}, nil
	}

	if config.Cmd != nil {
		return &CmdFan{
			Config: config,
		}, nil
	}

	return nil, fmt.Errorf("no matching fan type for fan: %s", config.ID)
}

// GetFan returns the registered fan with the given id
func GetFan(id string) (Fan, error) {
	fan, ok := FanMap.Get(id)
	if !ok {
		return nil, fmt.Errorf("fan with id '%s' not found", id)
	}
	return fan, nil
}

func deviceError(fan Fan, op string, err error) error {
	return fmt.Errorf("%w: fan %s: %s: %w", ErrDevice, fan.GetId(), op, err)
}
