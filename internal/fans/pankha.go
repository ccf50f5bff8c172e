//go:build linux

package fans

import (
	"sync"

	"github.com/vulnx/pankha/internal/configuration"
	"golang.org/x/sys/unix"
)

// ioctl requests of the pankha kernel module, _IOR/_IOW('P', n, int)
const (
	ioctlGetFanSpeed   = 0x80045001
	ioctlGetController = 0x80045002
	ioctlSetController = 0x40045003
	ioctlSetFanSpeed   = 0x40045004
)

// PankhaFan talks to the HP OMEN embedded controller through the pankha character device
type PankhaFan struct {
	Config configuration.FanConfig `json:"config"`

	mu sync.Mutex
	fd int
	// open is false until the device has been opened successfully
	open bool
}

func (fan *PankhaFan) GetId() string {
	return fan.Config.ID
}

func (fan *PankhaFan) GetConfig() configuration.FanConfig {
	return fan.Config
}

// handle returns the file descriptor of the device, opening it on first use.
// must be called with fan.mu held
func (fan *PankhaFan) handle() (int, error) {
	if fan.open {
		return fan.fd, nil
	}
	fd, err := unix.Open(fan.Config.Pankha.Path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return -1, err
	}
	fan.fd = fd
	fan.open = true
	return fd, nil
}

func (fan *PankhaFan) GetSpeed() (int, error) {
	fan.mu.Lock()
	defer fan.mu.Unlock()

	fd, err := fan.handle()
	if err != nil {
		return 0, deviceError(fan, "open", err)
	}
	speed, err := unix.IoctlGetInt(fd, ioctlGetFanSpeed)
	if err != nil {
		return 0, deviceError(fan, "get speed", err)
	}
	return speed, nil
}

func (fan *PankhaFan) SetSpeed(speed int) error {
	fan.mu.Lock()
	defer fan.mu.Unlock()

	fd, err := fan.handle()
	if err != nil {
		return deviceError(fan, "open", err)
	}
	if err := unix.IoctlSetInt(fd, ioctlSetFanSpeed, speed); err != nil {
		return deviceError(fan, "set speed", err)
	}
	return nil
}

func (fan *PankhaFan) GetControlMode() (ControlMode, error) {
	fan.mu.Lock()
	defer fan.mu.Unlock()

	fd, err := fan.handle()
	if err != nil {
		return ControlModeAuto, deviceError(fan, "open", err)
	}
	value, err := unix.IoctlGetInt(fd, ioctlGetController)
	if err != nil {
		return ControlModeAuto, deviceError(fan, "get controller", err)
	}
	// the driver only writes a single byte
	return ControlMode(value & 0xff), nil
}

func (fan *PankhaFan) SetControlMode(mode ControlMode) error {
	fan.mu.Lock()
	defer fan.mu.Unlock()

	fd, err := fan.handle()
	if err != nil {
		return deviceError(fan, "open", err)
	}
	if err := unix.IoctlSetInt(fd, ioctlSetController, int(mode)); err != nil {
		return deviceError(fan, "set controller", err)
	}
	return nil
}

// Close releases the device handle, it is reopened on the next command
func (fan *PankhaFan) Close() error {
	fan.mu.Lock()
	defer fan.mu.Unlock()

	if !fan.open {
		return nil
	}
	fan.open = false
	return unix.Close(fan.fd)
}
