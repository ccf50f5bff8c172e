package configuration

const (
	// chips and features the CPU temperature is usually exposed on (AMD, ACPI thermal zone)
	DefaultHwMonChip    = "^(k10temp-.*|acpitz-acpi-0)$"
	DefaultHwMonFeature = "^(Tctl|Tdie|temp1)$"
)

type SensorConfig struct {
	ID    string             `json:"id"`
	HwMon *HwMonSensorConfig `json:"hwmon,omitempty"`
	File  *FileSensorConfig  `json:"file,omitempty"`
	Cmd   *CmdSensorConfig   `json:"cmd,omitempty"`
}

type HwMonSensorConfig struct {
	// Chip is a regex matched against lm-sensors chip names, e.g. "k10temp-pci-00c3"
	Chip string `json:"chip"`
	// Feature is a regex matched against the feature labels of the chip, e.g. "Tctl"
	Feature string `json:"feature"`
	// TempInput is the resolved sysfs input file, set during initialization
	TempInput string `json:"-"`
}

type FileSensorConfig struct {
	// Path of a file containing the temperature in millidegrees
	Path string `json:"path"`
}

type CmdSensorConfig struct {
	// Exec prints the temperature in degrees to stdout
	Exec string   `json:"exec"`
	Args []string `json:"args"`
}

func setSensorDefaults(config *SensorConfig) {
	if config.HwMon == nil {
		return
	}
	if len(config.HwMon.Chip) <= 0 {
		config.HwMon.Chip = DefaultHwMonChip
	}
	if len(config.HwMon.Feature) <= 0 {
		config.HwMon.Feature = DefaultHwMonFeature
	}
}
