package hwmon

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/md14454/gosensors"
	"github.com/vulnx/pankha/internal/configuration"
)

const (
	BusTypeIsa  = 1
	BusTypePci  = 2
	BusTypeAcpi = 5
)

var ErrNoMatchingSensor = errors.New("no hwmon temperature sensor matched sensor config")

// HwMonController is a chip detected by lm-sensors, limited to its temperature features
type HwMonController struct {
	Name string
	Path string

	Sensors []*TempSensor
}

// TempSensor is a single temperature feature of a chip
type TempSensor struct {
	Index int
	// Name of the feature, e.g. "temp1"
	Name string
	// Label of the feature, e.g. "Tctl", falls back to Name
	Label string
	// Input is the sysfs file holding the value in millidegrees
	Input string
	// Value in degrees at the time of detection
	Value float64
}

func GetChips() []*HwMonController {
	gosensors.Init()
	defer gosensors.Cleanup()
	chips := gosensors.GetDetectedChips()

	var list []*HwMonController

	for i := 0; i < len(chips); i++ {
		chip := chips[i]

		sensorList := getTempSensors(chip)
		if len(sensorList) <= 0 {
			continue
		}

		list = append(list, &HwMonController{
			Name:    computeIdentifier(chip),
			Path:    chip.Path,
			Sensors: sensorList,
		})
	}

	return list
}

func getTempSensors(chip gosensors.Chip) []*TempSensor {
	var sensorList []*TempSensor

	features := chip.GetFeatures()
	for j := 0; j < len(features); j++ {
		feature := features[j]

		if feature.Type != gosensors.FeatureTypeTemp {
			continue
		}

		input, ok := findSubFeature(feature.GetSubFeatures(), gosensors.SubFeatureTypeTempInput)
		if !ok {
			continue
		}

		label := getLabel(chip.Path, input.Name)
		if len(label) <= 0 {
			label = feature.Name
		}

		sensorList = append(sensorList, &TempSensor{
			Index: len(sensorList) + 1,
			Name:  feature.Name,
			Label: label,
			Input: filepath.Join(chip.Path, input.Name),
			Value: input.GetValue(),
		})
	}

	return sensorList
}

func findSubFeature(subfeatures []gosensors.SubFeature, t gosensors.SubFeatureType) (gosensors.SubFeature, bool) {
	for _, s := range subfeatures {
		if s.Type == t {
			return s, true
		}
	}
	return gosensors.SubFeature{}, false
}

// getLabel reads the label file next to the given input file, e.g. temp1_label for temp1_input
func getLabel(devicePath string, input string) string {
	labelPath := filepath.Join(devicePath, strings.TrimSuffix(input, "input")+"label")
	content, err := os.ReadFile(labelPath)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(content))
}

// computeIdentifier builds the chip name the way `sensors` prints it, e.g. "k10temp-pci-00c3"
func computeIdentifier(chip gosensors.Chip) string {
	name := chip.Prefix
	if len(name) <= 0 {
		_, name = filepath.Split(chip.Path)
	}

	switch chip.Bus.Type {
	case BusTypeIsa:
		return fmt.Sprintf("%s-isa-%04x", name, chip.Addr)
	case BusTypePci:
		return fmt.Sprintf("%s-pci-%04x", name, chip.Addr)
	case BusTypeAcpi:
		return fmt.Sprintf("%s-acpi-%d", name, chip.Bus.Nr)
	}
	return name
}

// FindTempInput returns the input file of the first temperature feature whose chip name
// matches chipPattern and whose label or name matches featurePattern.
func FindTempInput(chips []*HwMonController, chipPattern string, featurePattern string) (string, error) {
	chipRegex, err := regexp.Compile(chipPattern)
	if err != nil {
		return "", fmt.Errorf("invalid chip pattern %s: %w", chipPattern, err)
	}
	featureRegex, err := regexp.Compile(featurePattern)
	if err != nil {
		return "", fmt.Errorf("invalid feature pattern %s: %w", featurePattern, err)
	}

	for _, chip := range chips {
		if !chipRegex.MatchString(chip.Name) {
			continue
		}
		for _, sensor := range chip.Sensors {
			if featureRegex.MatchString(sensor.Label) || featureRegex.MatchString(sensor.Name) {
				return sensor.Input, nil
			}
		}
	}

	return "", ErrNoMatchingSensor
}

// UpdateSensorConfigFromHwMonControllers resolves the temp input of the given sensor config
func UpdateSensorConfigFromHwMonControllers(chips []*HwMonController, config *configuration.HwMonSensorConfig) error {
	input, err := FindTempInput(chips, config.Chip, config.Feature)
	if err != nil {
		return err
	}
	config.TempInput = input
	return nil
}
