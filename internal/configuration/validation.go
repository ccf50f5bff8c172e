package configuration

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/vulnx/pankha/internal/ui"
	"github.com/vulnx/pankha/internal/util"
	"golang.org/x/exp/slices"
)

func Validate(configPath string) error {
	return validateConfig(&CurrentConfig, configPath)
}

func validateConfig(config *Configuration, path string) error {
	err := validatePolling(config)
	if err != nil {
		return err
	}
	err = validateSensors(config)
	if err != nil {
		return err
	}
	err = validateCurves(config)
	if err != nil {
		return err
	}
	err = validateFans(config)
	if err != nil {
		return err
	}

	if containsCmdConfigs(config) {
		if _, err := util.CheckFilePermissionsForExecution(path); err != nil {
			return fmt.Errorf("config file '%s' has invalid permissions: %w", path, err)
		}
	}

	return nil
}

func validatePolling(config *Configuration) error {
	if config.TempSensorPollingRate <= 0 {
		return fmt.Errorf("tempSensorPollingRate must be positive, got: %s", config.TempSensorPollingRate)
	}
	if config.SpeedPollingRate <= 0 {
		return fmt.Errorf("speedPollingRate must be positive, got: %s", config.SpeedPollingRate)
	}
	if config.TempRollingWindowSize < 1 {
		return fmt.Errorf("tempRollingWindowSize must be at least 1, got: %d", config.TempRollingWindowSize)
	}
	return nil
}

func containsCmdConfigs(config *Configuration) bool {
	for _, sensorConfig := range config.Sensors {
		if sensorConfig.Cmd != nil {
			return true
		}
	}
	for _, fanConfig := range config.Fans {
		if fanConfig.Cmd != nil {
			return true
		}
	}
	return false
}

func validateSensors(config *Configuration) error {
	var ids []string
	for _, sensorConfig := range config.Sensors {
		ids = append(ids, sensorConfig.ID)
	}
	if duplicate, found := util.FindDuplicate(ids); found {
		return fmt.Errorf("duplicate sensor id detected: %s", duplicate)
	}

	for _, sensorConfig := range config.Sensors {
		if len(sensorConfig.ID) <= 0 {
			return errors.New("sensor: missing id")
		}

		subConfigs := 0
		if sensorConfig.HwMon != nil {
			subConfigs++
		}
		if sensorConfig.File != nil {
			subConfigs++
		}
		if sensorConfig.Cmd != nil {
			subConfigs++
		}
		if subConfigs > 1 {
			return fmt.Errorf("sensor %s: only one sensor type can be used per sensor definition block", sensorConfig.ID)
		}
		if subConfigs <= 0 {
			return fmt.Errorf("sensor %s: sub-configuration for sensor is missing, use one of: hwmon | file | cmd", sensorConfig.ID)
		}

		if !isSensorConfigInUse(sensorConfig, config.Curves) {
			ui.Warning("Unused sensor configuration: %s", sensorConfig.ID)
		}

		if sensorConfig.HwMon != nil {
			if _, err := regexp.Compile(sensorConfig.HwMon.Chip); err != nil {
				return fmt.Errorf("sensor %s: invalid chip pattern: %w", sensorConfig.ID, err)
			}
			if _, err := regexp.Compile(sensorConfig.HwMon.Feature); err != nil {
				return fmt.Errorf("sensor %s: invalid feature pattern: %w", sensorConfig.ID, err)
			}
		}

		if sensorConfig.File != nil && len(sensorConfig.File.Path) <= 0 {
			return fmt.Errorf("sensor %s: no file path provided", sensorConfig.ID)
		}

		if sensorConfig.Cmd != nil && len(sensorConfig.Cmd.Exec) <= 0 {
			return fmt.Errorf("sensor %s: no executable provided", sensorConfig.ID)
		}
	}

	return nil
}

func isSensorConfigInUse(config SensorConfig, curves []CurveConfig) bool {
	for _, curveConfig := range curves {
		if curveConfig.Sensor == config.ID {
			return true
		}
	}
	return false
}

func validateCurves(config *Configuration) error {
	var ids []string
	for _, curveConfig := range config.Curves {
		ids = append(ids, curveConfig.ID)
	}
	if duplicate, found := util.FindDuplicate(ids); found {
		return fmt.Errorf("duplicate curve id detected: %s", duplicate)
	}

	sensorIds := make([]string, 0, len(config.Sensors))
	for _, sensorConfig := range config.Sensors {
		sensorIds = append(sensorIds, sensorConfig.ID)
	}

	for _, curveConfig := range config.Curves {
		if len(curveConfig.ID) <= 0 {
			return errors.New("curve: missing id")
		}

		if !isCurveConfigInUse(curveConfig, config.Fans) {
			ui.Warning("Unused curve configuration: %s", curveConfig.ID)
		}

		if len(curveConfig.Sensor) <= 0 {
			return fmt.Errorf("curve %s: missing sensor id", curveConfig.ID)
		}
		if !slices.Contains(sensorIds, curveConfig.Sensor) {
			return fmt.Errorf("curve %s: no sensor definition with id '%s' found", curveConfig.ID, curveConfig.Sensor)
		}

		if err := validateCurvePoints(curveConfig.Points); err != nil {
			return fmt.Errorf("curve %s: %w", curveConfig.ID, err)
		}
	}

	return nil
}

func validateCurvePoints(points CurvePoints) error {
	if len(points) <= 0 {
		return errors.New("no curve points defined")
	}
	for idx, point := range points {
		if point.Speed < 0 {
			return fmt.Errorf("speed of point (%d°, %d) must not be negative", point.Temp, point.Speed)
		}
		if idx > 0 && point.Temp <= points[idx-1].Temp {
			return fmt.Errorf("temperatures must be strictly increasing, but %d° follows %d°", point.Temp, points[idx-1].Temp)
		}
	}
	return nil
}

func isCurveConfigInUse(config CurveConfig, fans []FanConfig) bool {
	for _, fanConfig := range fans {
		if fanConfig.Curve == config.ID {
			return true
		}
	}
	return false
}

func findCurveConfig(curveId string, config *Configuration) *CurveConfig {
	for i := range config.Curves {
		if config.Curves[i].ID == curveId {
			return &config.Curves[i]
		}
	}
	return nil
}

func validateFans(config *Configuration) error {
	var ids []string
	for _, fanConfig := range config.Fans {
		ids = append(ids, fanConfig.ID)
	}
	if duplicate, found := util.FindDuplicate(ids); found {
		return fmt.Errorf("duplicate fan id detected: %s", duplicate)
	}

	for _, fanConfig := range config.Fans {
		if len(fanConfig.ID) <= 0 {
			return errors.New("fan: missing id")
		}

		subConfigs := 0
		if fanConfig.Pankha != nil {
			subConfigs++
		}
		if fanConfig.File != nil {
			subConfigs++
		}
		if fanConfig.Cmd != nil {
			subConfigs++
		}
		if subConfigs > 1 {
			return fmt.Errorf("fan %s: only one fan type can be used per fan definition block", fanConfig.ID)
		}
		if subConfigs <= 0 {
			return fmt.Errorf("fan %s: sub-configuration for fan is missing, use one of: pankha | file | cmd", fanConfig.ID)
		}

		if err := validateFanSpeedSettings(fanConfig); err != nil {
			return fmt.Errorf("fan %s: %w", fanConfig.ID, err)
		}

		if len(fanConfig.Curve) <= 0 {
			return fmt.Errorf("fan %s: missing curve definition in configuration entry", fanConfig.ID)
		}
		curveConfig := findCurveConfig(fanConfig.Curve, config)
		if curveConfig == nil {
			return fmt.Errorf("fan %s: no curve definition with id '%s' found", fanConfig.ID, fanConfig.Curve)
		}
		if err := validateCurveForFan(*curveConfig, fanConfig); err != nil {
			return fmt.Errorf("fan %s: curve %s: %w", fanConfig.ID, curveConfig.ID, err)
		}

		if fanConfig.File != nil && len(fanConfig.File.Path) <= 0 {
			return fmt.Errorf("fan %s: no file path provided", fanConfig.ID)
		}

		if fanConfig.Cmd != nil {
			if fanConfig.Cmd.GetSpeed == nil || len(fanConfig.Cmd.GetSpeed.Exec) <= 0 {
				return fmt.Errorf("fan %s: missing getSpeed executable", fanConfig.ID)
			}
			if fanConfig.Cmd.SetSpeed == nil || len(fanConfig.Cmd.SetSpeed.Exec) <= 0 {
				return fmt.Errorf("fan %s: missing setSpeed executable", fanConfig.ID)
			}
		}
	}

	return nil
}

func validateFanSpeedSettings(fanConfig FanConfig) error {
	if fanConfig.Step <= 0 {
		return fmt.Errorf("step must be > 0, got %d", fanConfig.Step)
	}
	if fanConfig.MaxSpeed <= 0 {
		return fmt.Errorf("maxSpeed must be > 0, got %d", fanConfig.MaxSpeed)
	}
	if fanConfig.MinSpeed < 0 || fanConfig.MinSpeed > fanConfig.MaxSpeed {
		return fmt.Errorf("minSpeed must be in [0..%d], got %d", fanConfig.MaxSpeed, fanConfig.MinSpeed)
	}
	if fanConfig.StepDelay <= 0 {
		return fmt.Errorf("stepDelay must be > 0, got %s", fanConfig.StepDelay)
	}
	if fanConfig.Hysteresis.Margin < 0 {
		return fmt.Errorf("hysteresis margin must not be negative, got %d", fanConfig.Hysteresis.Margin)
	}
	if fanConfig.GetDwell() < 0 {
		return fmt.Errorf("hysteresis dwell must not be negative, got %s", fanConfig.GetDwell())
	}
	return nil
}

// validateCurveForFan makes sure every speed of the curve is a valid ramp target of the fan
func validateCurveForFan(curveConfig CurveConfig, fanConfig FanConfig) error {
	for _, point := range curveConfig.Points {
		if point.Speed < fanConfig.MinSpeed || point.Speed > fanConfig.MaxSpeed {
			return fmt.Errorf("speed %d of point %d° is out of range [%d..%d]", point.Speed, point.Temp, fanConfig.MinSpeed, fanConfig.MaxSpeed)
		}
		if point.Speed%fanConfig.Step != 0 {
			return fmt.Errorf("speed %d of point %d° is not a multiple of step %d", point.Speed, point.Temp, fanConfig.Step)
		}
	}
	return nil
}
