package sensor

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/vulnx/pankha/internal/configuration"
	"github.com/vulnx/pankha/internal/hwmon"
	"github.com/vulnx/pankha/internal/sensors"
	"github.com/vulnx/pankha/internal/ui"
)

var sensorId string

var Command = &cobra.Command{
	Use:              "sensor",
	Short:            "Print the current temperature of a sensor",
	Long:             ``,
	TraverseChildren: true,
	Args:             cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pterm.DisableOutput()

		sensor, err := getSensor(sensorId)
		if err != nil {
			return err
		}

		value, err := sensor.GetValue()
		if err != nil {
			return err
		}
		fmt.Printf("%d", int(value))
		return nil
	},
}

func init() {
	Command.PersistentFlags().StringVarP(
		&sensorId,
		"id", "i",
		"",
		"Sensor ID as specified in the config",
	)
	_ = Command.MarkPersistentFlagRequired("id")
}

func getSensor(id string) (sensors.Sensor, error) {
	configPath := configuration.DetectAndReadConfigFile()
	ui.Info("Using configuration file at: %s", configPath)
	configuration.LoadConfig()
	err := configuration.Validate(configPath)
	if err != nil {
		ui.FatalWithoutStacktrace("%v", err)
	}

	availableSensorIds := []string{}
	for _, config := range configuration.CurrentConfig.Sensors {
		availableSensorIds = append(availableSensorIds, config.ID)
		if config.ID != id {
			continue
		}

		if config.HwMon != nil {
			hwMonConfig := *config.HwMon
			err := hwmon.UpdateSensorConfigFromHwMonControllers(hwmon.GetChips(), &hwMonConfig)
			if err != nil {
				return nil, fmt.Errorf("unable to find temp input for sensor %s: %w", id, err)
			}
			config.HwMon = &hwMonConfig
		}

		return sensors.NewSensor(config)
	}

	return nil, fmt.Errorf("no sensor with id found: %s, options: %s", id, availableSensorIds)
}
