package curve

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vulnx/pankha/internal/configuration"
)

var curveId string

var Command = &cobra.Command{
	Use:              "curve",
	Short:            "Curve related commands",
	TraverseChildren: true,
}

func init() {
	Command.PersistentFlags().StringVarP(
		&curveId,
		"id", "i",
		"",
		"Curve ID as specified in the config",
	)
}

func getCurveConfigs(id string, curves []configuration.CurveConfig) ([]configuration.CurveConfig, error) {
	if len(id) <= 0 {
		return curves, nil
	}

	availableCurveIds := []string{}
	for _, curveConf := range curves {
		availableCurveIds = append(availableCurveIds, curveConf.ID)
		if id == curveConf.ID {
			return []configuration.CurveConfig{curveConf}, nil
		}
	}

	return nil, fmt.Errorf("no curve with id found: %s, options: %s", id, availableCurveIds)
}
