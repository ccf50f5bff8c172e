package curve

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/guptarohit/asciigraph"
	"github.com/mgutz/ansi"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
	"github.com/vulnx/pankha/cmd/global"
	"github.com/vulnx/pankha/internal/configuration"
	"github.com/vulnx/pankha/internal/curves"
	"github.com/vulnx/pankha/internal/ui"
)

// temperatures below/above the first/last point added to the graph
const graphMargin = 10

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the configured speed curve(s) to console",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := configuration.DetectAndReadConfigFile()
		ui.Info("Using configuration file at: %s", configPath)
		configuration.LoadConfig()

		err := configuration.Validate(configPath)
		if err != nil {
			ui.FatalWithoutStacktrace("%v", err)
		}

		curveConfigs, err := getCurveConfigs(curveId, configuration.CurrentConfig.Curves)
		if err != nil {
			return err
		}

		for idx, curveConf := range curveConfigs {
			if idx > 0 {
				ui.Printfln("")
				ui.Printfln("")
			}

			curve, err := curves.NewSpeedCurve(curveConf)
			if err != nil {
				return err
			}

			// print table
			rows := [][]string{}
			for _, point := range curve.Points {
				rows = append(rows, []string{fmt.Sprintf("%d°", point.Temp), strconv.Itoa(point.Speed)})
			}
			tab := table.Table{
				Headers: []string{"Temp", "Speed"},
				Rows:    rows,
			}
			var buf bytes.Buffer
			tableErr := tab.WriteTable(&buf, &table.Config{
				ShowIndex:       false,
				Color:           !global.NoColor,
				AlternateColors: true,
				TitleColorCode:  ansi.ColorCode("white+buf"),
				AltColorCodes: []string{
					ansi.ColorCode("white"),
					ansi.ColorCode("white:236"),
				},
			})
			if tableErr != nil {
				return tableErr
			}
			ui.Printfln("%s (sensor: %s)", curve.GetId(), curve.SensorId)
			ui.Printfln("%s", buf.String())

			// print graph
			values := graphValues(curve)
			caption := fmt.Sprintf("Speed / Temp (%d° .. %d°)", curve.Points[0].Temp-graphMargin, curve.Points[len(curve.Points)-1].Temp+graphMargin)
			graph := asciigraph.Plot(values, asciigraph.Height(15), asciigraph.Width(100), asciigraph.Caption(caption))
			ui.Printfln("%s", graph)
		}

		return nil
	},
}

// graphValues evaluates the curve for every degree between its first and last point, plus a margin
func graphValues(curve *curves.SpeedCurve) []float64 {
	start := curve.Points[0].Temp - graphMargin
	stop := curve.Points[len(curve.Points)-1].Temp + graphMargin

	values := make([]float64, 0, stop-start+1)
	for temp := start; temp <= stop; temp++ {
		values = append(values, float64(curve.Lookup(temp)))
	}
	return values
}

func init() {
	Command.AddCommand(listCmd)
}
