package cmd

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/mgutz/ansi"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
	"github.com/vulnx/pankha/cmd/global"
	"github.com/vulnx/pankha/internal/hwmon"
	"github.com/vulnx/pankha/internal/ui"
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Detect temperature sensors",
	Long:  `Lists all hwmon chips and their temperature features, use the names to configure a hwmon sensor`,
	Run: func(cmd *cobra.Command, args []string) {
		chips := hwmon.GetChips()

		tableConfig := &table.Config{
			ShowIndex:       false,
			Color:           !global.NoColor,
			AlternateColors: true,
			TitleColorCode:  ansi.ColorCode("white+buf"),
			AltColorCodes: []string{
				ansi.ColorCode("white"),
				ansi.ColorCode("white:236"),
			},
		}

		for _, chip := range chips {
			if len(chip.Name) <= 0 || len(chip.Sensors) <= 0 {
				continue
			}

			ui.Printfln("> %s", chip.Name)

			var rows [][]string
			for _, sensor := range chip.Sensors {
				_, file := filepath.Split(sensor.Input)
				rows = append(rows, []string{
					"", strconv.Itoa(sensor.Index), sensor.Label, file, fmt.Sprintf("%.1f°", sensor.Value),
				})
			}

			tab := table.Table{
				Headers: []string{"Sensors", "Index", "Label", "File", "Value"},
				Rows:    rows,
			}
			var buf bytes.Buffer
			if err := tab.WriteTable(&buf, tableConfig); err != nil {
				ui.Fatal("Error printing table: %v", err)
			}
			ui.Printfln("%s", buf.String())
		}
	},
}

func init() {
	rootCmd.AddCommand(detectCmd)
}
