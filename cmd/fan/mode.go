package fan

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/vulnx/pankha/internal/fans"
)

var modeCmd = &cobra.Command{
	Use:   "mode [auto|manual]",
	Short: "Get/Set the controller mode of a fan",
	Long:  ``,
	Args:  cobra.RangeArgs(0, 1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pterm.DisableOutput()

		fan, err := getFan(fanId)
		if err != nil {
			return err
		}

		if len(args) > 0 {
			mode, err := fans.ParseControlMode(args[0])
			if err != nil {
				return fmt.Errorf("%w, must be one of: 'auto', 'manual', 0, 1", err)
			}
			if err = fan.SetControlMode(mode); err != nil {
				return err
			}
		}

		mode, err := fan.GetControlMode()
		if err != nil {
			return err
		}

		switch mode {
		case fans.ControlModeAuto:
			fmt.Printf("Automatic control by the BIOS (%d)", mode)
		case fans.ControlModeManual:
			fmt.Printf("Manual control, gives pankha control (%d)", mode)
		default:
			fmt.Printf("Unknown (%d)", mode)
		}

		return nil
	},
}

func init() {
	Command.AddCommand(modeCmd)
}
