package fan

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/vulnx/pankha/internal/controller"
	"github.com/vulnx/pankha/internal/notify"
)

var speedCmd = &cobra.Command{
	Use:   "speed [target]",
	Short: "Get the current speed of a fan, or ramp it to the given target speed (RPM)",
	Long: `Without arguments the current speed is printed.
With a target the fan is switched to manual control and ramped towards the target in steps.
Use "pankha fan mode auto" or "pankha fan reset" to hand the fan back to the BIOS.`,
	Args: cobra.RangeArgs(0, 1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) <= 0 {
			pterm.DisableOutput()
		}

		fan, err := getFan(fanId)
		if err != nil {
			return err
		}

		if len(args) <= 0 {
			speed, err := fan.GetSpeed()
			if err != nil {
				return err
			}
			fmt.Printf("%d", speed)
			return nil
		}

		target, err := strconv.Atoi(args[0])
		if err != nil {
			return err
		}

		sink := &rampResultSink{}
		ramp := controller.NewRamp(fan, notify.Multi{notify.LogSink{}, sink})
		if err = ramp.RampTo(target); err != nil {
			return err
		}
		ramp.Wait()

		return sink.err
	},
}

// rampResultSink keeps the error of a failed ramp
type rampResultSink struct {
	notify.Discard
	err error
}

func (s *rampResultSink) RampFailed(fanId string, target int, err error) {
	s.err = err
}

func init() {
	Command.AddCommand(speedCmd)
}
