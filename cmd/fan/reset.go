package fan

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/vulnx/pankha/internal/configuration"
	"github.com/vulnx/pankha/internal/fans"
	"github.com/vulnx/pankha/internal/persistence"
	"github.com/vulnx/pankha/internal/ui"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Hand a fan back to the controller mode it had before pankha took over",
	Long: `Restores the controller mode stored by the daemon and deletes the stored state.
This is only necessary if the daemon did not shut down cleanly.
If no state is stored, the fan is handed to the BIOS.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fan, err := getFan(fanId)
		if err != nil {
			return err
		}

		dbPath := configuration.CurrentConfig.DbPath
		ui.Info("Using persistence at: %s", dbPath)

		p := persistence.NewPersistence(dbPath)
		if err = p.Init(); err != nil {
			return err
		}

		mode := fans.ControlModeAuto
		state, err := p.LoadOriginalState(fan.GetId())
		switch {
		case err == nil:
			ui.Info("Found original state from %s", state.SavedAt.Format("2006-01-02 15:04:05"))
			mode = state.Mode
		case errors.Is(err, persistence.ErrNotFound):
			ui.Info("No original state stored, handing fan to the BIOS")
		default:
			return err
		}

		if err = fan.SetControlMode(mode); err != nil {
			return err
		}
		err = p.DeleteOriginalState(fan.GetId())

		if err == nil {
			ui.Success("Fan %s is in '%s' mode", fan.GetId(), mode)
		}

		return err
	},
}

func init() {
	Command.AddCommand(resetCmd)
}
