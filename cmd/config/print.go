package config

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var printCmd = &cobra.Command{
	Use:   "print",
	Short: "Prints the effective configuration, including defaults and environment overrides",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pterm.DisableOutput()

		// a missing config file is fine here, the defaults are printed instead
		_ = viper.ReadInConfig()

		out, err := renderSettings(viper.AllSettings())
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	},
}

func renderSettings(settings map[string]any) (string, error) {
	out, err := yaml.Marshal(settings)
	if err != nil {
		return "", fmt.Errorf("unable to render configuration: %w", err)
	}
	return string(out), nil
}

func init() {
	Command.AddCommand(printCmd)
}
