package config

import (
	"fmt"
	"os"

	"github.com/markusressel/steer2go/cmd/global"
	"github.com/markusressel/steer2go/internal/configuration"
	"github.com/markusressel/steer2go/internal/ui"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validates the current configuration",
	Long:  `Validates the current configuration and prints a summary of the configured controllers.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// note: config file path parameter comes from the root command (-c)
		configPath := configuration.DetectConfigFile()
		ui.Info("Using configuration file at: %s", configPath)
		configuration.LoadConfig()

		if err := configuration.Validate(); err != nil {
			ui.Error("Validation failed: %v", err)
			os.Exit(1)
		}

		printControllers(configuration.CurrentConfig.Controllers)
		ui.Success("Config looks good! :)")
		return nil
	},
}

func printControllers(controllers []configuration.ControllerConfig) {
	var rows [][]string
	for _, c := range controllers {
		tuner := "-"
		if c.Tuner != nil {
			tuner = fmt.Sprintf("%s (enabled: %t)", valueOrDefault(c.Tuner.Evaluation, configuration.EvaluationContinuous), c.Tuner.Enabled.Get())
		}
		rows = append(rows, []string{
			c.ID,
			c.Output,
			valueOrDefault(c.Input, "default"),
			fmt.Sprintf("%v, %v, %v", c.Gains.P, c.Gains.I, c.Gains.D),
			fmt.Sprintf("%v", c.Offset),
			tuner,
		})
	}
	ui.PrintTable([]string{"Id", "Output", "Input", "Gains (p, i, d)", "Offset", "Tuner"}, rows, !global.NoColor)
}

func valueOrDefault(value string, def string) string {
	if len(value) <= 0 {
		return def
	}
	return value
}

func init() {
	Command.AddCommand(validateCmd)
}
