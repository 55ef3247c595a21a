package journal

import (
	"github.com/markusressel/steer2go/internal/ui"
	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the journal of a controller",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireControllerId(); err != nil {
			return err
		}

		err := getPersistence().DeleteEvents(controllerId)
		if err != nil {
			return err
		}
		ui.Success("Deleted journal of %s", controllerId)
		return nil
	},
}

func init() {
	Command.AddCommand(clearCmd)
}
