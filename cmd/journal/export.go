package journal

import (
	"encoding/json"

	"github.com/markusressel/steer2go/internal/ui"
	"github.com/markusressel/steer2go/internal/util"
	"github.com/spf13/cobra"
)

var outputFile string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the journal of a controller as JSON",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := loadRecords(getPersistence())
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return err
		}

		err = util.WriteFileAtomic(outputFile, data)
		if err != nil {
			return err
		}
		ui.Success("Exported %d events of %s to %s", len(records), controllerId, outputFile)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&outputFile, "output", "o", "", "File to write the journal to")
	_ = exportCmd.MarkFlagRequired("output")
	Command.AddCommand(exportCmd)
}
