package journal

import (
	"github.com/guptarohit/asciigraph"
	"github.com/markusressel/steer2go/internal/ui"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Plot the error of the recorded trial decisions",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := loadRecords(getPersistence())
		if err != nil {
			return err
		}

		errs, best := errorSeries(records)
		if len(errs) <= 0 {
			ui.Info("No trial decisions recorded yet...")
			return nil
		}

		graph := asciigraph.PlotMany(
			[][]float64{errs, best},
			asciigraph.Height(15),
			asciigraph.Width(100),
			asciigraph.SeriesColors(asciigraph.Red, asciigraph.Green),
			asciigraph.Caption("error (red) / best error (green) per decision"),
		)
		ui.Printfln("%s", graph)
		return nil
	},
}

func init() {
	Command.AddCommand(graphCmd)
}
