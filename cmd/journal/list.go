package journal

import (
	"fmt"
	"strconv"

	"github.com/markusressel/steer2go/cmd/global"
	"github.com/markusressel/steer2go/internal/persistence"
	"github.com/markusressel/steer2go/internal/ui"
	"github.com/markusressel/steer2go/internal/util"
	"github.com/spf13/cobra"
)

var limit int

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded tuner events",
	Long:  `Lists the recorded tuner events of a controller. Without --id, lists all controllers with a journal.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p := getPersistence()

		if len(controllerId) <= 0 {
			return listControllers(p)
		}

		records, err := loadRecords(p)
		if err != nil {
			return err
		}

		var rows [][]string
		shown := util.Last(records, limit)
		offset := len(records) - len(shown)
		for idx, record := range shown {
			rows = append(rows, []string{
				strconv.Itoa(offset + idx + 1),
				record.Time.Format("2006-01-02 15:04:05"),
				strconv.FormatUint(record.Tick, 10),
				string(record.Outcome),
				strconv.Itoa(record.Index),
				formatFloat(record.Error),
				formatFloat(record.BestError),
				formatFloat(record.Step),
				formatGains(record.Gains.Vector()),
			})
		}
		ui.PrintTable([]string{"#", "Time", "Tick", "Outcome", "Index", "Error", "Best Error", "Step", "Gains (p, i, d)"}, rows, !global.NoColor)

		summary := Summarize(records)
		ui.PrintTable([]string{"Decisions", "Accepted", "Escalated", "Reverted", "Rollovers", "Error Mean", "Error StdDev", "Best Error"}, [][]string{{
			strconv.Itoa(summary.Decisions),
			strconv.Itoa(summary.Accepted),
			strconv.Itoa(summary.Escalated),
			strconv.Itoa(summary.Reverted),
			strconv.Itoa(summary.Rollovers),
			formatFloat(summary.ErrorMean),
			formatFloat(summary.ErrorStdDev),
			formatFloat(summary.BestError),
		}}, !global.NoColor)
		return nil
	},
}

func listControllers(p persistence.Persistence) error {
	ids, err := p.ControllerIds()
	if err != nil {
		return err
	}
	if len(ids) <= 0 {
		ui.Info("The journal is empty.")
		return nil
	}

	var rows [][]string
	for _, id := range ids {
		records, err := p.LoadEvents(id)
		if err != nil {
			ui.Warning("Unable to load journal of %s: %v", id, err)
			continue
		}
		summary := Summarize(records)
		last := "-"
		if len(records) > 0 {
			last = records[len(records)-1].Time.Format("2006-01-02 15:04:05")
		}
		rows = append(rows, []string{id, strconv.Itoa(len(records)), strconv.Itoa(summary.Decisions), formatFloat(summary.BestError), last})
	}
	ui.PrintTable([]string{"Controller", "Events", "Decisions", "Best Error", "Last Event"}, rows, !global.NoColor)
	return nil
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'g', 6, 64)
}

func formatGains(gains [3]float64) string {
	return fmt.Sprintf("%s, %s, %s", formatFloat(gains[0]), formatFloat(gains[1]), formatFloat(gains[2]))
}

func init() {
	listCmd.Flags().IntVarP(&limit, "limit", "n", 50, "Number of most recent events to show, -1 shows all")
	Command.AddCommand(listCmd)
}
