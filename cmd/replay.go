package cmd

import (
	"fmt"
	"strconv"

	"github.com/guptarohit/asciigraph"
	"github.com/markusressel/steer2go/cmd/global"
	"github.com/markusressel/steer2go/internal/configuration"
	"github.com/markusressel/steer2go/internal/control"
	"github.com/markusressel/steer2go/internal/tuner"
	"github.com/markusressel/steer2go/internal/ui"
	"github.com/markusressel/steer2go/internal/util"
	"github.com/spf13/cobra"
)

var replayFile string
var replayControllerId string

// outcomeCounter is an in-memory control.EventSink
type outcomeCounter struct {
	counts map[string]map[tuner.Outcome]int
}

func (c *outcomeCounter) Offer(controllerId string, event tuner.Event) bool {
	if c.counts[controllerId] == nil {
		c.counts[controllerId] = map[tuner.Outcome]int{}
	}
	c.counts[controllerId][event.Outcome]++
	return true
}

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replays recorded cross-track errors through the configured controllers",
	Long: `Feeds a file of cross-track errors (one value per line) through the configured
controllers, exactly like the daemon would, and prints the resulting gains and outputs.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := configuration.DetectConfigFile()
		ui.Debug("Using configuration file at: %s", configPath)
		configuration.LoadConfig()
		if err := configuration.Validate(); err != nil {
			return err
		}

		samples, err := util.ReadFloatsFromFile(replayFile)
		if err != nil {
			return err
		}
		if len(samples) <= 0 {
			return fmt.Errorf("no samples found in %s", replayFile)
		}

		registry := control.NewRegistry()
		counter := &outcomeCounter{counts: map[string]map[tuner.Outcome]int{}}
		driver, err := control.NewDriverFromConfig(configuration.CurrentConfig, registry, counter)
		if err != nil {
			return err
		}

		channel := driver.Steering()
		if len(replayControllerId) > 0 {
			var ok bool
			channel, ok = registry.Get(replayControllerId)
			if !ok {
				return fmt.Errorf("no controller with id '%s' found", replayControllerId)
			}
		}

		var outputs []float64
		for _, cte := range samples {
			command := driver.Tick(control.Sample{Cte: cte})
			switch channel.GetOutput() {
			case configuration.OutputThrottle:
				outputs = append(outputs, command.Throttle)
			default:
				outputs = append(outputs, command.SteeringAngle)
			}
		}

		printReplaySummary(registry, counter)

		graph := asciigraph.PlotMany(
			[][]float64{samples, outputs},
			asciigraph.Height(15),
			asciigraph.Width(100),
			asciigraph.SeriesColors(asciigraph.Red, asciigraph.Green),
			asciigraph.Caption(fmt.Sprintf("cte (red) / %s output (green)", channel.GetId())),
		)
		ui.Printfln("%s", graph)
		return nil
	},
}

func printReplaySummary(registry *control.Registry, counter *outcomeCounter) {
	var rows [][]string
	for _, id := range registry.Ids() {
		channel, _ := registry.Get(id)
		snapshot := channel.Snapshot()

		bestError := "-"
		accepted := "-"
		rollovers := "-"
		if snapshot.Tuner != nil {
			bestError = strconv.FormatFloat(snapshot.Tuner.BestError, 'g', 6, 64)
			accepted = strconv.Itoa(counter.counts[id][tuner.OutcomeAccepted])
			rollovers = strconv.Itoa(counter.counts[id][tuner.OutcomeRollover])
		}

		rows = append(rows, []string{
			id,
			snapshot.Output,
			strconv.FormatUint(snapshot.Ticks, 10),
			fmt.Sprintf("%.6g, %.6g, %.6g", snapshot.Gains.P, snapshot.Gains.I, snapshot.Gains.D),
			bestError,
			accepted,
			rollovers,
			strconv.FormatFloat(snapshot.CteMean, 'g', 6, 64),
		})
	}
	ui.PrintTable([]string{"Controller", "Output", "Ticks", "Gains (p, i, d)", "Best Error", "Accepted", "Rollovers", "|cte| Mean"}, rows, !global.NoColor)
}

func init() {
	replayCmd.Flags().StringVarP(&replayFile, "file", "f", "", "File containing one cross-track error per line")
	_ = replayCmd.MarkFlagRequired("file")
	replayCmd.Flags().StringVarP(&replayControllerId, "id", "i", "", "Controller to plot (default: the steering controller)")

	rootCmd.AddCommand(replayCmd)
}
