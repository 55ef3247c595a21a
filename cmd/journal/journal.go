package journal

import (
	"errors"
	"os"

	"github.com/markusressel/steer2go/internal/configuration"
	"github.com/markusressel/steer2go/internal/persistence"
	"github.com/markusressel/steer2go/internal/ui"
	"github.com/spf13/cobra"
)

var controllerId string

var Command = &cobra.Command{
	Use:              "journal",
	Short:            "Inspect the tuner decisions recorded by the daemon",
	Long:             ``,
	TraverseChildren: true,
}

func init() {
	Command.PersistentFlags().StringVarP(
		&controllerId,
		"id", "i",
		"",
		"Controller ID as specified in the config",
	)
}

func getPersistence() persistence.Persistence {
	configPath := configuration.DetectConfigFile()
	ui.Debug("Using configuration file at: %s", configPath)
	configuration.LoadConfig()
	return persistence.NewPersistence(configuration.CurrentConfig.DbPath)
}

func requireControllerId() error {
	if len(controllerId) <= 0 {
		return errors.New("missing controller id, use --id")
	}
	return nil
}

// loadRecords loads the journal of the selected controller
func loadRecords(p persistence.Persistence) ([]persistence.Record, error) {
	if err := requireControllerId(); err != nil {
		return nil, err
	}
	records, err := p.LoadEvents(controllerId)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	if len(records) <= 0 {
		return nil, errors.New("no journal entries for controller " + controllerId)
	}
	return records, nil
}
