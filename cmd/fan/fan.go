package fan

import (
	"fmt"

	"github.com/markusressel/fanner/internal/configuration"
	"github.com/markusressel/fanner/internal/fans"
	"github.com/markusressel/fanner/internal/hwmon"
	"github.com/spf13/cobra"
)

var fanId string

var Command = &cobra.Command{
	Use:              "fan",
	Short:            "Fan related commands",
	Long:             ``,
	TraverseChildren: true,
}

func init() {
	Command.PersistentFlags().StringVarP(
		&fanId,
		"id", "i",
		"",
		"Fan ID as specified in the config",
	)
	_ = Command.MarkPersistentFlagRequired("id")
}

func getFan(id string) (fans.Fan, error) {
	configuration.ReadConfigFile()

	availableFanIds := []string{}
	for _, config := range configuration.CurrentConfig.Fans {
		availableFanIds = append(availableFanIds, config.ID)
		if config.ID != id {
			continue
		}

		if config.HwMon != nil {
			hwMonConfig := *config.HwMon
			if err := hwmon.ResolveFanConfig(hwmon.GetChips(), &hwMonConfig); err != nil {
				return nil, err
			}
			config.HwMon = &hwMonConfig
		}

		return fans.NewFan(config)
	}

	return nil, fmt.Errorf("no fan with id found: %s, options: %s", id, availableFanIds)
}
