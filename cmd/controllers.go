package cmd

import (
	"fmt"

	"github.com/markusressel/fanner/internal/configuration"
	"github.com/spf13/cobra"
)

// defaultControllerId names the built-in calibration when no configuration file is present
const defaultControllerId = "default"

var controllerId string

// loadControllerConfigs returns the controller configurations the analysis commands work on:
// the configured controllers (optionally only the one with the given id), or a controller
// with built-in defaults if there is no configuration file.
func loadControllerConfigs(id string) ([]configuration.ControllerConfig, error) {
	if !configuration.ReadConfigFileIfPresent() || len(configuration.CurrentConfig.Controllers) <= 0 {
		if len(id) > 0 && id != defaultControllerId {
			return nil, fmt.Errorf("no controller with id found: %s", id)
		}
		return []configuration.ControllerConfig{{ID: defaultControllerId}}, nil
	}

	if len(id) <= 0 {
		return configuration.CurrentConfig.Controllers, nil
	}

	availableIds := []string{}
	for _, config := range configuration.CurrentConfig.Controllers {
		if config.ID == id {
			return []configuration.ControllerConfig{config}, nil
		}
		availableIds = append(availableIds, config.ID)
	}
	return nil, fmt.Errorf("no controller with id found: %s, options: %s", id, availableIds)
}

func addControllerIdFlag(cmd *cobra.Command) {
	cmd.Flags().StringVarP(
		&controllerId,
		"id", "i",
		"",
		"Controller ID as specified in the config (default: all controllers)",
	)
}
