package sensor

import (
	"fmt"

	"github.com/markusressel/fanner/internal/configuration"
	"github.com/markusressel/fanner/internal/hwmon"
	"github.com/markusressel/fanner/internal/sensors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	sensorId    string
	temperature bool
)

var Command = &cobra.Command{
	Use:              "sensor",
	Short:            "Print the current raw sample of a sensor",
	Long:             ``,
	TraverseChildren: true,
	Args:             cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pterm.DisableOutput()

		sensor, err := getSensor(sensorId)
		if err != nil {
			return err
		}
		if closer, ok := sensor.(interface{ Close() error }); ok {
			defer closer.Close()
		}

		err = sensor.Poll()
		if err != nil {
			return err
		}

		sample := sensor.ReadSample()
		if temperature {
			config := sensor.GetConfig()
			fmt.Printf("%.2f", config.GetFrontend().TemperatureForSample(sample))
		} else {
			fmt.Printf("%d", sample)
		}
		return nil
	},
}

func init() {
	Command.PersistentFlags().StringVarP(
		&sensorId,
		"id", "i",
		"",
		"Sensor ID as specified in the config",
	)
	_ = Command.MarkPersistentFlagRequired("id")
	Command.Flags().BoolVarP(&temperature, "temperature", "t", false, "Print the temperature the sample corresponds to instead")
}

func getSensor(id string) (sensors.Sensor, error) {
	configuration.ReadConfigFile()

	availableSensorIds := []string{}
	for _, config := range configuration.CurrentConfig.Sensors {
		availableSensorIds = append(availableSensorIds, config.ID)
		if config.ID != id {
			continue
		}

		if config.HwMon != nil {
			hwMonConfig := *config.HwMon
			if err := hwmon.ResolveSensorConfig(hwmon.GetChips(), &hwMonConfig); err != nil {
				return nil, err
			}
			config.HwMon = &hwMonConfig
		}

		return sensors.NewSensor(config)
	}

	return nil, fmt.Errorf("no sensor with id found: %s, options: %s", id, availableSensorIds)
}
