package cmd

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/markusressel/fanner/internal/hwmon"
	"github.com/markusressel/fanner/internal/transfer"
	"github.com/markusressel/fanner/internal/ui"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Detect devices",
	Long: `Detects all hwmon fans and temperature sensors and prints them as a list.
The platform and index columns are what a hwmon sensor or fan needs in the config.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		controllers := hwmon.GetChips()

		if len(controllers) <= 0 {
			ui.Warning("No hwmon devices with fans or temperature sensors found")
			return
		}

		// === Print detected devices ===
		for _, controller := range controllers {
			if len(controller.Name) <= 0 {
				continue
			}

			ui.Printfln("> %s (platform: %s)", controller.Name, controller.Platform)

			var fanRows [][]string
			for _, fan := range controller.Fans {
				_, pwmFile := filepath.Split(fan.PwmOutput)
				fanRows = append(fanRows, []string{
					"", strconv.Itoa(fan.Index), fan.Label, pwmFile, strconv.Itoa(int(fan.Rpm)),
				})
			}
			fanTable := table.Table{
				Headers: []string{"Fans   ", "Index", "Label", "PWM", "RPM"},
				Rows:    fanRows,
			}

			var sensorRows [][]string
			for _, sensor := range controller.Sensors {
				_, file := filepath.Split(sensor.Input)
				labelAndFile := fmt.Sprintf("%s (%s)", sensor.Label, file)
				sample := transfer.DefaultFrontend.SampleForTemperature(sensor.Value)

				sensorRows = append(sensorRows, []string{
					"", strconv.Itoa(sensor.Index), labelAndFile, fmt.Sprintf("%.1f", sensor.Value), strconv.Itoa(int(sample)),
				})
			}
			sensorTable := table.Table{
				Headers: []string{"Sensors", "Index", "Label", "°C", "Sample"},
				Rows:    sensorRows,
			}

			printTables(fanTable, sensorTable)
		}
	},
}

func init() {
	rootCmd.AddCommand(detectCmd)
}
