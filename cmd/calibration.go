package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/markusressel/fanner/internal/configuration"
	"github.com/markusressel/fanner/internal/controller"
	"github.com/markusressel/fanner/internal/transfer"
	"github.com/markusressel/fanner/internal/ui"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

var calibrationCmd = &cobra.Command{
	Use:   "calibration",
	Short: "Print the constants derived from the calibration of a controller",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configs, err := loadControllerConfigs(controllerId)
		if err != nil {
			return err
		}

		for idx, config := range configs {
			if idx > 0 {
				ui.Printfln("")
			}

			calibration := config.Calibration.ToCalibration()
			function, limiter, err := controller.Derive(config)
			if err != nil {
				return err
			}

			fullRamp := limiter.StepsToReach(0, transfer.DutyMax)

			ui.Printfln("> %s", config.ID)

			inputTable := table.Table{
				Headers: []string{"Calibration", ""},
				Rows: [][]string{
					{"Reference voltage", fmt.Sprintf("%v V", calibration.ReferenceVoltage)},
					{"Sensor offset", fmt.Sprintf("%v V", calibration.SensorOffset)},
					{"Sensor slope", fmt.Sprintf("%v V/K", calibration.SensorSlope)},
					{"ADC max", fmt.Sprintf("%v", calibration.AdcMax)},
					{"Temp low", fmt.Sprintf("%v °C", calibration.TempLow)},
					{"Temp high", fmt.Sprintf("%v °C", calibration.TempHigh)},
					{"Duty low", formatDuty(calibration.DutyLow)},
					{"Duty high", formatDuty(calibration.DutyHigh)},
					{"Ramp delta", strconv.Itoa(int(limiter.Delta()))},
					{"Ramp delay", config.Ramp.GetDelay().String()},
				},
			}

			derivedTable := table.Table{
				Headers: []string{"Derived", ""},
				Rows: [][]string{
					{"Duty slope", fmt.Sprintf("%.4f /K", calibration.DutySlope())},
					{"Sample low", fmt.Sprintf("%d (%.2f °C)", function.SampleLow, calibration.TemperatureForSample(function.SampleLow))},
					{"Sample high", fmt.Sprintf("%d (%.2f °C)", function.SampleHigh, calibration.TemperatureForSample(function.SampleHigh))},
					{"MixM", fmt.Sprintf("%d (%.6f)", function.MixM, calibration.Slope())},
					{"MixS", fmt.Sprintf("%d (%.6f)", function.MixS, calibration.Intercept())},
					{"Full ramp", fmt.Sprintf("%d steps, %s", fullRamp, config.Ramp.GetDelay()*time.Duration(fullRamp))},
				},
			}

			printTables(inputTable, derivedTable)
		}
		return nil
	},
}

func formatDuty(duty uint8) string {
	return fmt.Sprintf("%d (%.1f%%)", duty, configuration.DutyValue(duty).Percent())
}

func init() {
	addControllerIdFlag(calibrationCmd)
	rootCmd.AddCommand(calibrationCmd)
}
