package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/markusressel/fanner/internal/controller"
	"github.com/markusressel/fanner/internal/transfer"
	"github.com/markusressel/fanner/internal/ui"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

var (
	simulateFrom          int
	simulateSample        int
	simulateMaxIterations int
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Print the ramp a controller runs through for a constant sample",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if simulateFrom < 0 || simulateFrom > transfer.DutyMax {
			return fmt.Errorf("--from must be in [0, %d], was %d", transfer.DutyMax, simulateFrom)
		}
		if simulateSample < 0 || simulateSample > transfer.SampleMax {
			return fmt.Errorf("--sample must be in [0, %d], was %d", transfer.SampleMax, simulateSample)
		}
		if simulateMaxIterations <= 0 {
			return errors.New("--max-iterations must be > 0")
		}

		configs, err := loadControllerConfigs(controllerId)
		if err != nil {
			return err
		}

		for idx, config := range configs {
			function, limiter, err := controller.Derive(config)
			if err != nil {
				return err
			}

			start := controller.State{Current: uint8(simulateFrom), Target: uint8(simulateFrom)}
			sample := uint8(simulateSample)
			trajectory := controller.Trajectory(start, sample, function, limiter, simulateMaxIterations)
			target := function.Evaluate(sample)

			if idx > 0 {
				ui.Printfln("")
			}
			ui.Printfln("> %s", config.ID)

			iterations := len(trajectory)
			delay := config.Ramp.GetDelay()
			summary := table.Table{
				Headers: []string{"Simulation", ""},
				Rows: [][]string{
					{"Sample", strconv.Itoa(simulateSample)},
					{"Temperature", fmt.Sprintf("%.2f °C", config.Calibration.ToCalibration().TemperatureForSample(sample))},
					{"Start duty", strconv.Itoa(simulateFrom)},
					{"Target duty", strconv.Itoa(int(target))},
					{"Iterations", strconv.Itoa(iterations)},
					{"Expected", strconv.Itoa(int(limiter.StepsToReach(uint8(simulateFrom), target)))},
					{"Duration", (delay * time.Duration(iterations)).String()},
				},
			}
			printTables(summary)

			if iterations == 0 {
				continue
			}
			values := make([]float64, 0, iterations+1)
			values = append(values, float64(simulateFrom))
			for _, duty := range trajectory {
				values = append(values, float64(duty))
			}
			graph := asciigraph.Plot(values, asciigraph.Height(15), asciigraph.Width(100), asciigraph.Caption("Duty / Iteration"))
			ui.Printfln(graph)
		}
		return nil
	},
}

func init() {
	addControllerIdFlag(simulateCmd)
	simulateCmd.Flags().IntVarP(&simulateFrom, "from", "f", 0, "Duty cycle at the start of the simulation [0..255]")
	simulateCmd.Flags().IntVarP(&simulateSample, "sample", "s", 0, "Constant raw sample fed into the controller [0..255]")
	simulateCmd.Flags().IntVarP(&simulateMaxIterations, "max-iterations", "m", 10000, "Upper bound for the number of iterations")
	rootCmd.AddCommand(simulateCmd)
}
