package cmd

import (
	"github.com/guptarohit/asciigraph"
	"github.com/markusressel/fanner/internal/controller"
	"github.com/markusressel/fanner/internal/ui"
	"github.com/spf13/cobra"
)

var curveCmd = &cobra.Command{
	Use:   "curve",
	Short: "Print the duty cycle of a controller over the whole sample range",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configs, err := loadControllerConfigs(controllerId)
		if err != nil {
			return err
		}

		for idx, config := range configs {
			function, _, err := controller.Derive(config)
			if err != nil {
				return err
			}

			if idx > 0 {
				ui.Printfln("")
				ui.Printfln("")
			}
			ui.Printfln("> %s", config.ID)

			table := function.Table()
			values := make([]float64, 0, len(table))
			for _, duty := range table {
				values = append(values, float64(duty))
			}

			caption := "Duty / Sample"
			graph := asciigraph.Plot(values, asciigraph.Height(15), asciigraph.Width(100), asciigraph.Caption(caption))
			ui.Printfln(graph)
		}
		return nil
	},
}

func init() {
	addControllerIdFlag(curveCmd)
	rootCmd.AddCommand(curveCmd)
}
