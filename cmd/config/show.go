package config

import (
	"github.com/markusressel/fanner/internal/ui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Prints the effective configuration, including default values",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := viper.ReadInConfig(); err != nil {
			return err
		}
		ui.Info("Using configuration file at: %s", viper.ConfigFileUsed())

		out, err := yaml.Marshal(viper.AllSettings())
		if err != nil {
			return err
		}
		ui.Printfln("%s", string(out))
		return nil
	},
}

func init() {
	Command.AddCommand(showCmd)
}
