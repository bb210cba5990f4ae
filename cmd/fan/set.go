package fan

import (
	"github.com/markusressel/fanner/internal/configuration"
	"github.com/markusressel/fanner/internal/ui"
	"github.com/spf13/cobra"
)

var setCmd = &cobra.Command{
	Use:   "set <duty>",
	Short: "Set the duty cycle of a fan, either [0..255] or a percentage like 40%",
	Long:  `Writes the duty cycle once. Do not use this while the daemon controls the fan.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		duty, err := configuration.ParseDutyValue(args[0])
		if err != nil {
			return err
		}

		fan, err := getFan(fanId)
		if err != nil {
			return err
		}

		err = fan.Init()
		if err != nil {
			return err
		}
		defer func() {
			if err := fan.Close(); err != nil {
				ui.Warning("Error closing fan %s: %v", fan.GetId(), err)
			}
		}()

		err = fan.WriteDuty(uint8(duty))
		if err != nil {
			return err
		}
		ui.Success("Duty cycle of %s set to %d (%.1f%%)", fan.GetId(), duty, duty.Percent())
		return nil
	},
}

func init() {
	Command.AddCommand(setCmd)
}
