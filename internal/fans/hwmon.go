package fans

import (
	"fmt"
	"github.com/markusressel/fanner/internal/configuration"
	"github.com/markusressel/fanner/internal/util"
)

// pwm_enable values of the hwmon sysfs interface
const (
	pwmEnableManual = 1
)

type HwMonFan struct {
	dutyCache
	Label     string                  `json:"label"`
	Index     int                     `json:"index"`
	PwmOutput string                  `json:"pwmOutput"`
	PwmEnable string                  `json:"pwmEnable"`
	Config    configuration.FanConfig `json:"configuration"`

	OriginalPwmEnabled int `json:"originalPwmEnabled"`
}

func (fan *HwMonFan) GetId() string {
	return fan.Config.ID
}

func (fan *HwMonFan) GetConfig() configuration.FanConfig {
	return fan.Config
}

// Init switches the channel into manual mode, otherwise the board keeps overriding the duty cycle
func (fan *HwMonFan) Init() error {
	if len(fan.PwmOutput) <= 0 {
		return fmt.Errorf("fan %s: pwm output is not resolved", fan.GetId())
	}
	if len(fan.PwmEnable) <= 0 {
		return nil
	}

	original, err := util.ReadIntFromFile(fan.PwmEnable)
	if err != nil {
		return fmt.Errorf("fan %s: unable to read pwm_enable: %w", fan.GetId(), err)
	}
	fan.OriginalPwmEnabled = original

	if original == pwmEnableManual {
		return nil
	}
	if err := util.WriteIntToFile(pwmEnableManual, fan.PwmEnable); err != nil {
		return fmt.Errorf("fan %s: unable to enable manual pwm control: %w", fan.GetId(), err)
	}
	return nil
}

func (fan *HwMonFan) WriteDuty(duty uint8) error {
	err := util.WriteIntToFile(int(duty), fan.PwmOutput)
	if err != nil {
		err = fmt.Errorf("fan %s: unable to write to %s: %w", fan.GetId(), fan.PwmOutput, err)
	}
	return fan.update(duty, err)
}

// Close leaves the channel in manual mode, so the last duty cycle stays active
func (fan *HwMonFan) Close() error {
	return nil
}
