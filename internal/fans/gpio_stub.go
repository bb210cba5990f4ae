//go:build !linux

package fans

import (
	"fmt"
	"github.com/markusressel/fanner/internal/configuration"
)

// GpioFan is not supported on this platform
type GpioFan struct {
	dutyCache
	Config configuration.FanConfig `json:"configuration"`
}

func NewGpioFan(config configuration.FanConfig) Fan {
	return &GpioFan{
		Config: config,
	}
}

func (fan *GpioFan) GetId() string {
	return fan.Config.ID
}

func (fan *GpioFan) GetConfig() configuration.FanConfig {
	return fan.Config
}

func (fan *GpioFan) Init() error {
	return fmt.Errorf("fan %s: gpio fans are only supported on linux", fan.GetId())
}

func (fan *GpioFan) WriteDuty(duty uint8) error {
	return fmt.Errorf("fan %s: gpio fans are only supported on linux", fan.GetId())
}

func (fan *GpioFan) Close() error {
	return nil
}
