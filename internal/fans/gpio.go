//go:build linux

package fans

import (
	"fmt"
	"github.com/markusressel/fanner/internal/configuration"
	"github.com/warthog618/go-gpiocdev"
	"sync"
	"time"
)

const gpioConsumer = "fanner"

// GpioFan drives a 2-wire fan switched by a transistor on a gpio line with software PWM
type GpioFan struct {
	dutyCache
	Config configuration.FanConfig `json:"configuration"`

	mu   sync.Mutex
	line *gpiocdev.Line
	pwm  *softPwm
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
	fan.mu.Lock()
	defer fan.mu.Unlock()

	conf := fan.Config.Gpio
	line, err := gpiocdev.RequestLine(conf.Chip, conf.Line,
		gpiocdev.AsOutput(0),
		gpiocdev.WithConsumer(gpioConsumer),
	)
	if err != nil {
		return fmt.Errorf("fan %s: unable to request gpio line %s:%d: %w", fan.GetId(), conf.Chip, conf.Line, err)
	}
	fan.line = line
	fan.pwm = newSoftPwm(line, time.Second/time.Duration(conf.GetFrequency()))
	return nil
}

func (fan *GpioFan) WriteDuty(duty uint8) error {
	fan.mu.Lock()
	defer fan.mu.Unlock()

	if fan.pwm == nil {
		return fmt.Errorf("fan %s: gpio line is not initialized", fan.GetId())
	}
	err := fan.pwm.Set(duty)
	if err != nil {
		err = fmt.Errorf("fan %s: %w", fan.GetId(), err)
	}
	return fan.update(duty, err)
}

// Close stops the software PWM and leaves the fan running at full speed,
// unless it was switched off
func (fan *GpioFan) Close() error {
	fan.mu.Lock()
	defer fan.mu.Unlock()

	if fan.pwm == nil {
		return nil
	}
	level := 0
	if fan.GetDuty() > 0 {
		level = 1
	}
	err := fan.pwm.Close(level)
	fan.pwm = nil

	if closeErr := fan.line.Close(); err == nil {
		err = closeErr
	}
	fan.line = nil
	return err
}
