package fans

import (
	"fmt"
	"github.com/markusressel/fanner/internal/configuration"
	cmap "github.com/orcaman/concurrent-map/v2"
	"sync/atomic"
)

const (
	MaxDutyValue = 255
	MinDutyValue = 0
)

var (
	FanMap = cmap.New[Fan]()
)

type Fan interface {
	GetId() string

	GetConfig() configuration.FanConfig

	// Init prepares the output for duty cycle writes
	Init() error

	// WriteDuty sets the duty cycle of the output. The new value is in effect when it returns.
	WriteDuty(duty uint8) error

	// GetDuty returns the last duty cycle that was written successfully
	GetDuty() uint8

	// Close releases the output. Where the hardware allows it, the last duty cycle stays active.
	Close() error
}

func NewFan(config configuration.FanConfig) (Fan, error) {
	if config.HwMon != nil {
		return &HwMonFan{
			Label:     config.ID,
			Index:     config.HwMon.Index,
			PwmOutput: config.HwMon.PwmOutput,
			PwmEnable: config.HwMon.PwmEnable,
			Config:    config,
		}, nil
	}

	if config.File != nil {
		return &FileFan{
			Config: config,
		}, nil
	}

	if config.Cmd != nil {
		return &CmdFan{
			Config: config,
		}, nil
	}

	if config.Sysfs != nil {
		return NewSysfsPwmFan(config), nil
	}

	if config.Gpio != nil {
		return NewGpioFan(config), nil
	}

	if config.Serial != nil {
		return NewSerialFan(config), nil
	}

	if config.Simulated != nil {
		return &SimulatedFan{
			Config: config,
		}, nil
	}

	return nil, fmt.Errorf("no matching fan type for fan: %s", config.ID)
}

type dutyCache struct {
	duty atomic.Uint32
}

func (c *dutyCache) GetDuty() uint8 {
	return uint8(c.duty.Load())
}

// update remembers duty if the write that produced err succeeded
func (c *dutyCache) update(duty uint8, err error) error {
	if err == nil {
		c.duty.Store(uint32(duty))
	}
	return err
}
