package fans

import (
	"fmt"
	"github.com/markusressel/fanner/internal/configuration"
	"github.com/markusressel/fanner/internal/util"
	"sync"
)

// SerialFan sends every duty cycle as a single byte to an attached microcontroller
type SerialFan struct {
	dutyCache
	Config configuration.FanConfig `json:"configuration"`

	open util.SerialOpener

	mu   sync.Mutex
	port util.SerialPort
}

func NewSerialFan(config configuration.FanConfig) *SerialFan {
	return newSerialFan(config, util.OpenSerialPort)
}

func newSerialFan(config configuration.FanConfig, open util.SerialOpener) *SerialFan {
	return &SerialFan{
		Config: config,
		open:   open,
	}
}

func (fan *SerialFan) GetId() string {
	return fan.Config.ID
}

func (fan *SerialFan) GetConfig() configuration.FanConfig {
	return fan.Config
}

func (fan *SerialFan) Init() error {
	fan.mu.Lock()
	defer fan.mu.Unlock()
	return fan.ensureOpen()
}

func (fan *SerialFan) ensureOpen() error {
	if fan.port != nil {
		return nil
	}
	conf := fan.Config.Serial
	port, err := fan.open(conf.Port, conf.GetBaud())
	if err != nil {
		return fmt.Errorf("fan %s: %w", fan.GetId(), err)
	}
	fan.port = port
	return nil
}

func (fan *SerialFan) WriteDuty(duty uint8) error {
	fan.mu.Lock()
	defer fan.mu.Unlock()

	if err := fan.ensureOpen(); err != nil {
		return err
	}
	_, err := fan.port.Write([]byte{duty})
	if err != nil {
		// reopen on the next write
		_ = fan.port.Close()
		fan.port = nil
		err = fmt.Errorf("fan %s: %w", fan.GetId(), err)
	}
	return fan.update(duty, err)
}

func (fan *SerialFan) Close() error {
	fan.mu.Lock()
	defer fan.mu.Unlock()

	if fan.port == nil {
		return nil
	}
	err := fan.port.Close()
	fan.port = nil
	return err
}
