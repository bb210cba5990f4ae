package configuration

import (
	"github.com/markusressel/fanner/internal/transfer"
	"time"
)

type SensorConfig struct {
	ID string `json:"id"`

	HwMon     *HwMonSensorConfig     `json:"hwmon,omitempty"`
	File      *FileSensorConfig      `json:"file,omitempty"`
	Cmd       *CmdSensorConfig       `json:"cmd,omitempty"`
	Serial    *SerialConfig          `json:"serial,omitempty"`
	Simulated *SimulatedSensorConfig `json:"simulated,omitempty"`

	// PollingRate is the interval at which a new sample is acquired from the source
	PollingRate time.Duration `json:"pollingRate,omitempty"`

	// Frontend emulates the analog path for sensors that report a temperature
	// (hwmon, simulated with a temperature) instead of a raw sample
	Frontend *FrontendConfig `json:"frontend,omitempty"`
}

// HwMonSensorConfig reads a tempN_input file of a hwmon device. Either Platform and Index
// are given and the path is resolved on startup, or TempInput is set directly.
type HwMonSensorConfig struct {
	Platform  string `json:"platform"`
	Index     int    `json:"index"`
	TempInput string `json:"tempInput"`
}

// FileSensorConfig reads a raw converter value from a file, e.g. an IIO in_voltageN_raw
// attribute. Values wider than 8 bits are reduced to their most significant 8 bits.
type FileSensorConfig struct {
	Path string `json:"path"`
	Bits int    `json:"bits,omitempty"`
}

type CmdSensorConfig struct {
	Exec string   `json:"exec"`
	Args []string `json:"args"`
	Bits int      `json:"bits,omitempty"`
}

type SerialConfig struct {
	Port string `json:"port"`
	Baud int    `json:"baud,omitempty"`
}

type SimulatedSensorConfig struct {
	Sample      *int     `json:"sample,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
}

const (
	DefaultSensorPollingRate = 10 * time.Millisecond
	DefaultSampleBits        = 8
	DefaultSerialBaud        = 115200
)

func (c *FileSensorConfig) GetBits() int {
	if c.Bits == 0 {
		return DefaultSampleBits
	}
	return c.Bits
}

func (c *CmdSensorConfig) GetBits() int {
	if c.Bits == 0 {
		return DefaultSampleBits
	}
	return c.Bits
}

func (c *SerialConfig) GetBaud() int {
	if c.Baud == 0 {
		return DefaultSerialBaud
	}
	return c.Baud
}

// GetFrontend returns the configured frontend of this sensor, or the built-in one
func (c *SensorConfig) GetFrontend() transfer.Frontend {
	if c.Frontend == nil {
		return transfer.DefaultFrontend
	}
	return c.Frontend.ToFrontend()
}

// ReportsTemperature is true for sensors that deliver °C and emulate the analog path with their frontend
func (c *SensorConfig) ReportsTemperature() bool {
	return c.HwMon != nil || (c.Simulated != nil && c.Simulated.Temperature != nil)
}

func (c *SensorConfig) GetPollingRate() time.Duration {
	if c.PollingRate <= 0 {
		return DefaultSensorPollingRate
	}
	return c.PollingRate
}
