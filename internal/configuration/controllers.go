package configuration

import (
	"github.com/markusressel/fanner/internal/transfer"
	"time"
)

type ControllerConfig struct {
	ID     string `json:"id"`
	Sensor string `json:"sensor"`
	Fan    string `json:"fan"`

	Calibration CalibrationConfig `json:"calibration"`
	Ramp        RampConfig        `json:"ramp"`

	// PreserveState restores the last persisted duty cycle on startup,
	// but only if the previous run did not shut down cleanly
	PreserveState bool `json:"preserveState"`
	// StateSyncInterval is the interval at which the controller state is persisted
	StateSyncInterval time.Duration `json:"stateSyncInterval,omitempty"`
	// SampleWindowSize is the number of raw samples kept for statistics
	SampleWindowSize int `json:"sampleWindowSize,omitempty"`
}

// FrontendConfig overrides parts of the built-in analog frontend, unset values keep their default
type FrontendConfig struct {
	ReferenceVoltage *float64 `json:"referenceVoltage,omitempty"`
	SensorOffset     *float64 `json:"sensorOffset,omitempty"`
	SensorSlope      *float64 `json:"sensorSlope,omitempty"`
	AdcMax           *float64 `json:"adcMax,omitempty"`
}

type CalibrationConfig struct {
	FrontendConfig `mapstructure:",squash"`

	TempLow  *float64   `json:"tempLow,omitempty"`
	TempHigh *float64   `json:"tempHigh,omitempty"`
	DutyLow  *DutyValue `json:"dutyLow,omitempty"`
	DutyHigh *DutyValue `json:"dutyHigh,omitempty"`
}

type RampConfig struct {
	// Delta is the maximum duty cycle change per iteration
	Delta *int `json:"delta,omitempty"`
	// Delay is the fixed pause between two iterations
	Delay *time.Duration `json:"delay,omitempty"`
}

const (
	DefaultRampDelta         = 1
	DefaultRampDelay         = 10 * time.Millisecond
	DefaultStateSyncInterval = 30 * time.Second
	DefaultSampleWindowSize  = 100
)

func (c FrontendConfig) ToFrontend() transfer.Frontend {
	result := transfer.DefaultFrontend
	if c.ReferenceVoltage != nil {
		result.ReferenceVoltage = *c.ReferenceVoltage
	}
	if c.SensorOffset != nil {
		result.SensorOffset = *c.SensorOffset
	}
	if c.SensorSlope != nil {
		result.SensorSlope = *c.SensorSlope
	}
	if c.AdcMax != nil {
		result.AdcMax = *c.AdcMax
	}
	return result
}

func (c CalibrationConfig) ToCalibration() transfer.Calibration {
	result := transfer.DefaultCalibration
	result.Frontend = c.FrontendConfig.ToFrontend()
	if c.TempLow != nil {
		result.TempLow = *c.TempLow
	}
	if c.TempHigh != nil {
		result.TempHigh = *c.TempHigh
	}
	if c.DutyLow != nil {
		result.DutyLow = uint8(*c.DutyLow)
	}
	if c.DutyHigh != nil {
		result.DutyHigh = uint8(*c.DutyHigh)
	}
	return result
}

func (c RampConfig) GetDelta() int {
	if c.Delta == nil {
		return DefaultRampDelta
	}
	return *c.Delta
}

func (c RampConfig) GetDelay() time.Duration {
	if c.Delay == nil {
		return DefaultRampDelay
	}
	return *c.Delay
}

func (c ControllerConfig) GetStateSyncInterval() time.Duration {
	if c.StateSyncInterval <= 0 {
		return DefaultStateSyncInterval
	}
	return c.StateSyncInterval
}

func (c ControllerConfig) GetSampleWindowSize() int {
	if c.SampleWindowSize <= 0 {
		return DefaultSampleWindowSize
	}
	return c.SampleWindowSize
}
