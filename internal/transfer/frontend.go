package transfer

import (
	"fmt"
	"math"
)

// Frontend describes the analog path between a linear temperature sensor and the ADC:
//
//	Vs(T)   = T * SensorSlope + SensorOffset
//	ADC(Vs) = Vs / ReferenceVoltage * AdcMax
type Frontend struct {
	// ReferenceVoltage is the voltage that maps to AdcMax, in volts
	ReferenceVoltage float64
	// SensorOffset is the sensor output voltage at 0 °C, in volts
	SensorOffset float64
	// SensorSlope is the sensor output change per kelvin, in volts
	SensorSlope float64
	// AdcMax is the sample value at ReferenceVoltage
	AdcMax float64
}

// DefaultFrontend is a 10 mV/K sensor with 500 mV offset read by an 8 bit ADC against 5 V
var DefaultFrontend = Frontend{
	ReferenceVoltage: 5.0,
	SensorOffset:     0.5,
	SensorSlope:      0.01,
	AdcMax:           255,
}

func (f Frontend) Validate() error {
	if f.ReferenceVoltage <= 0 {
		return fmt.Errorf("reference voltage must be > 0, was %v", f.ReferenceVoltage)
	}
	if f.SensorSlope <= 0 {
		return fmt.Errorf("sensor slope must be > 0, was %v", f.SensorSlope)
	}
	if f.AdcMax <= 0 || f.AdcMax > SampleMax {
		return fmt.Errorf("adc max must be in (0, %d], was %v", SampleMax, f.AdcMax)
	}
	return nil
}

// SampleValue returns the exact (unquantized) sample value the ADC reports at temperature t
func (f Frontend) SampleValue(t float64) float64 {
	return (t*f.SensorSlope + f.SensorOffset) / f.ReferenceVoltage * f.AdcMax
}

// SampleForTemperature returns the raw sample the ADC reports at temperature t,
// truncated like the converter does and pinned into the sample domain
func (f Frontend) SampleForTemperature(t float64) uint8 {
	value := math.Floor(f.SampleValue(t))
	if value <= 0 || math.IsNaN(value) {
		return 0
	}
	if value >= SampleMax {
		return SampleMax
	}
	return uint8(value)
}

// TemperatureForSample inverts the frontend, T(ADC) = (Vref * ADC / AdcMax - Vofs) / Ss
func (f Frontend) TemperatureForSample(sample uint8) float64 {
	return (f.ReferenceVoltage*float64(sample)/f.AdcMax - f.SensorOffset) / f.SensorSlope
}
