package transfer

import (
	"fmt"
	"math"
)

// Calibration holds the physical parameters the transfer law is derived from.
//
//	D(T) = DutyLow                          , T <= TempLow
//	D(T) = DutyHigh                         , T >= TempHigh
//	D(T) = DutyLow + (T - TempLow) * Sd     , otherwise
//	Sd   = (DutyHigh - DutyLow) / (TempHigh - TempLow)
//
// Substituting T(ADC) = (Vref * ADC / AdcMax - Vofs) / Ss yields an affine map on the raw sample:
//
//	D(ADC) = ADC * [Vref / AdcMax / Ss * Sd] - [(Vofs / Ss + TempLow) * Sd - DutyLow]
type Calibration struct {
	Frontend

	// TempLow is the temperature at and below which DutyLow is used, in °C
	TempLow float64
	// TempHigh is the temperature at and above which DutyHigh is used, in °C
	TempHigh float64
	// DutyLow is the duty cycle at TempLow
	DutyLow uint8
	// DutyHigh is the duty cycle at TempHigh
	DutyHigh uint8
}

var DefaultCalibration = Calibration{
	Frontend: DefaultFrontend,
	TempLow:  20,
	TempHigh: 80,
	DutyLow:  63,
	DutyHigh: 255,
}

// DutySlope returns Sd, the duty cycle change per kelvin
func (c Calibration) DutySlope() float64 {
	return (float64(c.DutyHigh) - float64(c.DutyLow)) / (c.TempHigh - c.TempLow)
}

// Slope returns the exact duty change per sample step in the linear region
func (c Calibration) Slope() float64 {
	return c.ReferenceVoltage / c.AdcMax / c.SensorSlope * c.DutySlope()
}

// Intercept returns the exact value subtracted from sample * Slope() in the linear region
func (c Calibration) Intercept() float64 {
	return (c.SensorOffset/c.SensorSlope+c.TempLow)*c.DutySlope() - float64(c.DutyLow)
}

// Derive computes the runtime transfer function. This is the only place floating point
// arithmetic is used. Sample bounds are truncated like the ADC does, coefficients are
// rounded to the nearest 1/Scale, so each coefficient is off by at most 1/(2*Scale).
func (c Calibration) Derive() (Function, error) {
	if err := c.Frontend.Validate(); err != nil {
		return Function{}, err
	}
	if !(c.TempHigh > c.TempLow) {
		return Function{}, fmt.Errorf("temp high (%v) must be above temp low (%v)", c.TempHigh, c.TempLow)
	}
	if c.DutyLow > c.DutyHigh {
		return Function{}, fmt.Errorf("duty low (%d) must not exceed duty high (%d)", c.DutyLow, c.DutyHigh)
	}

	sampleLow := math.Floor(c.SampleValue(c.TempLow))
	sampleHigh := math.Floor(c.SampleValue(c.TempHigh))
	if sampleLow < 0 {
		return Function{}, fmt.Errorf("temp low %v °C is below the measurable range of the sensor", c.TempLow)
	}
	if sampleHigh > c.AdcMax {
		return Function{}, fmt.Errorf("temp high %v °C is above the measurable range of the sensor", c.TempHigh)
	}
	if sampleLow >= sampleHigh {
		return Function{}, fmt.Errorf(
			"temperature range %v..%v °C maps to an empty sample range %v..%v",
			c.TempLow, c.TempHigh, sampleLow, sampleHigh,
		)
	}

	mixM := math.Round(c.Slope() * Scale)
	mixS := math.Round(c.Intercept() * Scale)
	if mixM > maxMixM {
		return Function{}, fmt.Errorf("slope %v duty/sample cannot be represented with %d fractional bits", c.Slope(), ScaleShift)
	}
	if math.Abs(mixS) > maxMixS {
		return Function{}, fmt.Errorf("intercept %v cannot be represented with %d fractional bits", c.Intercept(), ScaleShift)
	}

	return NewFunction(
		uint8(sampleLow),
		uint8(sampleHigh),
		c.DutyLow,
		c.DutyHigh,
		int32(mixM),
		int32(mixS),
	)
}

// MustDerive is like Derive but panics on invalid calibrations
func (c Calibration) MustDerive() Function {
	f, err := c.Derive()
	if err != nil {
		panic(err)
	}
	return f
}
