// Package transfer maps raw temperature sensor samples to fan duty cycles.
//
// The mapping is a clamped piecewise-linear law. Temperature is only used while
// deriving the coefficients; at runtime a sample is mapped to a duty cycle with
// one integer multiply, one subtraction and one shift.
package transfer

import (
	"fmt"
	"github.com/markusressel/fanner/internal/util"
	"math"
)

const (
	// SampleMax is the largest raw sample value
	SampleMax = math.MaxUint8
	// DutyMax is the largest duty cycle value (100%)
	DutyMax = math.MaxUint8

	// ScaleShift is the number of fractional bits of the fixed-point coefficients (8.8)
	ScaleShift = 8
	// Scale is the fixed-point scale factor, 1 << ScaleShift
	Scale = 1 << ScaleShift

	maxMixM = math.MaxUint16
	maxMixS = 1 << 24
)

// Function is the runtime form of the transfer law:
//
//	sample <= SampleLow             : DutyLow
//	sample >= SampleHigh            : DutyHigh
//	SampleLow < sample < SampleHigh : floor((sample * MixM - MixS) / Scale)
//
// MixM and MixS are fixed-point numbers with ScaleShift fractional bits.
// The descale is an arithmetic right shift, which floors for negative
// intermediates as well.
type Function struct {
	SampleLow  uint8 `json:"sampleLow"`
	SampleHigh uint8 `json:"sampleHigh"`
	DutyLow    uint8 `json:"dutyLow"`
	DutyHigh   uint8 `json:"dutyHigh"`
	MixM       int32 `json:"mixM"`
	MixS       int32 `json:"mixS"`
}

// NewFunction validates a set of precomputed coefficients
func NewFunction(sampleLow, sampleHigh, dutyLow, dutyHigh uint8, mixM, mixS int32) (Function, error) {
	f := Function{
		SampleLow:  sampleLow,
		SampleHigh: sampleHigh,
		DutyLow:    dutyLow,
		DutyHigh:   dutyHigh,
		MixM:       mixM,
		MixS:       mixS,
	}
	return f, f.Validate()
}

// Validate checks the invariants Evaluate relies on
func (f Function) Validate() error {
	if f.SampleLow >= f.SampleHigh {
		return fmt.Errorf("sample low (%d) must be below sample high (%d)", f.SampleLow, f.SampleHigh)
	}
	if f.DutyLow > f.DutyHigh {
		return fmt.Errorf("duty low (%d) must not exceed duty high (%d)", f.DutyLow, f.DutyHigh)
	}
	if f.MixM < 0 || f.MixM > maxMixM {
		return fmt.Errorf("slope coefficient %d out of range [0, %d]", f.MixM, maxMixM)
	}
	if f.MixS < -maxMixS || f.MixS > maxMixS {
		return fmt.Errorf("intercept coefficient %d out of range [%d, %d]", f.MixS, -maxMixS, maxMixS)
	}
	return nil
}

// Evaluate returns the target duty cycle for the given raw sample.
// The linear region is additionally pinned into [DutyLow, DutyHigh], which keeps
// the whole function monotonic even when coefficient rounding would overshoot a bound.
func (f Function) Evaluate(sample uint8) uint8 {
	if sample <= f.SampleLow {
		return f.DutyLow
	}
	if sample >= f.SampleHigh {
		return f.DutyHigh
	}

	// |sample * MixM| < 2^24 and |MixS| <= 2^24, so this fits into int32
	scaled := int32(sample)*f.MixM - f.MixS
	duty := scaled >> ScaleShift

	return uint8(util.Coerce(duty, int32(f.DutyLow), int32(f.DutyHigh)))
}

// Table evaluates the function for every possible sample
func (f Function) Table() [SampleMax + 1]uint8 {
	var result [SampleMax + 1]uint8
	for sample := 0; sample <= SampleMax; sample++ {
		result[sample] = f.Evaluate(uint8(sample))
	}
	return result
}
