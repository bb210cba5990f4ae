package transfer

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestFrontendSampleForTemperature(t *testing.T) {
	f := DefaultFrontend

	assert.Equal(t, uint8(35), f.SampleForTemperature(20))
	assert.Equal(t, uint8(66), f.SampleForTemperature(80))
	assert.Equal(t, uint8(25), f.SampleForTemperature(0))
}

func TestFrontendSampleForTemperatureIsPinned(t *testing.T) {
	f := DefaultFrontend

	assert.Equal(t, uint8(0), f.SampleForTemperature(-100))
	assert.Equal(t, uint8(255), f.SampleForTemperature(1000))
}

func TestFrontendTemperatureForSample(t *testing.T) {
	f := DefaultFrontend

	assert.InDelta(t, -50.0, f.TemperatureForSample(0), 1e-9)
	assert.InDelta(t, 450.0, f.TemperatureForSample(255), 1e-9)
	assert.InDelta(t, 20.588, f.TemperatureForSample(36), 1e-3)
}

func TestFrontendRoundTrip(t *testing.T) {
	f := DefaultFrontend

	for sample := 0; sample <= SampleMax; sample++ {
		temperature := f.TemperatureForSample(uint8(sample))
		// nudge into the sample bucket to be robust against float error at the bucket edge
		result := f.SampleForTemperature(temperature + 0.001)
		assert.Equal(t, uint8(sample), result, "sample %d", sample)
	}
}
