package util

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestCoerce(t *testing.T) {
	assert.Equal(t, 0, Coerce(-5, 0, 255))
	assert.Equal(t, 255, Coerce(300, 0, 255))
	assert.Equal(t, 42, Coerce(42, 0, 255))
	assert.Equal(t, 1.5, Coerce(1.5, 1.0, 2.0))
}

func TestRatio(t *testing.T) {
	// GIVEN
	a := 0.0
	b := 100.0
	c := 50.0

	expected := 0.5

	// WHEN
	result := Ratio(c, a, b)

	// THEN
	assert.Equal(t, expected, result)
}

func TestCeilDiv(t *testing.T) {
	assert.Equal(t, 0, CeilDiv(0, 3))
	assert.Equal(t, 1, CeilDiv(1, 3))
	assert.Equal(t, 1, CeilDiv(3, 3))
	assert.Equal(t, 2, CeilDiv(4, 3))
	assert.Equal(t, 63, CeilDiv(63, 1))
	assert.Equal(t, uint8(128), CeilDiv[uint8](255, 2))
}

func TestAbsDiff(t *testing.T) {
	assert.Equal(t, uint8(255), AbsDiff[uint8](0, 255))
	assert.Equal(t, uint8(255), AbsDiff[uint8](255, 0))
	assert.Equal(t, uint8(0), AbsDiff[uint8](7, 7))
}
