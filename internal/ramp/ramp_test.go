package ramp

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"math"
	"testing"
)

func createLimiter(t *testing.T, delta uint8) *Limiter[uint8] {
	l, err := NewLimiter(delta)
	require.NoError(t, err)
	return l
}

func TestNewLimiterRejectsZeroDelta(t *testing.T) {
	// WHEN
	l, err := NewLimiter[uint8](0)

	// THEN
	assert.ErrorIs(t, err, ErrZeroDelta)
	assert.Nil(t, l)
}

func TestNextStepsTowardTarget(t *testing.T) {
	// GIVEN
	l := createLimiter(t, 1)

	// THEN
	assert.Equal(t, uint8(11), l.Next(10, 20))
	assert.Equal(t, uint8(19), l.Next(20, 10))
}

func TestNextJumpsToTargetWhenCloserThanDelta(t *testing.T) {
	// GIVEN
	l := createLimiter(t, 10)

	// THEN
	assert.Equal(t, uint8(15), l.Next(10, 15))
	assert.Equal(t, uint8(10), l.Next(15, 10))
	assert.Equal(t, uint8(20), l.Next(10, 20))
	assert.Equal(t, uint8(10), l.Next(20, 10))
	assert.Equal(t, uint8(20), l.Next(10, 30))
}

func TestNextIsIdempotentAtEquilibrium(t *testing.T) {
	for _, delta := range []uint8{1, 7, 255} {
		l := createLimiter(t, delta)
		for x := 0; x <= math.MaxUint8; x++ {
			assert.Equal(t, uint8(x), l.Next(uint8(x), uint8(x)))
		}
	}
}

func TestNextBoundarySafety(t *testing.T) {
	for _, delta := range []uint8{1, 2, 128, 254, 255} {
		// GIVEN
		l := createLimiter(t, delta)

		// THEN
		assert.Equal(t, uint8(0), l.Next(0, 0))
		assert.Equal(t, uint8(255), l.Next(255, 255))

		up := l.Next(0, 255)
		assert.Equal(t, delta, up, "delta %d", delta)

		down := l.Next(255, 0)
		assert.Equal(t, uint8(255)-delta, down, "delta %d", delta)
	}
}

func TestNextNearDomainEdgesDoesNotWrap(t *testing.T) {
	// GIVEN
	l := createLimiter(t, 10)

	// THEN
	// adding 10 to 250 would wrap around to 4
	assert.Equal(t, uint8(253), l.Next(250, 253))
	assert.Equal(t, uint8(255), l.Next(250, 255))
	assert.Equal(t, uint8(255), l.Next(254, 255))
	// subtracting 10 from 5 would wrap around to 251
	assert.Equal(t, uint8(2), l.Next(5, 2))
	assert.Equal(t, uint8(0), l.Next(5, 0))
	assert.Equal(t, uint8(0), l.Next(1, 0))
}

// checks the step properties for every (current, target) pair
func TestNextExhaustive(t *testing.T) {
	for _, delta := range []uint8{1, 3, 64, 255} {
		l := createLimiter(t, delta)
		for current := 0; current <= math.MaxUint8; current++ {
			for target := 0; target <= math.MaxUint8; target++ {
				// WHEN
				next := int(l.Next(uint8(current), uint8(target)))

				// THEN
				if current == target {
					if next != current {
						t.Fatalf("delta %d: Next(%d, %d) = %d, expected no change", delta, current, target, next)
					}
					continue
				}
				step := next - current
				if step < 0 {
					step = -step
				}
				if step > int(delta) {
					t.Fatalf("delta %d: Next(%d, %d) = %d, step too large", delta, current, target, next)
				}
				if current < target && (next <= current || next > target) {
					t.Fatalf("delta %d: Next(%d, %d) = %d, expected in (current, target]", delta, current, target, next)
				}
				if current > target && (next >= current || next < target) {
					t.Fatalf("delta %d: Next(%d, %d) = %d, expected in [target, current)", delta, current, target, next)
				}
			}
		}
	}
}

func TestNextConvergesWithinExpectedSteps(t *testing.T) {
	for _, delta := range []uint8{1, 3, 100} {
		l := createLimiter(t, delta)
		for _, pair := range [][2]uint8{{0, 255}, {255, 0}, {0, 63}, {200, 17}, {42, 42}} {
			current, target := pair[0], pair[1]
			expectedSteps := int(l.StepsToReach(current, target))

			// WHEN
			steps := 0
			for current != target {
				current = l.Next(current, target)
				steps++
				require.LessOrEqual(t, steps, 256, "did not converge")
			}

			// THEN
			assert.Equal(t, expectedSteps, steps, "delta %d pair %v", delta, pair)
			for i := 0; i < 10; i++ {
				assert.Equal(t, target, l.Next(current, target))
			}
		}
	}
}

func TestStepsToReach(t *testing.T) {
	// GIVEN
	l := createLimiter(t, 2)

	// THEN
	assert.Equal(t, uint8(0), l.StepsToReach(5, 5))
	assert.Equal(t, uint8(128), l.StepsToReach(0, 255))
	assert.Equal(t, uint8(128), l.StepsToReach(255, 0))
	assert.Equal(t, uint8(1), l.StepsToReach(10, 11))
}

func TestLimiterWorksForWiderTypes(t *testing.T) {
	// GIVEN
	l, err := NewLimiter[uint16](1000)
	require.NoError(t, err)

	// THEN
	assert.Equal(t, uint16(65535), l.Next(65000, 65535))
	assert.Equal(t, uint16(0), l.Next(500, 0))
	assert.Equal(t, uint16(1500), l.Next(500, 2000))
	assert.Equal(t, uint16(1000), l.Delta())
}

func TestRampFromZeroToDutyLow(t *testing.T) {
	// GIVEN
	l := createLimiter(t, 1)
	current := uint8(0)
	target := uint8(63)

	// WHEN
	var history []uint8
	for i := 0; i < 100; i++ {
		current = l.Next(current, target)
		history = append(history, current)
	}

	// THEN
	assert.Equal(t, uint8(62), history[61])
	assert.Equal(t, uint8(63), history[62])
	for _, value := range history[62:] {
		assert.Equal(t, uint8(63), value)
	}
}
