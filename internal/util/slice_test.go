package util

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestSortedKeys(t *testing.T) {
	// GIVEN
	input := map[string]int{
		"fan_b": 2,
		"fan_a": 1,
		"fan_c": 3,
	}

	// WHEN
	result := SortedKeys(input)

	// THEN
	assert.Equal(t, []string{"fan_a", "fan_b", "fan_c"}, result)
}
