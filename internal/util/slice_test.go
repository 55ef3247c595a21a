package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMax(t *testing.T) {
	// GIVEN
	values := []float64{3, -2, 7, 0}

	// THEN
	assert.Equal(t, 7.0, Max(values))
	assert.Equal(t, 0.0, Max(nil))
}

func TestSortedKeys(t *testing.T) {
	// GIVEN
	input := map[string]int{
		"throttle": 1,
		"steering": 0,
		"brake":    2,
	}

	// WHEN
	result := SortedKeys(input)

	// THEN
	assert.Equal(t, []string{"brake", "steering", "throttle"}, result)
}

func TestLast(t *testing.T) {
	// GIVEN
	values := []int{1, 2, 3, 4, 5}

	// THEN
	assert.Equal(t, []int{4, 5}, Last(values, 2))
	assert.Equal(t, values, Last(values, 10))
	assert.Equal(t, values, Last(values, -1))
}
