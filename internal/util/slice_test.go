package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortedKeys(t *testing.T) {
	// GIVEN
	input := map[int]int{
		80: 2000,
		40: 0,
		60: 1000,
	}

	// WHEN
	result := SortedKeys(input)

	// THEN
	assert.Equal(t, []int{40, 60, 80}, result)
}

func TestFindDuplicate(t *testing.T) {
	// GIVEN
	ids := []string{"cpu", "gpu", "cpu"}

	// WHEN
	duplicate, found := FindDuplicate(ids)

	// THEN
	assert.True(t, found)
	assert.Equal(t, "cpu", duplicate)
}

func TestFindDuplicate_None(t *testing.T) {
	// GIVEN
	ids := []string{"cpu", "gpu"}

	// WHEN
	_, found := FindDuplicate(ids)

	// THEN
	assert.False(t, found)
}
