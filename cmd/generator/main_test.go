package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"icearena/internal/models"
)

func TestHourlySlots(t *testing.T) {
	slots := hourlySlots()
	require.Len(t, slots, 14)

	assert.Equal(t, models.Clock(8, 0), slots[0].Start)
	assert.Equal(t, models.Clock(22, 0), slots[len(slots)-1].End)
	assert.Equal(t, models.Rubles(3000), slots[0].Price)
	assert.Equal(t, models.Rubles(4000), slots[4].Price)
	assert.Equal(t, models.Rubles(5000), slots[13].Price)

	for i := 1; i < len(slots); i++ {
		assert.Equal(t, slots[i-1].End, slots[i].Start, "slots must be contiguous")
		assert.Nil(t, slots[i].DayOfWeek)
		assert.True(t, slots[i].IsActive)
	}
}
