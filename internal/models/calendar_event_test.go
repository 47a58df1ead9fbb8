package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeMacro(t *testing.T) {
	assert.Equal(t, 0.0, NormalizeMacro(math.NaN()))
	assert.Equal(t, 0.0, NormalizeMacro(math.Inf(1)))
	assert.Equal(t, 0.0, NormalizeMacro(math.Inf(-1)))
	assert.Equal(t, 0.0, NormalizeMacro(-5))
	assert.Equal(t, 0.0, NormalizeMacro(0))
	assert.Equal(t, 42.5, NormalizeMacro(42.5))
}

func TestCalendarEventNormalize(t *testing.T) {
	e := CalendarEvent{Calories: -100, Protein: math.NaN(), Carbs: 50, Fat: math.Inf(1)}
	e.Normalize()

	assert.Zero(t, e.Calories)
	assert.Zero(t, e.Protein)
	assert.Equal(t, 50.0, e.Carbs)
	assert.Zero(t, e.Fat)
}

func TestNutritionTotalsAdd(t *testing.T) {
	var totals NutritionTotals
	totals.Add(CalendarEvent{Calories: 300, Protein: 10, Carbs: 50, Fat: 5})
	totals.Add(CalendarEvent{Calories: 450, Protein: 35, Carbs: 20, Fat: 22})

	assert.Equal(t, 750.0, totals.Calories)
	assert.Equal(t, 45.0, totals.Protein)
	assert.Equal(t, 70.0, totals.Carbs)
	assert.Equal(t, 27.0, totals.Fat)
}

func TestValidDate(t *testing.T) {
	assert.True(t, ValidDate("2024-06-03"))
	assert.True(t, ValidDate("2024-02-29"), "leap day is valid")
	assert.False(t, ValidDate("2023-02-29"), "non-leap February 29 is invalid")
	assert.False(t, ValidDate("06/03/2024"))
	assert.False(t, ValidDate("2024-13-01"))
	assert.False(t, ValidDate(""))
}
