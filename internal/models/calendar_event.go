package models

import (
	"math"
	"time"
)

// Meal type values recognized by the calendar. Anything else is treated as
// an unclassified snack.
const (
	MealTypeBreakfast = "breakfast"
	MealTypeLunch     = "lunch"
	MealTypeDinner    = "dinner"
	MealTypeSnack     = "snack"
)

// CalendarEvent is one meal placed on the calendar. Events are grouped by
// exact equality of the Date string, formatted YYYY-MM-DD.
type CalendarEvent struct {
	ID             int64   `json:"id"`
	Title          string  `json:"title"`
	Time           string  `json:"time"`
	Type           string  `json:"type"`
	Date           string  `json:"date"`
	Calories       float64 `json:"calories"`
	Protein        float64 `json:"protein"`
	Carbs          float64 `json:"carbs"`
	Fat            float64 `json:"fat"`
	Image          string  `json:"image,omitempty"`
	IsFromMealPlan bool    `json:"isFromMealPlan,omitempty"`
}

// Normalize clamps the macro fields to finite non-negative values.
func (e *CalendarEvent) Normalize() {
	e.Calories = NormalizeMacro(e.Calories)
	e.Protein = NormalizeMacro(e.Protein)
	e.Carbs = NormalizeMacro(e.Carbs)
	e.Fat = NormalizeMacro(e.Fat)
}

// NormalizeMacro maps NaN, infinities and negative values to zero so that
// bad upstream nutrition data never corrupts daily totals.
func NormalizeMacro(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// NutritionTotals accumulates the four macro fields over a set of events.
type NutritionTotals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// Add folds one event's macros into the totals.
func (t *NutritionTotals) Add(e CalendarEvent) {
	t.Calories += e.Calories
	t.Protein += e.Protein
	t.Carbs += e.Carbs
	t.Fat += e.Fat
}

// PlanMeal is the calendar-facing shape of one generated plan meal.
type PlanMeal struct {
	Title    string  `json:"title"`
	Type     string  `json:"type"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Image    string  `json:"image,omitempty"`
}

// ValidDate reports whether date is a real calendar date formatted
// YYYY-MM-DD.
func ValidDate(date string) bool {
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}
