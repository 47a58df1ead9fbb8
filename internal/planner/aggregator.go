package planner

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/timmyloos/Meal-Planner-for-Students/internal/models"
)

// ValidationError blocks a local mutation. It is recoverable at the API
// boundary and never fatal to the session.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// EventInput carries the fields of a manually entered calendar event.
type EventInput struct {
	Title    string  `json:"title"`
	Time     string  `json:"time"`
	Type     string  `json:"type"`
	Date     string  `json:"date"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Image    string  `json:"image"`
}

// Aggregator owns the authoritative calendar event list for one user session
// and answers day-level and week-level queries against it. The remote store
// is a passive mirror: every mutation triggers a best-effort persist, and a
// persist failure is logged without rolling back the local append.
//
// All mutations and persists run under one mutex, so writes to the store are
// serialized per session and each carries a strictly increasing version.
type Aggregator struct {
	mu      sync.Mutex
	userID  string
	store   EventStore
	events  []models.CalendarEvent
	version int64
	lastID  int64
}

// NewAggregator loads the persisted list for userID. A load failure is a
// soft failure: the session starts with an empty list and a logged warning
// rather than failing outright.
func NewAggregator(ctx context.Context, store EventStore, userID string) *Aggregator {
	a := &Aggregator{
		userID: userID,
		store:  store,
		events: []models.CalendarEvent{},
	}

	payload, err := store.Load(ctx, userID)
	if err != nil {
		log.Printf("calendar: failed to load events for user %s, starting empty: %v", userID, err)
		return a
	}

	a.events = payload.Events
	a.version = payload.Version
	for _, e := range a.events {
		if e.ID > a.lastID {
			a.lastID = e.ID
		}
	}
	return a
}

// WeekWindow returns the seven dates of anchor's calendar week, starting on
// the Sunday on or before anchor. Pure and stable; rolls correctly over
// month and year boundaries.
func WeekWindow(anchor time.Time) [7]time.Time {
	day := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, anchor.Location())
	sunday := day.AddDate(0, 0, -int(day.Weekday()))

	var window [7]time.Time
	for i := range window {
		window[i] = sunday.AddDate(0, 0, i)
	}
	return window
}

// Events returns a copy of the full event list in insertion order.
func (a *Aggregator) Events() []models.CalendarEvent {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshot()
}

// EventsOnDate returns the events whose date exactly matches the given
// YYYY-MM-DD string, in insertion order. No re-sorting by time is done.
func (a *Aggregator) EventsOnDate(date string) []models.CalendarEvent {
	a.mu.Lock()
	defer a.mu.Unlock()

	matched := []models.CalendarEvent{}
	for _, e := range a.events {
		if e.Date == date {
			matched = append(matched, e)
		}
	}
	return matched
}

// DailyTotals sums the four macro fields over the events of one date.
// All-zero totals when the day is empty; summation order does not matter.
func (a *Aggregator) DailyTotals(date string) models.NutritionTotals {
	a.mu.Lock()
	defer a.mu.Unlock()

	var totals models.NutritionTotals
	for _, e := range a.events {
		if e.Date == date {
			totals.Add(e)
		}
	}
	return totals
}

// AddEvent validates the input, appends a new event with a fresh unique id
// and persists the updated list. The local append is kept even when the
// persist fails.
func (a *Aggregator) AddEvent(ctx context.Context, input EventInput) (models.CalendarEvent, error) {
	if input.Title == "" {
		return models.CalendarEvent{}, &ValidationError{Field: "title", Message: "title must not be empty"}
	}
	if input.Date == "" {
		return models.CalendarEvent{}, &ValidationError{Field: "date", Message: "a date must be selected"}
	}
	if !models.ValidDate(input.Date) {
		return models.CalendarEvent{}, &ValidationError{Field: "date", Message: "date must be a valid YYYY-MM-DD date"}
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	eventTime := input.Time
	if eventTime == "" {
		eventTime = defaultMealTime(input.Type)
	}

	event := models.CalendarEvent{
		ID:       a.nextID(),
		Title:    input.Title,
		Time:     eventTime,
		Type:     input.Type,
		Date:     input.Date,
		Calories: input.Calories,
		Protein:  input.Protein,
		Carbs:    input.Carbs,
		Fat:      input.Fat,
		Image:    input.Image,
	}
	event.Normalize()

	a.events = append(a.events, event)
	a.persist(ctx)
	return event, nil
}

// AddMealPlanToDate bulk-converts generated plan meals into events on one
// date, assigning each the default time slot for its meal type, and persists
// the whole list in a single call.
func (a *Aggregator) AddMealPlanToDate(ctx context.Context, meals []models.PlanMeal, date string) ([]models.CalendarEvent, error) {
	if date == "" {
		return nil, &ValidationError{Field: "date", Message: "a date must be selected"}
	}
	if !models.ValidDate(date) {
		return nil, &ValidationError{Field: "date", Message: "date must be a valid YYYY-MM-DD date"}
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	added := make([]models.CalendarEvent, 0, len(meals))
	for _, meal := range meals {
		event := models.CalendarEvent{
			ID:             a.nextID(),
			Title:          meal.Title,
			Time:           defaultMealTime(meal.Type),
			Type:           meal.Type,
			Date:           date,
			Calories:       meal.Calories,
			Protein:        meal.Protein,
			Carbs:          meal.Carbs,
			Fat:            meal.Fat,
			Image:          meal.Image,
			IsFromMealPlan: true,
		}
		event.Normalize()
		added = append(added, event)
	}

	a.events = append(a.events, added...)
	a.persist(ctx)
	return added, nil
}

// RemoveEvent filters the event out by id and persists. Removing an unknown
// id is a no-op, not an error.
func (a *Aggregator) RemoveEvent(ctx context.Context, id int64) []models.CalendarEvent {
	a.mu.Lock()
	defer a.mu.Unlock()

	kept := a.events[:0:0]
	removed := false
	for _, e := range a.events {
		if e.ID == id {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	if !removed {
		return a.snapshot()
	}

	if kept == nil {
		kept = []models.CalendarEvent{}
	}
	a.events = kept
	a.persist(ctx)
	return a.snapshot()
}

// ReplaceEvents swaps in a full list, normalizing every event and assigning
// ids where missing. This backs the bulk POST contract of the event store
// endpoint.
func (a *Aggregator) ReplaceEvents(ctx context.Context, events []models.CalendarEvent) []models.CalendarEvent {
	a.mu.Lock()
	defer a.mu.Unlock()

	replaced := make([]models.CalendarEvent, 0, len(events))
	for _, e := range events {
		if e.ID == 0 {
			e.ID = a.nextID()
		} else if e.ID > a.lastID {
			a.lastID = e.ID
		}
		e.Normalize()
		replaced = append(replaced, e)
	}

	a.events = replaced
	a.persist(ctx)
	return a.snapshot()
}

// persist writes the current list to the remote mirror. Callers must hold
// a.mu, which serializes writes and keeps versions strictly increasing.
// Failures are non-fatal warnings; in-memory state stays authoritative.
func (a *Aggregator) persist(ctx context.Context) {
	a.version++
	payload := StoredEvents{
		Version: a.version,
		Events:  a.snapshot(),
	}
	if err := a.store.Save(ctx, a.userID, payload); err != nil {
		log.Printf("calendar: failed to persist events for user %s (version %d): %v", a.userID, a.version, err)
	}
}

func (a *Aggregator) snapshot() []models.CalendarEvent {
	out := make([]models.CalendarEvent, len(a.events))
	copy(out, a.events)
	return out
}

// nextID derives ids from the wall clock, bumping past the previous id when
// two events are created within the same millisecond. Unique for the
// lifetime of the session.
func (a *Aggregator) nextID() int64 {
	id := time.Now().UnixMilli()
	if id <= a.lastID {
		id = a.lastID + 1
	}
	a.lastID = id
	return id
}

func defaultMealTime(mealType string) string {
	switch mealType {
	case models.MealTypeBreakfast:
		return "08:00"
	case models.MealTypeLunch:
		return "12:00"
	case models.MealTypeDinner:
		return "18:00"
	default:
		return "12:00"
	}
}
