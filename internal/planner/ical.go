package planner

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/timmyloos/Meal-Planner-for-Students/internal/models"
)

const defaultMealDuration = 30 * time.Minute

// ExportICS renders the event list as an iCalendar feed so the meal schedule
// can be subscribed to from Google Calendar or any other calendar client.
// Events with an unparseable date or time are skipped rather than failing
// the whole export.
func ExportICS(events []models.CalendarEvent) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//Meal Planner for Students//Calendar//EN")

	for _, e := range events {
		start, err := eventStart(e)
		if err != nil {
			continue
		}

		ev := cal.AddEvent(fmt.Sprintf("meal-%d@meal-planner", e.ID))
		ev.SetStartAt(start)
		ev.SetEndAt(start.Add(defaultMealDuration))
		ev.SetSummary(e.Title)
		ev.SetDescription(fmt.Sprintf("%s | %.0f kcal, %.0fg protein, %.0fg carbs, %.0fg fat",
			e.Type, e.Calories, e.Protein, e.Carbs, e.Fat))
		ev.SetDtStampTime(time.Now())
	}

	return cal.Serialize()
}

func eventStart(e models.CalendarEvent) (time.Time, error) {
	clock := e.Time
	if clock == "" {
		clock = defaultMealTime(e.Type)
	}
	return time.ParseInLocation("2006-01-02 15:04", e.Date+" "+clock, time.Local)
}
