package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timmyloos/Meal-Planner-for-Students/internal/middleware"
	"github.com/timmyloos/Meal-Planner-for-Students/internal/models"
	"github.com/timmyloos/Meal-Planner-for-Students/internal/planner"
	"github.com/timmyloos/Meal-Planner-for-Students/internal/types"
)

// fakeStore is an EventStore kept entirely in memory.
type fakeStore struct {
	payloads map[string]planner.StoredEvents
}

func newFakeStore() *fakeStore {
	return &fakeStore{payloads: make(map[string]planner.StoredEvents)}
}

func (s *fakeStore) Load(ctx context.Context, userID string) (planner.StoredEvents, error) {
	if payload, ok := s.payloads[userID]; ok {
		return payload, nil
	}
	return planner.StoredEvents{Events: []models.CalendarEvent{}}, nil
}

func (s *fakeStore) Save(ctx context.Context, userID string, payload planner.StoredEvents) error {
	s.payloads[userID] = payload
	return nil
}

// fakeValidator accepts every token as the fixed test user.
type fakeValidator struct {
	userID uuid.UUID
}

func (v *fakeValidator) ValidateToken(token string) (*types.TokenClaims, error) {
	if token == "bad" {
		return nil, fmt.Errorf("invalid token")
	}
	return &types.TokenClaims{UserID: v.userID}, nil
}

func newCalendarTestRouter(t *testing.T) (*gin.Engine, uuid.UUID) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	userID := uuid.New()
	sessions := planner.NewSessionManager(newFakeStore())
	handler := NewCalendarHandler(sessions)

	r := gin.New()
	protected := r.Group("/api/v1")
	protected.Use(middleware.AuthMiddleware(&fakeValidator{userID: userID}))
	handler.RegisterRoutes(protected)

	return r, userID
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer test-token")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCalendarRequiresAuth(t *testing.T) {
	r, _ := newCalendarTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/calendar-events", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req.Header.Set("Authorization", "Bearer bad")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCalendarListStartsEmpty(t *testing.T) {
	r, _ := newCalendarTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/v1/calendar-events", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		CalendarEvents []models.CalendarEvent `json:"calendar_events"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotNil(t, resp.CalendarEvents)
	assert.Empty(t, resp.CalendarEvents)
}

func TestCalendarAddAndListEvent(t *testing.T) {
	r, _ := newCalendarTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/calendar-events/events", planner.EventInput{
		Title:    "Oatmeal",
		Type:     models.MealTypeBreakfast,
		Date:     "2024-06-03",
		Calories: 300, Protein: 10, Carbs: 50, Fat: 5,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var event models.CalendarEvent
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &event))
	assert.NotZero(t, event.ID)
	assert.Equal(t, "08:00", event.Time)

	w = doJSON(t, r, http.MethodGet, "/api/v1/calendar-events", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		CalendarEvents []models.CalendarEvent `json:"calendar_events"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.CalendarEvents, 1)
	assert.Equal(t, "Oatmeal", resp.CalendarEvents[0].Title)
}

func TestCalendarAddEventValidation(t *testing.T) {
	r, _ := newCalendarTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/calendar-events/events", planner.EventInput{
		Date: "2024-06-03",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "title")
}

func TestCalendarRemoveEvent(t *testing.T) {
	r, _ := newCalendarTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/calendar-events/events", planner.EventInput{
		Title: "Oatmeal", Date: "2024-06-03",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var event models.CalendarEvent
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &event))

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/v1/calendar-events/events/%d", event.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Unknown ids are a no-op, still 200
	w = doJSON(t, r, http.MethodDelete, "/api/v1/calendar-events/events/999999", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/v1/calendar-events/events/not-a-number", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCalendarDayAndTotals(t *testing.T) {
	r, _ := newCalendarTestRouter(t)

	for _, e := range []planner.EventInput{
		{Title: "Oatmeal", Date: "2024-06-03", Calories: 300, Protein: 10},
		{Title: "Salad", Date: "2024-06-03", Calories: 450, Protein: 35},
		{Title: "Pasta", Date: "2024-06-04", Calories: 600},
	} {
		w := doJSON(t, r, http.MethodPost, "/api/v1/calendar-events/events", e)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(t, r, http.MethodGet, "/api/v1/calendar-events/day/2024-06-03", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var day struct {
		CalendarEvents []models.CalendarEvent `json:"calendar_events"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &day))
	assert.Len(t, day.CalendarEvents, 2)

	w = doJSON(t, r, http.MethodGet, "/api/v1/calendar-events/day/2024-06-03/totals", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var totals struct {
		Totals models.NutritionTotals `json:"totals"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &totals))
	assert.Equal(t, 750.0, totals.Totals.Calories)
	assert.Equal(t, 45.0, totals.Totals.Protein)

	w = doJSON(t, r, http.MethodGet, "/api/v1/calendar-events/day/bad-date", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCalendarWeek(t *testing.T) {
	r, _ := newCalendarTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/calendar-events/events", planner.EventInput{
		Title: "Oatmeal", Date: "2024-06-03", Calories: 300,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// 2024-06-05 is a Wednesday; its week starts Sunday 2024-06-02
	w = doJSON(t, r, http.MethodGet, "/api/v1/calendar-events/week?date=2024-06-05", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Days []struct {
			Date   string                 `json:"date"`
			Events []models.CalendarEvent `json:"calendar_events"`
			Totals models.NutritionTotals `json:"totals"`
		} `json:"days"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Days, 7)
	assert.Equal(t, "2024-06-02", resp.Days[0].Date)
	assert.Equal(t, "2024-06-08", resp.Days[6].Date)

	monday := resp.Days[1]
	require.Len(t, monday.Events, 1)
	assert.Equal(t, 300.0, monday.Totals.Calories)
}

func TestCalendarAddMealPlan(t *testing.T) {
	r, _ := newCalendarTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/calendar-events/meal-plan", gin.H{
		"date": "2024-06-03",
		"meals": []models.PlanMeal{
			{Title: "Eggs", Type: models.MealTypeBreakfast, Calories: 250},
			{Title: "Salad", Type: models.MealTypeLunch, Calories: 350},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		CalendarEvents []models.CalendarEvent `json:"calendar_events"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.CalendarEvents, 2)
	assert.Equal(t, "08:00", resp.CalendarEvents[0].Time)
	assert.Equal(t, "12:00", resp.CalendarEvents[1].Time)
	assert.True(t, resp.CalendarEvents[0].IsFromMealPlan)
}

func TestCalendarReplaceEvents(t *testing.T) {
	r, _ := newCalendarTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/calendar-events", gin.H{
		"calendar_events": []models.CalendarEvent{
			{Title: "Restored", Date: "2024-06-03", Calories: 300},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		CalendarEvents []models.CalendarEvent `json:"calendar_events"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.CalendarEvents, 1)
	assert.NotZero(t, resp.CalendarEvents[0].ID, "missing ids are assigned")
}

func TestCalendarExportICS(t *testing.T) {
	r, _ := newCalendarTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/calendar-events/events", planner.EventInput{
		Title: "Oatmeal", Date: "2024-06-03", Time: "08:00",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/calendar-events/export.ics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/calendar")
	assert.Contains(t, w.Body.String(), "SUMMARY:Oatmeal")
}
