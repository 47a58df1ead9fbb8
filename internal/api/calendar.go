package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/timmyloos/Meal-Planner-for-Students/internal/models"
	"github.com/timmyloos/Meal-Planner-for-Students/internal/planner"
)

// CalendarHandler exposes the per-user meal calendar. Each authenticated
// user gets one aggregator session holding the authoritative event list.
type CalendarHandler struct {
	sessions *planner.SessionManager
}

func NewCalendarHandler(sessions *planner.SessionManager) *CalendarHandler {
	return &CalendarHandler{sessions: sessions}
}

func (h *CalendarHandler) RegisterRoutes(router *gin.RouterGroup) {
	calendar := router.Group("/calendar-events")
	{
		calendar.GET("", h.ListEvents)
		calendar.POST("", h.ReplaceEvents)
		calendar.POST("/events", h.AddEvent)
		calendar.DELETE("/events/:id", h.RemoveEvent)
		calendar.GET("/day/:date", h.EventsOnDate)
		calendar.GET("/day/:date/totals", h.DailyTotals)
		calendar.GET("/week", h.Week)
		calendar.POST("/meal-plan", h.AddMealPlan)
		calendar.GET("/export.ics", h.ExportICS)
	}
}

func (h *CalendarHandler) session(c *gin.Context) (*planner.Aggregator, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		return nil, false
	}
	return h.sessions.Session(c.Request.Context(), userID.String()), true
}

// ListEvents returns the full event list in insertion order.
func (h *CalendarHandler) ListEvents(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"calendar_events": session.Events()})
}

// ReplaceEvents overwrites the whole event list, the bulk-sync path used
// when a client restores a calendar wholesale.
func (h *CalendarHandler) ReplaceEvents(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req struct {
		CalendarEvents []models.CalendarEvent `json:"calendar_events"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	events := session.ReplaceEvents(c.Request.Context(), req.CalendarEvents)
	c.JSON(http.StatusOK, gin.H{"calendar_events": events})
}

func (h *CalendarHandler) AddEvent(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var input planner.EventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := session.AddEvent(c.Request.Context(), input)
	if err != nil {
		var ve *planner.ValidationError
		if errors.As(err, &ve) {
			c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add event"})
		return
	}

	c.JSON(http.StatusCreated, event)
}

// RemoveEvent deletes by ID. Removing an unknown ID is a no-op, not an
// error; the response carries the surviving list either way.
func (h *CalendarHandler) RemoveEvent(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event ID"})
		return
	}

	events := session.RemoveEvent(c.Request.Context(), id)
	c.JSON(http.StatusOK, gin.H{"calendar_events": events})
}

func (h *CalendarHandler) EventsOnDate(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	date := c.Param("date")
	if !models.ValidDate(date) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be formatted YYYY-MM-DD"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":            date,
		"calendar_events": session.EventsOnDate(date),
	})
}

func (h *CalendarHandler) DailyTotals(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	date := c.Param("date")
	if !models.ValidDate(date) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be formatted YYYY-MM-DD"})
		return
	}

	totals := session.DailyTotals(date)
	c.JSON(http.StatusOK, gin.H{
		"date":   date,
		"totals": totals,
	})
}

// Week returns the seven days of the anchor date's Sunday-start week, each
// with its events and macro totals. The anchor defaults to today.
func (h *CalendarHandler) Week(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	anchor := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be formatted YYYY-MM-DD"})
			return
		}
		anchor = parsed
	}

	type weekDay struct {
		Date   string                 `json:"date"`
		Events []models.CalendarEvent `json:"calendar_events"`
		Totals models.NutritionTotals `json:"totals"`
	}

	window := planner.WeekWindow(anchor)
	days := make([]weekDay, 0, len(window))
	for _, day := range window {
		date := day.Format("2006-01-02")
		days = append(days, weekDay{
			Date:   date,
			Events: session.EventsOnDate(date),
			Totals: session.DailyTotals(date),
		})
	}

	c.JSON(http.StatusOK, gin.H{"days": days})
}

// AddMealPlan drops a generated plan's meals onto one calendar date.
func (h *CalendarHandler) AddMealPlan(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req struct {
		Date  string            `json:"date" binding:"required"`
		Meals []models.PlanMeal `json:"meals" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	events, err := session.AddMealPlanToDate(c.Request.Context(), req.Meals, req.Date)
	if err != nil {
		var ve *planner.ValidationError
		if errors.As(err, &ve) {
			c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add meal plan"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"calendar_events": events})
}

// ExportICS renders the calendar as an iCalendar file for import into
// external calendar apps.
func (h *CalendarHandler) ExportICS(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	ics := planner.ExportICS(session.Events())
	c.Header("Content-Disposition", `attachment; filename="meal-plan.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(ics))
}
