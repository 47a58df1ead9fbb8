package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/timmyloos/Meal-Planner-for-Students/internal/service"
	"github.com/timmyloos/Meal-Planner-for-Students/internal/types"
)

// MealPlanHandler generates daily meal plans sized to the user's calorie
// target.
type MealPlanHandler struct {
	mealPlans   *service.MealPlanService
	profiles    *service.ProfileService
	spoonacular *service.SpoonacularService
}

func NewMealPlanHandler(mealPlans *service.MealPlanService, profiles *service.ProfileService, spoonacular *service.SpoonacularService) *MealPlanHandler {
	return &MealPlanHandler{
		mealPlans:   mealPlans,
		profiles:    profiles,
		spoonacular: spoonacular,
	}
}

func (h *MealPlanHandler) RegisterRoutes(router *gin.RouterGroup) {
	mealPlan := router.Group("/meal-plan")
	{
		mealPlan.POST("/generate", h.Generate)
		mealPlan.GET("/template", h.Template)
	}
}

// Generate builds a breakfast/lunch/dinner plan. Request fields left empty
// fall back to the stored diet profile.
func (h *MealPlanHandler) Generate(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req types.GenerateMealPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prefs := service.DietPreferences{
		Height:       req.Height,
		Weight:       req.Weight,
		Goal:         req.Goal,
		Restrictions: req.Restrictions,
		Foods:        req.Foods,
	}

	if prefs.Height == 0 || prefs.Weight == 0 || prefs.Goal == "" {
		profile, err := h.profiles.Profile(c.Request.Context(), userID)
		if err == nil {
			if prefs.Height == 0 {
				prefs.Height = profile.HeightCm
			}
			if prefs.Weight == 0 {
				prefs.Weight = profile.WeightKg
			}
			if prefs.Goal == "" {
				prefs.Goal = profile.Goal
			}
			if prefs.Restrictions == "" {
				prefs.Restrictions = profile.Restrictions
			}
			if prefs.Foods == "" {
				prefs.Foods = profile.Foods
			}
		}
	}

	plan, err := h.mealPlans.GenerateMealPlan(c.Request.Context(), prefs)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "meal plan generation failed"})
		return
	}

	c.JSON(http.StatusOK, plan)
}

// Template proxies Spoonacular's week-long meal plan template.
func (h *MealPlanHandler) Template(c *gin.Context) {
	diet := c.Query("diet")

	targetCalories := 2000
	if raw := c.Query("targetCalories"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			targetCalories = v
		}
	}

	template, err := h.spoonacular.MealPlanTemplate(c.Request.Context(), diet, targetCalories)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch meal plan template"})
		return
	}

	c.Data(http.StatusOK, "application/json", template)
}
