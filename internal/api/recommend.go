package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/timmyloos/Meal-Planner-for-Students/internal/service"
	"github.com/timmyloos/Meal-Planner-for-Students/internal/types"
)

// RecommendHandler serves AI meal recommendations and nutrition estimates.
type RecommendHandler struct {
	gemini   *service.GeminiService
	profiles *service.ProfileService
	recipes  *service.RecipeService
}

func NewRecommendHandler(gemini *service.GeminiService, profiles *service.ProfileService, recipes *service.RecipeService) *RecommendHandler {
	return &RecommendHandler{
		gemini:   gemini,
		profiles: profiles,
		recipes:  recipes,
	}
}

func (h *RecommendHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/recommendations", h.Recommendations)
	router.POST("/nutrition/estimate", h.EstimateNutrition)
}

// Recommendations builds the prompt from the diet profile, recent food log
// and saved recipes, and returns the model's suggestions. Responses are
// cached per user unless refresh is requested.
func (h *RecommendHandler) Recommendations(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req types.RecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.profiles.Profile(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}

	input := service.RecommendationInput{
		Height:       profile.HeightCm,
		Weight:       profile.WeightKg,
		Goal:         profile.Goal,
		Restrictions: profile.Restrictions,
	}
	if foods, err := h.recipes.RecentFoods(c.Request.Context(), userID, 20); err == nil {
		input.FoodLog = foods
	}
	if titles, err := h.recipes.RecentSavedTitles(c.Request.Context(), userID, 10); err == nil {
		input.RecentRecipes = titles
	}

	recommendations, err := h.gemini.Recommendations(c.Request.Context(), userID.String(), input, req.Refresh)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "recommendation service unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"recommendations": recommendations})
}

// EstimateNutrition estimates macros for a manually entered meal.
func (h *RecommendHandler) EstimateNutrition(c *gin.Context) {
	var req types.EstimateNutritionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	estimate, err := h.gemini.EstimateNutrition(c.Request.Context(), req.Title, req.Ingredients)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "nutrition estimation failed"})
		return
	}

	c.JSON(http.StatusOK, estimate)
}
