package api

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/timmyloos/Meal-Planner-for-Students/internal/service"
	"github.com/timmyloos/Meal-Planner-for-Students/internal/types"
)

// RecipeHandler proxies recipe search to Spoonacular and manages the
// user's saved recipes, ingredient search history and food log.
type RecipeHandler struct {
	spoonacular *service.SpoonacularService
	recipes     *service.RecipeService
}

func NewRecipeHandler(spoonacular *service.SpoonacularService, recipes *service.RecipeService) *RecipeHandler {
	return &RecipeHandler{
		spoonacular: spoonacular,
		recipes:     recipes,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("/search", h.Search)
		recipes.GET("/by-ingredients", h.ByIngredients)
		recipes.GET("/by-nutrients", h.ByNutrients)
		recipes.GET("/random", h.Random)
		recipes.GET("/autocomplete", h.Autocomplete)
		recipes.GET("/ingredients/autocomplete", h.AutocompleteIngredients)
		recipes.GET("/ingredients/history", h.IngredientHistory)
		recipes.GET("/:id/information", h.Information)

		recipes.GET("/saved", h.ListSaved)
		recipes.POST("/saved", h.Save)
		recipes.DELETE("/saved/:id", h.DeleteSaved)
		recipes.GET("/saved/search", h.SearchSaved)
	}

	foodLog := router.Group("/food-log")
	{
		foodLog.GET("", h.FoodLog)
		foodLog.POST("", h.LogFoods)
	}
}

// Search proxies a recipe search with nutrition data attached.
func (h *RecipeHandler) Search(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter is required"})
		return
	}

	opts := service.SearchOptions{
		Diet:    c.Query("diet"),
		Cuisine: c.Query("cuisine"),
	}
	if raw := c.Query("maxReadyTime"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			opts.MaxReadyTime = v
		}
	}
	if raw := c.Query("number"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			opts.Number = v
		}
	}

	results, err := h.spoonacular.SearchRecipes(c.Request.Context(), query, opts)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "recipe search failed"})
		return
	}

	c.JSON(http.StatusOK, results)
}

// ByIngredients finds recipes using the given ingredients and records the
// search in the user's ingredient history.
func (h *RecipeHandler) ByIngredients(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ingredients := c.Query("ingredients")
	if ingredients == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ingredients parameter is required"})
		return
	}

	number := 10
	if raw := c.Query("number"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			number = v
		}
	}

	results, err := h.spoonacular.FindByIngredients(c.Request.Context(), ingredients, number)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "ingredient search failed"})
		return
	}

	if err := h.recipes.LogIngredientSearch(c.Request.Context(), userID, ingredients); err != nil {
		log.Printf("failed to log ingredient search for user %s: %v", userID, err)
	}

	c.Data(http.StatusOK, "application/json", results)
}

// ByNutrients finds recipes within macro bounds given as query parameters.
func (h *RecipeHandler) ByNutrients(c *gin.Context) {
	intQuery := func(name string) int {
		v, _ := strconv.Atoi(c.Query(name))
		return v
	}

	results, err := h.spoonacular.FindByNutrients(c.Request.Context(),
		intQuery("maxCalories"), intQuery("minProtein"), intQuery("maxCarbs"), intQuery("number"))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "nutrient search failed"})
		return
	}

	c.Data(http.StatusOK, "application/json", results)
}

func (h *RecipeHandler) Random(c *gin.Context) {
	number := 10
	if raw := c.Query("number"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			number = v
		}
	}

	results, err := h.spoonacular.RandomRecipes(c.Request.Context(), number)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch random recipes"})
		return
	}

	c.Data(http.StatusOK, "application/json", results)
}

func (h *RecipeHandler) Autocomplete(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter is required"})
		return
	}

	results, err := h.spoonacular.AutocompleteRecipes(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "autocomplete failed"})
		return
	}

	c.Data(http.StatusOK, "application/json", results)
}

func (h *RecipeHandler) AutocompleteIngredients(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter is required"})
		return
	}

	results, err := h.spoonacular.AutocompleteIngredients(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "autocomplete failed"})
		return
	}

	c.Data(http.StatusOK, "application/json", results)
}

func (h *RecipeHandler) Information(c *gin.Context) {
	recipeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe ID"})
		return
	}

	info, err := h.spoonacular.RecipeInformation(c.Request.Context(), recipeID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch recipe information"})
		return
	}

	c.JSON(http.StatusOK, info)
}

func (h *RecipeHandler) IngredientHistory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	history, err := h.recipes.IngredientHistory(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load ingredient history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": history})
}

func (h *RecipeHandler) ListSaved(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	saved, err := h.recipes.ListSaved(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load saved recipes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipes": saved})
}

// Save stores a searched recipe. Saving an already saved recipe returns the
// existing row rather than an error.
func (h *RecipeHandler) Save(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req types.SaveRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, alreadySaved, err := h.recipes.SaveRecipe(c.Request.Context(), userID, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save recipe"})
		return
	}

	status := http.StatusCreated
	if alreadySaved {
		status = http.StatusOK
	}
	c.JSON(status, recipe)
}

func (h *RecipeHandler) DeleteSaved(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	spoonacularID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe ID"})
		return
	}

	if err := h.recipes.DeleteSaved(c.Request.Context(), userID, spoonacularID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete recipe"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "recipe removed"})
}

func (h *RecipeHandler) SearchSaved(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter is required"})
		return
	}

	results, err := h.recipes.SearchSaved(c.Request.Context(), userID, query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipes": results})
}

func (h *RecipeHandler) FoodLog(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	entries, err := h.recipes.FoodLog(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load food log"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (h *RecipeHandler) LogFoods(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req types.LogFoodsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.recipes.LogFoods(c.Request.Context(), userID, req.Foods)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to log foods"})
		return
	}

	c.JSON(http.StatusCreated, entry)
}
