package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/timmyloos/Meal-Planner-for-Students/internal/models"
)

// DietPreferences are the user inputs driving plan generation.
type DietPreferences struct {
	Height       int    `json:"height"`
	Weight       int    `json:"weight"`
	Goal         string `json:"goal"`
	Restrictions string `json:"restrictions"`
	Foods        string `json:"foods"`
}

// Equipment is a piece of kitchen equipment referenced by a recipe.
type Equipment struct {
	Name string `json:"name"`
}

// PlannedMeal is one fully enhanced meal of a generated plan.
type PlannedMeal struct {
	Type             string            `json:"type"`
	Title            string            `json:"title"`
	Image            string            `json:"image"`
	Calories         float64           `json:"calories"`
	Protein          float64           `json:"protein"`
	Carbs            float64           `json:"carbs"`
	Fat              float64           `json:"fat"`
	ReadyInMinutes   int               `json:"readyInMinutes"`
	Servings         int               `json:"servings"`
	Instructions     string            `json:"instructions"`
	Ingredients      []json.RawMessage `json:"ingredients"`
	Equipment        []Equipment       `json:"equipment"`
	Summary          string            `json:"summary"`
	Cuisines         []string          `json:"cuisines"`
	Diets            []string          `json:"diets"`
	SourceURL        string            `json:"sourceUrl"`
	SourceName       string            `json:"sourceName"`
	PricePerServing  float64           `json:"pricePerServing"`
	HealthScore      float64           `json:"healthScore"`
	SpoonacularScore float64           `json:"spoonacularScore"`
}

// MealPlan is the generated daily plan returned to the client.
type MealPlan struct {
	DailyCalories   int             `json:"daily_calories"`
	Goal            string          `json:"goal"`
	Meals           []PlannedMeal   `json:"meals"`
	UserPreferences DietPreferences `json:"user_preferences"`
}

// PlanMeals converts the plan's meals into the shape the calendar consumes.
func (p *MealPlan) PlanMeals() []models.PlanMeal {
	meals := make([]models.PlanMeal, 0, len(p.Meals))
	for _, m := range p.Meals {
		meals = append(meals, models.PlanMeal{
			Title:    m.Title,
			Type:     m.Type,
			Calories: m.Calories,
			Protein:  m.Protein,
			Carbs:    m.Carbs,
			Fat:      m.Fat,
			Image:    m.Image,
		})
	}
	return meals
}

// MealPlanService builds a daily plan of one breakfast, lunch and dinner
// around a calorie target derived from the user's stats and goal.
type MealPlanService struct {
	spoonacular *SpoonacularService
}

func NewMealPlanService(spoonacular *SpoonacularService) *MealPlanService {
	return &MealPlanService{spoonacular: spoonacular}
}

// mealSlots defines the search query and max preparation time per meal type.
var mealSlots = []struct {
	mealType     string
	maxReadyTime int
}{
	{models.MealTypeBreakfast, 30},
	{models.MealTypeLunch, 45},
	{models.MealTypeDinner, 60},
}

// equipmentKeywords are matched against instructions when the upstream
// record carries no explicit equipment list.
var equipmentKeywords = []string{
	"oven", "stove", "pan", "pot", "bowl", "whisk", "spoon", "knife",
	"cutting board", "baking sheet", "muffin tin", "blender", "mixer",
	"food processor", "grater", "measuring cup", "measuring spoon",
}

var titleCaser = cases.Title(language.English)

// GenerateMealPlan produces a plan for the given preferences. A failed
// lookup for one meal slot skips that slot rather than failing the plan.
func (s *MealPlanService) GenerateMealPlan(ctx context.Context, prefs DietPreferences) (*MealPlan, error) {
	if !s.spoonacular.Configured() {
		return nil, fmt.Errorf("recipe service is not configured")
	}

	plan := &MealPlan{
		DailyCalories:   DailyCalorieTarget(prefs.Height, prefs.Weight, prefs.Goal),
		Goal:            goalOrDefault(prefs.Goal),
		Meals:           []PlannedMeal{},
		UserPreferences: prefs,
	}

	for _, slot := range mealSlots {
		meal, err := s.buildMeal(ctx, slot.mealType, slot.maxReadyTime)
		if err != nil {
			log.Printf("meal plan: skipping %s slot: %v", slot.mealType, err)
			continue
		}
		plan.Meals = append(plan.Meals, *meal)
	}

	return plan, nil
}

func (s *MealPlanService) buildMeal(ctx context.Context, mealType string, maxReadyTime int) (*PlannedMeal, error) {
	search, err := s.spoonacular.SearchRecipes(ctx, mealType, SearchOptions{
		Number:       1,
		MaxReadyTime: maxReadyTime,
	})
	if err != nil {
		return nil, err
	}
	if len(search.Results) == 0 {
		return nil, fmt.Errorf("no %s recipes found", mealType)
	}

	hit := search.Results[0]
	meal := &PlannedMeal{
		Type:           mealType,
		Title:          hit.Title,
		Image:          hit.Image,
		ReadyInMinutes: hit.ReadyInMinutes,
		Servings:       hit.Servings,
		Cuisines:       hit.Cuisines,
		Diets:          hit.Diets,
		Equipment:      []Equipment{},
	}
	if meal.Servings == 0 {
		meal.Servings = 1
	}
	meal.Calories = nutrientAmount(hit.Nutrition.Nutrients, "Calories")
	meal.Protein = nutrientAmount(hit.Nutrition.Nutrients, "Protein")
	meal.Carbs = nutrientAmount(hit.Nutrition.Nutrients, "Carbohydrates")
	meal.Fat = nutrientAmount(hit.Nutrition.Nutrients, "Fat")

	// Detailed info is an enhancement; a failure here still returns the meal
	info, err := s.spoonacular.RecipeInformation(ctx, hit.ID)
	if err != nil {
		log.Printf("meal plan: failed to fetch details for recipe %d: %v", hit.ID, err)
		return meal, nil
	}

	meal.Instructions = info.Instructions
	meal.Ingredients = info.ExtendedIngredients
	meal.Summary = info.Summary
	meal.SourceURL = info.SourceURL
	meal.SourceName = info.SourceName
	meal.PricePerServing = info.PricePerServing
	meal.HealthScore = info.HealthScore
	meal.SpoonacularScore = info.SpoonacularScore
	meal.Equipment = ExtractEquipment(info.Instructions)

	return meal, nil
}

// DailyCalorieTarget estimates the daily calorie goal from height (cm) and
// weight (kg) using a simplified Mifflin-St Jeor equation at an assumed age
// of 25, with a flat 20% deficit or surplus for the lose/gain goals. Falls
// back to 2000 kcal when stats are missing.
func DailyCalorieTarget(heightCm, weightKg int, goal string) int {
	if heightCm <= 0 || weightKg <= 0 {
		return 2000
	}

	bmr := 10*float64(weightKg) + 6.25*float64(heightCm) - 5*25
	switch goal {
	case "lose":
		bmr *= 0.8
	case "gain":
		bmr *= 1.2
	}
	return int(bmr)
}

// ExtractEquipment scans instructions for common kitchen equipment names
// and returns them title-cased, mirroring how recipes without an explicit
// equipment list are handled.
func ExtractEquipment(instructions string) []Equipment {
	found := []Equipment{}
	if instructions == "" {
		return found
	}

	lowered := strings.ToLower(instructions)
	for _, keyword := range equipmentKeywords {
		if strings.Contains(lowered, keyword) {
			found = append(found, Equipment{Name: titleCaser.String(keyword)})
		}
	}
	return found
}

func nutrientAmount(nutrients []Nutrient, name string) float64 {
	for _, n := range nutrients {
		if n.Name == name {
			return n.Amount
		}
	}
	return 0
}

func goalOrDefault(goal string) string {
	if goal == "" {
		return "maintain"
	}
	return goal
}
