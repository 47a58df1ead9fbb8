package types

// RegisterRequest represents the request body for registering a user
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateDietProfileRequest represents the diet-input form submission
type UpdateDietProfileRequest struct {
	Height       int    `json:"height"`
	Weight       int    `json:"weight"`
	Goal         string `json:"goal" binding:"omitempty,oneof=lose maintain gain"`
	Restrictions string `json:"restrictions"`
	Foods        string `json:"foods"`
}

// GenerateMealPlanRequest represents the request body for meal plan generation.
// Fields left empty fall back to the stored diet profile.
type GenerateMealPlanRequest struct {
	Height       int    `json:"height"`
	Weight       int    `json:"weight"`
	Goal         string `json:"goal"`
	Restrictions string `json:"restrictions"`
	Foods        string `json:"foods"`
}

// RecommendationRequest represents the request body for AI meal recommendations
type RecommendationRequest struct {
	Refresh bool `json:"refresh"`
}

// EstimateNutritionRequest represents the manual-entry nutrition estimation call
type EstimateNutritionRequest struct {
	Title       string   `json:"title" binding:"required"`
	Ingredients []string `json:"ingredients"`
}

// SaveRecipeRequest represents the request body for saving a searched recipe
type SaveRecipeRequest struct {
	ID        int64   `json:"id" binding:"required"`
	Title     string  `json:"title" binding:"required"`
	Image     string  `json:"image"`
	SourceURL string  `json:"sourceUrl"`
	Calories  float64 `json:"calories"`
	Protein   float64 `json:"protein"`
	Carbs     float64 `json:"carbs"`
	Fat       float64 `json:"fat"`
}

// LogFoodsRequest represents the request body for logging eaten foods
type LogFoodsRequest struct {
	Foods []string `json:"foods" binding:"required,min=1"`
}
