package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// SpoonacularService wraps the Spoonacular recipe and nutrition API. Every
// method is a typed pass-through: the API key is attached server-side and
// the upstream JSON is returned with minimal reshaping.
type SpoonacularService struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// Nutrient is one entry of a recipe's nutrition breakdown.
type Nutrient struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// SearchResult is one hit of a complexSearch call with nutrition included.
type SearchResult struct {
	ID             int64    `json:"id"`
	Title          string   `json:"title"`
	Image          string   `json:"image"`
	ReadyInMinutes int      `json:"readyInMinutes"`
	Servings       int      `json:"servings"`
	Cuisines       []string `json:"cuisines"`
	Diets          []string `json:"diets"`
	Nutrition      struct {
		Nutrients []Nutrient `json:"nutrients"`
	} `json:"nutrition"`
}

// SearchResponse is the body of a complexSearch call.
type SearchResponse struct {
	Results      []SearchResult `json:"results"`
	TotalResults int            `json:"totalResults"`
}

// RecipeInfo is the detailed record of a single recipe.
type RecipeInfo struct {
	ID                  int64             `json:"id"`
	Title               string            `json:"title"`
	Instructions        string            `json:"instructions"`
	Summary             string            `json:"summary"`
	SourceURL           string            `json:"sourceUrl"`
	SourceName          string            `json:"sourceName"`
	PricePerServing     float64           `json:"pricePerServing"`
	HealthScore         float64           `json:"healthScore"`
	SpoonacularScore    float64           `json:"spoonacularScore"`
	ExtendedIngredients []json.RawMessage `json:"extendedIngredients"`
}

// SearchOptions are the supported complexSearch filters.
type SearchOptions struct {
	Diet         string
	Cuisine      string
	MaxReadyTime int
	Number       int
}

// NewSpoonacularService reads the API key from SPOONACULAR_API_KEY or
// SPOONACULAR_API_KEY_FILE.
func NewSpoonacularService() (*SpoonacularService, error) {
	apiKey := os.Getenv("SPOONACULAR_API_KEY")
	if apiKey == "" {
		apiKeyFile := os.Getenv("SPOONACULAR_API_KEY_FILE")
		if apiKeyFile == "" {
			return nil, fmt.Errorf("SPOONACULAR_API_KEY or SPOONACULAR_API_KEY_FILE must be set")
		}

		apiKeyBytes, err := os.ReadFile(apiKeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read API key file: %w", err)
		}

		apiKey = strings.TrimSpace(string(apiKeyBytes))
		if apiKey == "" {
			return nil, fmt.Errorf("API key file is empty")
		}
	}

	baseURL := os.Getenv("SPOONACULAR_API_URL")
	if baseURL == "" {
		baseURL = "https://api.spoonacular.com"
	}

	return &SpoonacularService{
		apiKey:  apiKey,
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}, nil
}

// Configured reports whether the service can reach the upstream API.
func (s *SpoonacularService) Configured() bool {
	return s != nil && s.apiKey != ""
}

func (s *SpoonacularService) get(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("apiKey", s.apiKey)

	reqURL := fmt.Sprintf("%s/%s?%s", s.baseURL, endpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("spoonacular request %s failed with status %d: %s", endpoint, resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// SearchRecipes runs complexSearch with nutrition included.
func (s *SpoonacularService) SearchRecipes(ctx context.Context, query string, opts SearchOptions) (*SearchResponse, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("addRecipeNutrition", "true")
	number := opts.Number
	if number == 0 {
		number = 10
	}
	params.Set("number", strconv.Itoa(number))
	if opts.Diet != "" {
		params.Set("diet", opts.Diet)
	}
	if opts.Cuisine != "" {
		params.Set("cuisine", opts.Cuisine)
	}
	if opts.MaxReadyTime > 0 {
		params.Set("maxReadyTime", strconv.Itoa(opts.MaxReadyTime))
	}

	var result SearchResponse
	if err := s.get(ctx, "recipes/complexSearch", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// FindByIngredients returns up to number recipes using the given
// comma-separated ingredient list, ranked to maximize used ingredients.
func (s *SpoonacularService) FindByIngredients(ctx context.Context, ingredients string, number int) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("ingredients", ingredients)
	if number == 0 {
		number = 5
	}
	params.Set("number", strconv.Itoa(number))
	params.Set("ranking", "1")

	var result json.RawMessage
	if err := s.get(ctx, "recipes/findByIngredients", params, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// RecipeInformation fetches the detailed record for one recipe.
func (s *SpoonacularService) RecipeInformation(ctx context.Context, recipeID int64) (*RecipeInfo, error) {
	var info RecipeInfo
	endpoint := fmt.Sprintf("recipes/%d/information", recipeID)
	if err := s.get(ctx, endpoint, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// FindByNutrients returns recipes within the given macro bounds. Zero
// bounds are omitted so the upstream applies its own defaults.
func (s *SpoonacularService) FindByNutrients(ctx context.Context, maxCalories, minProtein, maxCarbs int, number int) (json.RawMessage, error) {
	params := url.Values{}
	if maxCalories > 0 {
		params.Set("maxCalories", strconv.Itoa(maxCalories))
	}
	if minProtein > 0 {
		params.Set("minProtein", strconv.Itoa(minProtein))
	}
	if maxCarbs > 0 {
		params.Set("maxCarbs", strconv.Itoa(maxCarbs))
	}
	if number == 0 {
		number = 10
	}
	params.Set("number", strconv.Itoa(number))

	var result json.RawMessage
	if err := s.get(ctx, "recipes/findByNutrients", params, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// RandomRecipes returns number random recipes.
func (s *SpoonacularService) RandomRecipes(ctx context.Context, number int) (json.RawMessage, error) {
	params := url.Values{}
	if number == 0 {
		number = 1
	}
	params.Set("number", strconv.Itoa(number))

	var result json.RawMessage
	if err := s.get(ctx, "recipes/random", params, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// AutocompleteRecipes suggests recipe titles for a partial query.
func (s *SpoonacularService) AutocompleteRecipes(ctx context.Context, query string) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("number", "10")

	var result json.RawMessage
	if err := s.get(ctx, "recipes/autocomplete", params, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// AutocompleteIngredients suggests ingredient names for a partial query.
func (s *SpoonacularService) AutocompleteIngredients(ctx context.Context, query string) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("number", "10")

	var result json.RawMessage
	if err := s.get(ctx, "food/ingredients/autocomplete", params, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// MealPlanTemplate generates a weekly template for the given diet via the
// upstream meal planner.
func (s *SpoonacularService) MealPlanTemplate(ctx context.Context, diet string, targetCalories int) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("timeFrame", "week")
	if targetCalories == 0 {
		targetCalories = 2000
	}
	params.Set("targetCalories", strconv.Itoa(targetCalories))
	if diet != "" {
		params.Set("diet", diet)
	}

	var result json.RawMessage
	if err := s.get(ctx, "mealplanner/generate", params, &result); err != nil {
		return nil, err
	}
	return result, nil
}
