package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const recommendationCacheTTL = time.Hour

// GeminiService handles interactions with the Gemini generateContent API
// for meal recommendations and nutrition estimation. Recommendations are
// cached in Redis so repeated page loads don't burn quota; the UI's
// "try again" affordance bypasses the cache.
type GeminiService struct {
	apiKey string
	apiURL string
	redis  *redis.Client
	client *http.Client
}

// geminiRequest is the generateContent request body.
type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

// NutritionEstimate is the estimator's answer for a manual calendar entry.
type NutritionEstimate struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Source   string  `json:"source"`
}

// RecommendationInput is everything the prompt is built from.
type RecommendationInput struct {
	Height        int
	Weight        int
	Goal          string
	Restrictions  string
	FoodLog       []string
	RecentRecipes []string
}

// NewGeminiService reads the API key from GEMINI_API_KEY or
// GEMINI_API_KEY_FILE.
func NewGeminiService(redisClient *redis.Client) (*GeminiService, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		apiKeyFile := os.Getenv("GEMINI_API_KEY_FILE")
		if apiKeyFile == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY or GEMINI_API_KEY_FILE must be set")
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

	apiURL := os.Getenv("GEMINI_API_URL")
	if apiURL == "" {
		apiURL = "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash:generateContent"
	}

	return &GeminiService{
		apiKey: apiKey,
		apiURL: apiURL,
		redis:  redisClient,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Configured reports whether the service can reach the upstream API.
func (s *GeminiService) Configured() bool {
	return s != nil && s.apiKey != ""
}

// Recommendations returns tailored meal suggestions for the user. Cached
// per user; refresh forces a new upstream call.
func (s *GeminiService) Recommendations(ctx context.Context, userID string, input RecommendationInput, refresh bool) (string, error) {
	cacheKey := fmt.Sprintf("recommendations:%s", userID)

	if !refresh && s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			return cached, nil
		}
	}

	text, err := s.generate(ctx, buildRecommendationPrompt(input))
	if err != nil {
		return "", err
	}

	if s.redis != nil {
		// Cache failures don't block the response
		if err := s.redis.Set(ctx, cacheKey, text, recommendationCacheTTL).Err(); err != nil {
			log.Printf("recommendations: failed to cache response for user %s: %v", userID, err)
		}
	}
	return text, nil
}

// EstimateNutrition asks the model for a macro breakdown of a manually
// entered meal. On failure the caller leaves the macro fields at the
// user-entered or zero values.
func (s *GeminiService) EstimateNutrition(ctx context.Context, title string, ingredients []string) (*NutritionEstimate, error) {
	prompt := fmt.Sprintf(
		"Estimate the nutrition of this meal: %s.\nIngredients:\n%s\nRespond only with JSON like {\"calories\":0,\"protein\":0,\"carbs\":0,\"fat\":0}. All values must be numbers.",
		title, strings.Join(ingredients, "\n"))

	text, err := s.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var estimate NutritionEstimate
	if err := json.Unmarshal([]byte(extractJSON(text)), &estimate); err != nil {
		return nil, fmt.Errorf("failed to parse nutrition estimate: %w", err)
	}
	estimate.Source = "gemini"
	return &estimate, nil
}

func (s *GeminiService) generate(ctx context.Context, prompt string) (string, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from API")
	}

	return result.Candidates[0].Content.Parts[0].Text, nil
}

func buildRecommendationPrompt(input RecommendationInput) string {
	return fmt.Sprintf(`I need meal recommendations based on my dietary preferences and recent food history. Here are my details:
Height: %d cm
Weight: %d kg
Dietary goal: %s
Dietary restrictions: %s

Here is what I've eaten recently: %s

Here are some recipes I've tried or liked: %s

Based on all this, please:
1. Suggest 2-3 new meal ideas tailored to my needs
2. Give me 2-3 nutrition or habit tips to help me reach my goal
3. Let me know if there's anything I should reduce or avoid in my current diet
`,
		input.Height,
		input.Weight,
		input.Goal,
		input.Restrictions,
		strings.Join(input.FoodLog, ", "),
		strings.Join(input.RecentRecipes, ", "))
}

// extractJSON strips markdown fences the model sometimes wraps around its
// JSON answer.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if start := strings.Index(text, "{"); start >= 0 {
		if end := strings.LastIndex(text, "}"); end > start {
			return text[start : end+1]
		}
	}
	return text
}
