package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func geminiResponse(text string) map[string]interface{} {
	return map[string]interface{}{
		"candidates": []map[string]interface{}{
			{"content": map[string]interface{}{
				"parts": []map[string]string{{"text": text}},
			}},
		},
	}
}

func newTestGemini(t *testing.T, handler http.HandlerFunc) *GeminiService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("GEMINI_API_URL", server.URL)

	svc, err := NewGeminiService(nil)
	require.NoError(t, err)
	return svc
}

func TestNewGeminiServiceRequiresKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY_FILE", "")

	_, err := NewGeminiService(nil)
	assert.Error(t, err)
}

func TestEstimateNutrition(t *testing.T) {
	svc := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		json.NewEncoder(w).Encode(geminiResponse(`{"calories":520,"protein":32,"carbs":45,"fat":18}`))
	})

	estimate, err := svc.EstimateNutrition(context.Background(), "Chicken burrito", []string{"chicken", "tortilla", "rice"})
	require.NoError(t, err)

	assert.Equal(t, 520.0, estimate.Calories)
	assert.Equal(t, 32.0, estimate.Protein)
	assert.Equal(t, 45.0, estimate.Carbs)
	assert.Equal(t, 18.0, estimate.Fat)
	assert.Equal(t, "gemini", estimate.Source)
}

func TestEstimateNutritionStripsMarkdownFences(t *testing.T) {
	svc := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(geminiResponse(
			"```json\n{\"calories\":300,\"protein\":10,\"carbs\":50,\"fat\":5}\n```"))
	})

	estimate, err := svc.EstimateNutrition(context.Background(), "Oatmeal", nil)
	require.NoError(t, err)
	assert.Equal(t, 300.0, estimate.Calories)
}

func TestEstimateNutritionMalformedAnswer(t *testing.T) {
	svc := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(geminiResponse("I cannot estimate that meal."))
	})

	_, err := svc.EstimateNutrition(context.Background(), "Mystery", nil)
	assert.Error(t, err)
}

func TestRecommendations(t *testing.T) {
	var prompt string
	svc := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		var req geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		prompt = req.Contents[0].Parts[0].Text
		json.NewEncoder(w).Encode(geminiResponse("1. Try grilled salmon with quinoa."))
	})

	input := RecommendationInput{
		Height:        175,
		Weight:        70,
		Goal:          "lose",
		Restrictions:  "vegetarian",
		FoodLog:       []string{"oatmeal", "salad"},
		RecentRecipes: []string{"Pasta with Garlic"},
	}
	text, err := svc.Recommendations(context.Background(), "user-1", input, false)
	require.NoError(t, err)

	assert.Equal(t, "1. Try grilled salmon with quinoa.", text)
	assert.Contains(t, prompt, "Height: 175 cm")
	assert.Contains(t, prompt, "Weight: 70 kg")
	assert.Contains(t, prompt, "Dietary goal: lose")
	assert.Contains(t, prompt, "oatmeal, salad")
	assert.Contains(t, prompt, "Pasta with Garlic")
}

func TestRecommendationsUpstreamFailure(t *testing.T) {
	svc := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := svc.Recommendations(context.Background(), "user-1", RecommendationInput{}, false)
	assert.Error(t, err)
}

func TestExtractJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, extractJSON("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, extractJSON(`{"a":1}`))
	assert.Equal(t, `{"a":{"b":2}}`, extractJSON(`prefix {"a":{"b":2}} suffix`))
	assert.Equal(t, "no braces here", extractJSON("no braces here"))
}
