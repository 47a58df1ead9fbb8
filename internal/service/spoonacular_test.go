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

func newTestSpoonacular(t *testing.T, handler http.HandlerFunc) *SpoonacularService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	t.Setenv("SPOONACULAR_API_KEY", "test-key")
	t.Setenv("SPOONACULAR_API_URL", server.URL)

	svc, err := NewSpoonacularService()
	require.NoError(t, err)
	return svc
}

func TestNewSpoonacularServiceRequiresKey(t *testing.T) {
	t.Setenv("SPOONACULAR_API_KEY", "")
	t.Setenv("SPOONACULAR_API_KEY_FILE", "")

	_, err := NewSpoonacularService()
	assert.Error(t, err)
}

func TestSearchRecipes(t *testing.T) {
	svc := newTestSpoonacular(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/recipes/complexSearch", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("apiKey"))
		assert.Equal(t, "pasta", r.URL.Query().Get("query"))
		assert.Equal(t, "true", r.URL.Query().Get("addRecipeNutrition"))
		assert.Equal(t, "vegetarian", r.URL.Query().Get("diet"))

		json.NewEncoder(w).Encode(SearchResponse{
			Results: []SearchResult{{ID: 716429, Title: "Pasta with Garlic"}},
		})
	})

	resp, err := svc.SearchRecipes(context.Background(), "pasta", SearchOptions{Diet: "vegetarian"})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, int64(716429), resp.Results[0].ID)
}

func TestSearchRecipesUpstreamError(t *testing.T) {
	svc := newTestSpoonacular(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"message":"quota exceeded"}`))
	})

	_, err := svc.SearchRecipes(context.Background(), "pasta", SearchOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "402")
}

func TestRecipeInformation(t *testing.T) {
	svc := newTestSpoonacular(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/recipes/716429/information", r.URL.Path)
		json.NewEncoder(w).Encode(RecipeInfo{
			ID:           716429,
			Title:        "Pasta with Garlic",
			Instructions: "Boil the pasta in a large pot.",
		})
	})

	info, err := svc.RecipeInformation(context.Background(), 716429)
	require.NoError(t, err)
	assert.Equal(t, "Pasta with Garlic", info.Title)
}

func TestFindByIngredients(t *testing.T) {
	svc := newTestSpoonacular(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/recipes/findByIngredients", r.URL.Path)
		assert.Equal(t, "eggs,spinach", r.URL.Query().Get("ingredients"))
		assert.Equal(t, "1", r.URL.Query().Get("ranking"))
		w.Write([]byte(`[{"id":1,"title":"Spinach Omelette"}]`))
	})

	raw, err := svc.FindByIngredients(context.Background(), "eggs,spinach", 5)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1,"title":"Spinach Omelette"}]`, string(raw))
}

func TestFindByNutrients(t *testing.T) {
	svc := newTestSpoonacular(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/recipes/findByNutrients", r.URL.Path)
		assert.Equal(t, "600", r.URL.Query().Get("maxCalories"))
		assert.Equal(t, "30", r.URL.Query().Get("minProtein"))
		assert.Empty(t, r.URL.Query().Get("maxCarbs"), "zero bounds are omitted")
		w.Write([]byte(`[{"id":7,"title":"High Protein Bowl"}]`))
	})

	raw, err := svc.FindByNutrients(context.Background(), 600, 30, 0, 5)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":7,"title":"High Protein Bowl"}]`, string(raw))
}

func TestConfigured(t *testing.T) {
	var nilSvc *SpoonacularService
	assert.False(t, nilSvc.Configured())

	svc := &SpoonacularService{apiKey: "key"}
	assert.True(t, svc.Configured())
}
