package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timmyloos/Meal-Planner-for-Students/internal/types"
)

func TestSaveRecipeIsIdempotent(t *testing.T) {
	svc := NewRecipeService(newTestDB(t))
	userID := uuid.New()
	ctx := context.Background()

	req := types.SaveRecipeRequest{
		ID: 716429, Title: "Pasta with Garlic",
		Calories: 450, Protein: 15, Carbs: 60, Fat: 18,
	}

	first, alreadySaved, err := svc.SaveRecipe(ctx, userID, req)
	require.NoError(t, err)
	assert.False(t, alreadySaved)
	assert.Equal(t, int64(716429), first.SpoonacularID)

	second, alreadySaved, err := svc.SaveRecipe(ctx, userID, req)
	require.NoError(t, err)
	assert.True(t, alreadySaved)
	assert.Equal(t, first.ID, second.ID)

	saved, err := svc.ListSaved(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, saved, 1)
}

func TestSaveRecipeNormalizesMacros(t *testing.T) {
	svc := NewRecipeService(newTestDB(t))
	ctx := context.Background()

	recipe, _, err := svc.SaveRecipe(ctx, uuid.New(), types.SaveRecipeRequest{
		ID: 1, Title: "Odd data", Calories: -50, Protein: 10,
	})
	require.NoError(t, err)
	assert.Zero(t, recipe.Calories)
	assert.Equal(t, 10.0, recipe.Protein)
}

func TestSavedRecipesArePerUser(t *testing.T) {
	svc := NewRecipeService(newTestDB(t))
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()

	_, _, err := svc.SaveRecipe(ctx, alice, types.SaveRecipeRequest{ID: 1, Title: "Alice's pick"})
	require.NoError(t, err)

	saved, err := svc.ListSaved(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, saved)
}

func TestDeleteSaved(t *testing.T) {
	svc := NewRecipeService(newTestDB(t))
	userID := uuid.New()
	ctx := context.Background()

	_, _, err := svc.SaveRecipe(ctx, userID, types.SaveRecipeRequest{ID: 1, Title: "Keep"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSaved(ctx, userID, 1))
	// Deleting again is a no-op
	require.NoError(t, svc.DeleteSaved(ctx, userID, 1))

	saved, err := svc.ListSaved(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, saved)
}

func TestSearchSavedKeywordFallback(t *testing.T) {
	svc := NewRecipeService(newTestDB(t))
	userID := uuid.New()
	ctx := context.Background()

	_, _, err := svc.SaveRecipe(ctx, userID, types.SaveRecipeRequest{ID: 1, Title: "Chicken Curry"})
	require.NoError(t, err)
	_, _, err = svc.SaveRecipe(ctx, userID, types.SaveRecipeRequest{ID: 2, Title: "Beef Stew"})
	require.NoError(t, err)

	results, err := svc.SearchSaved(ctx, userID, "chicken")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Chicken Curry", results[0].Title)
}

func TestLogIngredientSearchDeduplicates(t *testing.T) {
	svc := NewRecipeService(newTestDB(t))
	userID := uuid.New()
	ctx := context.Background()

	require.NoError(t, svc.LogIngredientSearch(ctx, userID, "eggs, spinach"))
	require.NoError(t, svc.LogIngredientSearch(ctx, userID, "EGGS, Spinach"))
	require.NoError(t, svc.LogIngredientSearch(ctx, userID, "tofu"))

	history, err := svc.IngredientHistory(ctx, userID)
	require.NoError(t, err)
	require.Len(t, history, 2)

	counts := map[string]int{}
	for _, h := range history {
		counts[h.Ingredients] = h.SearchCount
	}
	assert.Equal(t, 2, counts["eggs, spinach"])
	assert.Equal(t, 1, counts["tofu"])
}

func TestLogFoodsAndRecentFoods(t *testing.T) {
	svc := NewRecipeService(newTestDB(t))
	userID := uuid.New()
	ctx := context.Background()

	entry, err := svc.LogFoods(ctx, userID, []string{"oatmeal", "banana"})
	require.NoError(t, err)
	assert.Equal(t, 2, entry.FoodCount)

	_, err = svc.LogFoods(ctx, userID, []string{"salad"})
	require.NoError(t, err)

	foods, err := svc.RecentFoods(ctx, userID, 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"oatmeal", "banana", "salad"}, foods)

	log, err := svc.FoodLog(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, log, 2)
}

func TestRecentSavedTitles(t *testing.T) {
	svc := NewRecipeService(newTestDB(t))
	userID := uuid.New()
	ctx := context.Background()

	for i, title := range []string{"First", "Second", "Third"} {
		_, _, err := svc.SaveRecipe(ctx, userID, types.SaveRecipeRequest{ID: int64(i + 1), Title: title})
		require.NoError(t, err)
	}

	titles, err := svc.RecentSavedTitles(ctx, userID, 2)
	require.NoError(t, err)
	assert.Len(t, titles, 2)
}
