package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/timmyloos/Meal-Planner-for-Students/internal/models"
	"github.com/timmyloos/Meal-Planner-for-Students/internal/types"
)

// RecipeService handles the user's saved recipes, ingredient search history
// and food preference log.
type RecipeService struct {
	db *gorm.DB
}

func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// SaveRecipe stores a searched recipe for later. Saving an already saved
// recipe is reported, not repeated.
func (s *RecipeService) SaveRecipe(ctx context.Context, userID uuid.UUID, req types.SaveRecipeRequest) (*models.SavedRecipe, bool, error) {
	var existing models.SavedRecipe
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND spoonacular_id = ?", userID, req.ID).
		First(&existing).Error
	if err == nil {
		return &existing, true, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, false, err
	}

	recipe := models.SavedRecipe{
		UserID:        userID,
		SpoonacularID: req.ID,
		Title:         req.Title,
		Image:         req.Image,
		SourceURL:     req.SourceURL,
		Calories:      models.NormalizeMacro(req.Calories),
		Protein:       models.NormalizeMacro(req.Protein),
		Carbs:         models.NormalizeMacro(req.Carbs),
		Fat:           models.NormalizeMacro(req.Fat),
		Embedding:     GenerateEmbedding(req.Title),
		SavedAt:       time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&recipe).Error; err != nil {
		return nil, false, err
	}
	return &recipe, false, nil
}

// ListSaved returns the user's saved recipes, newest first.
func (s *RecipeService) ListSaved(ctx context.Context, userID uuid.UUID) ([]models.SavedRecipe, error) {
	var recipes []models.SavedRecipe
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("saved_at DESC").
		Find(&recipes).Error
	return recipes, err
}

// DeleteSaved removes a saved recipe by its upstream id. Unknown ids are a
// no-op.
func (s *RecipeService) DeleteSaved(ctx context.Context, userID uuid.UUID, spoonacularID int64) error {
	return s.db.WithContext(ctx).
		Where("user_id = ? AND spoonacular_id = ?", userID, spoonacularID).
		Delete(&models.SavedRecipe{}).Error
}

// SearchSaved ranks saved recipes against the query: embedding distance on
// Postgres, keyword fallback elsewhere.
func (s *RecipeService) SearchSaved(ctx context.Context, userID uuid.UUID, query string) ([]models.SavedRecipe, error) {
	var recipes []models.SavedRecipe
	dbQuery := s.db.WithContext(ctx).Where("user_id = ?", userID)

	if query != "" {
		if s.db.Dialector.Name() == "postgres" {
			vec := GenerateEmbedding(query)
			dbQuery = dbQuery.Clauses(clause.OrderBy{
				Expression: clause.Expr{SQL: "embedding <-> ?", Vars: []interface{}{vec}},
			})
		} else {
			like := "%" + strings.ToLower(query) + "%"
			dbQuery = dbQuery.Where("LOWER(title) LIKE ?", like)
		}
	}

	err := dbQuery.Find(&recipes).Error
	return recipes, err
}

// RecentSavedTitles returns the titles of the user's latest saved recipes,
// used to seed the recommendation prompt.
func (s *RecipeService) RecentSavedTitles(ctx context.Context, userID uuid.UUID, limit int) ([]string, error) {
	var recipes []models.SavedRecipe
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("saved_at DESC").
		Limit(limit).
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}

	titles := make([]string, 0, len(recipes))
	for _, r := range recipes {
		titles = append(titles, r.Title)
	}
	return titles, nil
}

// LogIngredientSearch records a by-ingredients query, bumping the count of
// an identical earlier search instead of inserting a duplicate.
func (s *RecipeService) LogIngredientSearch(ctx context.Context, userID uuid.UUID, ingredients string) error {
	normalized := strings.ToLower(strings.TrimSpace(ingredients))

	var existing models.IngredientSearch
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND LOWER(ingredients) = ?", userID, normalized).
		First(&existing).Error
	if err == nil {
		return s.db.WithContext(ctx).Model(&existing).
			Update("search_count", existing.SearchCount+1).Error
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	entry := models.IngredientSearch{
		UserID:      userID,
		Ingredients: ingredients,
		SearchCount: 1,
	}
	return s.db.WithContext(ctx).Create(&entry).Error
}

// IngredientHistory returns the user's searches, most recent first.
func (s *RecipeService) IngredientHistory(ctx context.Context, userID uuid.UUID) ([]models.IngredientSearch, error) {
	var history []models.IngredientSearch
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&history).Error
	return history, err
}

// LogFoods stores a batch of foods the user reported eating.
func (s *RecipeService) LogFoods(ctx context.Context, userID uuid.UUID, foods []string) (*models.FoodLogEntry, error) {
	entry := models.FoodLogEntry{
		UserID:    userID,
		Foods:     foods,
		FoodCount: len(foods),
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// FoodLog returns the user's logged food entries, newest first.
func (s *RecipeService) FoodLog(ctx context.Context, userID uuid.UUID) ([]models.FoodLogEntry, error) {
	var entries []models.FoodLogEntry
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}

// RecentFoods flattens the latest food log entries into a single list for
// the recommendation prompt.
func (s *RecipeService) RecentFoods(ctx context.Context, userID uuid.UUID, limit int) ([]string, error) {
	var entries []models.FoodLogEntry
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}

	var foods []string
	for _, e := range entries {
		foods = append(foods, e.Foods...)
	}
	return foods, nil
}
