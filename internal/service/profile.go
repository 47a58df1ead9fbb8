package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/timmyloos/Meal-Planner-for-Students/internal/models"
	"github.com/timmyloos/Meal-Planner-for-Students/internal/types"
)

// ProfileService manages the per-user diet profile backing meal plan
// generation and recommendations.
type ProfileService struct {
	db *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

// Profile returns the user's diet profile, creating an empty one if the
// account predates profiles.
func (s *ProfileService) Profile(ctx context.Context, userID uuid.UUID) (*models.DietProfile, error) {
	var profile models.DietProfile
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		profile = models.DietProfile{UserID: userID, Goal: "maintain"}
		if err := s.db.WithContext(ctx).Create(&profile).Error; err != nil {
			return nil, err
		}
		return &profile, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile applies the diet-input form values. Zero-valued fields are
// written as given; the form always submits the full profile.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, req types.UpdateDietProfileRequest) (*models.DietProfile, error) {
	profile, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile.HeightCm = req.Height
	profile.WeightKg = req.Weight
	if req.Goal != "" {
		profile.Goal = req.Goal
	}
	profile.Restrictions = req.Restrictions
	profile.Foods = req.Foods

	if err := s.db.WithContext(ctx).Save(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}
