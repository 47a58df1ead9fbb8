package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Name         string         `gorm:"not null" json:"name"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// DietProfile holds the diet-input form values used when generating a meal
// plan: height/weight drive the calorie target, goal picks deficit/surplus.
type DietProfile struct {
	ID           uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID       uuid.UUID      `gorm:"type:varchar(36);not null;uniqueIndex" json:"user_id"`
	HeightCm     int            `json:"height"`
	WeightKg     int            `json:"weight"`
	Goal         string         `gorm:"size:20;default:'maintain'" json:"goal"`
	Restrictions string         `gorm:"type:text" json:"restrictions"`
	Foods        string         `gorm:"type:text" json:"foods"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *DietProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
