package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// JSONBStringArray is a custom type for handling string arrays in JSONB
type JSONBStringArray []string

// Value implements the driver.Valuer interface
func (a JSONBStringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements the sql.Scanner interface
func (a *JSONBStringArray) Scan(value interface{}) error {
	if value == nil {
		*a = JSONBStringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, a)
}

// SavedRecipe is a Spoonacular recipe the user chose to keep. SpoonacularID
// is the upstream id; saving the same id twice is a no-op.
type SavedRecipe struct {
	ID            uuid.UUID       `gorm:"type:varchar(36);primarykey" json:"-"`
	CreatedAt     time.Time       `json:"-"`
	UpdatedAt     time.Time       `json:"-"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
	UserID        uuid.UUID       `gorm:"type:varchar(36);not null;index" json:"-"`
	SpoonacularID int64           `gorm:"not null;index" json:"id"`
	Title         string          `gorm:"size:255;not null" json:"title"`
	Image         string          `gorm:"size:255" json:"image,omitempty"`
	SourceURL     string          `gorm:"size:255" json:"sourceUrl,omitempty"`
	Calories      float64         `gorm:"type:float" json:"calories"`
	Protein       float64         `gorm:"type:float" json:"protein"`
	Carbs         float64         `gorm:"type:float" json:"carbs"`
	Fat           float64         `gorm:"type:float" json:"fat"`
	Embedding     pgvector.Vector `gorm:"type:vector(3)" json:"-"`
	SavedAt       time.Time       `json:"saved_at"`
}

func (r *SavedRecipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// IngredientSearch records one distinct by-ingredients query. Repeated
// searches for the same ingredient string bump SearchCount instead of
// inserting a new row.
type IngredientSearch struct {
	ID          uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID      uuid.UUID `gorm:"type:varchar(36);not null;index" json:"-"`
	Ingredients string    `gorm:"size:255;not null" json:"ingredients"`
	SearchCount int       `gorm:"not null;default:1" json:"search_count"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"timestamp"`
}

func (s *IngredientSearch) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// FoodLogEntry is one batch of foods the user reported eating.
type FoodLogEntry struct {
	ID        uuid.UUID        `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID    uuid.UUID        `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Foods     JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"foods"`
	FoodCount int              `gorm:"not null" json:"food_count"`
	CreatedAt time.Time        `json:"timestamp"`
	UpdatedAt time.Time        `json:"-"`
}

func (e *FoodLogEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
