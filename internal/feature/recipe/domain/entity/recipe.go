package entity

import (
	"time"

	"github.com/shopspring/decimal"

	userentity "recipe_backend/internal/feature/user/domain/entity"
)

// Recipe は所有ユーザー・タグ・材料への参照を持つレシピです。
// Tags と Ingredients は集合で、同じ組み合わせは結合テーブルに一度しか現れません。
type Recipe struct {
	ID          uint             `gorm:"primaryKey"`
	UserID      uint             `gorm:"index;not null"`
	User        *userentity.User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Title       string           `gorm:"size:255;not null"`
	TimeMinutes int              `gorm:"not null"`
	Price       decimal.Decimal  `gorm:"type:decimal(5,2);not null"`
	Link        string           `gorm:"size:255;not null;default:''"`
	// Image is the path relative to the media root, empty when no image is attached.
	Image       string       `gorm:"size:255;not null;default:''"`
	Tags        []Tag        `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE;"`
	Ingredients []Ingredient `gorm:"many2many:recipe_ingredients;constraint:OnDelete:CASCADE;"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TagIDs returns the ids of the attached tags.
func (r *Recipe) TagIDs() []uint {
	ids := make([]uint, 0, len(r.Tags))
	for _, t := range r.Tags {
		ids = append(ids, t.ID)
	}
	return ids
}

// IngredientIDs returns the ids of the attached ingredients.
func (r *Recipe) IngredientIDs() []uint {
	ids := make([]uint, 0, len(r.Ingredients))
	for _, i := range r.Ingredients {
		ids = append(ids, i.ID)
	}
	return ids
}
