// Package entity defines the domain entities for the recipe feature.
package entity

import userentity "recipe_backend/internal/feature/user/domain/entity"

// Tag is a user-owned label attached to recipes.
type Tag struct {
	ID     uint             `gorm:"primaryKey"`
	Name   string           `gorm:"size:255;not null"`
	UserID uint             `gorm:"index;not null"`
	User   *userentity.User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// Ingredient has the same shape as Tag but lives in its own table.
type Ingredient struct {
	ID     uint             `gorm:"primaryKey"`
	Name   string           `gorm:"size:255;not null"`
	UserID uint             `gorm:"index;not null"`
	User   *userentity.User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
