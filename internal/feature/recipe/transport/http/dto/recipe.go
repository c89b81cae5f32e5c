package dto

import (
	"github.com/shopspring/decimal"

	"recipe_backend/internal/feature/recipe/domain/entity"
	"recipe_backend/internal/feature/recipe/usecase"
)

// RecipeReq は作成・更新リクエストです。
// 必須項目の判定は操作（POST/PUT/PATCH）によって異なるためusecase側で行います。
type RecipeReq struct {
	Title       *string          `json:"title" binding:"omitempty,notblank"`
	TimeMinutes *int             `json:"time_minutes" binding:"omitempty,gte=0"`
	Price       *decimal.Decimal `json:"price"`
	Link        *string          `json:"link" binding:"omitempty,max=255"`
	Tags        []uint           `json:"tags"`
	Ingredients []uint           `json:"ingredients"`
}

// Input converts the request to the usecase input.
func (r RecipeReq) Input() usecase.RecipeInput {
	return usecase.RecipeInput{
		Title:         r.Title,
		TimeMinutes:   r.TimeMinutes,
		Price:         r.Price,
		Link:          r.Link,
		TagIDs:        r.Tags,
		IngredientIDs: r.Ingredients,
	}
}

// RecipeRes is the summary representation with related ids.
type RecipeRes struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	TimeMinutes int    `json:"time_minutes"`
	Price       string `json:"price"`
	Link        string `json:"link"`
	Tags        []uint `json:"tags"`
	Ingredients []uint `json:"ingredients"`
}

// RecipeDetailRes nests related tags and ingredients.
type RecipeDetailRes struct {
	ID          uint       `json:"id"`
	Title       string     `json:"title"`
	TimeMinutes int        `json:"time_minutes"`
	Price       string     `json:"price"`
	Link        string     `json:"link"`
	Image       *string    `json:"image"`
	Tags        []LabelRes `json:"tags"`
	Ingredients []LabelRes `json:"ingredients"`
}

// RecipeImageRes is returned by the image upload endpoint.
type RecipeImageRes struct {
	ID    uint    `json:"id"`
	Image *string `json:"image"`
}

// LabelReq creates a tag or an ingredient.
// Length is checked by the usecase after trimming.
type LabelReq struct {
	Name string `json:"name" form:"name" binding:"required,notblank"`
}

// LabelRes represents a tag or an ingredient.
type LabelRes struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// NewTagRes converts a tag.
func NewTagRes(t entity.Tag) LabelRes {
	return LabelRes{ID: t.ID, Name: t.Name}
}

// NewIngredientRes converts an ingredient.
func NewIngredientRes(i entity.Ingredient) LabelRes {
	return LabelRes{ID: i.ID, Name: i.Name}
}
