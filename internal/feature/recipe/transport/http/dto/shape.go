// Package dto はrecipeフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

import (
	"fmt"
	"path"

	"recipe_backend/internal/feature/recipe/domain/entity"
)

// Action is an endpoint operation on recipes.
type Action int

const (
	ActionList Action = iota
	ActionDetail
	ActionCreate
	ActionUpdate
	ActionUploadImage
)

// Shape is the response representation used for an Action.
type Shape int

const (
	// ShapeSummary lists related tags and ingredients by id.
	ShapeSummary Shape = iota
	// ShapeDetail nests related tags and ingredients as objects.
	ShapeDetail
	// ShapeImage carries only the id and the image URL.
	ShapeImage
)

var shapes = map[Action]Shape{
	ActionList:        ShapeSummary,
	ActionDetail:      ShapeDetail,
	ActionCreate:      ShapeSummary,
	ActionUpdate:      ShapeSummary,
	ActionUploadImage: ShapeImage,
}

// ShapeFor returns the representation used by action.
func ShapeFor(action Action) Shape {
	s, ok := shapes[action]
	if !ok {
		panic(fmt.Sprintf("dto: no shape for action %d", action))
	}
	return s
}

// Renderer converts recipes to their response representation.
// MediaURL is the public prefix stored images are served under.
type Renderer struct {
	MediaURL string
}

// Recipe renders r in the representation of action.
func (rd Renderer) Recipe(action Action, r *entity.Recipe) any {
	switch ShapeFor(action) {
	case ShapeDetail:
		return rd.detail(r)
	case ShapeImage:
		return RecipeImageRes{ID: r.ID, Image: rd.ImageURL(r.Image)}
	default:
		return summary(r)
	}
}

// Recipes renders a list in the representation of action.
func (rd Renderer) Recipes(action Action, recipes []entity.Recipe) []any {
	out := make([]any, 0, len(recipes))
	for i := range recipes {
		out = append(out, rd.Recipe(action, &recipes[i]))
	}
	return out
}

// ImageURL returns the public URL of a stored image, or nil when there is none.
func (rd Renderer) ImageURL(image string) *string {
	if image == "" {
		return nil
	}
	u := path.Join(rd.MediaURL, image)
	return &u
}

func summary(r *entity.Recipe) RecipeRes {
	return RecipeRes{
		ID:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price.StringFixed(2),
		Link:        r.Link,
		Tags:        r.TagIDs(),
		Ingredients: r.IngredientIDs(),
	}
}

func (rd Renderer) detail(r *entity.Recipe) RecipeDetailRes {
	tags := make([]LabelRes, 0, len(r.Tags))
	for _, t := range r.Tags {
		tags = append(tags, NewTagRes(t))
	}
	ingredients := make([]LabelRes, 0, len(r.Ingredients))
	for _, i := range r.Ingredients {
		ingredients = append(ingredients, NewIngredientRes(i))
	}
	return RecipeDetailRes{
		ID:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price.StringFixed(2),
		Link:        r.Link,
		Image:       rd.ImageURL(r.Image),
		Tags:        tags,
		Ingredients: ingredients,
	}
}
