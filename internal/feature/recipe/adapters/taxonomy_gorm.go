// Package adapters はrecipeフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"

	"gorm.io/gorm"

	"recipe_backend/internal/feature/recipe/domain/entity"
	"recipe_backend/internal/feature/recipe/usecase"
)

// label is the set of entity types stored by taxonomyGorm.
type label interface {
	entity.Tag | entity.Ingredient
}

// taxonomyGorm はTaxonomyRepositoryのGORM実装です。
// joinTable/joinColumn identify the recipe join table that references the label.
type taxonomyGorm[T label] struct {
	db         *gorm.DB
	joinTable  string
	joinColumn string
	build      func(ownerID uint, name string) T
}

var (
	_ usecase.TaxonomyRepository[entity.Tag]        = (*taxonomyGorm[entity.Tag])(nil)
	_ usecase.TaxonomyRepository[entity.Ingredient] = (*taxonomyGorm[entity.Ingredient])(nil)
)

// NewTagRepository はタグ用のリポジトリを生成します。
func NewTagRepository(db *gorm.DB) *taxonomyGorm[entity.Tag] {
	return &taxonomyGorm[entity.Tag]{
		db:         db,
		joinTable:  "recipe_tags",
		joinColumn: "tag_id",
		build: func(ownerID uint, name string) entity.Tag {
			return entity.Tag{Name: name, UserID: ownerID}
		},
	}
}

// NewIngredientRepository は材料用のリポジトリを生成します。
func NewIngredientRepository(db *gorm.DB) *taxonomyGorm[entity.Ingredient] {
	return &taxonomyGorm[entity.Ingredient]{
		db:         db,
		joinTable:  "recipe_ingredients",
		joinColumn: "ingredient_id",
		build: func(ownerID uint, name string) entity.Ingredient {
			return entity.Ingredient{Name: name, UserID: ownerID}
		},
	}
}

// ListByOwner は所有者のラベルを名前の降順で返します。
// assignedOnlyの場合、所有者のレシピから参照されているものだけをサブクエリで絞り込むため重複しません。
func (r *taxonomyGorm[T]) ListByOwner(ctx context.Context, ownerID uint, assignedOnly bool) ([]T, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", ownerID)
	if assignedOnly {
		assigned := r.db.Table(r.joinTable+" AS j").
			Select("j."+r.joinColumn).
			Joins("JOIN recipes ON recipes.id = j.recipe_id").
			Where("recipes.user_id = ?", ownerID)
		q = q.Where("id IN (?)", assigned)
	}

	out := []T{}
	if err := q.Order("name DESC").Order("id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Create stores a new label.
func (r *taxonomyGorm[T]) Create(ctx context.Context, ownerID uint, name string) (*T, error) {
	v := r.build(ownerID, name)
	if err := r.db.WithContext(ctx).Create(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}
