package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"recipe_backend/internal/feature/recipe/domain/entity"
	"recipe_backend/internal/feature/recipe/usecase"
)

// recipeGorm はRecipeRepositoryインターフェースのGORM実装です。
type recipeGorm struct {
	db *gorm.DB
}

var _ usecase.RecipeRepository = (*recipeGorm)(nil)

// NewRecipeRepository は指定されたgorm.DB接続でrecipeGormの新しいインスタンスを生成します。
func NewRecipeRepository(db *gorm.DB) *recipeGorm {
	return &recipeGorm{db: db}
}

// List は所有者のレシピをID降順で返します。
// タグ・材料フィルタは結合テーブルへのINサブクエリなので、複数一致しても重複しません。
func (r *recipeGorm) List(ctx context.Context, ownerID uint, f usecase.RecipeFilter) ([]entity.Recipe, error) {
	q := r.db.WithContext(ctx).Where("recipes.user_id = ?", ownerID)
	if len(f.TagIDs) > 0 {
		q = q.Where("recipes.id IN (?)",
			r.db.Table("recipe_tags").Select("recipe_id").Where("tag_id IN ?", f.TagIDs))
	}
	if len(f.IngredientIDs) > 0 {
		q = q.Where("recipes.id IN (?)",
			r.db.Table("recipe_ingredients").Select("recipe_id").Where("ingredient_id IN ?", f.IngredientIDs))
	}

	recipes := []entity.Recipe{}
	err := q.Preload("Tags", orderByID).
		Preload("Ingredients", orderByID).
		Order("recipes.id DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	return recipes, nil
}

// FindByID はIDと所有者でレシピを取得します。
func (r *recipeGorm) FindByID(ctx context.Context, ownerID, id uint) (*entity.Recipe, error) {
	var rec entity.Recipe
	err := r.db.WithContext(ctx).
		Preload("Tags", orderByID).
		Preload("Ingredients", orderByID).
		Where("id = ? AND user_id = ?", id, ownerID).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrRecipeNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// Create はレシピ行と関連集合を1トランザクションで書き込みます。
func (r *recipeGorm) Create(ctx context.Context, rec *entity.Recipe, a usecase.Associations) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(rec).Error; err != nil {
			return err
		}
		return replaceAssociations(tx, rec, a)
	})
}

// Update writes the scalar columns (zero values included) and replaces the requested relation sets.
func (r *recipeGorm) Update(ctx context.Context, rec *entity.Recipe, a usecase.Associations) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(rec).
			Omit(clause.Associations).
			Select("title", "time_minutes", "price", "link").
			Updates(rec).Error
		if err != nil {
			return err
		}
		return replaceAssociations(tx, rec, a)
	})
}

// Delete removes the join rows and then the recipe.
func (r *recipeGorm) Delete(ctx context.Context, rec *entity.Recipe) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(rec).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := tx.Model(rec).Association("Ingredients").Clear(); err != nil {
			return err
		}
		res := tx.Where("user_id = ?", rec.UserID).Delete(&entity.Recipe{}, rec.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return usecase.ErrRecipeNotFound
		}
		return nil
	})
}

// UpdateImage sets the image column of the owner's recipe.
func (r *recipeGorm) UpdateImage(ctx context.Context, ownerID, id uint, image string) error {
	res := r.db.WithContext(ctx).
		Model(&entity.Recipe{}).
		Where("id = ? AND user_id = ?", id, ownerID).
		Update("image", image)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrRecipeNotFound
	}
	return nil
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

// replaceAssociations loads the referenced rows and swaps the join rows.
// Loading first means unknown ids are reported instead of being upserted.
func replaceAssociations(tx *gorm.DB, rec *entity.Recipe, a usecase.Associations) error {
	if a.TagIDs != nil {
		var tags []entity.Tag
		if err := loadByIDs(tx, "tags", a.TagIDs, &tags, func(i int) uint { return tags[i].ID }); err != nil {
			return err
		}
		if err := replaceSet(tx.Model(rec).Association("Tags"), tags, len(tags)); err != nil {
			return err
		}
		rec.Tags = tags
	}
	if a.IngredientIDs != nil {
		var ingredients []entity.Ingredient
		if err := loadByIDs(tx, "ingredients", a.IngredientIDs, &ingredients, func(i int) uint { return ingredients[i].ID }); err != nil {
			return err
		}
		if err := replaceSet(tx.Model(rec).Association("Ingredients"), ingredients, len(ingredients)); err != nil {
			return err
		}
		rec.Ingredients = ingredients
	}
	return nil
}

// replaceSet swaps the association for values, clearing it when n is zero.
func replaceSet(assoc *gorm.Association, values any, n int) error {
	if n == 0 {
		return assoc.Clear()
	}
	return assoc.Replace(values)
}

// loadByIDs fills dest with the rows of ids and returns *usecase.UnknownIDsError for ids that do not exist.
func loadByIDs[T any](tx *gorm.DB, field string, ids []uint, dest *[]T, idAt func(int) uint) error {
	*dest = []T{}
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Where("id IN ?", ids).Order("id ASC").Find(dest).Error; err != nil {
		return err
	}

	found := make(map[uint]struct{}, len(*dest))
	for i := range *dest {
		found[idAt(i)] = struct{}{}
	}
	var missing []uint
	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return &usecase.UnknownIDsError{Field: field, IDs: missing}
	}
	return nil
}
