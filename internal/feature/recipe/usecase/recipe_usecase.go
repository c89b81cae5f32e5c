package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"recipe_backend/internal/feature/recipe/domain/entity"
	"recipe_backend/internal/shared/apperr"
)

// maxPrice is the largest value a decimal(5,2) column holds.
var maxPrice = decimal.RequireFromString("999.99")

// RecipeFilter restricts a recipe listing. Empty slices do not filter.
type RecipeFilter struct {
	TagIDs        []uint
	IngredientIDs []uint
}

// Associations describes which relation sets a write replaces.
// A nil slice leaves the set untouched; a non-nil empty slice clears it.
type Associations struct {
	TagIDs        []uint
	IngredientIDs []uint
}

// RecipeRepository abstracts persistence of recipes and their relation sets.
type RecipeRepository interface {
	// List returns the owner's recipes, newest first, with relations loaded.
	// Each filter matches recipes having at least one of its ids; both filters must match.
	List(ctx context.Context, ownerID uint, f RecipeFilter) ([]entity.Recipe, error)

	// FindByID returns ErrRecipeNotFound when the recipe does not exist or belongs to another owner.
	FindByID(ctx context.Context, ownerID, id uint) (*entity.Recipe, error)

	// Create and Update write the scalar row and the requested relation sets atomically.
	// Unknown related ids yield *UnknownIDsError.
	Create(ctx context.Context, r *entity.Recipe, a Associations) error
	Update(ctx context.Context, r *entity.Recipe, a Associations) error

	// Delete removes the recipe and its join rows.
	Delete(ctx context.Context, r *entity.Recipe) error

	// UpdateImage sets the stored image path of the owner's recipe.
	UpdateImage(ctx context.Context, ownerID, id uint, image string) error
}

// ImageStore persists uploaded recipe images.
type ImageStore interface {
	// Save validates and stores the image, returning its path relative to the media root.
	// It returns ErrInvalidImage when r does not hold a supported image.
	Save(ctx context.Context, r io.Reader) (string, error)

	// Remove deletes a previously stored image.
	Remove(ctx context.Context, path string) error
}

// RecipeInput carries the writable recipe fields. Nil fields are "not provided".
type RecipeInput struct {
	Title         *string
	TimeMinutes   *int
	Price         *decimal.Decimal
	Link          *string
	TagIDs        []uint
	IngredientIDs []uint
}

// RecipeUsecase はレシピのCRUD、フィルタリング、画像アップロードを扱います。
type RecipeUsecase struct {
	recipes RecipeRepository
	images  ImageStore
}

// NewRecipeUsecase はRecipeUsecaseの新しいインスタンスを生成します。
func NewRecipeUsecase(recipes RecipeRepository, images ImageStore) *RecipeUsecase {
	return &RecipeUsecase{recipes: recipes, images: images}
}

// ParseIDList はカンマ区切りのID文字列を解析します。空文字列はフィルタなしを意味します。
func ParseIDList(field, raw string) ([]uint, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]uint, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64)
		if err != nil || n == 0 {
			return nil, apperr.NewValidationError(field, fmt.Sprintf("%q is not a valid id.", p))
		}
		ids = append(ids, uint(n))
	}
	return ids, nil
}

// List は呼び出し元のレシピを返します。
func (u *RecipeUsecase) List(ctx context.Context, callerID uint, f RecipeFilter) ([]entity.Recipe, error) {
	if callerID == 0 {
		return nil, apperr.ErrUnauthenticated
	}
	return u.recipes.List(ctx, callerID, f)
}

// Get returns one of the caller's recipes. Recipes of other users are reported as not found.
func (u *RecipeUsecase) Get(ctx context.Context, callerID, id uint) (*entity.Recipe, error) {
	if callerID == 0 {
		return nil, apperr.ErrUnauthenticated
	}
	r, err := u.recipes.FindByID(ctx, callerID, id)
	if err != nil {
		if errors.Is(err, ErrRecipeNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return r, nil
}

// Create は呼び出し元を所有者としてレシピを作成します。title, time_minutes, priceは必須です。
func (u *RecipeUsecase) Create(ctx context.Context, callerID uint, in RecipeInput) (*entity.Recipe, error) {
	if callerID == 0 {
		return nil, apperr.ErrUnauthenticated
	}
	if err := validateInput(in, false); err != nil {
		return nil, err
	}

	r := &entity.Recipe{UserID: callerID}
	applyInput(r, in)
	if err := u.recipes.Create(ctx, r, associationsOf(in)); err != nil {
		return nil, mapWriteError(err)
	}
	return u.Get(ctx, callerID, r.ID)
}

// Update は既存レシピを更新します。partialがfalseの場合は全必須フィールドが必要です。
// 指定された関連IDリストは集合全体を置き換えます。
func (u *RecipeUsecase) Update(ctx context.Context, callerID, id uint, in RecipeInput, partial bool) (*entity.Recipe, error) {
	if err := validateInput(in, partial); err != nil {
		return nil, err
	}
	r, err := u.Get(ctx, callerID, id)
	if err != nil {
		return nil, err
	}

	applyInput(r, in)
	if err := u.recipes.Update(ctx, r, associationsOf(in)); err != nil {
		return nil, mapWriteError(err)
	}
	return u.Get(ctx, callerID, id)
}

// Delete はレシピと画像ファイルを削除します。
func (u *RecipeUsecase) Delete(ctx context.Context, callerID, id uint) error {
	r, err := u.Get(ctx, callerID, id)
	if err != nil {
		return err
	}
	if err := u.recipes.Delete(ctx, r); err != nil {
		return err
	}
	u.removeImage(ctx, r.Image)
	return nil
}

// UploadImage は画像を保存し、レシピの画像参照を置き換えます。以前の画像は削除されます。
func (u *RecipeUsecase) UploadImage(ctx context.Context, callerID, id uint, file io.Reader) (*entity.Recipe, error) {
	r, err := u.Get(ctx, callerID, id)
	if err != nil {
		return nil, err
	}

	path, err := u.images.Save(ctx, file)
	if err != nil {
		if errors.Is(err, ErrInvalidImage) {
			return nil, apperr.NewValidationError("image",
				"Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
		}
		return nil, fmt.Errorf("failed to store image: %w", err)
	}

	if err := u.recipes.UpdateImage(ctx, callerID, id, path); err != nil {
		u.removeImage(ctx, path)
		if errors.Is(err, ErrRecipeNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	if r.Image != "" && r.Image != path {
		u.removeImage(ctx, r.Image)
	}
	r.Image = path
	return r, nil
}

func (u *RecipeUsecase) removeImage(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := u.images.Remove(ctx, path); err != nil {
		slog.Warn("failed to remove recipe image", "error", err, "path", path)
	}
}

func validateInput(in RecipeInput, partial bool) error {
	verr := &apperr.ValidationError{}
	required := func(field string, present bool) bool {
		if !present && !partial {
			verr.Add(field, "This field is required.")
		}
		return present
	}

	if required("title", in.Title != nil) {
		verr.Merge(validateName("title", *in.Title))
	}
	if required("time_minutes", in.TimeMinutes != nil) && *in.TimeMinutes < 0 {
		verr.Add("time_minutes", "Ensure this value is greater than or equal to 0.")
	}
	if required("price", in.Price != nil) {
		p := *in.Price
		switch {
		case p.IsNegative():
			verr.Add("price", "Ensure this value is greater than or equal to 0.")
		case p.GreaterThan(maxPrice):
			verr.Add("price", "Ensure that there are no more than 5 digits in total.")
		case !p.Equal(p.Truncate(2)):
			verr.Add("price", "Ensure that there are no more than 2 decimal places.")
		}
	}
	if in.Link != nil && utf8.RuneCountInString(*in.Link) > 255 {
		verr.Add("link", "Ensure this field has no more than 255 characters.")
	}
	return verr.OrNil()
}

func applyInput(r *entity.Recipe, in RecipeInput) {
	if in.Title != nil {
		r.Title = strings.TrimSpace(*in.Title)
	}
	if in.TimeMinutes != nil {
		r.TimeMinutes = *in.TimeMinutes
	}
	if in.Price != nil {
		r.Price = *in.Price
	}
	if in.Link != nil {
		r.Link = *in.Link
	}
}

func associationsOf(in RecipeInput) Associations {
	return Associations{TagIDs: in.TagIDs, IngredientIDs: in.IngredientIDs}
}

func mapWriteError(err error) error {
	var unknown *UnknownIDsError
	if errors.As(err, &unknown) {
		verr := &apperr.ValidationError{}
		for _, id := range unknown.IDs {
			verr.Add(unknown.Field, fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id))
		}
		return verr
	}
	return err
}
