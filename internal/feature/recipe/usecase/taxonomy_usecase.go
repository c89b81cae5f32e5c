package usecase

import (
	"context"
	"strings"
	"unicode/utf8"

	"recipe_backend/internal/shared/apperr"
)

// MaxNameLength is the longest accepted tag or ingredient name.
const MaxNameLength = 255

// TaxonomyRepository abstracts storage of a user-owned label type (Tag or Ingredient).
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type TaxonomyRepository[T any] interface {
	// ListByOwner returns the owner's labels ordered by name descending.
	// With assignedOnly set, only labels referenced by at least one of the
	// owner's recipes are returned, each at most once.
	ListByOwner(ctx context.Context, ownerID uint, assignedOnly bool) ([]T, error)

	// Create stores a new label owned by ownerID.
	Create(ctx context.Context, ownerID uint, name string) (*T, error)
}

// TaxonomyUsecase implements listing and creation of tags or ingredients.
type TaxonomyUsecase[T any] struct {
	repo TaxonomyRepository[T]
}

// NewTaxonomyUsecase はTaxonomyUsecaseの新しいインスタンスを生成します。
func NewTaxonomyUsecase[T any](repo TaxonomyRepository[T]) *TaxonomyUsecase[T] {
	return &TaxonomyUsecase[T]{repo: repo}
}

// List は呼び出し元ユーザーのラベル一覧を返します。
func (u *TaxonomyUsecase[T]) List(ctx context.Context, callerID uint, assignedOnly bool) ([]T, error) {
	if callerID == 0 {
		return nil, apperr.ErrUnauthenticated
	}
	return u.repo.ListByOwner(ctx, callerID, assignedOnly)
}

// Create は呼び出し元ユーザーを所有者としてラベルを作成します。
func (u *TaxonomyUsecase[T]) Create(ctx context.Context, callerID uint, name string) (*T, error) {
	if callerID == 0 {
		return nil, apperr.ErrUnauthenticated
	}
	if err := validateName("name", name); err != nil {
		return nil, err
	}
	return u.repo.Create(ctx, callerID, strings.TrimSpace(name))
}

func validateName(field, name string) *apperr.ValidationError {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return apperr.NewValidationError(field, "This field may not be blank.")
	case utf8.RuneCountInString(name) > MaxNameLength:
		return apperr.NewValidationError(field, "Ensure this field has no more than 255 characters.")
	}
	return nil
}
