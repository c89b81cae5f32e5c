package usecase

import (
	"context"
	"errors"
	"io"

	"recipe_backend/internal/feature/recipe/domain/entity"
)

// mockTaxonomyRepository はTaxonomyRepositoryのモック実装です。
type mockTaxonomyRepository struct {
	ListByOwnerFunc func(ctx context.Context, ownerID uint, assignedOnly bool) ([]entity.Tag, error)
	CreateFunc      func(ctx context.Context, ownerID uint, name string) (*entity.Tag, error)
}

func (m *mockTaxonomyRepository) ListByOwner(ctx context.Context, ownerID uint, assignedOnly bool) ([]entity.Tag, error) {
	if m.ListByOwnerFunc != nil {
		return m.ListByOwnerFunc(ctx, ownerID, assignedOnly)
	}
	return []entity.Tag{}, nil
}

func (m *mockTaxonomyRepository) Create(ctx context.Context, ownerID uint, name string) (*entity.Tag, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, ownerID, name)
	}
	return &entity.Tag{ID: 1, Name: name, UserID: ownerID}, nil
}

// mockRecipeRepository はRecipeRepositoryのモック実装です。
type mockRecipeRepository struct {
	ListFunc        func(ctx context.Context, ownerID uint, f RecipeFilter) ([]entity.Recipe, error)
	FindByIDFunc    func(ctx context.Context, ownerID, id uint) (*entity.Recipe, error)
	CreateFunc      func(ctx context.Context, r *entity.Recipe, a Associations) error
	UpdateFunc      func(ctx context.Context, r *entity.Recipe, a Associations) error
	DeleteFunc      func(ctx context.Context, r *entity.Recipe) error
	UpdateImageFunc func(ctx context.Context, ownerID, id uint, image string) error
}

func (m *mockRecipeRepository) List(ctx context.Context, ownerID uint, f RecipeFilter) ([]entity.Recipe, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, ownerID, f)
	}
	return []entity.Recipe{}, nil
}

func (m *mockRecipeRepository) FindByID(ctx context.Context, ownerID, id uint) (*entity.Recipe, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, ownerID, id)
	}
	return nil, ErrRecipeNotFound
}

func (m *mockRecipeRepository) Create(ctx context.Context, r *entity.Recipe, a Associations) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, r, a)
	}
	return nil
}

func (m *mockRecipeRepository) Update(ctx context.Context, r *entity.Recipe, a Associations) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, r, a)
	}
	return nil
}

func (m *mockRecipeRepository) Delete(ctx context.Context, r *entity.Recipe) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, r)
	}
	return nil
}

func (m *mockRecipeRepository) UpdateImage(ctx context.Context, ownerID, id uint, image string) error {
	if m.UpdateImageFunc != nil {
		return m.UpdateImageFunc(ctx, ownerID, id, image)
	}
	return nil
}

// mockImageStore records saved and removed paths.
type mockImageStore struct {
	saveErr error
	path    string
	removed []string
}

func (m *mockImageStore) Save(ctx context.Context, r io.Reader) (string, error) {
	if m.saveErr != nil {
		return "", m.saveErr
	}
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	if m.path == "" {
		return "", errors.New("no path configured")
	}
	return m.path, nil
}

func (m *mockImageStore) Remove(ctx context.Context, path string) error {
	m.removed = append(m.removed, path)
	return nil
}
