// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	recipeadapters "recipe_backend/internal/feature/recipe/adapters"
	recipeentity "recipe_backend/internal/feature/recipe/domain/entity"
	recipehandler "recipe_backend/internal/feature/recipe/transport/handler"
	"recipe_backend/internal/feature/recipe/transport/http/dto"
	recipeusecase "recipe_backend/internal/feature/recipe/usecase"
	useradapters "recipe_backend/internal/feature/user/adapters"
	userhandler "recipe_backend/internal/feature/user/transport/handler"
	userusecase "recipe_backend/internal/feature/user/usecase"
	"recipe_backend/internal/platform/cache"
	"recipe_backend/internal/platform/config"
	platformhandler "recipe_backend/internal/platform/http/handler"
	jwtmw "recipe_backend/internal/platform/jwt"
	"recipe_backend/internal/platform/metrics"
	"recipe_backend/internal/platform/storage"
)

// Container holds the wired handlers and the services the router needs.
type Container struct {
	Users       *userhandler.UserHandler
	Tags        *recipehandler.TaxonomyHandler[recipeentity.Tag]
	Ingredients *recipehandler.TaxonomyHandler[recipeentity.Ingredient]
	Recipes     *recipehandler.RecipeHandler
	Health      *platformhandler.HealthHandler
	Metrics     *metrics.Metrics
	Sessions    jwtmw.SessionValidator
}

// NewContainer wires repositories, usecases and handlers.
// rdb may be nil, in which case sessions live in the database and listings are not cached.
func NewContainer(cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*Container, error) {
	images, err := storage.NewImageStorage(cfg.Media.Root, cfg.Media.MaxUploadBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare media root: %w", err)
	}

	// Repository
	userRepo := useradapters.NewUserRepository(db)
	sessionRepo := NewSessionRepository(rdb, db)
	recipeRepo := recipeadapters.NewRecipeRepository(db)

	// Redisキャッシュでラップ
	tagRepo := cache.NewCachingTaxonomyRepository[recipeentity.Tag](rdb, cfg.Cache.TTL, recipeadapters.NewTagRepository(db), "tags")
	ingredientRepo := cache.NewCachingTaxonomyRepository[recipeentity.Ingredient](rdb, cfg.Cache.TTL, recipeadapters.NewIngredientRepository(db), "ingredients")

	// Usecase
	userUC := userusecase.NewUserUsecase(userRepo)
	authUC := userusecase.NewAuthUsecase(userRepo, sessionRepo, jwtmw.NewGenerator(cfg.JWT.Secret, cfg.JWT.TTL), cfg.JWT.TTL)
	tagUC := recipeusecase.NewTaxonomyUsecase[recipeentity.Tag](tagRepo)
	ingredientUC := recipeusecase.NewTaxonomyUsecase[recipeentity.Ingredient](ingredientRepo)
	recipeUC := recipeusecase.NewRecipeUsecase(recipeRepo, images)

	return &Container{
		Users:       userhandler.NewUserHandler(userUC, authUC),
		Tags:        recipehandler.NewTaxonomyHandler[recipeentity.Tag](tagUC, dto.NewTagRes),
		Ingredients: recipehandler.NewTaxonomyHandler[recipeentity.Ingredient](ingredientUC, dto.NewIngredientRes),
		Recipes:     recipehandler.NewRecipeHandler(recipeUC, cfg.Media.URL, cfg.Media.MaxUploadBytes),
		Health:      platformhandler.NewHealthHandler(healthChecks(db, rdb)),
		Metrics:     metrics.New(),
		Sessions:    authUC,
	}, nil
}

// NewUserUsecase wires the account usecase alone, for management commands.
func NewUserUsecase(db *gorm.DB) *userusecase.UserUsecase {
	return userusecase.NewUserUsecase(useradapters.NewUserRepository(db))
}

func healthChecks(db *gorm.DB, rdb *redis.Client) map[string]platformhandler.Check {
	checks := map[string]platformhandler.Check{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}
	}
	return checks
}
