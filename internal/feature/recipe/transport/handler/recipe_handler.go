package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"recipe_backend/internal/api"
	"recipe_backend/internal/feature/recipe/domain/entity"
	"recipe_backend/internal/feature/recipe/transport/http/dto"
	"recipe_backend/internal/feature/recipe/usecase"
	jwtmw "recipe_backend/internal/platform/jwt"
	"recipe_backend/internal/shared/apperr"
)

// RecipeUsecase はレシピ操作のユースケースインターフェースを定義します。
type RecipeUsecase interface {
	List(ctx context.Context, callerID uint, f usecase.RecipeFilter) ([]entity.Recipe, error)
	Get(ctx context.Context, callerID, id uint) (*entity.Recipe, error)
	Create(ctx context.Context, callerID uint, in usecase.RecipeInput) (*entity.Recipe, error)
	Update(ctx context.Context, callerID, id uint, in usecase.RecipeInput, partial bool) (*entity.Recipe, error)
	Delete(ctx context.Context, callerID, id uint) error
	UploadImage(ctx context.Context, callerID, id uint, file io.Reader) (*entity.Recipe, error)
}

// RecipeHandler はレシピのHTTPリクエストを処理します。
type RecipeHandler struct {
	uc             RecipeUsecase
	render         dto.Renderer
	maxUploadBytes int64
}

// NewRecipeHandler はRecipeHandlerの新しいインスタンスを生成します。
// mediaURLは画像URLの接頭辞、maxUploadBytesはアップロード画像の上限サイズです。
func NewRecipeHandler(uc RecipeUsecase, mediaURL string, maxUploadBytes int64) *RecipeHandler {
	return &RecipeHandler{
		uc:             uc,
		render:         dto.Renderer{MediaURL: mediaURL},
		maxUploadBytes: maxUploadBytes,
	}
}

// List は呼び出し元のレシピを返します。
//
// エンドポイント例:
// GET /recipe/recipes?tags=1,2&ingredients=3
func (h *RecipeHandler) List(c *gin.Context) {
	callerID, ok := jwtmw.UserID(c)
	if !ok {
		api.RespondError(c, apperr.ErrUnauthenticated)
		return
	}

	verr := &apperr.ValidationError{}
	tagIDs, err := usecase.ParseIDList("tags", c.Query("tags"))
	if v, ok := apperr.AsValidation(err); ok {
		verr.Merge(v)
	}
	ingredientIDs, err := usecase.ParseIDList("ingredients", c.Query("ingredients"))
	if v, ok := apperr.AsValidation(err); ok {
		verr.Merge(v)
	}
	if err := verr.OrNil(); err != nil {
		api.RespondError(c, err)
		return
	}

	recipes, err := h.uc.List(c.Request.Context(), callerID, usecase.RecipeFilter{
		TagIDs:        tagIDs,
		IngredientIDs: ingredientIDs,
	})
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.render.Recipes(dto.ActionList, recipes))
}

// Get はレシピの詳細（タグ・材料をネスト）を返します。
func (h *RecipeHandler) Get(c *gin.Context) {
	callerID, id, ok := h.target(c)
	if !ok {
		return
	}
	r, err := h.uc.Get(c.Request.Context(), callerID, id)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.render.Recipe(dto.ActionDetail, r))
}

// Create はレシピを作成します。所有者は常に呼び出し元になります。
func (h *RecipeHandler) Create(c *gin.Context) {
	callerID, ok := jwtmw.UserID(c)
	if !ok {
		api.RespondError(c, apperr.ErrUnauthenticated)
		return
	}
	var req dto.RecipeReq
	if err := api.Bind(c, &req); err != nil {
		api.RespondError(c, err)
		return
	}
	r, err := h.uc.Create(c.Request.Context(), callerID, req.Input())
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.render.Recipe(dto.ActionCreate, r))
}

// Replace handles PUT: every required field must be present.
func (h *RecipeHandler) Replace(c *gin.Context) {
	h.update(c, false)
}

// Patch handles PATCH: only the provided fields change.
func (h *RecipeHandler) Patch(c *gin.Context) {
	h.update(c, true)
}

func (h *RecipeHandler) update(c *gin.Context, partial bool) {
	callerID, id, ok := h.target(c)
	if !ok {
		return
	}
	var req dto.RecipeReq
	if err := api.Bind(c, &req); err != nil {
		api.RespondError(c, err)
		return
	}
	r, err := h.uc.Update(c.Request.Context(), callerID, id, req.Input(), partial)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.render.Recipe(dto.ActionUpdate, r))
}

// Delete はレシピを削除します。
func (h *RecipeHandler) Delete(c *gin.Context) {
	callerID, id, ok := h.target(c)
	if !ok {
		return
	}
	if err := h.uc.Delete(c.Request.Context(), callerID, id); err != nil {
		api.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadImage はレシピに画像をアップロードします。
//
// エンドポイント: POST /recipe/recipes/:id/upload-image
// Content-Type: multipart/form-data
// フィールド: image
func (h *RecipeHandler) UploadImage(c *gin.Context) {
	callerID, id, ok := h.target(c)
	if !ok {
		return
	}
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	tooLarge := apperr.NewValidationError("image",
		fmt.Sprintf("Ensure the file is no larger than %d bytes.", h.maxUploadBytes))
	file, err := c.FormFile("image")
	if err != nil {
		slog.Warn("image file missing", "error", err, "remote_addr", c.ClientIP())
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			api.RespondError(c, tooLarge)
			return
		}
		api.RespondError(c, apperr.NewValidationError("image", "No file was submitted."))
		return
	}
	if h.maxUploadBytes > 0 && file.Size > h.maxUploadBytes {
		api.RespondError(c, tooLarge)
		return
	}

	f, err := file.Open()
	if err != nil {
		api.RespondError(c, fmt.Errorf("failed to open upload: %w", err))
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("failed to close upload", "error", err)
		}
	}()

	r, err := h.uc.UploadImage(c.Request.Context(), callerID, id, f)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	slog.Info("recipe image uploaded", "recipe_id", r.ID, "image", r.Image)
	c.JSON(http.StatusOK, h.render.Recipe(dto.ActionUploadImage, r))
}

// target reads the caller and the :id path parameter. A malformed id is a 404.
func (h *RecipeHandler) target(c *gin.Context) (callerID, id uint, ok bool) {
	callerID, ok = jwtmw.UserID(c)
	if !ok {
		api.RespondError(c, apperr.ErrUnauthenticated)
		return 0, 0, false
	}
	n, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || n == 0 {
		api.RespondError(c, apperr.ErrNotFound)
		return 0, 0, false
	}
	return callerID, uint(n), true
}
