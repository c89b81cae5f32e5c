// Package handler はrecipeフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"recipe_backend/internal/api"
	"recipe_backend/internal/feature/recipe/transport/http/dto"
	jwtmw "recipe_backend/internal/platform/jwt"
	"recipe_backend/internal/shared/apperr"
)

// TaxonomyUsecase はタグ・材料のユースケースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type TaxonomyUsecase[T any] interface {
	List(ctx context.Context, callerID uint, assignedOnly bool) ([]T, error)
	Create(ctx context.Context, callerID uint, name string) (*T, error)
}

// TaxonomyHandler はタグまたは材料の一覧・作成を処理します。
type TaxonomyHandler[T any] struct {
	uc    TaxonomyUsecase[T]
	toRes func(T) dto.LabelRes
}

// NewTaxonomyHandler はTaxonomyHandlerの新しいインスタンスを生成します。
func NewTaxonomyHandler[T any](uc TaxonomyUsecase[T], toRes func(T) dto.LabelRes) *TaxonomyHandler[T] {
	return &TaxonomyHandler[T]{uc: uc, toRes: toRes}
}

// List は呼び出し元のラベル一覧を返します。
//
// エンドポイント例:
// GET /recipe/tags?assigned_only=1
func (h *TaxonomyHandler[T]) List(c *gin.Context) {
	callerID, ok := jwtmw.UserID(c)
	if !ok {
		api.RespondError(c, apperr.ErrUnauthenticated)
		return
	}
	assignedOnly, err := parseFlag(c.Query("assigned_only"))
	if err != nil {
		api.RespondError(c, apperr.NewValidationError("assigned_only", "Must be 0 or 1."))
		return
	}

	items, err := h.uc.List(c.Request.Context(), callerID, assignedOnly)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	out := make([]dto.LabelRes, 0, len(items))
	for _, it := range items {
		out = append(out, h.toRes(it))
	}
	c.JSON(http.StatusOK, out)
}

// Create は呼び出し元を所有者としてラベルを作成します。
func (h *TaxonomyHandler[T]) Create(c *gin.Context) {
	callerID, ok := jwtmw.UserID(c)
	if !ok {
		api.RespondError(c, apperr.ErrUnauthenticated)
		return
	}
	var req dto.LabelReq
	if err := api.Bind(c, &req); err != nil {
		api.RespondError(c, err)
		return
	}
	item, err := h.uc.Create(c.Request.Context(), callerID, req.Name)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.toRes(*item))
}

func parseFlag(raw string) (bool, error) {
	if raw == "" {
		return false, nil
	}
	return strconv.ParseBool(raw)
}
