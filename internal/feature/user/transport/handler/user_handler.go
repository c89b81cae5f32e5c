// Package handler はuserフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"recipe_backend/internal/api"
	"recipe_backend/internal/feature/user/domain/entity"
	"recipe_backend/internal/feature/user/transport/http/dto"
	"recipe_backend/internal/feature/user/usecase"
	jwtmw "recipe_backend/internal/platform/jwt"
	"recipe_backend/internal/shared/apperr"
)

// UserUsecase はアカウント操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type UserUsecase interface {
	CreateUser(ctx context.Context, email, password, name string) (*entity.User, error)
	Me(ctx context.Context, callerID uint) (*entity.User, error)
	UpdateMe(ctx context.Context, callerID uint, in usecase.ProfileUpdate) (*entity.User, error)
	ListUsers(ctx context.Context, callerID uint) ([]entity.User, error)
}

// AuthUsecase はトークン発行と失効のユースケースを定義します。
type AuthUsecase interface {
	Login(ctx context.Context, email, password string, client usecase.ClientInfo) (string, error)
	Logout(ctx context.Context, sessionID string) error
}

// UserHandler はユーザー登録・認証・プロフィールのHTTPリクエストを処理します。
type UserHandler struct {
	users UserUsecase
	auth  AuthUsecase
}

// NewUserHandler はUserHandlerの新しいインスタンスを生成します。
func NewUserHandler(users UserUsecase, auth AuthUsecase) *UserHandler {
	return &UserHandler{users: users, auth: auth}
}

// Create はユーザー登録APIエンドポイントを処理します。
// - バリデーションエラー・メール重複時は400を返却
// - 成功時は201とユーザー表現（パスワードを含まない）を返却
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserReq
	if err := api.Bind(c, &req); err != nil {
		api.RespondError(c, err)
		return
	}
	user, err := h.users.CreateUser(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		slog.Warn("user create failed", "error", err, "remote_addr", c.ClientIP())
		api.RespondError(c, err)
		return
	}
	slog.Info("user created", "user_id", user.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, dto.NewUserRes(user))
}

// Token は認証情報を検証しトークンを発行します。
// 認証失敗はすべて同じメッセージの400になります。
func (h *UserHandler) Token(c *gin.Context) {
	var req dto.TokenReq
	if err := api.Bind(c, &req); err != nil {
		api.RespondError(c, err)
		return
	}
	client := usecase.ClientInfo{UserAgent: c.Request.UserAgent(), IPAddress: c.ClientIP()}
	token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password, client)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			// ユーザー列挙攻撃を防止するため、原因を区別しない
			slog.Warn("login failed", "remote_addr", c.ClientIP())
			api.RespondError(c, apperr.NewValidationError(apperr.NonFieldErrors, usecase.ErrInvalidCredentials.Error()))
			return
		}
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.TokenResponse{Token: token})
}

// Logout はリクエストに使われたトークンのセッションを失効させます。
func (h *UserHandler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context(), jwtmw.SessionID(c)); err != nil {
		api.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Me は認証済みユーザー自身のプロフィールを返します。
func (h *UserHandler) Me(c *gin.Context) {
	callerID, ok := jwtmw.UserID(c)
	if !ok {
		api.RespondError(c, apperr.ErrUnauthenticated)
		return
	}
	user, err := h.users.Me(c.Request.Context(), callerID)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserRes(user))
}

// UpdateMe は名前・パスワードを部分更新します。
func (h *UserHandler) UpdateMe(c *gin.Context) {
	callerID, ok := jwtmw.UserID(c)
	if !ok {
		api.RespondError(c, apperr.ErrUnauthenticated)
		return
	}
	var req dto.UpdateMeReq
	if err := api.Bind(c, &req); err != nil {
		api.RespondError(c, err)
		return
	}
	user, err := h.users.UpdateMe(c.Request.Context(), callerID, usecase.ProfileUpdate{
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserRes(user))
}

// AdminListUsers はスタッフ向けに全ユーザーを返します。
func (h *UserHandler) AdminListUsers(c *gin.Context) {
	callerID, ok := jwtmw.UserID(c)
	if !ok {
		api.RespondError(c, apperr.ErrUnauthenticated)
		return
	}
	users, err := h.users.ListUsers(c.Request.Context(), callerID)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAdminUserList(users))
}
