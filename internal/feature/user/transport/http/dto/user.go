// Package dto はuserフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

import "recipe_backend/internal/feature/user/domain/entity"

// CreateUserReq は/user/createエンドポイントのリクエストボディを表します。
// JSONとフォームの両方を受け付けます。
type CreateUserReq struct {
	Email    string `json:"email" form:"email" binding:"required,email,max=255"`
	Password string `json:"password" form:"password" binding:"required,min=5"`
	Name     string `json:"name" form:"name" binding:"required,notblank,max=255"`
}

// TokenReq は/user/tokenエンドポイントのリクエストボディを表します。
type TokenReq struct {
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// UpdateMeReq は/user/meの部分更新リクエストです。省略されたフィールドは変更されません。
type UpdateMeReq struct {
	Name     *string `json:"name" form:"name" binding:"omitempty,notblank,max=255"`
	Password *string `json:"password" form:"password" binding:"omitempty,min=5"`
}

// UserRes is the public representation of a user. It never carries the password.
type UserRes struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// AdminUserRes is the staff-only listing row.
type AdminUserRes struct {
	ID          uint   `json:"id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	IsActive    bool   `json:"is_active"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
}

// NewUserRes converts an entity to its public representation.
func NewUserRes(u *entity.User) UserRes {
	return UserRes{Email: u.Email, Name: u.Name}
}

// NewAdminUserList converts users to admin listing rows.
func NewAdminUserList(users []entity.User) []AdminUserRes {
	out := make([]AdminUserRes, 0, len(users))
	for _, u := range users {
		out = append(out, AdminUserRes{
			ID:          u.ID,
			Email:       u.Email,
			Name:        u.Name,
			IsActive:    u.IsActive,
			IsStaff:     u.IsStaff,
			IsSuperuser: u.IsSuperuser,
		})
	}
	return out
}
