package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"recipe_backend/internal/shared/apperr"
)

// StatusFor はエラーに対応するHTTPステータスコードを返します。
func StatusFor(err error) int {
	if _, ok := apperr.AsValidation(err); ok {
		return http.StatusBadRequest
	}
	switch {
	case errors.Is(err, apperr.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// RespondError はエラーをステータスコードとJSONボディに変換して書き込みます。
// 500の場合は内部エラーを公開せず、ログにのみ出力します。
func RespondError(c *gin.Context, err error) {
	status := StatusFor(err)
	switch status {
	case http.StatusBadRequest:
		v, _ := apperr.AsValidation(err)
		c.AbortWithStatusJSON(status, ValidationErrorResponse{Errors: v.Fields})
	case http.StatusInternalServerError:
		slog.Error("request failed", "error", err, "method", c.Request.Method, "path", c.FullPath(), "remote_addr", c.ClientIP())
		c.AbortWithStatusJSON(status, ErrorResponse{Error: "internal server error"})
	default:
		c.AbortWithStatusJSON(status, ErrorResponse{Error: err.Error()})
	}
}
