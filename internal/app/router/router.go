// Package router はHTTPルーティングを定義します。
package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"recipe_backend/internal/api"
	"recipe_backend/internal/app/di"
	"recipe_backend/internal/platform/config"
	jwtmw "recipe_backend/internal/platform/jwt"
	"recipe_backend/internal/shared/ratelimiter"
)

func NewRouter(cfg *config.Config, c *di.Container) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// 既知のパスへの誤ったメソッドは405
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, api.ErrorResponse{Error: "method not allowed"})
	})
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "not found"})
	})

	if len(cfg.Server.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  cfg.Server.CORSOrigins,
			AllowMethods:  []string{"GET", "HEAD", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:  []string{"Authorization", "Content-Type"},
			ExposeHeaders: []string{"Content-Length"},
			MaxAge:        12 * time.Hour,
		}))
	}
	r.Use(c.Metrics.Middleware())

	// 認証不要
	// 導通確認用
	r.GET("/healthz", c.Health.Health)
	r.HEAD("/healthz", c.Health.Health)
	r.GET("/metrics", gin.WrapH(c.Metrics.Handler()))
	// アップロード画像の配信
	r.Static(cfg.Media.URL, cfg.Media.Root)

	authRequired := jwtmw.AuthRequired(cfg.JWT.Secret, c.Sessions)
	tokenLimiter := ratelimiter.NewKeyedRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)

	user := r.Group("/user")
	{
		// 新規ユーザー登録
		user.POST("/create", c.Users.Create)
		// ログイン（トークン発行）
		user.POST("/token", ratelimiter.Middleware(tokenLimiter, c.Metrics.RateLimited), c.Users.Token)

		// 認証必須のルート
		user.POST("/logout", authRequired, c.Users.Logout)
		user.GET("/me", authRequired, c.Users.Me)
		user.PATCH("/me", authRequired, c.Users.UpdateMe)
	}

	admin := r.Group("/admin", authRequired)
	{
		admin.GET("/users", c.Users.AdminListUsers)
	}

	recipe := r.Group("/recipe", authRequired)
	{
		recipe.GET("/tags", c.Tags.List)
		recipe.POST("/tags", c.Tags.Create)
		recipe.GET("/ingredients", c.Ingredients.List)
		recipe.POST("/ingredients", c.Ingredients.Create)

		recipe.GET("/recipes", c.Recipes.List)
		recipe.POST("/recipes", c.Recipes.Create)
		recipe.GET("/recipes/:id", c.Recipes.Get)
		recipe.PUT("/recipes/:id", c.Recipes.Replace)
		recipe.PATCH("/recipes/:id", c.Recipes.Patch)
		recipe.DELETE("/recipes/:id", c.Recipes.Delete)
		recipe.POST("/recipes/:id/upload-image", c.Recipes.UploadImage)
	}

	return r
}
