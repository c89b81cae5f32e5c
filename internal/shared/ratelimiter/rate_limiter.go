// Package ratelimiter はキーごとのトークンバケット方式のレートリミッターを提供します。
package ratelimiter

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"recipe_backend/internal/api"
	"recipe_backend/internal/shared/apperr"
)

// idleTTL is how long an unused key keeps its bucket before it is swept.
const idleTTL = 10 * time.Minute

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedRateLimiter はキー（クライアントIPなど）ごとに独立したリミッターを管理します。
type KeyedRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*entry
	limit    rate.Limit
	burst    int
	now      func() time.Time
}

// NewKeyedRateLimiter は新しいKeyedRateLimiterを生成します。
// rps: 1秒あたりの許可数, burst: 即時に使えるトークン数。
func NewKeyedRateLimiter(rps float64, burst int) *KeyedRateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &KeyedRateLimiter{
		limiters: make(map[string]*entry),
		limit:    rate.Limit(rps),
		burst:    burst,
		now:      time.Now,
	}
}

// Allow reports whether a request for key may proceed. It never blocks.
func (l *KeyedRateLimiter) Allow(key string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.limiters[key]
	if !ok {
		l.sweep(now)
		e = &entry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[key] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

// sweep drops idle buckets. Callers must hold l.mu.
func (l *KeyedRateLimiter) sweep(now time.Time) {
	for key, e := range l.limiters {
		if now.Sub(e.lastSeen) > idleTTL {
			delete(l.limiters, key)
		}
	}
}

// Middleware はクライアントIPごとにリクエストを制限するginミドルウェアを返します。
// 制限を超えた場合は429を返し、onLimitedがnilでなければ呼び出します。
func Middleware(l *KeyedRateLimiter, onLimited func(c *gin.Context)) gin.HandlerFunc {
	return func(c *gin.Context) {
		if l.Allow(c.ClientIP()) {
			c.Next()
			return
		}
		if onLimited != nil {
			onLimited(c)
		}
		api.RespondError(c, apperr.ErrRateLimited)
	}
}
