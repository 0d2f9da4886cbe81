// Package ratelimiter はログイン・登録エンドポイント向けのレート制限ミドルウェアを提供します。
// Redisが使える場合はredis_rateで全インスタンス共通のカウンタを使い、
// 使えない場合やRedisエラー時はプロセス内のトークンバケットにフォールバックします。
package ratelimiter

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"shop_backend/internal/api"
	"shop_backend/internal/shared/apperr"
)

// ErrTooManyRequests は制限超過時にクライアントへ返すエラーです。
var ErrTooManyRequests = apperr.New(apperr.ErrRateLimited, "Demasiados intentos. Inténtalo de nuevo más tarde.")

// entryTTL を過ぎて使われていないローカルのバケットは破棄されます。
const entryTTL = 10 * time.Minute

// RateLimiter はクライアントIPごとにリクエスト数を制限します。
type RateLimiter struct {
	limiter  *redis_rate.Limiter
	fallback *localLimiter
	limit    redis_rate.Limit
	prefix   string
}

// NewRateLimiter はRateLimiterを生成します。rdbがnilの場合はローカルのみで動作します。
// period内にrequests回まで、burstは瞬間的に許可する回数です。
func NewRateLimiter(rdb *redis.Client, requests int, period time.Duration, burst int, prefix string) *RateLimiter {
	if burst <= 0 {
		burst = requests
	}
	if prefix == "" {
		prefix = "ratelimit"
	}
	rl := &RateLimiter{
		fallback: newLocalLimiter(),
		limit:    redis_rate.Limit{Rate: requests, Burst: burst, Period: period},
		prefix:   prefix,
	}
	if rdb != nil {
		rl.limiter = redis_rate.NewLimiter(rdb)
	}
	return rl
}

// Middleware は制限超過時に429とRetry-Afterヘッダーを返すginミドルウェアです。
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := rl.prefix + ":" + c.FullPath() + ":" + c.ClientIP()
		res := rl.allow(c.Request.Context(), key)

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.limit.Rate))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))

		if res.Allowed == 0 {
			retryAfter := int(res.RetryAfter.Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			api.WriteError(c, ErrTooManyRequests)
			c.Abort()
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) allow(ctx context.Context, key string) *redis_rate.Result {
	if rl.limiter != nil {
		res, err := rl.limiter.Allow(ctx, key, rl.limit)
		if err == nil {
			return res
		}
		slog.Warn("redis rate limiter failed, using local limiter", "error", err, "key", key)
	}
	return rl.fallback.allow(key, rl.limit, time.Now())
}

type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// localLimiter はキーごとのトークンバケットをmutexで保護して保持します。
type localLimiter struct {
	mu        sync.Mutex
	entries   map[string]*limiterEntry
	lastSweep time.Time
}

func newLocalLimiter() *localLimiter {
	return &localLimiter{entries: make(map[string]*limiterEntry), lastSweep: time.Now()}
}

func (l *localLimiter) allow(key string, limit redis_rate.Limit, now time.Time) *redis_rate.Result {
	ratePerSec := float64(limit.Rate) / limit.Period.Seconds()
	interval := time.Duration(float64(time.Second) / ratePerSec)

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) > entryTTL {
		for k, e := range l.entries {
			if now.Sub(e.lastAccess) > entryTTL {
				delete(l.entries, k)
			}
		}
		l.lastSweep = now
	}

	entry, ok := l.entries[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(rate.Limit(ratePerSec), limit.Burst)}
		l.entries[key] = entry
	}
	entry.lastAccess = now

	res := &redis_rate.Result{Limit: limit, RetryAfter: -1, ResetAfter: interval}
	if entry.limiter.AllowN(now, 1) {
		res.Allowed = 1
	} else {
		res.RetryAfter = interval
	}
	if remaining := int(entry.limiter.TokensAt(now)); remaining > 0 {
		res.Remaining = remaining
	}
	return res
}
