package ratelimiter

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newRouter(rl *RateLimiter) *gin.Engine {
	r := gin.New()
	r.POST("/login", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/registro", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusCreated) })
	return r
}

func hit(r http.Handler, path, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, nil)
	req.RemoteAddr = ip + ":12345"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// TestRateLimiter_LocalOnly はRedisなしで上限を超えると429を返すことを検証します。
func TestRateLimiter_LocalOnly(t *testing.T) {
	r := newRouter(NewRateLimiter(nil, 3, time.Minute, 3, ""))

	for i := 0; i < 3; i++ {
		w := hit(r, "/login", "10.0.0.1")
		require.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
	}

	w := hit(r, "/login", "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Demasiados intentos. Inténtalo de nuevo más tarde.", body["error"])

	// 別のIPと別のエンドポイントは独立して数えます
	assert.Equal(t, http.StatusOK, hit(r, "/login", "10.0.0.2").Code)
	assert.Equal(t, http.StatusCreated, hit(r, "/registro", "10.0.0.1").Code)
}

// TestRateLimiter_RedisErrorFallsBack はRedisが応答しない場合にローカル制限で動作することを検証します。
func TestRateLimiter_RedisErrorFallsBack(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	mr.Close()

	r := newRouter(NewRateLimiter(rdb, 1, time.Minute, 1, "test"))

	assert.Equal(t, http.StatusOK, hit(r, "/login", "10.0.0.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "/login", "10.0.0.1").Code)
}

// TestLocalLimiter_Refill はトークンが時間経過で回復することを検証します。
func TestLocalLimiter_Refill(t *testing.T) {
	t.Parallel()

	l := newLocalLimiter()
	limit := redis_rate.Limit{Rate: 60, Burst: 1, Period: time.Minute}
	now := time.Now()

	assert.Equal(t, 1, l.allow("k", limit, now).Allowed)

	denied := l.allow("k", limit, now)
	assert.Equal(t, 0, denied.Allowed)
	assert.Equal(t, time.Second, denied.RetryAfter)

	assert.Equal(t, 1, l.allow("k", limit, now.Add(time.Second)).Allowed)
}

// TestLocalLimiter_SweepsIdleEntries は長時間使われていないキーが破棄されることを検証します。
func TestLocalLimiter_SweepsIdleEntries(t *testing.T) {
	t.Parallel()

	l := newLocalLimiter()
	limit := redis_rate.Limit{Rate: 10, Burst: 10, Period: time.Minute}
	now := time.Now()

	l.allow("old", limit, now)
	l.allow("new", limit, now.Add(entryTTL+time.Minute))

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.NotContains(t, l.entries, "old")
	assert.Contains(t, l.entries, "new")
}
