package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveReady(t *testing.T, deps map[string]Pinger) *httptest.ResponseRecorder {
	t.Helper()

	r := gin.New()
	r.GET("/readyz", Ready(deps))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	return w
}

// TestReady_AllHealthy は全ての依存先が応答する場合に200を返すことを検証します。
func TestReady_AllHealthy(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	w := serveReady(t, map[string]Pinger{
		"database": PingFunc(func(context.Context) error { return nil }),
		"redis":    PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() }),
		"disabled": nil,
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","checks":{"database":"ok","redis":"ok"}}`, w.Body.String())
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

// TestReady_DependencyDown は依存先が応答しない場合に503を返すことを検証します。
func TestReady_DependencyDown(t *testing.T) {
	t.Parallel()

	w := serveReady(t, map[string]Pinger{
		"database": PingFunc(func(context.Context) error { return errors.New("connection refused") }),
		"redis":    PingFunc(func(context.Context) error { return nil }),
	})

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"unavailable","checks":{"database":"unavailable","redis":"ok"}}`, w.Body.String())
}
