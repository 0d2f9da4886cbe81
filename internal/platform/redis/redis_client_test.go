package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop_backend/internal/config"
)

// TestNewRedisClient は接続確認の成功と失敗を検証します。
func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := config.RedisConfig{Host: mr.Host(), Port: mr.Port()}

	rdb, err := NewRedisClient(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })
	assert.NoError(t, rdb.Set(context.Background(), "k", "v", 0).Err())

	mr.Close()
	_, err = NewRedisClient(context.Background(), cfg)
	assert.Error(t, err)
}
