package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger は依存先の疎通確認を行います。
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc は関数をPingerとして扱うためのアダプターです。
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// readyTimeout は各依存先のPingに与える時間です。
const readyTimeout = 2 * time.Second

// Ready は /readyz を処理します。nilの依存先はスキップされます。
// いずれかのPingが失敗した場合は503を返します。
func Ready(deps map[string]Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")

		checks := make(map[string]string, len(deps))
		status := http.StatusOK
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
			err := dep.Ping(ctx)
			cancel()
			if err != nil {
				slog.Warn("readiness check failed", "dependency", name, "error", err)
				checks[name] = "unavailable"
				status = http.StatusServiceUnavailable
				continue
			}
			checks[name] = "ok"
		}

		overall := "ok"
		if status != http.StatusOK {
			overall = "unavailable"
		}
		c.JSON(status, gin.H{"status": overall, "checks": checks})
	}
}
