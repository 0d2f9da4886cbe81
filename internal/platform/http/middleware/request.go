// Package middleware はリクエストIDの付与とアクセスログ出力を行うginミドルウェアを提供します。
package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"shop_backend/internal/api"
)

// HeaderRequestID はリクエストIDを伝搬するHTTPヘッダーです。
const HeaderRequestID = "X-Request-ID"

// RequestID はリクエストごとにIDを付与し、レスポンスヘッダーとgin.Contextに保存します。
// クライアントがX-Request-IDを送った場合はその値を使います。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set(api.RequestIDKey, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// Logger はリクエストの完了時にslogで1行出力します。
// RequestIDの後に登録してください。
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration", time.Since(start).String(),
			"request_id", c.GetString(api.RequestIDKey),
			"remote_addr", c.ClientIP(),
		}
		switch {
		case status >= 500:
			slog.Error("request", attrs...)
		case status >= 400:
			slog.Warn("request", attrs...)
		default:
			slog.Info("request", attrs...)
		}
	}
}
