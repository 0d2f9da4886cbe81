// Package api はHTTP層で共有するレスポンス型とヘルパーを提供します。
package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	"shop_backend/internal/shared/apperr"
)

// RequestIDKey はgin.Contextに保存されるリクエストIDのキーです。
const RequestIDKey = "request_id"

// ErrorResponse はすべてのエラーレスポンスの形式です。
// 既存のフロントエンドはmessageを読むため、同じ文言を両方に入れます。
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func newErrorResponse(msg string) ErrorResponse {
	return ErrorResponse{Error: msg, Message: msg}
}

// MessageResponse は本文を持たない成功レスポンスの形式です。
type MessageResponse struct {
	Message string `json:"message"`
}

// WriteError はエラー種別に応じたステータスでErrorResponseを返します。
// 想定外のエラーはログに記録し、クライアントには汎用メッセージのみ返します。
func WriteError(c *gin.Context, err error) {
	status := apperr.Status(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed",
			"error", err,
			"method", c.Request.Method,
			"path", c.FullPath(),
			"request_id", c.GetString(RequestIDKey),
			"remote_addr", c.ClientIP(),
		)
		c.JSON(status, newErrorResponse("internal server error"))
		return
	}

	slog.Warn("request rejected",
		"error", err,
		"status", status,
		"path", c.FullPath(),
		"request_id", c.GetString(RequestIDKey),
		"remote_addr", c.ClientIP(),
	)
	c.JSON(status, newErrorResponse(apperr.Message(err)))
}

// BindID はパスパラメータ name を正の整数IDとして読み取ります。
func BindID(c *gin.Context, name string) (uint, error) {
	var id int64
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &id,
		runtime.BindStyledParameterOptions{
			ParamLocation: runtime.ParamLocationPath,
			Explode:       false,
			Required:      true,
		})
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s", apperr.ErrValidation, name)
	}
	if id <= 0 {
		return 0, fmt.Errorf("%w: %s must be positive", apperr.ErrValidation, name)
	}
	return uint(id), nil
}
