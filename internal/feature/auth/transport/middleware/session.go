// Package middleware はセッションCookieを解決し、ロールによるアクセス制御を行うginミドルウェアを提供します。
package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"shop_backend/internal/api"
	"shop_backend/internal/feature/auth/domain/entity"
	"shop_backend/internal/feature/auth/usecase"
)

// ContextIdentity はgin.ContextにIdentityを保存するキーです。
const ContextIdentity = "identity"

// SessionResolver はトークンからセッションを解決します。
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*entity.Session, error)
}

// Cookie はセッションCookieの属性です。HttpOnlyとSameSite=Laxは常に付与されます。
type Cookie struct {
	Name   string
	Secure bool
}

// Set はtokenをttlの有効期限でCookieに書き込みます。
func (ck Cookie) Set(c *gin.Context, token string, ttl time.Duration) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(ck.Name, token, int(ttl.Seconds()), "/", "", ck.Secure, true)
}

// Clear はCookieを削除します。
func (ck Cookie) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(ck.Name, "", -1, "/", "", ck.Secure, true)
}

// Read はリクエストのトークンを返します。Cookieがない場合は空文字です。
func (ck Cookie) Read(c *gin.Context) string {
	token, err := c.Cookie(ck.Name)
	if err != nil {
		return ""
	}
	return token
}

// Sessions はリクエストごとにセッションを解決するミドルウェア群です。
type Sessions struct {
	resolver SessionResolver
	cookie   Cookie
}

func NewSessions(resolver SessionResolver, cookie Cookie) *Sessions {
	return &Sessions{resolver: resolver, cookie: cookie}
}

// resolve はCookieのセッションを解決し、成功時はコンテキストにIdentityを保存します。
func (s *Sessions) resolve(c *gin.Context) (entity.Identity, error) {
	if id, ok := IdentityFromContext(c); ok {
		return id, nil
	}
	token := s.cookie.Read(c)
	sess, err := s.resolver.Resolve(c.Request.Context(), token)
	if err != nil {
		return entity.Identity{}, err
	}
	id := sess.Identity()
	c.Set(ContextIdentity, id)
	return id, nil
}

// Optional はセッションがあれば解決しますが、なくても処理を続行します。
func (s *Sessions) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		_, _ = s.resolve(c)
		c.Next()
	}
}

// RequireSession は有効なセッションがない場合に401で中断します。
func (s *Sessions) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := s.resolve(c); err != nil {
			api.WriteError(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRole はセッションのロールがroleと異なる場合に403で中断します。
func (s *Sessions) RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := s.resolve(c)
		if err == nil {
			err = usecase.RequireRole(id, role)
		}
		if err != nil {
			api.WriteError(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequirePage はHTMLページ用です。条件を満たさない場合はJSONではなくredirectTo へリダイレクトします。
func (s *Sessions) RequirePage(role, redirectTo string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := s.resolve(c)
		if err == nil {
			err = usecase.RequireRole(id, role)
		}
		if err != nil {
			c.Redirect(http.StatusFound, redirectTo)
			c.Abort()
			return
		}
		c.Next()
	}
}

// IdentityFromContext はミドルウェアが保存したIdentityを返します。
func IdentityFromContext(c *gin.Context) (entity.Identity, bool) {
	v, ok := c.Get(ContextIdentity)
	if !ok {
		return entity.Identity{}, false
	}
	id, ok := v.(entity.Identity)
	return id, ok
}
