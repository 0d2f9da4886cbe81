// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"shop_backend/internal/api"
	"shop_backend/internal/feature/auth/domain/entity"
	"shop_backend/internal/feature/auth/transport/http/dto"
	"shop_backend/internal/feature/auth/transport/middleware"
	"shop_backend/internal/feature/auth/usecase"
	"shop_backend/internal/shared/apperr"
)

// errMissingLogin はログインリクエストのバインド失敗時に返します。
var errMissingLogin = apperr.New(apperr.ErrValidation, "Por favor, ingresa tu correo y contraseña.")

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	Register(ctx context.Context, in usecase.RegisterInput) (uint, error)
	VerifyCredentials(ctx context.Context, identifier, password string) (*entity.User, error)
	VerifyAdminCredentials(ctx context.Context, identifier, password string) (*entity.Admin, error)
}

// SessionManager はセッションの発行と破棄を行います。
type SessionManager interface {
	Login(ctx context.Context, identity entity.Identity, meta usecase.ClientMeta) (*entity.Session, error)
	Destroy(ctx context.Context, token string) error
	TTL() time.Duration
}

// AuthHandler は登録・ログイン・ログアウトのHTTPリクエストを処理します。
type AuthHandler struct {
	auth     AuthUsecase
	sessions SessionManager
	cookie   middleware.Cookie
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
func NewAuthHandler(auth AuthUsecase, sessions SessionManager, cookie middleware.Cookie) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions, cookie: cookie}
}

func clientMeta(c *gin.Context) usecase.ClientMeta {
	return usecase.ClientMeta{UserAgent: c.Request.UserAgent(), IPAddress: c.ClientIP()}
}

// startSession は既存のセッションを破棄してから新しいセッションを発行し、Cookieを設定します。
func (h *AuthHandler) startSession(c *gin.Context, identity entity.Identity) error {
	ctx := c.Request.Context()
	if old := h.cookie.Read(c); old != "" {
		if err := h.sessions.Destroy(ctx, old); err != nil {
			slog.Warn("failed to destroy previous session", "error", err, "remote_addr", c.ClientIP())
		}
	}
	s, err := h.sessions.Login(ctx, identity, clientMeta(c))
	if err != nil {
		return err
	}
	h.cookie.Set(c, s.ID, h.sessions.TTL())
	return nil
}

// Register はユーザー登録APIエンドポイントを処理します。
// - 入力不備は400、ユーザー名・メールアドレスの重複は409
// - 成功時は201を返却
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		api.WriteError(c, usecase.ErrMissingFields)
		return
	}
	id, err := h.auth.Register(c.Request.Context(), usecase.RegisterInput{
		Username:        req.Username,
		Email:           req.Correo,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Phone:           req.Telefono,
		Gender:          req.Genero,
	})
	if err != nil {
		api.WriteError(c, err)
		return
	}
	slog.Info("user registered", "user_id", id, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, api.MessageResponse{Message: "Registro exitoso"})
}

// Login はユーザーログインAPIエンドポイントを処理します。
// 認証成功時はセッションCookieを設定して200を返却します。
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		api.WriteError(c, errMissingLogin)
		return
	}
	user, err := h.auth.VerifyCredentials(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		api.WriteError(c, err)
		return
	}
	if err := h.startSession(c, entity.UserIdentity(user)); err != nil {
		api.WriteError(c, err)
		return
	}
	slog.Info("user login successful", "user_id", user.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.LoginResponse{Message: "Inicio de sesión exitoso"})
}

// AdminLogin は管理者ログインを処理し、管理画面へのリダイレクト先を返します。
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		api.WriteError(c, errMissingLogin)
		return
	}
	admin, err := h.auth.VerifyAdminCredentials(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		api.WriteError(c, err)
		return
	}
	if err := h.startSession(c, entity.AdminIdentity(admin)); err != nil {
		api.WriteError(c, err)
		return
	}
	slog.Info("admin login successful", "admin_id", admin.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.LoginResponse{Message: "Inicio de sesión exitoso", Redirect: "/admin"})
}

// Logout はセッションを破棄してCookieを削除し、/loginへリダイレクトします。
// セッションがなくても成功として扱います。
func (h *AuthHandler) Logout(c *gin.Context) {
	if token := h.cookie.Read(c); token != "" {
		if err := h.sessions.Destroy(c.Request.Context(), token); err != nil {
			slog.Warn("failed to destroy session", "error", err, "remote_addr", c.ClientIP())
		}
	}
	h.cookie.Clear(c)
	c.Redirect(http.StatusFound, "/login")
}

// UserStatus は顧客としてログインしているかどうかを返します。
// 管理者セッションはloggedIn=falseとして扱います。
func (h *AuthHandler) UserStatus(c *gin.Context) {
	id, ok := middleware.IdentityFromContext(c)
	if !ok || id.Kind != entity.KindUser {
		c.JSON(http.StatusOK, dto.UserStatusResponse{LoggedIn: false})
		return
	}
	username := id.Username
	if username == "" {
		username = "Usuario"
	}
	c.JSON(http.StatusOK, dto.UserStatusResponse{LoggedIn: true, Username: username})
}
