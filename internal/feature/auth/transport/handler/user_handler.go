package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"shop_backend/internal/api"
	"shop_backend/internal/feature/auth/domain/entity"
	"shop_backend/internal/feature/auth/transport/http/dto"
	"shop_backend/internal/feature/auth/usecase"
)

// UserAdminUsecase は管理者によるユーザー管理操作です。
type UserAdminUsecase interface {
	ListUsers(ctx context.Context) ([]entity.User, error)
	GetUser(ctx context.Context, id uint) (*entity.User, error)
	UpdateUser(ctx context.Context, id uint, username, gender, phone *string) (*entity.User, error)
	DeleteUser(ctx context.Context, id uint) error
}

// SessionRevoker は指定した主体のセッションを全て破棄します。
type SessionRevoker interface {
	DestroyAllFor(ctx context.Context, kind entity.Kind, subjectID uint) error
}

// UserHandler は/api/usuarios以下の管理者向けエンドポイントを処理します。
type UserHandler struct {
	users    UserAdminUsecase
	sessions SessionRevoker
}

func NewUserHandler(users UserAdminUsecase, sessions SessionRevoker) *UserHandler {
	return &UserHandler{users: users, sessions: sessions}
}

// List はパスワードを除いた全ユーザーを返します。
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.ListUsers(c.Request.Context())
	if err != nil {
		api.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserListResponse(users))
}

// Get はユーザーを1件返します。
func (h *UserHandler) Get(c *gin.Context) {
	id, err := api.BindID(c, "id")
	if err != nil {
		api.WriteError(c, err)
		return
	}
	user, err := h.users.GetUser(c.Request.Context(), id)
	if err != nil {
		api.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// Update はユーザー名・性別・電話番号を更新します。
func (h *UserHandler) Update(c *gin.Context) {
	id, err := api.BindID(c, "id")
	if err != nil {
		api.WriteError(c, err)
		return
	}
	var req dto.UpdateUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		api.WriteError(c, usecase.ErrMissingFields)
		return
	}
	if _, err := h.users.UpdateUser(c.Request.Context(), id, req.Username, req.Genero, req.Telefono); err != nil {
		api.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "Usuario actualizado."})
}

// Delete はユーザーを削除し、そのユーザーのセッションも破棄します。
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := api.BindID(c, "id")
	if err != nil {
		api.WriteError(c, err)
		return
	}
	ctx := c.Request.Context()
	if err := h.users.DeleteUser(ctx, id); err != nil {
		api.WriteError(c, err)
		return
	}
	if err := h.sessions.DestroyAllFor(ctx, entity.KindUser, id); err != nil {
		slog.Error("failed to revoke sessions of deleted user", "user_id", id, "error", err)
	}
	slog.Info("user deleted", "user_id", id, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, api.MessageResponse{Message: "Usuario eliminado."})
}
