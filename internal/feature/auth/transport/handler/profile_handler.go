package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"shop_backend/internal/api"
	"shop_backend/internal/feature/auth/domain/entity"
	"shop_backend/internal/feature/auth/transport/http/dto"
	"shop_backend/internal/feature/auth/transport/middleware"
	"shop_backend/internal/feature/auth/usecase"
)

// ProfileUsecase はログイン中の顧客が自分のプロフィールを参照・更新する操作です。
type ProfileUsecase interface {
	GetUser(ctx context.Context, id uint) (*entity.User, error)
	UpdateProfile(ctx context.Context, userID uint, in usecase.ProfileInput) (*entity.User, error)
}

// ProfileHandler は/api/obtener-perfilと/api/actualizar-perfilを処理します。
// RequireRole(RoleUser)の後ろに登録してください。
type ProfileHandler struct {
	profiles ProfileUsecase
}

func NewProfileHandler(profiles ProfileUsecase) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

func currentUser(c *gin.Context) (entity.Identity, bool) {
	id, ok := middleware.IdentityFromContext(c)
	if !ok || id.Kind != entity.KindUser {
		api.WriteError(c, usecase.ErrNotLoggedIn)
		return entity.Identity{}, false
	}
	return id, true
}

// GetProfile はパスワードを除いたプロフィールを返します。
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	id, ok := currentUser(c)
	if !ok {
		return
	}
	user, err := h.profiles.GetUser(c.Request.Context(), id.SubjectID)
	if err != nil {
		api.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// UpdateProfile はプロフィールを部分更新します。
// パスワードはoldPasswordとnewPasswordの両方が指定された場合のみ変更されます。
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	id, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.UpdateProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		api.WriteError(c, usecase.ErrMissingFields)
		return
	}
	_, err := h.profiles.UpdateProfile(c.Request.Context(), id.SubjectID, usecase.ProfileInput{
		Username:    req.Username,
		Gender:      req.Genero,
		Phone:       req.Telefono,
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		api.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "Perfil actualizado."})
}
