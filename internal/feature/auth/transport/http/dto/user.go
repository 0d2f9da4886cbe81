package dto

import (
	"time"

	"shop_backend/internal/feature/auth/domain/entity"
)

// UserResponse はパスワードを含まないユーザー表現です。
type UserResponse struct {
	ID            uint      `json:"id_registro"`
	Username      string    `json:"username"`
	Correo        string    `json:"correo"`
	Telefono      string    `json:"telefono"`
	Genero        string    `json:"genero"`
	FechaCreacion time.Time `json:"fechaCreacion"`
}

func NewUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:            u.ID,
		Username:      u.Username,
		Correo:        u.Email,
		Telefono:      u.Phone,
		Genero:        string(u.Gender),
		FechaCreacion: u.CreatedAt,
	}
}

func NewUserListResponse(users []entity.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, NewUserResponse(&users[i]))
	}
	return out
}

// UpdateProfileReq は/api/actualizar-perfilのリクエストボディです。省略したフィールドは変更されません。
type UpdateProfileReq struct {
	Username    *string `json:"username"`
	Genero      *string `json:"genero"`
	Telefono    *string `json:"telefono"`
	OldPassword string  `json:"oldPassword"`
	NewPassword string  `json:"newPassword"`
}

// UpdateUserReq は管理者によるユーザー更新のリクエストボディです。
type UpdateUserReq struct {
	Username *string `json:"username"`
	Genero   *string `json:"genero"`
	Telefono *string `json:"telefono"`
}
