package entity

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Admin is a back-office account. Role is always RoleAdmin.
type Admin struct {
	ID        uint      `gorm:"column:id_admin;primaryKey"`
	Username  string    `gorm:"column:username;size:18;uniqueIndex;not null"`
	Email     string    `gorm:"column:correo;size:50;uniqueIndex;not null"`
	Password  string    `gorm:"column:password;size:255;not null"`
	Role      string    `gorm:"column:role;size:10;not null;default:admin"`
	CreatedAt time.Time `gorm:"column:fechaCreacion;autoCreateTime"`
}

func (Admin) TableName() string {
	return "admins"
}
