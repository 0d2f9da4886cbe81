// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// MaxUsernameLength is the column width of usernames.
const MaxUsernameLength = 18

// Gender is one of the fixed values accepted at registration.
type Gender string

const (
	GenderMale   Gender = "masculino"
	GenderFemale Gender = "femenino"
	GenderOther  Gender = "otro"
)

// Valid reports whether g is one of the enumerated genders.
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	default:
		return false
	}
}

// User represents a registered customer.
type User struct {
	// ID is the unique identifier for the user.
	ID uint `gorm:"column:id_registro;primaryKey"`

	// Username is unique across all users.
	Username string `gorm:"column:username;size:18;uniqueIndex;not null"`

	// Email is stored lower-cased and is unique across all users.
	Email string `gorm:"column:correo;size:50;uniqueIndex;not null"`

	// Password is the bcrypt hash. It never holds plaintext.
	Password string `gorm:"column:password;size:255;not null"`

	Phone  string `gorm:"column:telefono;size:30;not null;default:''"`
	Gender Gender `gorm:"column:genero;size:10;not null"`

	// CreatedAt is the timestamp when the user registered.
	CreatedAt time.Time `gorm:"column:fechaCreacion;autoCreateTime"`
}

func (User) TableName() string {
	return "registros"
}
