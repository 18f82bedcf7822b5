// models содержит доменные сущности портала.
// Эти типы используются слоями бизнес-логики, хранилища и транспорта.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Role — роль пользователя; закрытый enum.
type Role int8

const (
	RoleUser Role = iota
	RoleAdmin
)

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	default:
		return "user"
	}
}

// ParseRole разбирает строковое представление роли.
func ParseRole(raw string) (Role, bool) {
	switch raw {
	case "user":
		return RoleUser, true
	case "admin":
		return RoleAdmin, true
	default:
		return RoleUser, false
	}
}

// Sex — пол пользователя; закрытый enum.
type Sex int8

const (
	SexUnspecified Sex = iota
	SexMale
	SexFemale
)

func (s Sex) String() string {
	switch s {
	case SexMale:
		return "male"
	case SexFemale:
		return "female"
	default:
		return "unspecified"
	}
}

// ParseSex разбирает строковое представление пола.
func ParseSex(raw string) (Sex, bool) {
	switch raw {
	case "male":
		return SexMale, true
	case "female":
		return SexFemale, true
	case "", "unspecified":
		return SexUnspecified, true
	default:
		return SexUnspecified, false
	}
}

// User — модель пользователя в системе.
// Role неизменяема на время жизни сессии: смена роли требует нового логина.
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	Sex       Sex       `json:"sex"`
	Role      Role      `json:"role"`
	Avatar    string    `json:"avatar"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsAdmin сообщает, обладает ли пользователь административной ролью.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
