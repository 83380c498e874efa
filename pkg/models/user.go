package models

import (
	"time"
	"toolmove/pkg/roles"
)

type User struct {
	ID           string     `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	Fullname     *string    `json:"fullName" db:"fullname"`
	Department   *string    `json:"department" db:"department"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Role         roles.Role `json:"role" db:"role"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == roles.Admin
}

type CreateUserRequest struct {
	Email      string     `json:"email" binding:"required,email"`
	Password   string     `json:"password" binding:"required,min=6"`
	Fullname   *string    `json:"fullName"`
	Department *string    `json:"department"`
	Role       roles.Role `json:"role"`
}

type UpdateUserRequest struct {
	Email      *string     `json:"email"`
	Password   *string     `json:"password"`
	Fullname   *string     `json:"fullName"`
	Department *string     `json:"department"`
	Role       *roles.Role `json:"role"`
}

type UserChanges struct {
	Email        *string
	PasswordHash *string
	Fullname     *string
	Department   *string
	Role         *string
}

func (uc *UserChanges) HasChanges() bool {
	return uc.Email != nil || uc.PasswordHash != nil || uc.Fullname != nil || uc.Department != nil || uc.Role != nil
}
