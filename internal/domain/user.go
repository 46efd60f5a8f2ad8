package domain

import (
	"strings"
	"time"

	"medcare/pkg/validator"
)

type User struct {
	ID           int64      `json:"_id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	Address      string     `json:"address,omitempty"`
	DateOfBirth  *time.Time `json:"dateOfBirth,omitempty"`
	Gender       string     `json:"gender,omitempty"`
	PasswordHash string     `json:"-"`
	Role         UserRole   `json:"role"`
	ProfileImage string     `json:"profileImage,omitempty"`
	IsActive     bool       `json:"isActive"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

type UserRole string

const (
	UserRolePatient UserRole = "patient"
	UserRoleDoctor  UserRole = "doctor"
	UserRoleAdmin   UserRole = "admin"
)

func (r UserRole) IsValid() bool {
	switch r {
	case UserRolePatient, UserRoleDoctor, UserRoleAdmin:
		return true
	}
	return false
}

// CreateUserDTO carries an already hashed password.
type CreateUserDTO struct {
	Name         string
	Email        string
	Phone        string
	Address      string
	DateOfBirth  *time.Time
	Gender       string
	PasswordHash string
	Role         UserRole
}

type UpdateUserDTO struct {
	Name        *string `json:"name" binding:"omitempty,min=2"`
	Phone       *string `json:"phone" binding:"omitempty,numeric,len=10"`
	Address     *string `json:"address"`
	DateOfBirth *string `json:"dateOfBirth" binding:"omitempty,datetime=2006-01-02"`
	Gender      *string `json:"gender" binding:"omitempty,oneof=male female other"`
	IsActive    *bool   `json:"isActive"`
}

type PasswordUpdateDTO struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

// CreateAdminDTO is used by the command line to bootstrap admin accounts.
type CreateAdminDTO struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,numeric,len=10"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

func (d CreateAdminDTO) Normalize() (CreateAdminDTO, error) {
	d.Name = strings.TrimSpace(d.Name)
	d.Email = validator.NormalizeEmail(d.Email)
	d.Phone = validator.FormatPhone(d.Phone)
	return d, validateStruct(d)
}
