package models

import (
	"time"
)

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleTeacher UserRole = "teacher"
	RoleAdmin   UserRole = "admin"
)

func (r UserRole) IsValid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

// HasProfile reports whether identities with this role carry a Student or Teacher profile.
func (r UserRole) HasProfile() bool {
	return r == RoleStudent || r == RoleTeacher
}

// User is an authenticable identity. Role is fixed at creation.
type User struct {
	ID           uint     `json:"id" gorm:"primaryKey"`
	Username     string   `json:"username" gorm:"uniqueIndex;not null;size:64"`
	Email        string   `json:"email" gorm:"uniqueIndex;not null;size:120"`
	PasswordHash string   `json:"-" gorm:"not null;size:256"`
	Role         UserRole `json:"role" gorm:"not null;size:20;default:student"`

	CreatedAt time.Time `json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsStudent() bool { return u.Role == RoleStudent }
func (u *User) IsTeacher() bool { return u.Role == RoleTeacher }
func (u *User) IsAdmin() bool   { return u.Role == RoleAdmin }
